// Package auth talks to Globus Auth: the native-app OAuth2 flow, token
// revocation, userinfo and id_token verification.
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"GlobusJupyter/internal/core/tokens"
)

// DefaultBaseURL is the production Globus Auth service.
const DefaultBaseURL = "https://auth.globus.org"

// LoginParams are the authorize parameters of one login attempt.
type LoginParams struct {
	RequestedScopes           string
	Prompt                    string
	SessionRequiredIdentities string
	SessionMessage            string
}

// Flow runs the authorization code flow with PKCE for a native-app client.
type Flow struct {
	config        oauth2.Config
	refreshTokens bool
}

// NewFlow creates a flow for clientID. An empty baseURL uses DefaultBaseURL.
func NewFlow(clientID, redirectURL, baseURL string, refreshTokens bool) *Flow {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	return &Flow{
		config: oauth2.Config{
			ClientID:    clientID,
			RedirectURL: redirectURL,
			Endpoint: oauth2.Endpoint{
				AuthURL:   baseURL + "/v2/oauth2/authorize",
				TokenURL:  baseURL + "/v2/oauth2/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		refreshTokens: refreshTokens,
	}
}

// GenerateVerifier returns a new PKCE code verifier.
func GenerateVerifier() string {
	return oauth2.GenerateVerifier()
}

// AuthCodeURL builds the Globus authorize URL for a login attempt.
func (f *Flow) AuthCodeURL(state, verifier string, params LoginParams) string {
	cfg := f.config
	cfg.Scopes = []string{params.RequestedScopes}

	opts := []oauth2.AuthCodeOption{oauth2.S256ChallengeOption(verifier)}
	if f.refreshTokens {
		opts = append(opts, oauth2.AccessTypeOffline)
	}
	if params.Prompt != "" {
		opts = append(opts, oauth2.SetAuthURLParam("prompt", params.Prompt))
	}
	if params.SessionRequiredIdentities != "" {
		opts = append(opts, oauth2.SetAuthURLParam("session_required_identities", params.SessionRequiredIdentities))
	}
	if params.SessionMessage != "" {
		opts = append(opts, oauth2.SetAuthURLParam("session_message", params.SessionMessage))
	}
	return cfg.AuthCodeURL(state, opts...)
}

// LoginResult is everything a completed login returned.
type LoginResult struct {
	Tokens  []*tokens.Token
	IDToken string
}

// Exchange trades an authorization code for the tokens of every resource
// server the user consented to.
func (f *Flow) Exchange(ctx context.Context, code, verifier string) (*LoginResult, error) {
	tok, err := f.config.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("code exchange failed: %w", err)
	}

	primary, err := fromOAuth2(tok, "")
	if err != nil {
		return nil, err
	}
	result := &LoginResult{Tokens: []*tokens.Token{primary}}
	if idToken, ok := tok.Extra("id_token").(string); ok {
		result.IDToken = idToken
	}

	others, _ := tok.Extra("other_tokens").([]any)
	for _, raw := range others {
		fields, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		other, err := fromFields(fields)
		if err != nil {
			return nil, err
		}
		result.Tokens = append(result.Tokens, other)
	}
	return result, nil
}

// Refresh exchanges the refresh token of tok for a new access token.
func (f *Flow) Refresh(ctx context.Context, tok *tokens.Token) (*tokens.Token, error) {
	source := f.config.TokenSource(ctx, &oauth2.Token{
		RefreshToken: tok.RefreshToken,
		Expiry:       time.Unix(1, 0),
	})
	refreshed, err := source.Token()
	if err != nil {
		return nil, fmt.Errorf("refresh for %s failed: %w", tok.ResourceServer, err)
	}

	result, err := fromOAuth2(refreshed, tok.ResourceServer)
	if err != nil {
		return nil, err
	}
	if result.Scope == "" {
		result.Scope = tok.Scope
	}
	return result, nil
}

func fromOAuth2(tok *oauth2.Token, fallbackResourceServer string) (*tokens.Token, error) {
	resourceServer, _ := tok.Extra("resource_server").(string)
	if resourceServer == "" {
		resourceServer = fallbackResourceServer
	}
	if resourceServer == "" {
		return nil, ErrMissingResourceServer
	}
	scope, _ := tok.Extra("scope").(string)
	return &tokens.Token{
		ResourceServer: resourceServer,
		Scope:          scope,
		AccessToken:    tok.AccessToken,
		RefreshToken:   tok.RefreshToken,
		TokenType:      tok.TokenType,
		ExpiresAt:      tok.Expiry,
	}, nil
}

// fromFields reads one entry of the Globus other_tokens array.
func fromFields(fields map[string]any) (*tokens.Token, error) {
	str := func(key string) string {
		v, _ := fields[key].(string)
		return v
	}
	tok := &tokens.Token{
		ResourceServer: str("resource_server"),
		Scope:          str("scope"),
		AccessToken:    str("access_token"),
		RefreshToken:   str("refresh_token"),
		TokenType:      str("token_type"),
	}
	if tok.ResourceServer == "" {
		return nil, ErrMissingResourceServer
	}
	if expiresIn, ok := fields["expires_in"].(float64); ok && expiresIn > 0 {
		tok.ExpiresAt = time.Now().Add(time.Duration(expiresIn) * time.Second)
	}
	return tok, nil
}
