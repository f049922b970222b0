package auth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"GlobusJupyter/internal/core/login"
	"GlobusJupyter/internal/globus"
)

// Client calls Globus Auth endpoints that do not belong to the OAuth2 flow.
type Client struct {
	baseURL    string
	clientID   string
	httpClient *http.Client
}

// NewClient creates a Globus Auth client. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL, clientID string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		clientID: clientID,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// UserInfo is the OIDC userinfo document of Globus Auth.
type UserInfo struct {
	Sub               string           `json:"sub"`
	PreferredUsername string           `json:"preferred_username"`
	Name              string           `json:"name"`
	Email             string           `json:"email"`
	IdentitySet       []login.Identity `json:"identity_set"`
}

// UserInfo fetches the userinfo of the user owning accessToken.
func (c *Client) UserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	var info UserInfo
	if err := globus.Do(ctx, c.httpClient, http.MethodGet, c.baseURL+"/v2/oauth2/userinfo", accessToken, nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Revoke revokes an access or refresh token.
func (c *Client) Revoke(ctx context.Context, token string) error {
	form := url.Values{}
	form.Set("token", token)
	form.Set("client_id", c.clientID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/oauth2/token/revoke",
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create revoke request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", globus.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("revoke request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return globus.ParseAPIError(resp.StatusCode, body)
	}
	return nil
}

// JWKSURL is where Globus Auth publishes its signing keys.
func (c *Client) JWKSURL() string {
	return c.baseURL + "/jwk.json"
}

// Issuer is the iss claim of Globus Auth id_tokens.
func (c *Client) Issuer() string {
	return c.baseURL
}
