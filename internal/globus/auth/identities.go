package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"GlobusJupyter/internal/core/login"
)

// ResourceServer is the resource server of Globus Auth access tokens.
const ResourceServer = "auth.globus.org"

const identityCacheSize = 64

// TokenSource supplies valid access tokens per resource server.
type TokenSource interface {
	AccessToken(ctx context.Context, resourceServer string) (string, error)
}

// IdentitySource resolves the identity set of the logged in user through
// userinfo, caching results per access token.
type IdentitySource struct {
	client *Client
	tokens TokenSource
	cache  *expirable.LRU[string, []login.Identity]
}

// NewIdentitySource creates an identity source. A ttl of zero disables caching.
func NewIdentitySource(client *Client, tokens TokenSource, ttl time.Duration) *IdentitySource {
	s := &IdentitySource{client: client, tokens: tokens}
	if ttl > 0 {
		s.cache = expirable.NewLRU[string, []login.Identity](identityCacheSize, nil, ttl)
	}
	return s
}

// IdentitySet returns every identity linked to the logged in user, in the
// order Globus Auth lists them.
func (s *IdentitySource) IdentitySet(ctx context.Context) ([]login.Identity, error) {
	token, err := s.tokens.AccessToken(ctx, ResourceServer)
	if err != nil {
		return nil, fmt.Errorf("no auth token: %w", err)
	}

	if s.cache != nil {
		if set, ok := s.cache.Get(token); ok {
			return set, nil
		}
	}

	info, err := s.client.UserInfo(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("userinfo: %w", err)
	}

	if s.cache != nil {
		s.cache.Add(token, info.IdentitySet)
	}
	return info.IdentitySet, nil
}
