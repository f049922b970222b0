package tokens

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Manager reads tokens from a Store, refreshing expired ones when a refresh token
// is available.
type Manager struct {
	store     Store
	refresher Refresher
	logger    *slog.Logger
	now       func() time.Time
}

// NewManager creates a token manager. refresher may be nil when refresh tokens are disabled.
func NewManager(store Store, refresher Refresher, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:     store,
		refresher: refresher,
		logger:    logger,
		now:       time.Now,
	}
}

// StoreTokens saves every token of a login, replacing older tokens per resource server.
func (m *Manager) StoreTokens(ctx context.Context, toks []*Token) error {
	for _, tok := range toks {
		if tok.ResourceServer == "" {
			return fmt.Errorf("token has no resource server")
		}
		if err := m.store.Save(ctx, tok); err != nil {
			return fmt.Errorf("failed to store token for %s: %w", tok.ResourceServer, err)
		}
	}
	return nil
}

// IsLoggedIn reports whether usable tokens are stored. Expired tokens that
// cannot be refreshed log the user out.
func (m *Manager) IsLoggedIn(ctx context.Context) bool {
	toks, err := m.store.List(ctx)
	if err != nil {
		m.logger.Error("failed to list tokens", "error", err)
		return false
	}
	if len(toks) == 0 {
		return false
	}

	now := m.now()
	for _, tok := range toks {
		if tok.Expired(now) && (tok.RefreshToken == "" || m.refresher == nil) {
			m.logger.Info("stored tokens expired, logging out", "resource_server", tok.ResourceServer)
			if err := m.store.DeleteAll(ctx); err != nil {
				m.logger.Error("failed to clear tokens", "error", err)
			}
			return false
		}
	}
	return true
}

// AccessToken returns a valid access token for resourceServer.
func (m *Manager) AccessToken(ctx context.Context, resourceServer string) (string, error) {
	tok, err := m.store.Get(ctx, resourceServer)
	if errors.Is(err, ErrTokenNotFound) {
		return "", fmt.Errorf("%w: no token for %s", ErrNotLoggedIn, resourceServer)
	}
	if err != nil {
		return "", fmt.Errorf("failed to load token for %s: %w", resourceServer, err)
	}

	tok, err = m.ensureValid(ctx, tok)
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

// TokenForScope returns a valid access token whose granted scope equals scope.
func (m *Manager) TokenForScope(ctx context.Context, scope string) (string, error) {
	toks, err := m.store.List(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list tokens: %w", err)
	}
	for _, tok := range toks {
		if tok.Scope != scope {
			continue
		}
		tok, err = m.ensureValid(ctx, tok)
		if err != nil {
			return "", err
		}
		return tok.AccessToken, nil
	}
	return "", fmt.Errorf("%w: no token for scope %s", ErrTokenNotFound, scope)
}

func (m *Manager) ensureValid(ctx context.Context, tok *Token) (*Token, error) {
	if !tok.Expired(m.now()) {
		return tok, nil
	}
	if tok.RefreshToken == "" || m.refresher == nil {
		return nil, fmt.Errorf("%w: token for %s expired", ErrNotLoggedIn, tok.ResourceServer)
	}

	refreshed, err := m.refresher.Refresh(ctx, tok)
	if err != nil {
		m.logger.Warn("token refresh failed, clearing stored tokens",
			"resource_server", tok.ResourceServer, "error", err)
		if clearErr := m.store.DeleteAll(ctx); clearErr != nil {
			m.logger.Error("failed to clear tokens", "error", clearErr)
		}
		return nil, fmt.Errorf("%w: %w", ErrRefreshFailed, ErrNotLoggedIn)
	}

	if refreshed.RefreshToken == "" {
		refreshed.RefreshToken = tok.RefreshToken
	}
	if err := m.store.Save(ctx, refreshed); err != nil {
		return nil, fmt.Errorf("failed to store refreshed token: %w", err)
	}
	m.logger.Debug("refreshed token", "resource_server", refreshed.ResourceServer)
	return refreshed, nil
}

// Logout revokes every stored access and refresh token and clears the store.
// It returns true when any token was revoked.
func (m *Manager) Logout(ctx context.Context, revoker Revoker) (bool, error) {
	toks, err := m.store.List(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to list tokens: %w", err)
	}

	revoked := false
	for _, tok := range toks {
		m.logger.Debug("revoking tokens", "resource_server", tok.ResourceServer)
		for _, value := range []string{tok.AccessToken, tok.RefreshToken} {
			if value == "" {
				continue
			}
			if err := revoker.Revoke(ctx, value); err != nil {
				m.logger.Warn("failed to revoke token", "resource_server", tok.ResourceServer, "error", err)
				continue
			}
			revoked = true
		}
	}

	if err := m.store.DeleteAll(ctx); err != nil {
		return revoked, fmt.Errorf("failed to clear tokens: %w", err)
	}
	return revoked, nil
}
