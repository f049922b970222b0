package tokens

import "context"

// Store persists tokens keyed by resource server.
type Store interface {
	Save(ctx context.Context, token *Token) error
	Get(ctx context.Context, resourceServer string) (*Token, error)
	List(ctx context.Context) ([]*Token, error)
	DeleteAll(ctx context.Context) error
}

// Refresher exchanges a refresh token for a new token.
type Refresher interface {
	Refresh(ctx context.Context, token *Token) (*Token, error)
}

// Revoker revokes a single access or refresh token with Globus Auth.
type Revoker interface {
	Revoke(ctx context.Context, token string) error
}
