package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"GlobusJupyter/internal/core/tokens"
)

type sqliteTokenRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewTokenRepository creates a SQLite backed token store
func NewTokenRepository(db *sql.DB) tokens.Store {
	return &sqliteTokenRepo{db: db, now: time.Now}
}

// Save inserts or replaces the token of a resource server
func (r *sqliteTokenRepo) Save(ctx context.Context, token *tokens.Token) error {
	query := `
		INSERT INTO tokens (resource_server, scope, access_token, refresh_token, token_type, expires_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(resource_server) DO UPDATE SET
			scope = excluded.scope,
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			token_type = excluded.token_type,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at`

	tokenType := token.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	updatedAt := r.now().UTC()
	_, err := r.db.ExecContext(ctx, query,
		token.ResourceServer, token.Scope, token.AccessToken, token.RefreshToken,
		tokenType, toUnix(token.ExpiresAt), updatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	token.UpdatedAt = time.Unix(updatedAt.Unix(), 0).UTC()
	return nil
}

// Get retrieves the token of a resource server
func (r *sqliteTokenRepo) Get(ctx context.Context, resourceServer string) (*tokens.Token, error) {
	query := `SELECT resource_server, scope, access_token, refresh_token, token_type, expires_at, updated_at
		FROM tokens WHERE resource_server = ?`

	tok, err := scanToken(r.db.QueryRowContext(ctx, query, resourceServer))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, tokens.ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get token: %w", err)
	}
	return tok, nil
}

// List returns all tokens ordered by resource server
func (r *sqliteTokenRepo) List(ctx context.Context) ([]*tokens.Token, error) {
	query := `SELECT resource_server, scope, access_token, refresh_token, token_type, expires_at, updated_at
		FROM tokens ORDER BY resource_server`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tokens: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []*tokens.Token
	for rows.Next() {
		tok, err := scanToken(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan token: %w", err)
		}
		result = append(result, tok)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tokens: %w", err)
	}
	return result, nil
}

// DeleteAll removes every stored token
func (r *sqliteTokenRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tokens`); err != nil {
		return fmt.Errorf("failed to delete tokens: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanToken(row rowScanner) (*tokens.Token, error) {
	tok := &tokens.Token{}
	var expiresAt, updatedAt int64
	if err := row.Scan(&tok.ResourceServer, &tok.Scope, &tok.AccessToken, &tok.RefreshToken,
		&tok.TokenType, &expiresAt, &updatedAt); err != nil {
		return nil, err
	}
	tok.ExpiresAt = fromUnix(expiresAt)
	tok.UpdatedAt = fromUnix(updatedAt)
	return tok, nil
}

func toUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func fromUnix(v int64) time.Time {
	if v == 0 {
		return time.Time{}
	}
	return time.Unix(v, 0).UTC()
}
