// Package tokens manages the Globus tokens of the notebook user.
package tokens

import "time"

// Token is an access token issued for one resource server.
type Token struct {
	ResourceServer string
	Scope          string
	AccessToken    string
	RefreshToken   string
	TokenType      string
	ExpiresAt      time.Time
	UpdatedAt      time.Time
}

// Expired reports whether the access token is expired at now.
// A zero ExpiresAt never expires.
func (t *Token) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && !now.Before(t.ExpiresAt)
}
