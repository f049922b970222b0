package auth

import "errors"

var (
	// ErrMissingResourceServer is returned when a token response does not name its resource server.
	ErrMissingResourceServer = errors.New("token response has no resource_server")

	// ErrInvalidIDToken is returned when the id_token of a login fails verification.
	ErrInvalidIDToken = errors.New("invalid id_token")
)
