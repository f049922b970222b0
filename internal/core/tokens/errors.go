package tokens

import "errors"

var (
	// ErrTokenNotFound is returned when no token is stored for a resource server or scope.
	ErrTokenNotFound = errors.New("token not found")

	// ErrNotLoggedIn is returned when the user has no usable tokens.
	ErrNotLoggedIn = errors.New("the user is not logged in")

	// ErrRefreshFailed is returned when an expired token could not be refreshed.
	// Stored tokens are cleared when this happens.
	ErrRefreshFailed = errors.New("token refresh failed")
)
