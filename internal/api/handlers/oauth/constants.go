package oauth

import "time"

const (
	// Login state cookie configuration
	sessionName        = "globus_jupyterlab_login"
	sessionState       = "state"
	sessionVerifier    = "verifier"
	sessionReturnTo    = "return_to"
	LoginSessionMaxAge = 10 * 60 // 10 minutes in seconds

	// Minimum security requirements
	MinCookieSecretLength = 32 // bytes
)

// LoginTimeout bounds the code exchange and id_token verification of a callback.
var LoginTimeout = 30 * time.Second
