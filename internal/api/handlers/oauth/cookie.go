package oauth

import (
	"crypto/rand"
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
)

// NewCookieStore creates the store for login state cookies.
// An empty secret generates a random one, so pending logins do not survive a restart.
func NewCookieStore(secret string, secure bool) (*sessions.CookieStore, error) {
	key := []byte(secret)
	if secret == "" {
		key = make([]byte, MinCookieSecretLength)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate cookie secret: %w", err)
		}
	}
	if len(key) < MinCookieSecretLength {
		return nil, fmt.Errorf("cookie secret must be at least %d bytes for security", MinCookieSecretLength)
	}

	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   LoginSessionMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store, nil
}

func randomState() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", buf), nil
}
