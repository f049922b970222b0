package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"GlobusJupyter/internal/api/handlers/oauth"
	"GlobusJupyter/internal/api/middleware"
)

// OAuthHandlers groups the handlers of the Globus login flow.
type OAuthHandlers struct {
	Login    *oauth.LoginHandler
	Callback *oauth.CallbackHandler
	Logout   *oauth.LogoutHandler
}

// RegisterOAuthRoutes registers the login flow endpoints with dedicated rate limiting.
// The returned limiters must be stopped on shutdown.
func RegisterOAuthRoutes(r chi.Router, h OAuthHandlers, allowedOrigins []string) []*middleware.RateLimiter {
	// Login endpoints: 10 req/min per IP
	loginLimiter := middleware.NewRateLimiter(10, 1*time.Minute)

	// Logout endpoint: 10 req/min per IP
	logoutLimiter := middleware.NewRateLimiter(10, 1*time.Minute)

	r.With(loginLimiter.Middleware).Get("/login", h.Login.HandleLogin)

	// Globus Auth redirects the browser back here
	r.With(corsMiddleware(allowedOrigins), loginLimiter.Middleware).Get("/oauth_callback", h.Callback.HandleCallback)

	r.With(logoutLimiter.Middleware).Get("/logout", h.Logout.HandleLogout)

	return []*middleware.RateLimiter{loginLimiter, logoutLimiter}
}

// corsMiddleware creates a CORS middleware for the OAuth callback with specific allowed origins
func corsMiddleware(allowedOrigins []string) func(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
		},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
