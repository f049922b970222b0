package oauth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"

	"GlobusJupyter/internal/globus/auth"
)

// Flow is the Globus Auth authorization code flow.
type Flow interface {
	AuthCodeURL(state, verifier string, params auth.LoginParams) string
	Exchange(ctx context.Context, code, verifier string) (*auth.LoginResult, error)
}

// DefaultScopes supplies the scopes of a plain login.
type DefaultScopes interface {
	Default() ([]string, error)
}

// LoginHandler handles OAuth login flow initiation
type LoginHandler struct {
	flow          Flow
	store         sessions.Store
	defaultScopes DefaultScopes
	defaultReturn string
	logger        *slog.Logger
}

// NewLoginHandler creates a new login handler
func NewLoginHandler(flow Flow, store sessions.Store, defaultScopes DefaultScopes, defaultReturn string, logger *slog.Logger) *LoginHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoginHandler{
		flow:          flow,
		store:         store,
		defaultScopes: defaultScopes,
		defaultReturn: defaultReturn,
		logger:        logger,
	}
}

// HandleLogin redirects the browser to Globus Auth
// GET /login?requested_scopes=...&prompt=login&session_required_identities=...&session_message=...&next=/lab
func (h *LoginHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	requested := query.Get("requested_scopes")
	if requested == "" {
		scopes, err := h.defaultScopes.Default()
		if err != nil {
			h.logger.Error("failed to derive default scopes", "error", err)
			http.Error(w, "Failed to build login request", http.StatusInternalServerError)
			return
		}
		requested = strings.Join(scopes, " ")
	}

	state, err := randomState()
	if err != nil {
		h.logger.Error("failed to generate oauth state", "error", err)
		http.Error(w, "Failed to start login", http.StatusInternalServerError)
		return
	}
	verifier := auth.GenerateVerifier()

	session, err := h.store.New(r, sessionName)
	if err != nil {
		h.logger.Debug("replacing unreadable login session", "error", err)
	}
	session.Values[sessionState] = state
	session.Values[sessionVerifier] = verifier
	session.Values[sessionReturnTo] = safeReturnPath(query.Get("next"), h.defaultReturn)
	if err := session.Save(r, w); err != nil {
		h.logger.Error("failed to save login session", "error", err)
		http.Error(w, "Failed to save authorization state", http.StatusInternalServerError)
		return
	}

	authURL := h.flow.AuthCodeURL(state, verifier, auth.LoginParams{
		RequestedScopes:           requested,
		Prompt:                    query.Get("prompt"),
		SessionRequiredIdentities: query.Get("session_required_identities"),
		SessionMessage:            query.Get("session_message"),
	})
	h.logger.Debug("redirecting to globus auth", "requested_scopes", requested)
	http.Redirect(w, r, authURL, http.StatusFound)
}

// safeReturnPath only allows local absolute paths.
func safeReturnPath(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return fallback
	}
	return next
}
