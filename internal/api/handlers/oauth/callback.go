package oauth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"

	"GlobusJupyter/internal/core/tokens"
)

// TokenSaver stores the tokens of a completed login.
type TokenSaver interface {
	StoreTokens(ctx context.Context, toks []*tokens.Token) error
}

// IDTokenVerifier validates id_tokens returned with a login.
type IDTokenVerifier interface {
	Verify(ctx context.Context, raw string) (string, error)
}

// CallbackHandler handles OAuth callback
type CallbackHandler struct {
	flow     Flow
	store    sessions.Store
	tokens   TokenSaver
	verifier IDTokenVerifier
	logger   *slog.Logger
}

// NewCallbackHandler creates a new callback handler. verifier may be nil.
func NewCallbackHandler(flow Flow, store sessions.Store, toks TokenSaver, verifier IDTokenVerifier, logger *slog.Logger) *CallbackHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CallbackHandler{
		flow:     flow,
		store:    store,
		tokens:   toks,
		verifier: verifier,
		logger:   logger,
	}
}

// HandleCallback processes the OAuth callback
// GET /oauth_callback?code=...&state=...
func (h *CallbackHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")

	// Check for authorization errors
	if errorParam := r.URL.Query().Get("error"); errorParam != "" {
		h.logger.Warn("oauth error", "error", errorParam, "description", r.URL.Query().Get("error_description"))
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	if code == "" || state == "" {
		http.Error(w, "Missing required OAuth parameters", http.StatusBadRequest)
		return
	}

	session, err := h.store.Get(r, sessionName)
	if err != nil || session.IsNew {
		http.Error(w, "Invalid or expired authorization request", http.StatusBadRequest)
		return
	}
	expectedState, _ := session.Values[sessionState].(string)
	verifier, _ := session.Values[sessionVerifier].(string)
	returnTo, _ := session.Values[sessionReturnTo].(string)

	// One use per login attempt
	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		h.logger.Warn("failed to clear login session", "error", err)
	}

	if expectedState == "" || state != expectedState {
		h.logger.Warn("oauth state mismatch")
		http.Error(w, "Invalid or expired authorization request", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), LoginTimeout)
	defer cancel()

	result, err := h.flow.Exchange(ctx, code, verifier)
	if err != nil {
		h.logger.Error("failed to exchange code for tokens", "error", err)
		http.Error(w, "Failed to obtain access tokens", http.StatusInternalServerError)
		return
	}

	if h.verifier != nil && result.IDToken != "" {
		sub, err := h.verifier.Verify(ctx, result.IDToken)
		if err != nil {
			h.logger.Error("id_token verification failed", "error", err)
			http.Error(w, "Identity verification failed", http.StatusBadRequest)
			return
		}
		h.logger.Info("user logged in", "sub", sub)
	}

	if err := h.tokens.StoreTokens(ctx, result.Tokens); err != nil {
		h.logger.Error("failed to store tokens", "error", err)
		http.Error(w, "Failed to save tokens", http.StatusInternalServerError)
		return
	}

	if returnTo == "" {
		returnTo = "/"
	}
	http.Redirect(w, r, returnTo, http.StatusFound)
}
