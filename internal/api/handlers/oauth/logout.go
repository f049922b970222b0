package oauth

import (
	"context"
	"log/slog"
	"net/http"

	"GlobusJupyter/internal/api/handlers"
	"GlobusJupyter/internal/core/tokens"
)

// TokenRevoker revokes and clears every stored token.
type TokenRevoker interface {
	Logout(ctx context.Context, revoker tokens.Revoker) (bool, error)
}

// AuthResponse reports the outcome of an auth action.
type AuthResponse struct {
	Result     string `json:"result"`
	StatusCode int    `json:"status_code"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

// LogoutHandler handles user logout
type LogoutHandler struct {
	tokens  TokenRevoker
	revoker tokens.Revoker
	logger  *slog.Logger
}

// NewLogoutHandler creates a new logout handler
func NewLogoutHandler(toks TokenRevoker, revoker tokens.Revoker, logger *slog.Logger) *LogoutHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogoutHandler{tokens: toks, revoker: revoker, logger: logger}
}

// HandleLogout revokes all local Globus tokens
// GET /logout
func (h *LogoutHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	revoked, err := h.tokens.Logout(r.Context(), h.revoker)
	if err != nil {
		h.logger.Error("logout failed", "error", err)
		handlers.WriteJSON(w, http.StatusInternalServerError, AuthResponse{
			Result:     "failure",
			StatusCode: http.StatusInternalServerError,
			Code:       "LogoutFailed",
			Message:    "Failed to clear stored tokens",
		})
		return
	}

	message := "The action completed successfully"
	if !revoked {
		message = "No tokens were stored"
	}
	handlers.WriteJSON(w, http.StatusOK, AuthResponse{
		Result:     "success",
		StatusCode: http.StatusOK,
		Code:       "Success",
		Message:    message,
	})
}
