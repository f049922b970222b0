// Package config serves the frontend view of the server configuration.
package config

import (
	"context"
	"log/slog"
	"net/http"

	"GlobusJupyter/internal/api/handlers"
	"GlobusJupyter/internal/api/handlers/transfer"
	"GlobusJupyter/internal/core/login"
)

// LoginState reports whether the user has usable tokens.
type LoginState interface {
	IsLoggedIn(ctx context.Context) bool
}

// LoginURLs builds the plain login URL.
type LoginURLs interface {
	DefaultLoginURL(loginPath string, origin login.Origin) (string, error)
}

// Settings is the static part of the config response.
type Settings struct {
	CollectionID            string
	CollectionBasePath      string
	IsHub                   bool
	TransferSubmissionURL   string
	TransferSubmissionScope string
	LoginPath               string
	// TrustForwardedHeaders builds login URLs from X-Forwarded-* headers.
	TrustForwardedHeaders   bool
}

// Response is the body of GET /config.
type Response struct {
	CollectionID            *string `json:"collection_id"`
	CollectionBasePath      string  `json:"collection_base_path"`
	IsLoggedIn              bool    `json:"is_logged_in"`
	IsHub                   bool    `json:"is_hub"`
	TransferSubmissionURL   *string `json:"transfer_submission_url"`
	TransferSubmissionScope *string `json:"transfer_submission_scope"`
	LoginURL                string  `json:"login_url"`
}

// Handler serves GET /config
type Handler struct {
	settings Settings
	state    LoginState
	urls     LoginURLs
	logger   *slog.Logger
}

// NewHandler creates a config handler
func NewHandler(settings Settings, state LoginState, urls LoginURLs, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{settings: settings, state: state, urls: urls, logger: logger}
}

// HandleConfig describes how the backend is configured
// GET /config
func (h *Handler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	loginURL, err := h.urls.DefaultLoginURL(h.settings.LoginPath, transfer.RequestOrigin(r, h.settings.TrustForwardedHeaders))
	if err != nil {
		h.logger.Error("failed to build login url", "error", err)
		handlers.WriteError(w, http.StatusInternalServerError, "LoginDirectiveError", err.Error())
		return
	}

	handlers.WriteJSON(w, http.StatusOK, Response{
		CollectionID:            optional(h.settings.CollectionID),
		CollectionBasePath:      h.settings.CollectionBasePath,
		IsLoggedIn:              h.state.IsLoggedIn(r.Context()),
		IsHub:                   h.settings.IsHub,
		TransferSubmissionURL:   optional(h.settings.TransferSubmissionURL),
		TransferSubmissionScope: optional(h.settings.TransferSubmissionScope),
		LoginURL:                loginURL,
	})
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
