// Package transfer serves the Transfer API proxy used by the JupyterLab frontend.
package transfer

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"GlobusJupyter/internal/api/handlers"
	"GlobusJupyter/internal/core/login"
	"GlobusJupyter/internal/core/tokens"
	"GlobusJupyter/internal/core/transfers"
	"GlobusJupyter/internal/globus"
)

// NotLoggedInCode is the error code answered when no tokens are stored.
const NotLoggedInCode = "NotLoggedIn"

// Explainer turns Globus API errors into login outcomes.
type Explainer interface {
	Explain(ctx context.Context, apiErr *globus.APIError, req login.Request) (*login.Outcome, error)
}

// Responder shapes failed Transfer calls into error bodies carrying login information.
type Responder struct {
	explainer      Explainer
	loginPath      string
	trustForwarded bool
	logger         *slog.Logger
}

// NewResponder creates a responder that points login URLs at loginPath.
// trustForwarded honors X-Forwarded-* headers and must only be set behind a trusted proxy.
func NewResponder(explainer Explainer, loginPath string, trustForwarded bool, logger *slog.Logger) *Responder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Responder{explainer: explainer, loginPath: loginPath, trustForwarded: trustForwarded, logger: logger}
}

// Target describes the operation whose failure is being answered.
type Target struct {
	CollectionScoped bool
	CollectionID     string
}

// Fail writes the error response for err.
func (p *Responder) Fail(w http.ResponseWriter, r *http.Request, target Target, err error) {
	switch {
	case errors.Is(err, tokens.ErrNotLoggedIn):
		p.explain(w, r, target, &globus.APIError{
			HTTPStatus: http.StatusUnauthorized,
			Code:       NotLoggedInCode,
			Message:    "The user is not logged in",
		})
	case errors.Is(err, transfers.ErrInvalidInput):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidInput", err.Error())
	case errors.Is(err, transfers.ErrOutsideSharePath):
		handlers.WriteError(w, http.StatusBadRequest, "OutsideSharePath", err.Error())
	case errors.Is(err, transfers.ErrNoHostCollection):
		p.logger.Error("path translation has no host collection", "error", err)
		handlers.WriteError(w, http.StatusInternalServerError, "NoHostCollection", err.Error())
	default:
		if apiErr, ok := globus.AsAPIError(err); ok {
			p.explain(w, r, target, apiErr)
			return
		}
		p.logger.Error("transfer request failed", "path", r.URL.Path, "error", err)
		handlers.WriteError(w, http.StatusInternalServerError, "InternalServerError", "An internal error occurred")
	}
}

func (p *Responder) explain(w http.ResponseWriter, r *http.Request, target Target, apiErr *globus.APIError) {
	outcome, err := p.explainer.Explain(r.Context(), apiErr, login.Request{
		CollectionScoped: target.CollectionScoped,
		CollectionID:     target.CollectionID,
		LoginPath:        p.loginPath,
		Origin:           RequestOrigin(r, p.trustForwarded),
	})
	if err != nil {
		p.logger.Error("failed to generate login url", "code", apiErr.Code, "error", err)
		handlers.WriteError(w, http.StatusInternalServerError, "LoginDirectiveError", err.Error())
		return
	}

	body := handlers.ErrorResponse{
		Error:   apiErr.Code,
		Details: apiErr.Message,
	}
	status := apiErr.HTTPStatus
	if d := outcome.Directive; d != nil {
		body.LoginRequired = d.LoginRequired
		body.RequiresUserIntervention = d.RequiresUserIntervention
		body.LoginURL = outcome.LoginURL
		if d.LoginRequired || d.RequiresUserIntervention {
			status = http.StatusUnauthorized
		}
	}
	p.logger.Debug("globus api error",
		"code", apiErr.Code,
		"status", apiErr.HTTPStatus,
		"login_required", body.LoginRequired,
		"requires_user_intervention", body.RequiresUserIntervention)
	handlers.WriteJSON(w, status, body)
}

// RequestOrigin returns the scheme and host the browser used. X-Forwarded-Proto
// and X-Forwarded-Host are only read when trustForwarded is set.
func RequestOrigin(r *http.Request, trustForwarded bool) login.Origin {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	host := r.Host
	if !trustForwarded {
		return login.Origin{Scheme: scheme, Host: host}
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}
	if fwd := r.Header.Get("X-Forwarded-Host"); fwd != "" {
		host = strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	return login.Origin{Scheme: scheme, Host: host}
}
