package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"GlobusJupyter/internal/api/handlers/config"
)

// RegisterConfigRoutes registers the frontend config endpoint and the metrics endpoint.
func RegisterConfigRoutes(r chi.Router, handler *config.Handler, metrics http.Handler) {
	r.Get("/config", handler.HandleConfig)
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}
}
