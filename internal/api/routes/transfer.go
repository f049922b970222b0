package routes

import (
	"github.com/go-chi/chi/v5"

	"GlobusJupyter/internal/api/handlers/transfer"
)

// RegisterTransferRoutes registers the Transfer proxy endpoints on the router
func RegisterTransferRoutes(r chi.Router, handler *transfer.Handler) {
	// Collection-scoped reads
	r.Get("/operation_ls", handler.HandleOperationLS)
	r.Get("/endpoint_detail", handler.HandleEndpointDetail)

	r.Get("/endpoint_search", handler.HandleEndpointSearch)
	r.Post("/submit_transfer", handler.HandleSubmitTransfer)
}
