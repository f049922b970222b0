package transfer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"GlobusJupyter/internal/api/handlers"
	"GlobusJupyter/internal/core/transfers"
)

// API is the part of the Transfer API the frontend reads through this server.
type API interface {
	OperationLS(ctx context.Context, endpointID, path string) (json.RawMessage, error)
	EndpointSearch(ctx context.Context, filters url.Values) (json.RawMessage, error)
	GetEndpoint(ctx context.Context, endpointID string) (json.RawMessage, error)
}

// Submitter submits validated transfer requests.
type Submitter interface {
	Submit(ctx context.Context, req *transfers.Request) (json.RawMessage, error)
}

// maxSubmitBytes caps the body of a submit_transfer request.
const maxSubmitBytes = 1 << 20

// endpointSearchFilters are the query parameters forwarded to endpoint_search.
var endpointSearchFilters = []string{
	"filter_fulltext",
	"filter_scope",
	"filter_owner_id",
	"filter_host_endpoint",
	"filter_non_functional",
	"limit",
	"offset",
}

// Handler serves the Transfer proxy endpoints.
type Handler struct {
	api       API
	submitter Submitter
	responder *Responder
}

// NewHandler creates the Transfer proxy handler.
func NewHandler(api API, submitter Submitter, responder *Responder) *Handler {
	return &Handler{api: api, submitter: submitter, responder: responder}
}

// HandleOperationLS lists a directory on a collection
// GET /operation_ls?endpoint=<id>&path=<path>
func (h *Handler) HandleOperationLS(w http.ResponseWriter, r *http.Request) {
	endpoint := r.URL.Query().Get("endpoint")
	if endpoint == "" {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidInput", "Minimum args not specified: endpoint")
		return
	}

	data, err := h.api.OperationLS(r.Context(), endpoint, r.URL.Query().Get("path"))
	if err != nil {
		h.responder.Fail(w, r, Target{CollectionScoped: true, CollectionID: endpoint}, err)
		return
	}
	handlers.WriteRawJSON(w, data)
}

// HandleEndpointDetail fetches one collection document
// GET /endpoint_detail?endpoint=<id>
func (h *Handler) HandleEndpointDetail(w http.ResponseWriter, r *http.Request) {
	endpoint := r.URL.Query().Get("endpoint")
	if endpoint == "" {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidInput", "Minimum args not specified: endpoint")
		return
	}

	data, err := h.api.GetEndpoint(r.Context(), endpoint)
	if err != nil {
		h.responder.Fail(w, r, Target{CollectionScoped: true, CollectionID: endpoint}, err)
		return
	}
	handlers.WriteRawJSON(w, data)
}

// HandleEndpointSearch searches collections
// GET /endpoint_search?filter_fulltext=...
func (h *Handler) HandleEndpointSearch(w http.ResponseWriter, r *http.Request) {
	filters := url.Values{}
	for _, key := range endpointSearchFilters {
		if value := r.URL.Query().Get(key); value != "" {
			filters.Set(key, value)
		}
	}

	data, err := h.api.EndpointSearch(r.Context(), filters)
	if err != nil {
		h.responder.Fail(w, r, Target{}, err)
		return
	}
	handlers.WriteRawJSON(w, data)
}

// HandleSubmitTransfer submits a transfer task
// POST /submit_transfer
//
// Request body: {"source_endpoint", "destination_endpoint", "label", "DATA": [...]}
func (h *Handler) HandleSubmitTransfer(w http.ResponseWriter, r *http.Request) {
	var req transfers.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSubmitBytes)).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handlers.WriteError(w, http.StatusRequestEntityTooLarge, "RequestTooLarge", "Request body too large")
			return
		}
		handlers.WriteError(w, http.StatusBadRequest, "InvalidInput", "Invalid request body")
		return
	}

	data, err := h.submitter.Submit(r.Context(), &req)
	if err != nil {
		h.responder.Fail(w, r, Target{}, err)
		return
	}
	handlers.WriteRawJSON(w, data)
}
