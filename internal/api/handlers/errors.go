package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorResponse is the JSON body of every failed API request.
// LoginURL is present only when the failure can be fixed by a login or user action.
type ErrorResponse struct {
	Error                    string `json:"error"`
	Details                  string `json:"details"`
	LoginRequired            bool   `json:"login_required"`
	RequiresUserIntervention bool   `json:"requires_user_intervention"`
	LoginURL                 string `json:"login_url,omitempty"`
}

// WriteError writes an error body without login information
func WriteError(w http.ResponseWriter, statusCode int, errorType, details string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error:   errorType,
		Details: details,
	})
}

// WriteJSON encodes v as the response body
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// WriteRawJSON writes an already encoded JSON document with status 200
func WriteRawJSON(w http.ResponseWriter, data json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
