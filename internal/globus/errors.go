// Package globus holds types shared by the outbound Globus service clients.
package globus

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// DefaultErrorCode is used when a Globus service returns an error body without a code.
const DefaultErrorCode = "Error"

// APIError is a failed call to a Globus service.
// Message may embed a GridFTP sub-protocol response for collection errors.
type APIError struct {
	HTTPStatus int
	Code       string
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("globus API error (%d, %s): %s", e.HTTPStatus, e.Code, e.Message)
}

// AsAPIError unwraps err into an *APIError if one is present in the chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

type errorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

// ParseAPIError builds an APIError from a non-2xx response body.
// Bodies that are not Globus JSON errors keep their raw text as the message.
func ParseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{
		HTTPStatus: status,
		Code:       DefaultErrorCode,
	}

	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Code != "" {
			apiErr.Code = parsed.Code
		}
		apiErr.Message = parsed.Message
		apiErr.RequestID = parsed.RequestID
	}

	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}
