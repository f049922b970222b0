package autherrors

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// GridFTP detail data types reported by GCS v5.4 collections.
const (
	DetailNotFromAllowedDomain = "not_from_allowed_domain#1.0.0"
	DetailInvalidCredential    = "invalid_credential#1.0.0"
)

// The transfer service embeds the GridFTP control channel reply in its error
// message with escaped CRLFs, so the pattern matches a literal backslash-r-backslash-n.
var gridFTPResultPattern = regexp.MustCompile(`530-GridFTP-JSON-Result: (.+)\\r\\n530 End`)

// GridFTPResult is the JSON result a GCS endpoint returns on a failed login.
type GridFTPResult struct {
	DataType         string
	Code             string
	Message          string
	HTTPResponseCode int
	Detail           *GridFTPDetail
}

// GridFTPDetail carries the data type specific fields of a GridFTPResult.
type GridFTPDetail struct {
	DataType         string   `json:"DATA_TYPE"`
	AllowedDomains   []string `json:"allowed_domains,omitempty"`
	UserCredentialID string   `json:"user_credential_id,omitempty"`
}

type gridFTPResultJSON struct {
	DataType         string          `json:"DATA_TYPE"`
	Code             string          `json:"code"`
	Message          string          `json:"message"`
	HTTPResponseCode int             `json:"http_response_code"`
	Detail           json.RawMessage `json:"detail"`
}

// DetailType returns the detail data type, or "" when there is no structured detail.
func (r *GridFTPResult) DetailType() string {
	if r == nil || r.Detail == nil {
		return ""
	}
	return r.Detail.DataType
}

// ParseGridFTPResult extracts the GridFTP JSON result embedded in message.
// It returns (nil, nil) when message has no GridFTP result marker or the result
// is null or an empty object.
func ParseGridFTPResult(message string) (*GridFTPResult, error) {
	match := gridFTPResultPattern.FindStringSubmatch(message)
	if match == nil {
		return nil, nil
	}

	// A null or empty result object carries nothing to act on.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(match[1]), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedGridFTPResult, err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	var raw gridFTPResultJSON
	if err := json.Unmarshal([]byte(match[1]), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedGridFTPResult, err)
	}

	result := &GridFTPResult{
		DataType:         raw.DataType,
		Code:             raw.Code,
		Message:          raw.Message,
		HTTPResponseCode: raw.HTTPResponseCode,
	}

	// Some results carry a plain string detail; only objects are structured.
	var detail GridFTPDetail
	if len(raw.Detail) > 0 && json.Unmarshal(raw.Detail, &detail) == nil {
		result.Detail = &detail
	}

	return result, nil
}
