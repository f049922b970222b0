package autherrors

import "errors"

// ErrMalformedGridFTPResult is returned when an error message carries the
// GridFTP JSON result marker but the embedded payload is not valid JSON.
// This means the GridFTP server format changed, not that the user did anything wrong.
var ErrMalformedGridFTPResult = errors.New("malformed GridFTP JSON result")
