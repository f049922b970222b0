package oauth

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// DecodeSecret returns a configured secret that may be base64 encoded.
// If the value starts with "base64:", it will be decoded.
// Otherwise, it returns the plain value.
//
// Example usage:
//
//	GLOBUS_COOKIE_SECRET=f1132c01b1a625a865c6c455a75ee793f1132c01      (plain)
//	GLOBUS_COOKIE_SECRET=base64:ZjExMzJjMDFiMWE2MjVhODY1YzZjNDU1YTc1ZWU3OTM= (base64 encoded)
func DecodeSecret(value string) (string, error) {
	if !strings.HasPrefix(value, "base64:") {
		return value, nil
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, "base64:"))
	if err != nil {
		return "", fmt.Errorf("invalid base64 encoding for cookie secret: %w", err)
	}
	return string(decoded), nil
}
