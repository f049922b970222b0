package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// IDTokenVerifier checks id_tokens against the Globus Auth signing keys.
type IDTokenVerifier struct {
	jwksURL    string
	issuer     string
	audience   string
	httpClient *http.Client
}

// NewIDTokenVerifier creates a verifier that accepts tokens issued by issuer for audience.
func NewIDTokenVerifier(jwksURL, issuer, audience string, timeout time.Duration) *IDTokenVerifier {
	return &IDTokenVerifier{
		jwksURL:  jwksURL,
		issuer:   issuer,
		audience: audience,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Verify validates the signature and claims of raw and returns the token subject.
func (v *IDTokenVerifier) Verify(ctx context.Context, raw string) (string, error) {
	set, err := jwk.Fetch(ctx, v.jwksURL, jwk.WithHTTPClient(v.httpClient))
	if err != nil {
		return "", fmt.Errorf("failed to fetch JWKS: %w", err)
	}

	tok, err := jwt.ParseString(raw,
		jwt.WithKeySet(set, jws.WithInferAlgorithmFromKey(true)),
		jwt.WithValidate(true),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithAcceptableSkew(time.Minute),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidIDToken, err)
	}
	return tok.Subject(), nil
}
