package transfers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"GlobusJupyter/internal/globus"
	"GlobusJupyter/internal/globus/transfer"
)

// Submitter sends a transfer document somewhere that will run it.
type Submitter interface {
	SubmitTransfer(ctx context.Context, doc *transfer.Document) (json.RawMessage, error)
}

// ScopedTokens supplies the user's tokens by resource server or by granted scope.
type ScopedTokens interface {
	AccessToken(ctx context.Context, resourceServer string) (string, error)
	TokenForScope(ctx context.Context, scope string) (string, error)
}

// CustomSubmitterConfig configures a custom transfer submission service.
type CustomSubmitterConfig struct {
	URL   string
	Scope string
	// HubToken authenticates to a JupyterHub service when IsHubService is set.
	HubToken     string
	IsHubService bool
	Timeout      time.Duration
}

// CustomSubmitter posts transfers to a service that submits them on the user's behalf.
type CustomSubmitter struct {
	cfg        CustomSubmitterConfig
	tokens     ScopedTokens
	httpClient *http.Client
}

// NewCustomSubmitter creates a submitter for the service at cfg.URL.
func NewCustomSubmitter(cfg CustomSubmitterConfig, tokens ScopedTokens) *CustomSubmitter {
	return &CustomSubmitter{
		cfg:    cfg,
		tokens: tokens,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type customSubmission struct {
	GlobusToken *string            `json:"globus_token"`
	Transfer    *transfer.Document `json:"transfer"`
}

// SubmitTransfer posts doc to the custom service. Non-2xx responses are
// returned as *globus.APIError.
func (s *CustomSubmitter) SubmitTransfer(ctx context.Context, doc *transfer.Document) (json.RawMessage, error) {
	payload := customSubmission{Transfer: doc}
	var authorization string

	if s.cfg.IsHubService {
		token, err := s.tokens.AccessToken(ctx, transfer.ResourceServer)
		if err != nil {
			return nil, err
		}
		payload.GlobusToken = &token
		authorization = "token " + s.cfg.HubToken
	} else {
		token, err := s.tokens.TokenForScope(ctx, s.cfg.Scope)
		if err != nil {
			return nil, err
		}
		authorization = "Bearer " + token
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode submission: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create submission request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", globus.UserAgent)
	req.Header.Set("Authorization", authorization)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submission service request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read submission response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, globus.ParseAPIError(resp.StatusCode, data)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("submission service returned invalid JSON")
	}
	return json.RawMessage(data), nil
}
