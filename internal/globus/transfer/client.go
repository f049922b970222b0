// Package transfer is a small client for the Globus Transfer API.
package transfer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"GlobusJupyter/internal/globus"
)

// DefaultBaseURL is the production Transfer API.
const DefaultBaseURL = "https://transfer.api.globus.org/v0.10"

// ResourceServer is the resource server of Transfer access tokens.
const ResourceServer = "transfer.api.globus.org"

// TokenSource supplies valid access tokens per resource server.
type TokenSource interface {
	AccessToken(ctx context.Context, resourceServer string) (string, error)
}

// Client calls the Transfer API on behalf of the logged in user.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
}

// NewClient creates a Transfer API client. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string, tokens TokenSource, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// OperationLS lists a directory on a collection. An empty path lists the default directory.
func (c *Client) OperationLS(ctx context.Context, endpointID, path string) (json.RawMessage, error) {
	query := url.Values{}
	if path != "" {
		query.Set("path", path)
	}
	return c.get(ctx, "/operation/endpoint/"+url.PathEscape(endpointID)+"/ls", query)
}

// EndpointSearch runs an endpoint search with the given filter parameters.
func (c *Client) EndpointSearch(ctx context.Context, filters url.Values) (json.RawMessage, error) {
	return c.get(ctx, "/endpoint_search", filters)
}

// GetEndpoint fetches the document of a single endpoint or collection.
func (c *Client) GetEndpoint(ctx context.Context, endpointID string) (json.RawMessage, error) {
	return c.get(ctx, "/endpoint/"+url.PathEscape(endpointID), nil)
}

// SubmissionID reserves a submission id for a transfer task.
func (c *Client) SubmissionID(ctx context.Context) (string, error) {
	token, err := c.tokens.AccessToken(ctx, ResourceServer)
	if err != nil {
		return "", err
	}
	var out struct {
		Value string `json:"value"`
	}
	if err := globus.Do(ctx, c.httpClient, http.MethodGet, c.baseURL+"/submission_id", token, nil, &out); err != nil {
		return "", err
	}
	if out.Value == "" {
		return "", fmt.Errorf("transfer API returned an empty submission id")
	}
	return out.Value, nil
}

// SubmitTransfer submits a transfer task, reserving a submission id first if
// the document has none.
func (c *Client) SubmitTransfer(ctx context.Context, doc *Document) (json.RawMessage, error) {
	if doc.SubmissionID == "" {
		id, err := c.SubmissionID(ctx)
		if err != nil {
			return nil, err
		}
		doc.SubmissionID = id
	}

	token, err := c.tokens.AccessToken(ctx, ResourceServer)
	if err != nil {
		return nil, err
	}
	var out json.RawMessage
	if err := globus.Do(ctx, c.httpClient, http.MethodPost, c.baseURL+"/transfer", token, doc, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	token, err := c.tokens.AccessToken(ctx, ResourceServer)
	if err != nil {
		return nil, err
	}
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	var out json.RawMessage
	if err := globus.Do(ctx, c.httpClient, http.MethodGet, endpoint, token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
