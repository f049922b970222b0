package transfers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"GlobusJupyter/internal/globus"
	"GlobusJupyter/internal/globus/transfer"
)

type MockSubmitter struct {
	mock.Mock
}

func (m *MockSubmitter) SubmitTransfer(ctx context.Context, doc *transfer.Document) (json.RawMessage, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

type fakeTokens struct {
	byResourceServer map[string]string
	byScope          map[string]string
}

func (f fakeTokens) AccessToken(ctx context.Context, resourceServer string) (string, error) {
	if tok, ok := f.byResourceServer[resourceServer]; ok {
		return tok, nil
	}
	return "", errors.New("not logged in")
}

func (f fakeTokens) TokenForScope(ctx context.Context, scope string) (string, error) {
	if tok, ok := f.byScope[scope]; ok {
		return tok, nil
	}
	return "", errors.New("no token for scope")
}

func validRequest() *Request {
	return &Request{
		SourceEndpoint:      "src",
		DestinationEndpoint: "dst",
		Items: []Item{
			{SourcePath: "/home/jovyan/file.txt", DestinationPath: "/~/file.txt"},
		},
	}
}

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"missing source", func(r *Request) { r.SourceEndpoint = "" }},
		{"missing destination", func(r *Request) { r.DestinationEndpoint = "" }},
		{"no items", func(r *Request) { r.Items = nil }},
		{"empty path", func(r *Request) { r.Items[0].DestinationPath = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			assert.ErrorIs(t, req.Validate(), ErrInvalidInput)
		})
	}
	assert.NoError(t, validRequest().Validate())
}

func TestService_Submit(t *testing.T) {
	submitter := new(MockSubmitter)
	submitter.On("SubmitTransfer", mock.Anything, mock.MatchedBy(func(doc *transfer.Document) bool {
		return doc.SourceEndpoint == "src" &&
			doc.DataType == "transfer" &&
			len(doc.Items) == 1 &&
			doc.Items[0].SourcePath == "/file.txt"
	})).Return(json.RawMessage(`{"task_id": "t1"}`), nil)

	svc := NewService(submitter, &PathTranslator{CollectionID: "src", PosixBase: "/home/jovyan"}, nil)
	req := validRequest()

	resp, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"task_id": "t1"}`, string(resp))
	assert.Equal(t, "/home/jovyan/file.txt", req.Items[0].SourcePath, "caller request is not modified")
	submitter.AssertExpectations(t)
}

func TestService_SubmitRejectsBeforeSubmitting(t *testing.T) {
	submitter := new(MockSubmitter)
	svc := NewService(submitter, &PathTranslator{CollectionID: "src", PosixBase: "/srv/share"}, nil)

	_, err := svc.Submit(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrOutsideSharePath)

	_, err = svc.Submit(context.Background(), &Request{})
	assert.ErrorIs(t, err, ErrInvalidInput)
	submitter.AssertNotCalled(t, "SubmitTransfer", mock.Anything, mock.Anything)
}

func TestCustomSubmitter_ScopedToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer my_scope_access_token", r.Header.Get("Authorization"))

		var body map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.JSONEq(t, `null`, string(body["globus_token"]))
		assert.Contains(t, string(body["transfer"]), `"source_endpoint":"src"`)

		_, _ = w.Write([]byte(`{"task_id": "custom-1"}`))
	}))
	defer server.Close()

	submitter := NewCustomSubmitter(CustomSubmitterConfig{
		URL:     server.URL,
		Scope:   "http://myscope",
		Timeout: time.Second,
	}, fakeTokens{byScope: map[string]string{"http://myscope": "my_scope_access_token"}})

	resp, err := submitter.SubmitTransfer(context.Background(), validRequest().Document())
	require.NoError(t, err)
	assert.Contains(t, string(resp), "custom-1")
}

func TestCustomSubmitter_HubService(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "token hub-api-token", r.Header.Get("Authorization"))

		var body struct {
			GlobusToken string `json:"globus_token"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "transfer-token", body.GlobusToken)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	submitter := NewCustomSubmitter(CustomSubmitterConfig{
		URL:          server.URL,
		HubToken:     "hub-api-token",
		IsHubService: true,
		Timeout:      time.Second,
	}, fakeTokens{byResourceServer: map[string]string{transfer.ResourceServer: "transfer-token"}})

	_, err := submitter.SubmitTransfer(context.Background(), validRequest().Document())
	require.NoError(t, err)
}

func TestCustomSubmitter_ErrorBecomesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"code": "ConsentRequired", "message": "consent"}`))
	}))
	defer server.Close()

	submitter := NewCustomSubmitter(CustomSubmitterConfig{URL: server.URL, Scope: "s", Timeout: time.Second},
		fakeTokens{byScope: map[string]string{"s": "tok"}})

	_, err := submitter.SubmitTransfer(context.Background(), validRequest().Document())
	apiErr, ok := globus.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "ConsentRequired", apiErr.Code)
}
