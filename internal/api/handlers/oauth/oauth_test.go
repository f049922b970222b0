package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GlobusJupyter/internal/core/tokens"
	"GlobusJupyter/internal/globus/auth"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type fakeFlow struct {
	lastState    string
	lastVerifier string
	lastParams   auth.LoginParams
	exchangeErr  error
	result       *auth.LoginResult
}

func (f *fakeFlow) AuthCodeURL(state, verifier string, params auth.LoginParams) string {
	f.lastState = state
	f.lastVerifier = verifier
	f.lastParams = params
	return "https://auth.globus.org/v2/oauth2/authorize?state=" + url.QueryEscape(state)
}

func (f *fakeFlow) Exchange(ctx context.Context, code, verifier string) (*auth.LoginResult, error) {
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	if verifier != f.lastVerifier {
		return nil, errors.New("verifier mismatch")
	}
	return f.result, nil
}

type staticScopes []string

func (s staticScopes) Default() ([]string, error) { return s, nil }

type recordingSaver struct {
	saved []*tokens.Token
}

func (s *recordingSaver) StoreTokens(ctx context.Context, toks []*tokens.Token) error {
	s.saved = append(s.saved, toks...)
	return nil
}

type fakeVerifier struct {
	err error
}

func (v fakeVerifier) Verify(ctx context.Context, raw string) (string, error) {
	return "a1", v.err
}

func newStore(t *testing.T) *sessions.CookieStore {
	t.Helper()
	store, err := NewCookieStore(testSecret, false)
	require.NoError(t, err)
	return store
}

func startLogin(t *testing.T, h *LoginHandler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.HandleLogin(rec, httptest.NewRequest(http.MethodGet, target, nil))
	require.Equal(t, http.StatusFound, rec.Code)
	return rec
}

func callbackRequest(target string, cookies []*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func TestNewCookieStore(t *testing.T) {
	_, err := NewCookieStore("short", false)
	assert.Error(t, err)

	store, err := NewCookieStore("", true)
	require.NoError(t, err)
	assert.True(t, store.Options.Secure)
	assert.True(t, store.Options.HttpOnly)
}

func TestHandleLogin_ForwardsParams(t *testing.T) {
	flow := &fakeFlow{}
	h := NewLoginHandler(flow, newStore(t), staticScopes{"unused"}, "/lab", nil)

	rec := startLogin(t, h, "/login?requested_scopes="+url.QueryEscape("scope-a scope-b[dep]")+
		"&prompt=login&session_required_identities=id-1&session_message=fresh")

	assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "https://auth.globus.org/v2/oauth2/authorize"))
	assert.NotEmpty(t, flow.lastState)
	assert.NotEmpty(t, flow.lastVerifier)
	assert.Equal(t, auth.LoginParams{
		RequestedScopes:           "scope-a scope-b[dep]",
		Prompt:                    "login",
		SessionRequiredIdentities: "id-1",
		SessionMessage:            "fresh",
	}, flow.lastParams)
	assert.NotEmpty(t, rec.Result().Cookies())
}

func TestHandleLogin_DefaultScopes(t *testing.T) {
	flow := &fakeFlow{}
	h := NewLoginHandler(flow, newStore(t), staticScopes{"openid", "urn:globus:auth:scope:transfer.api.globus.org:all"}, "/lab", nil)

	startLogin(t, h, "/login")
	assert.Equal(t, "openid urn:globus:auth:scope:transfer.api.globus.org:all", flow.lastParams.RequestedScopes)
}

func TestLoginCallbackRoundTrip(t *testing.T) {
	store := newStore(t)
	flow := &fakeFlow{result: &auth.LoginResult{
		Tokens: []*tokens.Token{
			{ResourceServer: "auth.globus.org", AccessToken: "auth-access"},
			{ResourceServer: "transfer.api.globus.org", AccessToken: "transfer-access"},
		},
		IDToken: "id-token",
	}}
	saver := &recordingSaver{}
	login := NewLoginHandler(flow, store, staticScopes{"openid"}, "/lab", nil)
	callback := NewCallbackHandler(flow, store, saver, fakeVerifier{}, nil)

	loginRec := startLogin(t, login, "/login?next=/lab/tree/notebook.ipynb")

	rec := httptest.NewRecorder()
	callback.HandleCallback(rec, callbackRequest(
		"/oauth_callback?code=abc&state="+flow.lastState, loginRec.Result().Cookies()))

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/lab/tree/notebook.ipynb", rec.Header().Get("Location"))
	assert.Len(t, saver.saved, 2)
}

func TestHandleCallback_Rejects(t *testing.T) {
	store := newStore(t)
	flow := &fakeFlow{result: &auth.LoginResult{}}
	login := NewLoginHandler(flow, store, staticScopes{"openid"}, "/lab", nil)

	tests := []struct {
		name     string
		query    func(state string) string
		cookies  bool
		flow     *fakeFlow
		verifier IDTokenVerifier
		status   int
	}{
		{"oauth error", func(string) string { return "error=access_denied" }, true, flow, nil, http.StatusBadRequest},
		{"missing code", func(s string) string { return "state=" + s }, true, flow, nil, http.StatusBadRequest},
		{"no session", func(s string) string { return "code=abc&state=" + s }, false, flow, nil, http.StatusBadRequest},
		{"state mismatch", func(string) string { return "code=abc&state=forged" }, true, flow, nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loginRec := startLogin(t, login, "/login")
			var cookies []*http.Cookie
			if tt.cookies {
				cookies = loginRec.Result().Cookies()
			}
			saver := &recordingSaver{}
			callback := NewCallbackHandler(tt.flow, store, saver, tt.verifier, nil)

			rec := httptest.NewRecorder()
			callback.HandleCallback(rec, callbackRequest("/oauth_callback?"+tt.query(flow.lastState), cookies))
			assert.Equal(t, tt.status, rec.Code)
			assert.Empty(t, saver.saved)
		})
	}
}

func TestHandleCallback_ExchangeAndVerifyFailures(t *testing.T) {
	store := newStore(t)

	t.Run("exchange fails", func(t *testing.T) {
		flow := &fakeFlow{exchangeErr: errors.New("invalid_grant")}
		loginRec := startLogin(t, NewLoginHandler(flow, store, staticScopes{"openid"}, "/lab", nil), "/login")

		rec := httptest.NewRecorder()
		NewCallbackHandler(flow, store, &recordingSaver{}, nil, nil).HandleCallback(rec,
			callbackRequest("/oauth_callback?code=abc&state="+flow.lastState, loginRec.Result().Cookies()))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("id token invalid", func(t *testing.T) {
		flow := &fakeFlow{result: &auth.LoginResult{IDToken: "bad", Tokens: []*tokens.Token{{ResourceServer: "auth.globus.org"}}}}
		loginRec := startLogin(t, NewLoginHandler(flow, store, staticScopes{"openid"}, "/lab", nil), "/login")
		saver := &recordingSaver{}

		rec := httptest.NewRecorder()
		NewCallbackHandler(flow, store, saver, fakeVerifier{err: auth.ErrInvalidIDToken}, nil).HandleCallback(rec,
			callbackRequest("/oauth_callback?code=abc&state="+flow.lastState, loginRec.Result().Cookies()))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, saver.saved)
	})
}

func TestSafeReturnPath(t *testing.T) {
	assert.Equal(t, "/lab/tree", safeReturnPath("/lab/tree", "/lab"))
	assert.Equal(t, "/lab", safeReturnPath("", "/lab"))
	assert.Equal(t, "/lab", safeReturnPath("https://evil.example.org", "/lab"))
	assert.Equal(t, "/lab", safeReturnPath("//evil.example.org", "/lab"))
	assert.Equal(t, "/lab", safeReturnPath("/\\evil.example.org", "/lab"))
}

type fakeLogout struct {
	revoked bool
	err     error
}

func (f fakeLogout) Logout(ctx context.Context, revoker tokens.Revoker) (bool, error) {
	return f.revoked, f.err
}

func TestHandleLogout(t *testing.T) {
	tests := []struct {
		name    string
		logout  fakeLogout
		status  int
		result  string
		message string
	}{
		{"revoked", fakeLogout{revoked: true}, http.StatusOK, "success", "The action completed successfully"},
		{"nothing stored", fakeLogout{}, http.StatusOK, "success", "No tokens were stored"},
		{"store failure", fakeLogout{err: errors.New("disk full")}, http.StatusInternalServerError, "failure", "Failed to clear stored tokens"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewLogoutHandler(tt.logout, nil, nil).HandleLogout(rec, httptest.NewRequest(http.MethodGet, "/logout", nil))
			assert.Equal(t, tt.status, rec.Code)

			var body AuthResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.result, body.Result)
			assert.Equal(t, tt.status, body.StatusCode)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}
