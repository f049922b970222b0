package login

import (
	"net/url"
	"strings"

	"GlobusJupyter/internal/core/autherrors"
)

const (
	// SessionMessage is shown by Globus Auth when a fresh login is forced.
	SessionMessage = "The collection you selected requires a fresh login"

	activationURLBase = "https://app.globus.org/file-manager?origin_id="
)

// Directive is everything needed to send the user to the right login.
type Directive struct {
	Kind                     autherrors.Kind
	LoginRequired            bool
	RequiresUserIntervention bool
	RequestedScopes          []string
	RequiredSessionDomains   []string
	// SessionRequiredIdentities are the identity ids resolved from RequiredSessionDomains.
	SessionRequiredIdentities []string
	// CustomLoginURL bypasses the local login when set.
	CustomLoginURL string
}

// Origin is the scheme and host the browser used to reach this server.
type Origin struct {
	Scheme string
	Host   string
}

// ActivationURL points at the Globus web app page for a collection, where the user
// can activate a GCS v4 endpoint or register storage credentials.
func ActivationURL(collectionID string) string {
	return activationURLBase + url.QueryEscape(collectionID)
}

// BuildLoginURL returns the URL the frontend should navigate to for d.
// Query parameters are emitted in a fixed order so equal directives give equal URLs.
func BuildLoginURL(d *Directive, loginPath string, origin Origin) string {
	if d.CustomLoginURL != "" {
		return d.CustomLoginURL
	}

	params := []string{
		"requested_scopes=" + url.QueryEscape(strings.Join(d.RequestedScopes, " ")),
	}
	if len(d.RequiredSessionDomains) > 0 {
		params = append(params,
			"prompt=login",
			"session_required_identities="+url.QueryEscape(strings.Join(d.SessionRequiredIdentities, ",")),
			"session_message="+url.QueryEscape(SessionMessage),
		)
	}

	u := url.URL{
		Scheme:   origin.Scheme,
		Host:     origin.Host,
		Path:     loginPath,
		RawQuery: strings.Join(params, "&"),
	}
	return u.String()
}
