// Package autherrors classifies failed Globus API calls into login problems.
//
// A Classifier evaluates an ordered list of rules against an APIError and
// returns the Match of the first rule that applies. Order matters: several rules
// can match the same 502 error, and the catch-all GridFTP rule must come after
// every specific one.
package autherrors

import (
	"net/http"

	"GlobusJupyter/internal/core/scopes"
)

// Kind names a login problem a rule detects.
type Kind string

const (
	LoginRequired                  Kind = "LoginRequired"
	LegacyEndpointActivation       Kind = "LegacyEndpointActivation"
	HighAssuranceDomainRestriction Kind = "HighAssuranceDomainRestriction"
	InvalidStoredCredential        Kind = "InvalidStoredCredential"
	UnrecognizedGatewayError       Kind = "UnrecognizedGatewayError"
	DataAccessConsentRequired      Kind = "DataAccessConsentRequired"
)

// Error codes returned by the transfer service.
const (
	CodeActivationRequired = "ClientError.ActivationRequired"
	CodeConsentRequired    = "ConsentRequired"
)

// Rule tests one failure shape. Implementations are stateless.
type Rule interface {
	Kind() Kind
	Matches(f *Failure) bool
	// Match builds the directive-shaping data for a failure Matches accepted.
	Match(f *Failure) *Match
}

// Match describes how a classified failure can be fixed.
type Match struct {
	Kind                     Kind
	LoginRequired            bool
	RequiresUserIntervention bool

	// ScopeRequirement tells the scope policy what to request on the next login.
	ScopeRequirement scopes.Requirement

	// NeedsActivationURL is set when the fix happens in the Globus web app for
	// the collection the request targeted, not through a local login.
	NeedsActivationURL bool

	AllowedDomains []string
	CredentialID   string
	GridFTP        *GridFTPResult
}

// DefaultRules returns the full rule chain for operations on a collection.
func DefaultRules() []Rule {
	return []Rule{
		loginRequiredRule{},
		legacyEndpointActivationRule{},
		highAssuranceRule{},
		invalidCredentialRule{},
		unrecognizedGatewayRule{},
		dataAccessConsentRule{},
	}
}

// LoginRules returns the chain for operations that do not target a collection.
func LoginRules() []Rule {
	return []Rule{loginRequiredRule{}}
}

type loginRequiredRule struct{}

func (loginRequiredRule) Kind() Kind { return LoginRequired }

func (loginRequiredRule) Matches(f *Failure) bool {
	return f.Err.HTTPStatus == http.StatusUnauthorized
}

func (r loginRequiredRule) Match(f *Failure) *Match {
	return &Match{Kind: r.Kind(), LoginRequired: true}
}

// legacyEndpointActivationRule detects GCS v4 endpoints that need activation in the web app.
type legacyEndpointActivationRule struct{}

func (legacyEndpointActivationRule) Kind() Kind { return LegacyEndpointActivation }

func (legacyEndpointActivationRule) Matches(f *Failure) bool {
	return f.Err.HTTPStatus == http.StatusBadRequest && f.Err.Code == CodeActivationRequired
}

func (r legacyEndpointActivationRule) Match(f *Failure) *Match {
	return &Match{
		Kind:                     r.Kind(),
		RequiresUserIntervention: true,
		NeedsActivationURL:       true,
	}
}

// highAssuranceRule detects GCS v5.4 high assurance collections rejecting the
// session because no identity from an allowed domain was used.
type highAssuranceRule struct{}

func (highAssuranceRule) Kind() Kind { return HighAssuranceDomainRestriction }

func (highAssuranceRule) Matches(f *Failure) bool {
	return f.gatewayDetail(DetailNotFromAllowedDomain)
}

func (r highAssuranceRule) Match(f *Failure) *Match {
	return &Match{
		Kind:           r.Kind(),
		LoginRequired:  true,
		AllowedDomains: append([]string(nil), f.GridFTP.Detail.AllowedDomains...),
		GridFTP:        f.GridFTP,
	}
}

// invalidCredentialRule detects GCS v5.4 connectors (S3 and similar) whose stored
// user credential is missing or invalid.
type invalidCredentialRule struct{}

func (invalidCredentialRule) Kind() Kind { return InvalidStoredCredential }

func (invalidCredentialRule) Matches(f *Failure) bool {
	return f.gatewayDetail(DetailInvalidCredential)
}

func (r invalidCredentialRule) Match(f *Failure) *Match {
	return &Match{
		Kind:                     r.Kind(),
		RequiresUserIntervention: true,
		NeedsActivationURL:       true,
		CredentialID:             f.GridFTP.Detail.UserCredentialID,
		GridFTP:                  f.GridFTP,
	}
}

// unrecognizedGatewayRule matches any GridFTP result. It must stay after every
// other 502 rule.
type unrecognizedGatewayRule struct{}

func (unrecognizedGatewayRule) Kind() Kind { return UnrecognizedGatewayError }

func (unrecognizedGatewayRule) Matches(f *Failure) bool {
	return f.Err.HTTPStatus == http.StatusBadGateway && f.GridFTP != nil
}

func (r unrecognizedGatewayRule) Match(f *Failure) *Match {
	return &Match{
		Kind:                     r.Kind(),
		RequiresUserIntervention: true,
		NeedsActivationURL:       true,
		GridFTP:                  f.GridFTP,
	}
}

// dataAccessConsentRule detects GCS v5.4 mapped collections that need a
// data_access scope consented for the collection.
type dataAccessConsentRule struct{}

func (dataAccessConsentRule) Kind() Kind { return DataAccessConsentRequired }

func (dataAccessConsentRule) Matches(f *Failure) bool {
	return f.Err.HTTPStatus == http.StatusForbidden && f.Err.Code == CodeConsentRequired
}

func (r dataAccessConsentRule) Match(f *Failure) *Match {
	return &Match{
		Kind:             r.Kind(),
		LoginRequired:    true,
		ScopeRequirement: scopes.RequireDataAccess,
	}
}
