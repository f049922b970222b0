// Package scopes computes the Globus Auth scope strings requested at login.
//
// Scope strings follow the Globus dependent scope grammar:
//
//	base_scope
//	base_scope[dependent_scope dependent_scope ...]
package scopes

import (
	"fmt"
	"strings"
)

const (
	// TransferAll is the transfer service scope requested for every login.
	TransferAll = "urn:globus:auth:scope:transfer.api.globus.org:all"

	// TransferResourceServer is the resource server that issues tokens for TransferAll.
	TransferResourceServer = "transfer.api.globus.org"

	// AuthResourceServer issues tokens for the openid/profile/email scopes.
	AuthResourceServer = "auth.globus.org"

	dataAccessScopeFormat = "https://auth.globus.org/scopes/%s/data_access"
)

// Requirement describes what a matched login error implies for the requested scopes.
type Requirement int

const (
	// RequireBase requests the configured scopes unchanged.
	RequireBase Requirement = iota
	// RequireDataAccess nests a collection data_access scope under every base scope.
	RequireDataAccess
)

func (r Requirement) String() string {
	switch r {
	case RequireBase:
		return "base"
	case RequireDataAccess:
		return "data_access"
	default:
		return fmt.Sprintf("Requirement(%d)", int(r))
	}
}

// DataAccessScope returns the data_access scope of a GCS mapped collection.
func DataAccessScope(collectionID string) string {
	return fmt.Sprintf(dataAccessScopeFormat, collectionID)
}

// ApplyDependentScope appends deps to base in bracket notation.
// Dependents may themselves be nested; base may not.
func ApplyDependentScope(base string, deps []string) (string, error) {
	if strings.ContainsAny(base, "[]") {
		return "", fmt.Errorf("%w: %q", ErrScopeAlreadyNested, base)
	}
	if len(deps) == 0 {
		return "", fmt.Errorf("%w for %q", ErrNoDependentScopes, base)
	}
	return base + "[" + strings.Join(deps, " ") + "]", nil
}

// Derivation is the result of deriving login scopes.
// NeedsCollection is set instead of Scopes when the requirement cannot be
// satisfied without the collection the failing request targeted.
type Derivation struct {
	Scopes          []string
	NeedsCollection bool
}

// Derive computes the scopes to request for req.
// Output ordering follows base ordering, with the submission scope last.
func Derive(base []string, submission string, req Requirement, collectionID string) (Derivation, error) {
	switch req {
	case RequireDataAccess:
		if collectionID == "" {
			return Derivation{NeedsCollection: true}, nil
		}
		dataAccess := DataAccessScope(collectionID)
		derived := make([]string, 0, len(base)+1)
		for _, scope := range base {
			nested, err := ApplyDependentScope(scope, []string{dataAccess})
			if err != nil {
				return Derivation{}, err
			}
			derived = append(derived, nested)
		}
		return withSubmission(derived, submission)

	default:
		return withSubmission(append([]string(nil), base...), submission)
	}
}

// withSubmission appends the submission scope with the already derived scopes as
// its dependents, so the submission service receives dependent tokens for them.
func withSubmission(derived []string, submission string) (Derivation, error) {
	if submission == "" {
		return Derivation{Scopes: derived}, nil
	}
	nested, err := ApplyDependentScope(submission, derived)
	if err != nil {
		return Derivation{}, err
	}
	return Derivation{Scopes: append(derived, nested)}, nil
}
