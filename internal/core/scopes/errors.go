package scopes

import "errors"

var (
	// ErrScopeAlreadyNested is returned when dependent scopes are applied to a scope
	// string that already carries a bracketed dependent list.
	ErrScopeAlreadyNested = errors.New("scope already contains dependent scopes")

	// ErrNoDependentScopes is returned when ApplyDependentScope is called with no dependents.
	ErrNoDependentScopes = errors.New("no dependent scopes given")
)
