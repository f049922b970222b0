package login

import "errors"

var (
	// ErrCollectionRequired is an internal defect: a rule that needs the target
	// collection matched on a request that did not supply one.
	ErrCollectionRequired = errors.New("collection required to build login directive")
)
