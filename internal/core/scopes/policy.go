package scopes

// Policy binds Derive to the configured base and submission scopes.
type Policy struct {
	base       []string
	submission string
}

// NewPolicy creates a scope policy. An empty base defaults to TransferAll.
func NewPolicy(base []string, submission string) *Policy {
	if len(base) == 0 {
		base = []string{TransferAll}
	}
	return &Policy{
		base:       append([]string(nil), base...),
		submission: submission,
	}
}

// BaseScopes returns a copy of the configured base scopes.
func (p *Policy) BaseScopes() []string {
	return append([]string(nil), p.base...)
}

// SubmissionScope returns the custom transfer submission scope, if any.
func (p *Policy) SubmissionScope() string {
	return p.submission
}

// Derive computes the login scopes for req using the configured scopes.
func (p *Policy) Derive(req Requirement, collectionID string) (Derivation, error) {
	return Derive(p.base, p.submission, req, collectionID)
}

// Default returns the scopes requested when no error implies anything more.
func (p *Policy) Default() ([]string, error) {
	d, err := p.Derive(RequireBase, "")
	if err != nil {
		return nil, err
	}
	return d.Scopes, nil
}
