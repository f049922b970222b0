// Package login turns classified Globus API errors into login directives and URLs.
package login

import (
	"context"
	"fmt"
	"log/slog"

	"GlobusJupyter/internal/core/autherrors"
	"GlobusJupyter/internal/core/scopes"
	"GlobusJupyter/internal/globus"
)

// Recorder receives classification outcomes for metrics.
type Recorder interface {
	LoginError(kind string)
	LoginDefect()
}

// UnclassifiedKind is recorded when no rule matched an error.
const UnclassifiedKind = "unclassified"

// Request is the context of the failed request an error is explained for.
type Request struct {
	// CollectionScoped selects the full rule chain; operations that do not target
	// a collection only detect plain login failures.
	CollectionScoped bool
	// CollectionID is the collection or endpoint the operation targeted.
	CollectionID string
	LoginPath    string
	Origin       Origin
}

// Outcome is the explanation of one failed call. Directive is nil when the error
// is not something a login or user action can fix.
type Outcome struct {
	Directive *Directive
	LoginURL  string
}

// Service explains Globus API errors.
type Service struct {
	collection *autherrors.Classifier
	general    *autherrors.Classifier
	policy     *scopes.Policy
	identities IdentitySource
	recorder   Recorder
	logger     *slog.Logger
}

// NewService creates a login service. identities and recorder may be nil.
func NewService(policy *scopes.Policy, identities IdentitySource, recorder Recorder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		collection: autherrors.NewClassifier(logger, autherrors.DefaultRules()...),
		general:    autherrors.NewClassifier(logger, autherrors.LoginRules()...),
		policy:     policy,
		identities: identities,
		recorder:   recorder,
		logger:     logger,
	}
}

// Explain classifies apiErr and builds the login directive and URL for it.
// Internal defects (missing collection, nested base scopes) are returned as errors,
// as are identity lookup failures.
func (s *Service) Explain(ctx context.Context, apiErr *globus.APIError, req Request) (*Outcome, error) {
	classifier := s.general
	if req.CollectionScoped {
		classifier = s.collection
	}

	match, ok := classifier.Classify(apiErr)
	if !ok {
		s.record(UnclassifiedKind)
		return &Outcome{}, nil
	}
	s.record(string(match.Kind))

	directive, err := s.directive(ctx, match, req)
	if err != nil {
		return nil, err
	}

	loginURL := BuildLoginURL(directive, req.LoginPath, req.Origin)
	s.logger.Debug("generated login url", "kind", match.Kind, "login_url", loginURL)
	return &Outcome{Directive: directive, LoginURL: loginURL}, nil
}

// DefaultLoginURL returns the login URL for a plain login with the configured scopes.
func (s *Service) DefaultLoginURL(loginPath string, origin Origin) (string, error) {
	requested, err := s.policy.Default()
	if err != nil {
		return "", s.defect(autherrors.LoginRequired, err)
	}
	d := &Directive{
		Kind:            autherrors.LoginRequired,
		LoginRequired:   true,
		RequestedScopes: requested,
	}
	return BuildLoginURL(d, loginPath, origin), nil
}

func (s *Service) directive(ctx context.Context, match *autherrors.Match, req Request) (*Directive, error) {
	d := &Directive{
		Kind:                     match.Kind,
		LoginRequired:            match.LoginRequired,
		RequiresUserIntervention: match.RequiresUserIntervention,
		RequiredSessionDomains:   match.AllowedDomains,
	}

	if match.NeedsActivationURL {
		if req.CollectionID == "" {
			return nil, s.defect(match.Kind, ErrCollectionRequired)
		}
		d.CustomLoginURL = ActivationURL(req.CollectionID)
		return d, nil
	}

	derivation, err := s.policy.Derive(match.ScopeRequirement, req.CollectionID)
	if err != nil {
		return nil, s.defect(match.Kind, err)
	}
	if derivation.NeedsCollection {
		return nil, s.defect(match.Kind, ErrCollectionRequired)
	}
	d.RequestedScopes = derivation.Scopes

	if len(d.RequiredSessionDomains) > 0 {
		if s.identities == nil {
			return nil, fmt.Errorf("resolve session identities: no identity source configured")
		}
		set, err := s.identities.IdentitySet(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolve session identities: %w", err)
		}
		d.SessionRequiredIdentities = ResolveIdentities(d.RequiredSessionDomains, set)
	}
	return d, nil
}

func (s *Service) defect(kind autherrors.Kind, err error) error {
	s.logger.Error("failed to build login directive", "kind", kind, "error", err)
	if s.recorder != nil {
		s.recorder.LoginDefect()
	}
	return fmt.Errorf("%s: %w", kind, err)
}

func (s *Service) record(kind string) {
	if s.recorder != nil {
		s.recorder.LoginError(kind)
	}
}
