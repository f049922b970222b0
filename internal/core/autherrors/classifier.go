package autherrors

import (
	"log/slog"
	"net/http"

	"GlobusJupyter/internal/globus"
)

// Failure is an APIError with its GridFTP result parsed once for all rules.
type Failure struct {
	Err     *globus.APIError
	GridFTP *GridFTPResult
}

func (f *Failure) gatewayDetail(dataType string) bool {
	return f.Err.HTTPStatus == http.StatusBadGateway && f.GridFTP.DetailType() == dataType
}

// Classifier evaluates rules in order; the first match wins.
type Classifier struct {
	rules  []Rule
	logger *slog.Logger
}

// NewClassifier creates a classifier. With no rules it uses DefaultRules.
func NewClassifier(logger *slog.Logger, rules ...Rule) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Classifier{
		rules:  rules,
		logger: logger,
	}
}

// Rules returns the kinds of the configured rules in evaluation order.
func (c *Classifier) Rules() []Kind {
	kinds := make([]Kind, len(c.rules))
	for i, rule := range c.rules {
		kinds[i] = rule.Kind()
	}
	return kinds
}

// Classify returns the match of the first rule accepting apiErr.
// It returns false when the error cannot be fixed by a login or user action.
func (c *Classifier) Classify(apiErr *globus.APIError) (*Match, bool) {
	if apiErr == nil {
		return nil, false
	}

	failure := &Failure{Err: apiErr}
	result, err := ParseGridFTPResult(apiErr.Message)
	if err != nil {
		c.logger.Error("found GridFTP error but failed to parse it, the GridFTP result format may have changed",
			"http_status", apiErr.HTTPStatus,
			"code", apiErr.Code,
			"error", err)
	}
	failure.GridFTP = result

	for _, rule := range c.rules {
		matched := rule.Matches(failure)
		c.logger.Debug("checking login rule", "rule", rule.Kind(), "matched", matched)
		if matched {
			return rule.Match(failure), true
		}
	}
	return nil, false
}
