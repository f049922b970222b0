package transfers

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Service prepares transfer requests and hands them to a Submitter.
type Service struct {
	submitter  Submitter
	translator *PathTranslator
	logger     *slog.Logger
}

// NewService creates a transfer service. translator may be nil.
func NewService(submitter Submitter, translator *PathTranslator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{submitter: submitter, translator: translator, logger: logger}
}

// Submit validates req, translates host paths and submits it.
func (s *Service) Submit(ctx context.Context, req *Request) (json.RawMessage, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	prepared := *req
	prepared.Items = append([]Item(nil), req.Items...)
	if err := s.translator.Apply(&prepared); err != nil {
		return nil, err
	}

	s.logger.Debug("submitting transfer",
		"source", prepared.SourceEndpoint,
		"destination", prepared.DestinationEndpoint,
		"items", len(prepared.Items))
	return s.submitter.SubmitTransfer(ctx, prepared.Document())
}
