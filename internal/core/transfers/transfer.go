// Package transfers validates and submits transfer requests made from the notebook.
package transfers

import (
	"fmt"

	"GlobusJupyter/internal/globus/transfer"
)

// Item is one path pair of a transfer request.
type Item struct {
	SourcePath      string `json:"source_path"`
	DestinationPath string `json:"destination_path"`
	Recursive       bool   `json:"recursive"`
}

// Request is a transfer submitted by the frontend.
type Request struct {
	SourceEndpoint      string `json:"source_endpoint"`
	DestinationEndpoint string `json:"destination_endpoint"`
	Label               string `json:"label,omitempty"`
	Items               []Item `json:"DATA"`
}

// Validate checks every required field.
func (r *Request) Validate() error {
	if r.SourceEndpoint == "" {
		return fmt.Errorf("%w: source_endpoint is required", ErrInvalidInput)
	}
	if r.DestinationEndpoint == "" {
		return fmt.Errorf("%w: destination_endpoint is required", ErrInvalidInput)
	}
	if len(r.Items) == 0 {
		return fmt.Errorf("%w: DATA must contain at least one item", ErrInvalidInput)
	}
	for i, item := range r.Items {
		if item.SourcePath == "" || item.DestinationPath == "" {
			return fmt.Errorf("%w: DATA[%d] needs source_path and destination_path", ErrInvalidInput, i)
		}
	}
	return nil
}

// Document converts the request into a Transfer API document.
func (r *Request) Document() *transfer.Document {
	doc := transfer.NewDocument(r.SourceEndpoint, r.DestinationEndpoint, r.Label)
	for _, item := range r.Items {
		doc.AddItem(item.SourcePath, item.DestinationPath, item.Recursive)
	}
	return doc
}
