package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Client abstracts the model backend used for structured field extraction.
// Implementations return a single JSON-shaped payload; the caller parses it
// strictly.
type Client interface {
	ExtractFields(ctx context.Context, input ExtractInput) (json.RawMessage, error)
}

// ExtractInput carries the document content and its declared type. Content is
// expected to be normalized and already truncated to the backend's content
// window by the caller.
type ExtractInput struct {
	DocumentText string
	DocumentType string
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("LLM backend not configured")

// PlaceholderClient is used when no backend is configured; every call fails,
// which pushes the extraction pipeline onto its rule-based fallback.
type PlaceholderClient struct{}

// ExtractFields returns ErrNotConfigured.
func (PlaceholderClient) ExtractFields(ctx context.Context, input ExtractInput) (json.RawMessage, error) {
	_ = ctx
	_ = input
	return nil, ErrNotConfigured
}
