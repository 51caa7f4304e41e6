package analysis

import "errors"

var (
	// ErrUnsupportedType means no text adapter exists for the declared
	// document type. Fatal to the call.
	ErrUnsupportedType = errors.New("unsupported document type")

	// ErrNoTextContent means an adapter ran but produced no usable text.
	// Fatal to the call.
	ErrNoTextContent = errors.New("could not extract text from document")

	// ErrBackend marks a primary-extraction failure (transport error,
	// invalid JSON, or schema mismatch). Recovered locally by falling back
	// to rule-based extraction; never surfaced from ProcessDocument.
	ErrBackend = errors.New("extraction backend error")
)
