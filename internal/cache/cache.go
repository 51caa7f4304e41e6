// Package cache provides the content-addressed extraction cache. Entries are
// keyed by the SHA-256 digest of normalized document text and store the full
// serialized extraction payload. The cache is a performance optimization,
// never a source of truth: callers must treat every error as a miss.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"hange-backend/internal/shared/util"
)

// Entry is one cached extraction result plus its access statistics.
type Entry struct {
	ContentHash     string
	DocumentType    string
	Payload         json.RawMessage
	ConfidenceScore float64
	CreatedAt       time.Time
	AccessCount     int64
	LastAccessed    time.Time
}

// Stats summarizes cache usage.
type Stats struct {
	Entries       int64 `json:"entries"`
	TotalAccesses int64 `json:"total_accesses"`
}

// Store is the cache contract. Get returns nil on a miss (absence, not an
// error) and bumps access statistics on a hit. Put upserts with replace
// semantics: re-storing a hash overwrites the payload and resets the access
// metadata, it never merges. Concurrent upserts to the same key are
// last-write-wins.
type Store interface {
	Get(ctx context.Context, text string) (*Entry, error)
	Put(ctx context.Context, text, documentType string, payload json.RawMessage, confidence float64) error
	Stats(ctx context.Context) (Stats, error)
}

// Digest computes the cache key for a normalized text.
func Digest(text string) string {
	return util.HashContent(text)
}
