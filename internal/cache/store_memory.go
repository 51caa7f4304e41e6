package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// MemoryStore keeps entries in memory and is safe for concurrent use. Used in
// tests and for running without any database.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*Entry
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*Entry)}
}

// Get returns a copy of the stored entry or nil on a miss.
func (s *MemoryStore) Get(ctx context.Context, text string) (*Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	hash := Digest(text)

	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[hash]
	if !ok {
		return nil, nil
	}
	entry.AccessCount++
	entry.LastAccessed = time.Now().UTC()

	copied := *entry
	copied.Payload = append(json.RawMessage(nil), entry.Payload...)
	return &copied, nil
}

// Put upserts an entry, replacing any previous payload and resetting access
// metadata.
func (s *MemoryStore) Put(ctx context.Context, text, documentType string, payload json.RawMessage, confidence float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := time.Now().UTC()
	entry := &Entry{
		ContentHash:     Digest(text),
		DocumentType:    documentType,
		Payload:         append(json.RawMessage(nil), payload...),
		ConfidenceScore: confidence,
		CreatedAt:       now,
		AccessCount:     1,
		LastAccessed:    now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.ContentHash] = entry
	return nil
}

// Stats reports entry and access counts.
func (s *MemoryStore) Stats(ctx context.Context) (Stats, error) {
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := Stats{Entries: int64(len(s.entries))}
	for _, e := range s.entries {
		stats.TotalAccesses += e.AccessCount
	}
	return stats, nil
}
