package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// PGStore implements Store using Postgres. The document_cache table is
// created by the embedded migrations.
type PGStore struct {
	DB *sql.DB
}

// Get looks up the digest and, on a hit, bumps access statistics.
func (s *PGStore) Get(ctx context.Context, text string) (*Entry, error) {
	hash := Digest(text)

	const query = `
SELECT content_hash, document_type, extraction_result, confidence_score, created_at, access_count, last_accessed
FROM document_cache
WHERE content_hash = $1`

	var entry Entry
	err := s.DB.QueryRowContext(ctx, query, hash).Scan(
		&entry.ContentHash,
		&entry.DocumentType,
		&entry.Payload,
		&entry.ConfidenceScore,
		&entry.CreatedAt,
		&entry.AccessCount,
		&entry.LastAccessed,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	const bump = `
UPDATE document_cache
SET access_count = access_count + 1, last_accessed = now()
WHERE content_hash = $1`
	if _, err := s.DB.ExecContext(ctx, bump, hash); err != nil {
		return nil, err
	}
	entry.AccessCount++
	return &entry, nil
}

// Put upserts by digest with replace semantics.
func (s *PGStore) Put(ctx context.Context, text, documentType string, payload json.RawMessage, confidence float64) error {
	const query = `
INSERT INTO document_cache (content_hash, document_type, extraction_result, confidence_score, created_at, access_count, last_accessed)
VALUES ($1, $2, $3, $4, now(), 1, now())
ON CONFLICT (content_hash) DO UPDATE SET
	document_type = EXCLUDED.document_type,
	extraction_result = EXCLUDED.extraction_result,
	confidence_score = EXCLUDED.confidence_score,
	created_at = now(),
	access_count = 1,
	last_accessed = now()`
	_, err := s.DB.ExecContext(ctx, query, Digest(text), documentType, []byte(payload), confidence)
	return err
}

// Stats reports entry and access counts.
func (s *PGStore) Stats(ctx context.Context) (Stats, error) {
	const query = `SELECT count(*), coalesce(sum(access_count), 0) FROM document_cache`
	var stats Stats
	if err := s.DB.QueryRowContext(ctx, query).Scan(&stats.Entries, &stats.TotalAccesses); err != nil {
		return Stats{}, err
	}
	return stats, nil
}
