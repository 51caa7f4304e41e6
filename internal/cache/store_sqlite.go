package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // register the pure-Go sqlite driver
)

const sqliteTimeFormat = "2006-01-02 15:04:05"

// SQLiteStore implements Store using an embedded SQLite database, matching
// the single-file cache the service ran on originally. The schema is created
// on open.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the cache database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite cache path is empty")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite cache: %w", err)
	}
	// modernc.org/sqlite serializes writes itself; a single connection
	// avoids SQLITE_BUSY churn under concurrent upserts.
	db.SetMaxOpenConns(1)

	const schema = `
CREATE TABLE IF NOT EXISTS document_cache (
	content_hash TEXT PRIMARY KEY,
	document_type TEXT,
	extraction_result TEXT,
	confidence_score REAL,
	created_at TEXT,
	access_count INTEGER DEFAULT 1,
	last_accessed TEXT
)`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Get looks up the digest and, on a hit, bumps access statistics.
func (s *SQLiteStore) Get(ctx context.Context, text string) (*Entry, error) {
	hash := Digest(text)

	const query = `
SELECT content_hash, document_type, extraction_result, confidence_score, created_at, access_count, last_accessed
FROM document_cache
WHERE content_hash = ?`

	var entry Entry
	var payload string
	var createdAt, lastAccessed string
	err := s.db.QueryRowContext(ctx, query, hash).Scan(
		&entry.ContentHash,
		&entry.DocumentType,
		&payload,
		&entry.ConfidenceScore,
		&createdAt,
		&entry.AccessCount,
		&lastAccessed,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	entry.Payload = json.RawMessage(payload)
	entry.CreatedAt = parseSQLiteTime(createdAt)
	entry.LastAccessed = parseSQLiteTime(lastAccessed)

	const bump = `
UPDATE document_cache
SET access_count = access_count + 1, last_accessed = ?
WHERE content_hash = ?`
	now := time.Now().UTC()
	if _, err := s.db.ExecContext(ctx, bump, now.Format(sqliteTimeFormat), hash); err != nil {
		return nil, err
	}
	entry.AccessCount++
	entry.LastAccessed = now
	return &entry, nil
}

// Put upserts by digest with replace semantics, mirroring the original
// INSERT OR REPLACE behavior.
func (s *SQLiteStore) Put(ctx context.Context, text, documentType string, payload json.RawMessage, confidence float64) error {
	const query = `
INSERT OR REPLACE INTO document_cache
(content_hash, document_type, extraction_result, confidence_score, created_at, access_count, last_accessed)
VALUES (?, ?, ?, ?, ?, 1, ?)`
	now := time.Now().UTC().Format(sqliteTimeFormat)
	_, err := s.db.ExecContext(ctx, query, Digest(text), documentType, string(payload), confidence, now, now)
	return err
}

// Stats reports entry and access counts.
func (s *SQLiteStore) Stats(ctx context.Context) (Stats, error) {
	const query = `SELECT count(*), coalesce(sum(access_count), 0) FROM document_cache`
	var stats Stats
	if err := s.db.QueryRowContext(ctx, query).Scan(&stats.Entries, &stats.TotalAccesses); err != nil {
		return Stats{}, err
	}
	return stats, nil
}

func parseSQLiteTime(raw string) time.Time {
	t, err := time.Parse(sqliteTimeFormat, raw)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
