package documents

import "time"

// Document records metadata for an ingested procurement document.
type Document struct {
	ID            string
	FileName      string
	DocumentType  string
	MimeType      string
	SizeBytes     int64
	ContentDigest string
	StorageKey    string
	CreatedAt     time.Time
}
