package documents

import (
	"bytes"
	"context"
	"time"

	"github.com/google/uuid"

	"hange-backend/internal/extract"
	"hange-backend/internal/shared/storage/object"
	"hange-backend/internal/shared/util"
)

// Service contains business logic for documents.
type Service struct {
	Store object.ObjectStore
	Repo  Repo
}

// Ingest saves the file to object storage and records its metadata. The
// document type defaults to the filename extension when not declared.
func (s *Service) Ingest(ctx context.Context, fileName, documentType string, data []byte) (Document, error) {
	if fileName == "" {
		return Document{}, ErrInvalidInput
	}
	if documentType == "" {
		documentType = extract.TypeFromFilename(fileName)
	}

	storageKey, size, mimeType, err := s.Store.Save(ctx, fileName, bytes.NewReader(data))
	if err != nil {
		return Document{}, err
	}

	doc := Document{
		ID:            uuid.NewString(),
		FileName:      fileName,
		DocumentType:  documentType,
		MimeType:      mimeType,
		SizeBytes:     size,
		ContentDigest: util.HashContent(string(data)),
		StorageKey:    storageKey,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Get returns a document by ID.
func (s *Service) Get(ctx context.Context, id string) (Document, error) {
	if id == "" {
		return Document{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, id)
}

// List returns stored documents newest-first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Document, error) {
	return s.Repo.List(ctx, limit, offset)
}
