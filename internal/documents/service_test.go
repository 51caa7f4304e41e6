package documents

import (
	"context"
	"testing"

	localstore "hange-backend/internal/shared/storage/object/local"
)

func TestIngestRecordsMetadata(t *testing.T) {
	svc := &Service{Store: localstore.New(t.TempDir()), Repo: NewMemoryRepo()}

	data := []byte("Hanketeade: IT-teenuste ost")
	doc, err := svc.Ingest(context.Background(), "hanketeade.txt", "", data)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	if doc.ID == "" {
		t.Error("id must be assigned")
	}
	if doc.DocumentType != "txt" {
		t.Errorf("document_type = %q, want txt from extension", doc.DocumentType)
	}
	if doc.SizeBytes != int64(len(data)) {
		t.Errorf("size = %d, want %d", doc.SizeBytes, len(data))
	}
	if doc.ContentDigest == "" || doc.StorageKey == "" {
		t.Errorf("digest/key missing: %+v", doc)
	}

	got, err := svc.Get(context.Background(), doc.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.FileName != "hanketeade.txt" {
		t.Errorf("file_name = %q", got.FileName)
	}
}

func TestIngestDeclaredTypeWins(t *testing.T) {
	svc := &Service{Store: localstore.New(t.TempDir()), Repo: NewMemoryRepo()}

	doc, err := svc.Ingest(context.Background(), "leping.bin", "pdf", []byte("%PDF-1.4"))
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if doc.DocumentType != "pdf" {
		t.Errorf("document_type = %q, want declared pdf", doc.DocumentType)
	}
}

func TestIngestRequiresFileName(t *testing.T) {
	svc := &Service{Store: localstore.New(t.TempDir()), Repo: NewMemoryRepo()}

	if _, err := svc.Ingest(context.Background(), "", "", []byte("x")); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	svc := &Service{Store: localstore.New(t.TempDir()), Repo: NewMemoryRepo()}
	ctx := context.Background()

	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		if _, err := svc.Ingest(ctx, name, "", []byte(name)); err != nil {
			t.Fatalf("Ingest %s: %v", name, err)
		}
	}

	docs, err := svc.List(ctx, 2, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("len = %d, want 2", len(docs))
	}
	if docs[0].CreatedAt.Before(docs[1].CreatedAt) {
		t.Error("documents must be newest-first")
	}
}
