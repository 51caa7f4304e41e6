package cache

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
)

func openTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store := openTestSQLite(t)
	ctx := context.Background()

	if entry, err := store.Get(ctx, "tekst"); err != nil || entry != nil {
		t.Fatalf("fresh db: entry=%v err=%v", entry, err)
	}

	payload := json.RawMessage(`{"document_type":"hanketeade","form_fields":[]}`)
	if err := store.Put(ctx, "tekst", "docx", payload, 0.82); err != nil {
		t.Fatalf("put: %v", err)
	}

	entry, err := store.Get(ctx, "tekst")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if entry == nil {
		t.Fatal("expected a hit")
	}
	if entry.ContentHash != Digest("tekst") || entry.DocumentType != "docx" {
		t.Errorf("entry = %+v", entry)
	}
	if string(entry.Payload) != string(payload) {
		t.Errorf("payload = %s", entry.Payload)
	}
	if entry.AccessCount != 2 {
		t.Errorf("access_count = %d, want 2 after bump", entry.AccessCount)
	}
	if entry.CreatedAt.IsZero() || entry.LastAccessed.IsZero() {
		t.Errorf("timestamps missing: %+v", entry)
	}
}

func TestSQLiteStoreReplaceResetsMetadata(t *testing.T) {
	store := openTestSQLite(t)
	ctx := context.Background()

	if err := store.Put(ctx, "tekst", "docx", json.RawMessage(`{"v":1}`), 0.4); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if _, err := store.Get(ctx, "tekst"); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.Put(ctx, "tekst", "pdf", json.RawMessage(`{"v":2}`), 0.9); err != nil {
		t.Fatal(err)
	}

	entry, err := store.Get(ctx, "tekst")
	if err != nil || entry == nil {
		t.Fatalf("get after replace: entry=%v err=%v", entry, err)
	}
	if string(entry.Payload) != `{"v":2}` || entry.DocumentType != "pdf" {
		t.Errorf("replace did not take: %+v", entry)
	}
	if entry.AccessCount != 2 {
		t.Errorf("access_count = %d, replace must reset it", entry.AccessCount)
	}
}

func TestSQLiteStoreStats(t *testing.T) {
	store := openTestSQLite(t)
	ctx := context.Background()

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Entries != 0 || stats.TotalAccesses != 0 {
		t.Fatalf("empty stats = %+v", stats)
	}

	if err := store.Put(ctx, "üks", "txt", json.RawMessage(`1`), 0.5); err != nil {
		t.Fatal(err)
	}
	if err := store.Put(ctx, "kaks", "txt", json.RawMessage(`2`), 0.5); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Get(ctx, "üks"); err != nil {
		t.Fatal(err)
	}

	stats, err = store.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Entries != 2 {
		t.Errorf("entries = %d, want 2", stats.Entries)
	}
	if stats.TotalAccesses != 3 {
		t.Errorf("total_accesses = %d, want 3", stats.TotalAccesses)
	}
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	if _, err := OpenSQLite(context.Background(), ""); err == nil {
		t.Fatal("empty path must be rejected")
	}
}
