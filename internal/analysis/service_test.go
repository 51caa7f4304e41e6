package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"hange-backend/internal/cache"
	"hange-backend/internal/shared/metrics"
)

type failingStore struct{}

func (failingStore) Get(ctx context.Context, text string) (*cache.Entry, error) {
	return nil, errors.New("disk full")
}

func (failingStore) Put(ctx context.Context, text, documentType string, payload json.RawMessage, confidence float64) error {
	return errors.New("disk full")
}

func (failingStore) Stats(ctx context.Context) (cache.Stats, error) {
	return cache.Stats{}, errors.New("disk full")
}

func newTestService(store cache.Store, client *stubClient) *Service {
	e := newTestExtractor(client)
	return NewService(store, e, DefaultThresholds(), nil)
}

func TestProcessDocumentCacheMissThenHit(t *testing.T) {
	store := cache.NewMemoryStore()
	client := &stubClient{raw: json.RawMessage(validPayload)}
	svc := newTestService(store, client)

	data := []byte("Pakkuja registrikood: 12345678. Kontakt: info@example.ee")

	first, err := svc.ProcessDocument(context.Background(), data, "txt")
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	if first.CacheHit {
		t.Fatal("first pass must be a miss")
	}

	second, err := svc.ProcessDocument(context.Background(), data, "txt")
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if !second.CacheHit {
		t.Fatal("second pass must be a hit")
	}
	if client.calls != 1 {
		t.Fatalf("backend called %d times, want 1", client.calls)
	}
	if !reflect.DeepEqual(first.FormFields, second.FormFields) {
		t.Errorf("cached fields diverge:\n%+v\n%+v", first.FormFields, second.FormFields)
	}
	if second.ConfidenceScore != first.ConfidenceScore {
		t.Errorf("confidence diverges: %v vs %v", first.ConfidenceScore, second.ConfidenceScore)
	}

	stats, err := store.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Entries != 1 {
		t.Errorf("entries = %d, want 1", stats.Entries)
	}
}

func TestProcessDocumentUnsupportedType(t *testing.T) {
	store := cache.NewMemoryStore()
	svc := newTestService(store, &stubClient{raw: json.RawMessage(validPayload)})

	_, err := svc.ProcessDocument(context.Background(), []byte("x"), "bin")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}

	stats, _ := store.Stats(context.Background())
	if stats.Entries != 0 {
		t.Errorf("unsupported input must not be cached, entries = %d", stats.Entries)
	}
}

func TestProcessDocumentEmptyContent(t *testing.T) {
	svc := newTestService(cache.NewMemoryStore(), &stubClient{raw: json.RawMessage(validPayload)})

	_, err := svc.ProcessDocument(context.Background(), []byte("   \n\t  "), "txt")
	if !errors.Is(err, ErrNoTextContent) {
		t.Fatalf("expected ErrNoTextContent, got %v", err)
	}
}

func TestProcessDocumentLowConfidenceFlagged(t *testing.T) {
	// Rules find nothing in this text, so the result scores 0.0.
	client := &stubClient{err: errors.New("backend down")}
	svc := newTestService(cache.NewMemoryStore(), client)

	analysis, err := svc.ProcessDocument(context.Background(), []byte("lorem ipsum dolor"), "txt")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if analysis.ConfidenceScore != 0.0 {
		t.Errorf("confidence = %v, want 0.0", analysis.ConfidenceScore)
	}
	if !analysis.NeedsHumanReview {
		t.Error("zero-confidence result must be flagged for review")
	}
	if analysis.Title != "Rule-based extraction" {
		t.Errorf("title = %q", analysis.Title)
	}
}

func TestProcessDocumentFailingCacheDegrades(t *testing.T) {
	client := &stubClient{raw: json.RawMessage(validPayload)}
	svc := newTestService(failingStore{}, client)

	data := []byte("Hankija: AS Näidis")
	for i := 0; i < 2; i++ {
		analysis, err := svc.ProcessDocument(context.Background(), data, "txt")
		if err != nil {
			t.Fatalf("pass %d: %v", i, err)
		}
		if analysis.CacheHit {
			t.Errorf("pass %d: broken cache must never report a hit", i)
		}
		if analysis.DocumentType != "hanketeade" {
			t.Errorf("pass %d: document_type = %q", i, analysis.DocumentType)
		}
	}
	if client.calls != 2 {
		t.Errorf("backend called %d times, want 2", client.calls)
	}
}

func TestProcessDocumentNilCache(t *testing.T) {
	client := &stubClient{raw: json.RawMessage(validPayload)}
	svc := newTestService(nil, client)

	analysis, err := svc.ProcessDocument(context.Background(), []byte("sisu"), "txt")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if analysis.CacheHit {
		t.Error("nil cache must never hit")
	}
}

func TestProcessDocumentDefaultsDeclaredType(t *testing.T) {
	client := &stubClient{raw: json.RawMessage(`{"document_type": "", "form_fields": []}`)}
	svc := newTestService(cache.NewMemoryStore(), client)

	analysis, err := svc.ProcessDocument(context.Background(), []byte("registrikood 10203040"), "txt")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if analysis.DocumentType != "txt" {
		t.Errorf("document_type = %q, want declared txt", analysis.DocumentType)
	}
}

func metricValue(t *testing.T, rendered, name string) uint64 {
	t.Helper()
	for _, line := range strings.Split(rendered, "\n") {
		if !strings.HasPrefix(line, name+" ") {
			continue
		}
		val, err := strconv.ParseUint(strings.TrimPrefix(line, name+" "), 10, 64)
		if err != nil {
			t.Fatalf("parse %s: %v", name, err)
		}
		return val
	}
	t.Fatalf("metric %s not rendered", name)
	return 0
}

func TestProcessDocumentRecordsMetrics(t *testing.T) {
	store := cache.NewMemoryStore()
	client := &stubClient{raw: json.RawMessage(validPayload)}
	svc := newTestService(store, client)

	before := metrics.Render()

	data := []byte("Hankija registrikood: 10203040")
	if _, err := svc.ProcessDocument(context.Background(), data, "txt"); err != nil {
		t.Fatalf("miss pass: %v", err)
	}
	if _, err := svc.ProcessDocument(context.Background(), data, "txt"); err != nil {
		t.Fatalf("hit pass: %v", err)
	}
	if _, err := svc.ProcessDocument(context.Background(), data, "bin"); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected unsupported-type failure, got %v", err)
	}

	after := metrics.Render()
	deltas := map[string]uint64{
		"extraction_started_total":     3,
		"extraction_completed_total":   2,
		"extraction_failed_total":      1,
		"extraction_cache_hits_total":  1,
		"extraction_duration_ms_count": 2,
	}
	for name, want := range deltas {
		got := metricValue(t, after, name) - metricValue(t, before, name)
		if got != want {
			t.Errorf("%s delta = %d, want %d", name, got, want)
		}
	}
}
