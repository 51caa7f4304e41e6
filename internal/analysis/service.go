package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"hange-backend/internal/cache"
	"hange-backend/internal/extract"
	"hange-backend/internal/normalize"
	"hange-backend/internal/shared/metrics"
)

const defaultTitle = "Untitled"

// Service runs the full document pipeline: adapter, normalizer, cache,
// dual-strategy extraction, scoring, triage and assembly.
type Service struct {
	Cache      cache.Store
	Extractor  *Extractor
	Thresholds Thresholds
	Logger     *zap.Logger
}

// NewService wires a Service. A nil cache degrades to always-recompute.
func NewService(store cache.Store, extractor *Extractor, thresholds Thresholds, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{Cache: store, Extractor: extractor, Thresholds: thresholds, Logger: logger}
}

// ProcessDocument turns raw document bytes into a DocumentAnalysis. Only
// unsupported-type and no-text failures propagate; backend and cache errors
// degrade gracefully into a lower-confidence result.
func (s *Service) ProcessDocument(ctx context.Context, data []byte, documentType string) (DocumentAnalysis, error) {
	start := time.Now()
	metrics.IncExtractionStarted()

	documentType = strings.ToLower(strings.TrimSpace(documentType))
	if !extract.Supported(documentType) {
		metrics.IncExtractionFailed()
		return DocumentAnalysis{}, fmt.Errorf("%w: %s", ErrUnsupportedType, documentType)
	}

	rawText, err := extract.Text(ctx, data, documentType)
	if err != nil {
		metrics.IncExtractionFailed()
		return DocumentAnalysis{}, fmt.Errorf("%w: %v", ErrNoTextContent, err)
	}
	text := normalize.Normalize(rawText)
	if text == "" {
		metrics.IncExtractionFailed()
		return DocumentAnalysis{}, ErrNoTextContent
	}

	if cached := s.cacheGet(ctx, text); cached != nil {
		elapsed := time.Since(start)
		metrics.IncExtractionCacheHit()
		metrics.IncExtractionCompleted()
		metrics.ObserveExtractionDurationMs(float64(elapsed) / float64(time.Millisecond))
		return assemble(*cached, documentType, elapsed, true), nil
	}

	res, strategy, err := s.Extractor.Extract(ctx, text, documentType)
	if err != nil {
		metrics.IncExtractionFailed()
		return DocumentAnalysis{}, err
	}

	score := Score(res)
	res.ConfidenceScore = score
	res.NeedsHumanReview = s.Thresholds.NeedsReview(score)

	s.cachePut(ctx, text, documentType, res)

	s.Logger.Info("document processed",
		zap.String("document_type", documentType),
		zap.String("strategy", string(strategy)),
		zap.Float64("confidence_score", score),
		zap.Bool("needs_human_review", res.NeedsHumanReview))

	elapsed := time.Since(start)
	metrics.IncExtractionCompleted()
	metrics.ObserveExtractionDurationMs(float64(elapsed) / float64(time.Millisecond))
	return assemble(res, documentType, elapsed, false), nil
}

// Validate runs the field validator with the service's review threshold.
func (s *Service) Validate(fields []ExtractedField) []ValidationIssue {
	return ValidateFields(fields, s.Thresholds.Review)
}

// cacheGet treats every cache failure, including a corrupt stored payload,
// as a miss.
func (s *Service) cacheGet(ctx context.Context, text string) *ExtractionResult {
	if s.Cache == nil {
		return nil
	}
	entry, err := s.Cache.Get(ctx, text)
	if err != nil {
		s.Logger.Warn("cache lookup failed, treating as miss", zap.Error(err))
		return nil
	}
	if entry == nil {
		return nil
	}
	var res ExtractionResult
	if err := json.Unmarshal(entry.Payload, &res); err != nil {
		s.Logger.Warn("corrupt cache payload, treating as miss",
			zap.String("content_hash", entry.ContentHash[:8]), zap.Error(err))
		return nil
	}
	s.Logger.Info("cache hit",
		zap.String("content_hash", entry.ContentHash[:8]),
		zap.Int64("access_count", entry.AccessCount))
	return &res
}

// cachePut is best-effort: a failed write is logged and swallowed.
func (s *Service) cachePut(ctx context.Context, text, documentType string, res ExtractionResult) {
	if s.Cache == nil {
		return
	}
	payload, err := json.Marshal(res)
	if err != nil {
		s.Logger.Warn("cache payload marshal failed", zap.Error(err))
		return
	}
	if err := s.Cache.Put(ctx, text, documentType, payload, res.ConfidenceScore); err != nil {
		s.Logger.Warn("cache store failed", zap.Error(err))
	}
}

func assemble(res ExtractionResult, declaredType string, elapsed time.Duration, cacheHit bool) DocumentAnalysis {
	docType := res.DocumentType
	if docType == "" {
		docType = declaredType
	}
	title := res.Title
	if title == "" {
		title = defaultTitle
	}
	return DocumentAnalysis{
		DocumentType:     docType,
		Title:            title,
		FormFields:       res.FormFields,
		Requirements:     res.Requirements,
		Sections:         res.Sections,
		KeyInformation:   res.KeyInformation,
		ConfidenceScore:  res.ConfidenceScore,
		ProcessingTime:   elapsed.Seconds(),
		CacheHit:         cacheHit,
		NeedsHumanReview: res.NeedsHumanReview,
	}
}
