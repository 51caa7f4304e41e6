package analysis

import (
	"context"

	"go.uber.org/zap"

	"hange-backend/internal/llm"
)

// DefaultContentWindow bounds how much document text is sent to the backend.
const DefaultContentWindow = 12000

// Extractor runs the dual-strategy field extraction: one model-based attempt,
// then the rule-based fallback when the attempt fails or scores too low.
type Extractor struct {
	Client         llm.Client
	Thresholds     Thresholds
	RuleConfidence float64
	ContentWindow  int
	Logger         *zap.Logger
}

// NewExtractor builds an Extractor with defaults filled in.
func NewExtractor(client llm.Client, thresholds Thresholds, ruleConfidence float64, contentWindow int, logger *zap.Logger) *Extractor {
	if client == nil {
		client = llm.PlaceholderClient{}
	}
	if ruleConfidence <= 0 || ruleConfidence > 1 {
		ruleConfidence = DefaultRuleConfidence
	}
	if contentWindow <= 0 {
		contentWindow = DefaultContentWindow
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		Client:         client,
		Thresholds:     thresholds,
		RuleConfidence: ruleConfidence,
		ContentWindow:  contentWindow,
		Logger:         logger,
	}
}

// Extract attempts the model strategy once and falls back to rules on error
// or on a sub-review score. One shot: no retry loop and no blending of
// partial results from both strategies.
func (e *Extractor) Extract(ctx context.Context, normalizedText, documentType string) (ExtractionResult, Strategy, error) {
	res, err := e.extractWithModel(ctx, normalizedText, documentType)
	if err == nil {
		if score := Score(res); !e.Thresholds.BelowReview(score) {
			return res, StrategyModel, nil
		}
		e.Logger.Info("model extraction scored below review threshold, using rules",
			zap.String("document_type", documentType))
	} else {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ExtractionResult{}, "", ctxErr
		}
		e.Logger.Warn("model extraction failed, using rules",
			zap.String("document_type", documentType), zap.Error(err))
	}

	return extractWithRules(normalizedText, documentType, e.RuleConfidence), StrategyRules, nil
}

func (e *Extractor) extractWithModel(ctx context.Context, normalizedText, documentType string) (ExtractionResult, error) {
	input := llm.ExtractInput{
		DocumentText: truncateRunes(normalizedText, e.ContentWindow),
		DocumentType: documentType,
	}
	raw, err := e.Client.ExtractFields(ctx, input)
	if err != nil {
		return ExtractionResult{}, err
	}
	return ParseExtractionResult(raw)
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
