package analysis

import "fmt"

// Default policy cut points. They are tunable configuration, not
// semantically meaningful values.
const (
	DefaultConfidenceThreshold = 0.7
	DefaultReviewThreshold     = 0.5
	DefaultRuleConfidence      = 0.6
)

// Thresholds holds the two confidence cut points: Review gates the
// primary-vs-fallback strategy choice, Confidence gates the human-review flag
// on the assembled result. Review must not exceed Confidence.
type Thresholds struct {
	Confidence float64
	Review     float64
}

// DefaultThresholds returns the stock policy.
func DefaultThresholds() Thresholds {
	return Thresholds{Confidence: DefaultConfidenceThreshold, Review: DefaultReviewThreshold}
}

// NewThresholds validates and builds a Thresholds.
func NewThresholds(confidence, review float64) (Thresholds, error) {
	if confidence < 0 || confidence > 1 {
		return Thresholds{}, fmt.Errorf("confidence threshold %v out of range [0,1]", confidence)
	}
	if review < 0 || review > 1 {
		return Thresholds{}, fmt.Errorf("review threshold %v out of range [0,1]", review)
	}
	if review > confidence {
		return Thresholds{}, fmt.Errorf("review threshold %v exceeds confidence threshold %v", review, confidence)
	}
	return Thresholds{Confidence: confidence, Review: review}, nil
}

// NeedsReview reports whether a document-level score requires human review.
// Strict less-than: a score exactly at the threshold passes.
func (t Thresholds) NeedsReview(score float64) bool {
	return score < t.Confidence
}

// BelowReview reports whether a score is under the strategy-fallback cut.
func (t Thresholds) BelowReview(score float64) bool {
	return score < t.Review
}
