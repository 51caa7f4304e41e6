package analysis

// Scoring weights. They total 1.0 and are never redistributed: a category
// with an empty denominator contributes zero while its weight still counts.
const (
	weightCompleteness = 0.30
	weightTypeValidity = 0.25
	weightRequirements = 0.20
	weightSections     = 0.15
	weightKeyInfo      = 0.10

	// Saturation points for the count-based categories.
	requirementsSaturation = 5
	sectionsSaturation     = 4
	keyInfoSlots           = 4
)

// Score computes the document-level confidence score in [0, 1] as a weighted
// sum of five sub-scores. Pure function; it does not touch the per-field
// confidence scores the extractor produced.
func Score(res ExtractionResult) float64 {
	score := 0.0
	totalWeight := 0.0

	fields := res.FormFields
	if len(fields) > 0 {
		complete := 0
		validType := 0
		for _, f := range fields {
			if f.FieldName != "" && f.FieldType != "" {
				complete++
			}
			if IsValidFieldType(f.FieldType) {
				validType++
			}
		}
		score += float64(complete) / float64(len(fields)) * weightCompleteness
		score += float64(validType) / float64(len(fields)) * weightTypeValidity
	}
	totalWeight += weightCompleteness
	totalWeight += weightTypeValidity

	if len(res.Requirements) > 0 {
		score += saturate(len(res.Requirements), requirementsSaturation) * weightRequirements
	}
	totalWeight += weightRequirements

	if len(res.Sections) > 0 {
		score += saturate(len(res.Sections), sectionsSaturation) * weightSections
	}
	totalWeight += weightSections

	if n := res.KeyInformation.NonEmptyCount(); n > 0 {
		score += saturate(n, keyInfoSlots) * weightKeyInfo
	}
	totalWeight += weightKeyInfo

	if totalWeight == 0 {
		return 0.0
	}
	return score / totalWeight
}

func saturate(count, cap int) float64 {
	ratio := float64(count) / float64(cap)
	if ratio > 1.0 {
		return 1.0
	}
	return ratio
}
