package analysis

import (
	"fmt"
	"strings"
)

// Validation issue severities.
const (
	SeverityError         = "error"
	SeverityWarning       = "warning"
	SeverityLowConfidence = "low_confidence"
)

// ValidationIssue is an advisory finding about an extracted field. It is
// returned as data for display and manual correction; it never blocks
// processing.
type ValidationIssue struct {
	Field    string `json:"field"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// ValidateFields runs post-hoc structural and semantic checks over extracted
// fields. It runs after scoring, never mutates its input and never recomputes
// confidence. reviewThreshold is the same cut point that gates strategy
// fallback, reused here per field.
func ValidateFields(fields []ExtractedField, reviewThreshold float64) []ValidationIssue {
	var issues []ValidationIssue
	for _, field := range fields {
		if field.Required && field.FieldName == "" {
			issues = append(issues, ValidationIssue{
				Field:    field.Label,
				Severity: SeverityError,
				Message:  "required field name is missing",
			})
		}

		if !IsValidFieldType(field.FieldType) {
			issues = append(issues, ValidationIssue{
				Field:    field.Label,
				Severity: SeverityError,
				Message:  fmt.Sprintf("invalid field type: %s", field.FieldType),
			})
		}

		if field.FieldType == FieldTypeDropdown && len(field.Options) == 0 {
			issues = append(issues, ValidationIssue{
				Field:    field.Label,
				Severity: SeverityError,
				Message:  "dropdown field has no options",
			})
		}

		if field.FieldType == FieldTypeTel && field.Validation != "" {
			if strings.Contains(field.Validation, "pattern:") && !strings.Contains(field.Validation, "+372") {
				issues = append(issues, ValidationIssue{
					Field:    field.Label,
					Severity: SeverityWarning,
					Message:  "phone validation should include Estonian format (+372)",
				})
			}
		}

		if field.ConfidenceScore < reviewThreshold {
			issues = append(issues, ValidationIssue{
				Field:    field.Label,
				Severity: SeverityLowConfidence,
				Message:  fmt.Sprintf("low confidence score: %.2f", field.ConfidenceScore),
			})
		}
	}
	return issues
}
