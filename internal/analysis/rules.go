package analysis

import (
	"regexp"
	"strings"
)

// Rule-based fallback extraction. Fires when the model strategy errors out or
// scores under the review threshold; it must never fail itself, worst case it
// returns an empty but well-formed result.

const ruleSourceText = "Rule-based detection"

// maxRequirementsPerPattern bounds the requirement lines harvested per
// label-prefix pattern.
const maxRequirementsPerPattern = 3

type fieldPattern struct {
	name    string
	pattern *regexp.Regexp
}

// Common Estonian procurement field markers.
var fieldPatterns = []fieldPattern{
	{"company_name", regexp.MustCompile(`(?i)(ettevõtte?\s+nimi|firma\s+nimi|ärinimi)`)},
	{"registration_number", regexp.MustCompile(`(?i)(registrikood|reg\.?\s*kood)`)},
	{"vat_number", regexp.MustCompile(`(?i)(kmkr?\s+number|käibemaksu)`)},
	{"contact_person", regexp.MustCompile(`(?i)(kontaktisik|vastutav\s+isik)`)},
	{"email", regexp.MustCompile(`(?i)(e-?post|email)`)},
	{"phone", regexp.MustCompile(`(?i)(telefon|tel\.?)`)},
	{"address", regexp.MustCompile(`(?i)(aadress|asukoht)`)},
}

var requirementPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)nõue[d]?:?\s*(.+)`),
	regexp.MustCompile(`(?i)tingimus[ed]?:?\s*(.+)`),
	regexp.MustCompile(`(?i)kriteerium[id]?:?\s*(.+)`),
}

// extractWithRules scans normalized text against the fixed pattern table.
// Every detected field carries the same fixed confidence score.
func extractWithRules(content, documentType string, ruleConfidence float64) ExtractionResult {
	var fields []ExtractedField
	for _, fp := range fieldPatterns {
		if !fp.pattern.MatchString(content) {
			continue
		}
		fieldType := FieldTypeText
		if strings.Contains(fp.name, "email") {
			fieldType = FieldTypeEmail
		}
		fields = append(fields, ExtractedField{
			FieldName:       fp.name,
			FieldType:       fieldType,
			Label:           titleFromFieldName(fp.name),
			Required:        true,
			Description:     "Auto-detected " + fp.name,
			ConfidenceScore: ruleConfidence,
			SourceText:      ruleSourceText,
		})
	}

	var requirements []string
	for _, pattern := range requirementPatterns {
		matches := pattern.FindAllStringSubmatch(content, -1)
		for i, m := range matches {
			if i >= maxRequirementsPerPattern {
				break
			}
			if req := strings.TrimSpace(m[1]); req != "" {
				requirements = append(requirements, req)
			}
		}
	}

	return ExtractionResult{
		DocumentType:   documentType,
		Title:          "Rule-based extraction",
		FormFields:     fields,
		Requirements:   requirements,
		Sections:       []Section{},
		KeyInformation: KeyInformation{},
	}
}

func titleFromFieldName(name string) string {
	parts := strings.Split(name, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}
