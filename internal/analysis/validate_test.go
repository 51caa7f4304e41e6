package analysis

import (
	"reflect"
	"testing"
)

func TestValidateFieldsChecks(t *testing.T) {
	fields := []ExtractedField{
		{FieldName: "", FieldType: FieldTypeText, Label: "Nimi", Required: true, ConfidenceScore: 0.9},
		{FieldName: "amount", FieldType: "money", Label: "Summa", ConfidenceScore: 0.9},
		{FieldName: "phone", FieldType: FieldTypeTel, Label: "Telefon", Validation: "pattern:^[0-9]+$", ConfidenceScore: 0.9},
		{FieldName: "email", FieldType: FieldTypeEmail, Label: "E-post", ConfidenceScore: 0.2},
		{FieldName: "ok", FieldType: FieldTypeText, Label: "Korras", ConfidenceScore: 0.9},
	}

	issues := ValidateFields(fields, DefaultReviewThreshold)

	counts := map[string]int{}
	for _, issue := range issues {
		counts[issue.Severity]++
	}
	if counts[SeverityError] != 2 {
		t.Errorf("expected 2 errors, got %d: %+v", counts[SeverityError], issues)
	}
	if counts[SeverityWarning] != 1 {
		t.Errorf("expected 1 warning, got %d: %+v", counts[SeverityWarning], issues)
	}
	if counts[SeverityLowConfidence] != 1 {
		t.Errorf("expected 1 low-confidence flag, got %d: %+v", counts[SeverityLowConfidence], issues)
	}
}

func TestValidateFieldsTelWithCountryCodePasses(t *testing.T) {
	fields := []ExtractedField{
		{FieldName: "phone", FieldType: FieldTypeTel, Label: "Telefon",
			Validation: `pattern:^\+372 \d{3,4} \d{4}$`, ConfidenceScore: 0.9},
	}
	if issues := ValidateFields(fields, DefaultReviewThreshold); len(issues) != 0 {
		t.Fatalf("expected no issues, got %+v", issues)
	}
}

func TestValidateFieldsIndependentAndPure(t *testing.T) {
	fields := []ExtractedField{
		{FieldName: "a", FieldType: "bogus", Label: "A", ConfidenceScore: 0.3},
		{FieldName: "b", FieldType: FieldTypeText, Label: "B", ConfidenceScore: 0.9},
	}
	snapshot := append([]ExtractedField(nil), fields...)

	first := ValidateFields(fields, DefaultReviewThreshold)
	second := ValidateFields(fields, DefaultReviewThreshold)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("validation is not deterministic: %+v vs %+v", first, second)
	}
	if !reflect.DeepEqual(fields, snapshot) {
		t.Fatalf("validation mutated its input: %+v", fields)
	}
}

func TestValidateFieldsDropdownNeedsOptions(t *testing.T) {
	fields := []ExtractedField{
		{FieldName: "submission_channel", FieldType: FieldTypeDropdown, Label: "Esitamise viis",
			ConfidenceScore: 0.9},
		{FieldName: "region", FieldType: FieldTypeDropdown, Label: "Piirkond",
			Options: []string{"Harjumaa", "Tartumaa"}, ConfidenceScore: 0.9},
	}

	issues := ValidateFields(fields, DefaultReviewThreshold)
	if len(issues) != 1 {
		t.Fatalf("expected 1 issue, got %+v", issues)
	}
	if issues[0].Severity != SeverityError || issues[0].Field != "Esitamise viis" {
		t.Fatalf("unexpected issue: %+v", issues[0])
	}
}

func TestValidateFieldsEmptyInput(t *testing.T) {
	if issues := ValidateFields(nil, DefaultReviewThreshold); len(issues) != 0 {
		t.Fatalf("expected no issues for empty input, got %+v", issues)
	}
}
