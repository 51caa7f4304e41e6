package analysis

import (
	"errors"
	"testing"
)

const validPayload = `{
	"document_type": "hanketeade",
	"title": "Riigihange 2026",
	"form_fields": [
		{
			"field_name": "company_name",
			"field_type": "text",
			"label": "Ettevõtte nimi",
			"required": true,
			"description": "Pakkuja ärinimi",
			"confidence_score": 0.92,
			"source_text": "Ettevõtte nimi: ..."
		},
		{
			"field_name": "submission_channel",
			"field_type": "dropdown",
			"label": "Esitamise viis",
			"options": ["e-post", "riigihangete register"],
			"confidence_score": 0.8
		}
	],
	"requirements": ["Esita pakkumus hiljemalt 01.10.2026"],
	"sections": [
		{"section_title": "Pakkuja andmed", "fields": ["company_name"], "description": "Üldandmed"}
	],
	"key_information": {
		"deadline": "01.10.2026",
		"contact_person": "Jaan Tamm",
		"submission_method": null,
		"evaluation_criteria": null
	}
}`

func TestParseExtractionResultValid(t *testing.T) {
	res, err := ParseExtractionResult([]byte(validPayload))
	if err != nil {
		t.Fatalf("parse valid payload: %v", err)
	}
	if res.DocumentType != "hanketeade" {
		t.Errorf("document_type = %q", res.DocumentType)
	}
	if len(res.FormFields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(res.FormFields))
	}
	if res.FormFields[0].ConfidenceScore != 0.92 {
		t.Errorf("field confidence = %v", res.FormFields[0].ConfidenceScore)
	}
	if got := res.FormFields[1].Options; len(got) != 2 {
		t.Errorf("dropdown options = %v", got)
	}
	if res.KeyInformation.Deadline != "01.10.2026" {
		t.Errorf("deadline = %q", res.KeyInformation.Deadline)
	}
	if res.KeyInformation.SubmissionMethod != "" {
		t.Errorf("null submission_method should decode empty, got %q", res.KeyInformation.SubmissionMethod)
	}
	// Review decisions belong to the pipeline, not the model.
	if res.ConfidenceScore != 0 || res.NeedsHumanReview {
		t.Error("model response must not carry document-level review decisions")
	}
}

func TestParseExtractionResultInvalidJSON(t *testing.T) {
	_, err := ParseExtractionResult([]byte("not json at all"))
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
	if !errors.Is(err, ErrBackend) {
		t.Fatalf("expected ErrBackend, got %v", err)
	}
}

func TestParseExtractionResultWrongShape(t *testing.T) {
	cases := map[string]string{
		"missing document_type": `{"form_fields": []}`,
		"bad field_type":        `{"document_type": "x", "form_fields": [{"field_name": "a", "field_type": "wysiwyg", "label": "A"}]}`,
		"unknown top-level key": `{"document_type": "x", "form_fields": [], "surprise": 1}`,
		"fields not an array":   `{"document_type": "x", "form_fields": {"a": 1}}`,
		"confidence above one":  `{"document_type": "x", "form_fields": [{"field_name": "a", "field_type": "text", "label": "A", "confidence_score": 1.5}]}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseExtractionResult([]byte(payload))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrBackend) {
				t.Fatalf("expected ErrBackend, got %v", err)
			}
		})
	}
}
