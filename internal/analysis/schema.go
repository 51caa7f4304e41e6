package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// buildExtractionSchema returns the JSON Schema (draft 2020-12 subset) the
// model-based extractor's output must satisfy. "Valid JSON but wrong shape"
// is treated the same as invalid JSON: both are backend errors.
func buildExtractionSchema() map[string]any {
	optionalString := map[string]any{"type": []string{"string", "null"}}

	fieldProps := map[string]any{
		"field_name": map[string]any{"type": "string"},
		"field_type": map[string]any{"type": "string", "enum": ValidFieldTypes},
		"label":      map[string]any{"type": "string"},
		"required":   map[string]any{"type": "boolean"},
		"description": map[string]any{
			"type": []string{"string", "null"},
		},
		"options": map[string]any{
			"type":  []string{"array", "null"},
			"items": map[string]any{"type": "string"},
		},
		"validation":       optionalString,
		"confidence_score": map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
		"source_text":      optionalString,
	}

	sectionProps := map[string]any{
		"section_title": map[string]any{"type": "string"},
		"fields": map[string]any{
			"type":  []string{"array", "null"},
			"items": map[string]any{"type": "string"},
		},
		"description": optionalString,
	}

	keyInfoProps := map[string]any{
		"deadline":            optionalString,
		"contact_person":      optionalString,
		"submission_method":   optionalString,
		"evaluation_criteria": optionalString,
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"document_type": map[string]any{"type": "string", "minLength": 1},
			"title":         map[string]any{"type": "string"},
			"form_fields": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"properties":           fieldProps,
					"required":             []string{"field_name", "field_type", "label"},
				},
			},
			"requirements": map[string]any{
				"type":  []string{"array", "null"},
				"items": map[string]any{"type": "string"},
			},
			"sections": map[string]any{
				"type": []string{"array", "null"},
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"properties":           sectionProps,
					"required":             []string{"section_title"},
				},
			},
			"key_information": map[string]any{
				"type":                 []string{"object", "null"},
				"additionalProperties": false,
				"properties":           keyInfoProps,
			},
		},
		"required": []string{"document_type", "form_fields"},
	}
}

var extractionSchema = mustCompileSchema(buildExtractionSchema())

func mustCompileSchema(schemaMap map[string]any) *jsonschema.Schema {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		panic(fmt.Sprintf("marshal extraction schema: %v", err))
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("extraction.json", bytes.NewReader(b)); err != nil {
		panic(fmt.Sprintf("add extraction schema: %v", err))
	}
	schema, err := compiler.Compile("extraction.json")
	if err != nil {
		panic(fmt.Sprintf("compile extraction schema: %v", err))
	}
	return schema
}

// ParseExtractionResult strictly decodes a model response into an
// ExtractionResult. Entries that do not conform are rejected, never coerced.
func ParseExtractionResult(raw []byte) (ExtractionResult, error) {
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return ExtractionResult{}, fmt.Errorf("%w: invalid JSON: %v", ErrBackend, err)
	}
	if err := extractionSchema.Validate(generic); err != nil {
		return ExtractionResult{}, fmt.Errorf("%w: schema mismatch: %v", ErrBackend, err)
	}

	var res ExtractionResult
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&res); err != nil {
		return ExtractionResult{}, fmt.Errorf("%w: decode payload: %v", ErrBackend, err)
	}

	// The model never decides review flags; reset whatever it may have set.
	res.ConfidenceScore = 0
	res.NeedsHumanReview = false
	for i := range res.FormFields {
		res.FormFields[i].NeedsReview = false
	}
	return res, nil
}
