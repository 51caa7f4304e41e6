package analysis

// Field types the extraction schema accepts. The set is closed: anything else
// is rejected by the schema validator and flagged by the field validator.
const (
	FieldTypeText     = "text"
	FieldTypeNumber   = "number"
	FieldTypeEmail    = "email"
	FieldTypeTel      = "tel"
	FieldTypeDate     = "date"
	FieldTypeCheckbox = "checkbox"
	FieldTypeDropdown = "dropdown"
	FieldTypeTextarea = "textarea"
)

// ValidFieldTypes lists every accepted field type in schema order.
var ValidFieldTypes = []string{
	FieldTypeText,
	FieldTypeNumber,
	FieldTypeEmail,
	FieldTypeTel,
	FieldTypeDate,
	FieldTypeCheckbox,
	FieldTypeDropdown,
	FieldTypeTextarea,
}

// IsValidFieldType reports whether t belongs to the closed field-type set.
func IsValidFieldType(t string) bool {
	for _, v := range ValidFieldTypes {
		if t == v {
			return true
		}
	}
	return false
}

// ExtractedField is a single form field detected in a document.
type ExtractedField struct {
	FieldName       string   `json:"field_name"`
	FieldType       string   `json:"field_type"`
	Label           string   `json:"label"`
	Required        bool     `json:"required"`
	Description     string   `json:"description,omitempty"`
	Options         []string `json:"options,omitempty"`
	Validation      string   `json:"validation,omitempty"`
	ConfidenceScore float64  `json:"confidence_score"`
	SourceText      string   `json:"source_text,omitempty"`
	NeedsReview     bool     `json:"needs_review"`
}

// Section groups related fields for display. Purely organizational.
type Section struct {
	SectionTitle string   `json:"section_title"`
	Fields       []string `json:"fields,omitempty"`
	Description  string   `json:"description,omitempty"`
}

// KeyInformation holds the fixed set of document-level facts the extractor
// looks for. Empty string means the document did not mention it.
type KeyInformation struct {
	Deadline           string `json:"deadline,omitempty"`
	ContactPerson      string `json:"contact_person,omitempty"`
	SubmissionMethod   string `json:"submission_method,omitempty"`
	EvaluationCriteria string `json:"evaluation_criteria,omitempty"`
}

// NonEmptyCount returns how many of the four key-information slots are set.
func (k KeyInformation) NonEmptyCount() int {
	count := 0
	for _, v := range []string{k.Deadline, k.ContactPerson, k.SubmissionMethod, k.EvaluationCriteria} {
		if v != "" {
			count++
		}
	}
	return count
}

// ExtractionResult is the raw structured payload produced by either
// extraction strategy, before assembly into a DocumentAnalysis. The document
// level ConfidenceScore and NeedsHumanReview are attached by the pipeline
// after scoring and travel with the payload into the cache.
type ExtractionResult struct {
	DocumentType     string           `json:"document_type"`
	Title            string           `json:"title"`
	FormFields       []ExtractedField `json:"form_fields"`
	Requirements     []string         `json:"requirements"`
	Sections         []Section        `json:"sections"`
	KeyInformation   KeyInformation   `json:"key_information"`
	ConfidenceScore  float64          `json:"confidence_score"`
	NeedsHumanReview bool             `json:"needs_human_review"`
}

// DocumentAnalysis is the immutable unit returned to callers. It is built
// exactly once per ProcessDocument call and never partially updated.
type DocumentAnalysis struct {
	DocumentType     string           `json:"document_type"`
	Title            string           `json:"title"`
	FormFields       []ExtractedField `json:"form_fields"`
	Requirements     []string         `json:"requirements"`
	Sections         []Section        `json:"sections"`
	KeyInformation   KeyInformation   `json:"key_information"`
	ConfidenceScore  float64          `json:"confidence_score"`
	ProcessingTime   float64          `json:"processing_time"`
	CacheHit         bool             `json:"cache_hit"`
	NeedsHumanReview bool             `json:"needs_human_review"`
}

// Strategy identifies which extraction path produced a result.
type Strategy string

const (
	StrategyModel Strategy = "model"
	StrategyRules Strategy = "rules"
)
