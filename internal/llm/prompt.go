package llm

import "fmt"

// SystemPrompt pins the extraction persona and the JSON-only contract.
const SystemPrompt = "You are an expert Estonian procurement document analyzer. Always return valid JSON with confidence scores."

const userPromptTemplate = `You are an expert document analyzer specializing in Estonian procurement documents.
Analyze the following %s document and extract all form fields with high accuracy.

Document Content:
%s

Return a JSON structure with confidence scoring:
{
    "document_type": "specific document type",
    "title": "document title",
    "form_fields": [
        {
            "field_name": "snake_case_name",
            "field_type": "text|number|email|tel|date|checkbox|dropdown|textarea",
            "label": "human readable Estonian label",
            "required": true,
            "description": "detailed field description",
            "options": ["option1", "option2"],
            "validation": "validation rules (e.g., min_length:5, pattern:^[0-9]+$)",
            "confidence_score": 0.9,
            "source_text": "original text that led to this field"
        }
    ],
    "requirements": ["requirement 1", "requirement 2"],
    "sections": [
        {
            "section_title": "section name",
            "fields": ["field1", "field2"],
            "description": "section purpose"
        }
    ],
    "key_information": {
        "deadline": "if mentioned",
        "contact_person": "if mentioned",
        "submission_method": "how to submit",
        "evaluation_criteria": "evaluation details"
    }
}

Focus on:
1. Estonian language field labels and descriptions
2. Proper validation rules for Estonian formats (phone, ID, VAT)
3. High confidence scores for clearly identifiable fields
4. Detailed source text references

Include "options" only for dropdown and checkbox fields.
Return only valid JSON.`

// UserPrompt renders the extraction instruction for a document.
func UserPrompt(documentType, content string) string {
	return fmt.Sprintf(userPromptTemplate, documentType, content)
}
