// Package normalize canonicalizes raw document text before hashing and
// extraction. The output feeds the content-addressed cache, so Normalize must
// stay pure and deterministic: the same raw text always yields the same
// canonical string.
package normalize

import (
	"regexp"
	"strings"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	controlChars  = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f-\x84\x86-\x9f]`)
	currencyForms = regexp.MustCompile(`(?i)euro|eur|€`)
	estonianPhone = regexp.MustCompile(`\+372\s*(\d{3,4})\s*(\d{4})`)
)

// Normalize cleans raw extracted text into its canonical form: whitespace runs
// collapse to a single space, non-printable control characters are dropped,
// euro spellings become the token "EUR" and Estonian phone numbers get
// canonical "+372 NNN NNNN" spacing.
func Normalize(raw string) string {
	text := whitespaceRun.ReplaceAllString(raw, " ")
	text = controlChars.ReplaceAllString(text, "")
	text = currencyForms.ReplaceAllString(text, "EUR")
	text = estonianPhone.ReplaceAllString(text, "+372 $1 $2")
	return strings.TrimSpace(text)
}
