package domain

import (
	"strings"
)

// NormalizeText prepares a lookup term for use as a key:
//   - trims leading/trailing whitespace
//   - converts to lowercase
//   - collapses inner runs of whitespace into a single space
//
// Diacritics, hyphens, and apostrophes are preserved.
func NormalizeText(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(strings.Join(fields, " "))
}

// DisplayText trims the term but keeps the caller's casing.
func DisplayText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
