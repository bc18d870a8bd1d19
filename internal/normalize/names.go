package normalize

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// LowerName lowercases a substance name for case-insensitive matching.
// Unlike strings.ToLower it applies full Unicode case mapping rules.
func LowerName(s string) string {
	return cases.Lower(language.Und).String(s)
}
