package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold returns the Unicode case-folded form of value, suitable as a map key
// for case-insensitive lookups.
func Fold(value string) string {
	return cases.Fold().String(value)
}

// EqualFold reports whether a and b are equal under full Unicode case folding.
func EqualFold(a, b string) bool {
	if a == b {
		return true
	}
	return Fold(a) == Fold(b)
}

// StripDiacritics removes combining marks, so "Évropa" becomes "Evropa".
// Scripts without decomposable marks (Cyrillic, for example) are unchanged.
func StripDiacritics(value string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, value)
	if err != nil {
		return value
	}
	return out
}

// Keyword normalizes free text for keyword matching: trimmed, diacritics
// stripped, and case-folded.
func Keyword(value string) string {
	return Fold(StripDiacritics(strings.TrimSpace(value)))
}
