package knowledge

import (
	"strings"
	"unicode"
)

// Normalize canonicalizes a keyword or query term: lower-cased, trimmed,
// punctuation stripped, internal whitespace collapsed to single spaces.
// Both index keys and query words go through this function so lookups are
// symmetric.
func Normalize(s string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			return unicode.ToLower(r)
		case unicode.IsSpace(r):
			return ' '
		default:
			// Punctuation and symbols are dropped entirely.
			return -1
		}
	}, s)
	return strings.Join(strings.Fields(mapped), " ")
}

// Tokenize normalizes the input and splits it into words. Matching during
// search is word-level, not substring-of-whole-text.
func Tokenize(s string) []string {
	norm := Normalize(s)
	if norm == "" {
		return nil
	}
	return strings.Split(norm, " ")
}
