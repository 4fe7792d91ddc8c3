package textmatch

import "strings"

// Normalize lower-cases and trims surrounding whitespace.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Tokenize splits s into lower-cased whitespace-separated tokens.
// Returns nil for blank input.
func Tokenize(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) == 0 {
		return nil
	}
	return fields
}
