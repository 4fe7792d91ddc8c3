package search

import (
	"strings"

	"github.com/shoplore/shoplore/internal/textmatch"
)

const snippetMaxLen = 200

// Snippet returns a window of content centered on the first occurrence of a
// query term, truncated to maxLen. When no term occurs in the content the
// snippet is a plain prefix.
func Snippet(content, query string, maxLen int) string {
	if maxLen <= 0 || len(content) <= maxLen {
		return content
	}

	lower := strings.ToLower(content)
	pos := -1
	for _, term := range textmatch.Tokenize(query) {
		if i := strings.Index(lower, term); i >= 0 && (pos < 0 || i < pos) {
			pos = i
		}
	}
	if pos < 0 {
		return content[:maxLen] + "..."
	}

	start := pos - maxLen/4
	if start <= 0 {
		return content[:maxLen] + "..."
	}
	// back up to a word boundary
	for start > 0 && content[start] != ' ' {
		start--
	}
	end := start + maxLen
	if end >= len(content) {
		return "..." + strings.TrimSpace(content[start:])
	}
	return "..." + strings.TrimSpace(content[start:end]) + "..."
}
