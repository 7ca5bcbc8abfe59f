package search

import (
	"strings"
	"unicode/utf8"
)

const (
	grepLineWidth    = 120
	previewWidth     = 200
	previewMinLength = 20
)

// ExtractPreview picks the line of content that best illustrates a hit for
// query: the first line containing a query word whose trimmed length exceeds
// 20 characters, else the first line that is merely long enough. The result
// is truncated to width characters; an empty string means nothing qualified.
func ExtractPreview(content, query string, width int) string {
	lines := strings.Split(content, "\n")
	words := strings.Fields(strings.ToLower(query))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if utf8.RuneCountInString(trimmed) <= previewMinLength {
			continue
		}
		if containsAny(strings.ToLower(line), words) {
			return truncate(trimmed, width)
		}
	}
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if utf8.RuneCountInString(trimmed) > previewMinLength {
			return truncate(trimmed, width)
		}
	}
	return ""
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// truncate shortens s to width characters, ending in "..." when cut.
func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)
	return string(r[:width-3]) + "..."
}
