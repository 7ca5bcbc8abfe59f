package search

import (
	"context"
	"fmt"
	"strings"
)

// The methods below render query results as the plain-text replies handed to
// tool-calling hosts. They never fail: errors become inline messages.

// ListDocuments returns one "path - description" (or bare path) per line.
func (e *Engine) ListDocuments() string {
	entries := e.Documents()
	lines := make([]string, 0, len(entries))
	for _, en := range entries {
		lines = append(lines, FormatEntry(en))
	}
	return strings.Join(lines, "\n")
}

// GetDocument returns the content of path or a not-found message.
func (e *Engine) GetDocument(path string) string {
	c, err := e.Document(path)
	if err != nil {
		return ErrorText(err)
	}
	return c
}

// GrepSearch returns "path:line: text" lines for every match of pattern.
func (e *Engine) GrepSearch(pattern string, ignoreCase bool) string {
	res, err := e.Grep(pattern, ignoreCase)
	if err != nil {
		return ErrorText(err)
	}
	return FormatGrep(res)
}

// SemanticSearch returns the top limit documents related to query.
func (e *Engine) SemanticSearch(ctx context.Context, query string, limit int) string {
	hits, err := e.Semantic(ctx, query, limit)
	if err != nil {
		return ErrorText(err)
	}
	return FormatHits(hits)
}

// GetDocCount returns the number of loaded documents.
func (e *Engine) GetDocCount() int {
	return e.Count()
}

// FormatEntry renders a listing line.
func FormatEntry(en Entry) string {
	if en.Description == "" {
		return en.Path
	}
	return en.Path + " - " + en.Description
}

// FormatGrep renders grep matches, or "No matches found".
func FormatGrep(res *GrepResult) string {
	if res.Total == 0 {
		return "No matches found"
	}
	lines := make([]string, 0, len(res.Matches)+1)
	for _, m := range res.Matches {
		lines = append(lines, fmt.Sprintf("%s:%d: %s", m.Path, m.Line, m.Text))
	}
	if n := res.Omitted(); n > 0 {
		lines = append(lines, fmt.Sprintf("\n... and %d more matches", n))
	}
	return strings.Join(lines, "\n")
}

// FormatHits renders semantic hits as blank-line separated blocks.
func FormatHits(hits []Hit) string {
	if len(hits) == 0 {
		return "No results found"
	}
	blocks := make([]string, 0, len(hits))
	for _, h := range hits {
		var b strings.Builder
		fmt.Fprintf(&b, "%s (similarity: %.3f)", h.Path, h.Similarity)
		if h.Description != "" {
			b.WriteString(" - " + h.Description)
		}
		if h.Preview != "" {
			b.WriteString("\n  → " + h.Preview)
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}
