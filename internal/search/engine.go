// Package search implements the read-only queries over a loaded corpus:
// listing, regex grep and embedding-based semantic search.
package search

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/herring101/docs-mcp/internal/apperr"
	"github.com/herring101/docs-mcp/internal/embedding"
)

// Query defaults.
const (
	DefaultLimit   = 5
	MaxGrepMatches = 100
)

// Corpus is the read-only view of a loaded document store.
type Corpus interface {
	Count() int
	Paths() []string
	Content(path string) (string, bool)
	Description(path string) (string, bool)
	Embedding(path string) ([]float64, bool)
	EmbeddingCount() int
}

// Entry is one line of a document listing.
type Entry struct {
	Path        string `json:"path"`
	Description string `json:"description,omitempty"`
}

// GrepMatch is a single matching line.
type GrepMatch struct {
	Path string `json:"path"`
	Line int    `json:"line"`
	Text string `json:"text"`
}

// GrepResult holds the first MaxGrepMatches matches and the total count.
type GrepResult struct {
	Matches []GrepMatch `json:"matches"`
	Total   int         `json:"total"`
}

// Omitted returns how many matches were dropped from Matches.
func (r *GrepResult) Omitted() int {
	return r.Total - len(r.Matches)
}

// Hit is one semantic search result.
type Hit struct {
	Path        string  `json:"path"`
	Similarity  float64 `json:"similarity"`
	Description string  `json:"description,omitempty"`
	Preview     string  `json:"preview,omitempty"`
}

// Engine answers queries against a Corpus. A nil provider disables
// semantic search only.
type Engine struct {
	docs     Corpus
	provider embedding.Provider
}

// New creates an Engine.
func New(docs Corpus, provider embedding.Provider) *Engine {
	return &Engine{docs: docs, provider: provider}
}

// Count returns the number of loaded documents.
func (e *Engine) Count() int {
	return e.docs.Count()
}

// Documents lists every loaded path in order with its description.
func (e *Engine) Documents() []Entry {
	paths := e.docs.Paths()
	out := make([]Entry, 0, len(paths))
	for _, p := range paths {
		d, _ := e.docs.Description(p)
		out = append(out, Entry{Path: p, Description: d})
	}
	return out
}

// Description returns the description of path, or "" when it has none.
func (e *Engine) Description(path string) string {
	d, _ := e.docs.Description(path)
	return d
}

// EmbeddingCount returns the number of entries in the embedding index.
func (e *Engine) EmbeddingCount() int {
	return e.docs.EmbeddingCount()
}

// SemanticEnabled reports whether a provider is configured.
func (e *Engine) SemanticEnabled() bool {
	return e.provider != nil
}

// Document returns the content of a loaded document.
func (e *Engine) Document(path string) (string, error) {
	c, ok := e.docs.Content(path)
	if !ok {
		return "", &NotFoundError{Path: path}
	}
	return c, nil
}

// Grep tests every line of every document against pattern.
func (e *Engine) Grep(pattern string, ignoreCase bool) (*GrepResult, error) {
	expr := pattern
	if ignoreCase {
		expr = "(?i)" + pattern
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, &PatternError{Pattern: pattern, Err: err}
	}

	res := &GrepResult{Matches: []GrepMatch{}}
	for _, p := range e.docs.Paths() {
		content, _ := e.docs.Content(p)
		for i, line := range strings.Split(content, "\n") {
			if !re.MatchString(line) {
				continue
			}
			res.Total++
			if len(res.Matches) < MaxGrepMatches {
				res.Matches = append(res.Matches, GrepMatch{
					Path: p,
					Line: i + 1,
					Text: truncate(strings.TrimSpace(line), grepLineWidth),
				})
			}
		}
	}
	return res, nil
}

// Semantic ranks loaded documents by cosine similarity between their stored
// embedding and the embedding of query, most similar first with ties broken
// by path. Documents without an embedding, or whose embedding dimension
// differs from the query's, are not scored.
func (e *Engine) Semantic(ctx context.Context, query string, limit int) ([]Hit, error) {
	if e.provider == nil {
		return nil, apperr.ErrProviderNotConfigured
	}
	if e.docs.EmbeddingCount() == 0 {
		return nil, apperr.ErrNoEmbeddings
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	qvec, err := e.provider.Embed(ctx, strings.ReplaceAll(query, "\n", " "))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrProvider, err)
	}

	hits := []Hit{}
	for _, p := range e.docs.Paths() {
		vec, ok := e.docs.Embedding(p)
		if !ok || len(vec) != len(qvec) {
			continue
		}
		hits = append(hits, Hit{Path: p, Similarity: CosineSimilarity(qvec, vec)})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].Path < hits[j].Path
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}

	for i := range hits {
		hits[i].Description, _ = e.docs.Description(hits[i].Path)
		content, _ := e.docs.Content(hits[i].Path)
		hits[i].Preview = ExtractPreview(content, query, previewWidth)
	}
	return hits, nil
}
