package search_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herring101/docs-mcp/internal/apperr"
	"github.com/herring101/docs-mcp/internal/mock"
	"github.com/herring101/docs-mcp/internal/search"
	"github.com/herring101/docs-mcp/internal/testutil"
)

func exampleEngine(t *testing.T, folders ...string) *search.Engine {
	t.Helper()
	fs := testutil.ProjectRoot(t, map[string]string{
		"docs/a/x.md": "alpha content here",
		"docs/b/y.md": "beta content there",
	})
	return search.New(testutil.LoadedStore(t, fs, folders...), nil)
}

func constEmbedder(vec []float64) *mock.Provider {
	return &mock.Provider{
		EmbedFn: func(context.Context, string) ([]float64, error) { return vec, nil },
	}
}

func TestListDocuments(t *testing.T) {
	fs := testutil.ProjectRoot(t, map[string]string{
		"docs/b.md": "beta",
		"docs/a.md": "alpha",
	})
	testutil.WriteJSON(t, fs, "docs_metadata.json", map[string]string{"docs/b.md": "About beta"})
	e := search.New(testutil.LoadedStore(t, fs), nil)

	assert.Equal(t, "docs/a.md\ndocs/b.md - About beta", e.ListDocuments())
	assert.Equal(t, 2, e.GetDocCount())
}

func TestGetDocument(t *testing.T) {
	e := exampleEngine(t, "a")

	assert.Equal(t, "alpha content here", e.GetDocument("docs/a/x.md"))
	assert.Equal(t, "Error: Document not found: docs/b/y.md", e.GetDocument("docs/b/y.md"))

	_, err := e.Document("docs/nonexistent.md")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGrepSearch_Example(t *testing.T) {
	e := exampleEngine(t)
	assert.Equal(t, "docs/a/x.md:1: alpha content here", e.GrepSearch("alpha", true))
}

func TestGrepSearch_OrderAndLineNumbers(t *testing.T) {
	fs := testutil.ProjectRoot(t, map[string]string{
		"docs/b.md": "one\n   Needle in b   \nthree",
		"docs/a.md": "needle first\nnothing\nNEEDLE again",
	})
	e := search.New(testutil.LoadedStore(t, fs), nil)

	assert.Equal(t,
		"docs/a.md:1: needle first\ndocs/a.md:3: NEEDLE again\ndocs/b.md:2: Needle in b",
		e.GrepSearch("needle", true))
	assert.Equal(t, "docs/a.md:1: needle first", e.GrepSearch("needle", false))
}

func TestGrepSearch_InvalidPattern(t *testing.T) {
	e := exampleEngine(t)

	out := e.GrepSearch("(unclosed", true)
	assert.True(t, strings.HasPrefix(out, "Error: Invalid regex pattern: "), out)

	_, err := e.Grep("[z-a]", false)
	assert.ErrorIs(t, err, apperr.ErrInvalidPattern)
}

func TestGrepSearch_NoMatches(t *testing.T) {
	e := exampleEngine(t)
	assert.Equal(t, "No matches found", e.GrepSearch("gamma", true))
}

func TestGrepSearch_CapsAt100(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 130; i++ {
		fmt.Fprintf(&b, "match %d\n", i)
	}
	fs := testutil.ProjectRoot(t, map[string]string{"docs/many.txt": b.String()})
	e := search.New(testutil.LoadedStore(t, fs), nil)

	res, err := e.Grep("match", true)
	require.NoError(t, err)
	assert.Equal(t, 130, res.Total)
	assert.Len(t, res.Matches, 100)
	assert.Equal(t, 30, res.Omitted())

	out := e.GrepSearch("match", true)
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 102)
	assert.Equal(t, "docs/many.txt:100: match 99", lines[99])
	assert.Equal(t, "", lines[100])
	assert.Equal(t, "... and 30 more matches", lines[101])
}

func TestGrepSearch_TruncatesLongLines(t *testing.T) {
	long := "hit " + strings.Repeat("z", 200)
	fs := testutil.ProjectRoot(t, map[string]string{"docs/long.md": long})
	e := search.New(testutil.LoadedStore(t, fs), nil)

	res, err := e.Grep("hit", true)
	require.NoError(t, err)
	require.Len(t, res.Matches, 1)
	assert.Equal(t, long[:117]+"...", res.Matches[0].Text)
}

func TestSemanticSearch_NotConfigured(t *testing.T) {
	e := exampleEngine(t)

	_, err := e.Semantic(context.Background(), "alpha", 5)
	assert.ErrorIs(t, err, apperr.ErrProviderNotConfigured)
	assert.Equal(t, "Error: Embedding provider not configured", e.SemanticSearch(context.Background(), "alpha", 5))
	// Other operations keep working.
	assert.Equal(t, 2, e.GetDocCount())
}

func TestSemanticSearch_NoEmbeddings(t *testing.T) {
	fs := testutil.ProjectRoot(t, map[string]string{"docs/a.md": "alpha"})
	e := search.New(testutil.LoadedStore(t, fs), constEmbedder([]float64{1}))

	_, err := e.Semantic(context.Background(), "alpha", 5)
	assert.ErrorIs(t, err, apperr.ErrNoEmbeddings)
	assert.Contains(t, e.SemanticSearch(context.Background(), "alpha", 5), "No embeddings available")
}

func TestSemanticSearch_ProviderFailure(t *testing.T) {
	fs := testutil.ProjectRoot(t, map[string]string{"docs/a.md": "alpha"})
	testutil.WriteJSON(t, fs, "docs_embeddings.json", map[string][]float64{"docs/a.md": {1, 0}})
	p := &mock.Provider{
		EmbedFn: func(context.Context, string) ([]float64, error) { return nil, errors.New("401 unauthorized") },
	}
	e := search.New(testutil.LoadedStore(t, fs), p)

	_, err := e.Semantic(context.Background(), "alpha", 5)
	assert.ErrorIs(t, err, apperr.ErrProvider)

	out := e.SemanticSearch(context.Background(), "alpha", 5)
	assert.True(t, strings.HasPrefix(out, "Error during semantic search: "), out)
	assert.Contains(t, out, "401 unauthorized")
}

func TestSemanticSearch_RanksAndLimits(t *testing.T) {
	files := map[string]string{}
	vecs := map[string][]float64{}
	for i := 0; i < 12; i++ {
		p := fmt.Sprintf("docs/d%02d.md", i)
		files[p] = fmt.Sprintf("Document number %d discusses topic %d in detail.", i, i)
		vecs[p] = []float64{float64(i), 1}
	}
	files["docs/plain.md"] = "no embedding for this one at all"
	fs := testutil.ProjectRoot(t, files)
	testutil.WriteJSON(t, fs, "docs_embeddings.json", vecs)

	var got string
	p := &mock.Provider{
		EmbedFn: func(_ context.Context, text string) ([]float64, error) {
			got = text
			return []float64{1, 0}, nil
		},
	}
	e := search.New(testutil.LoadedStore(t, fs), p)

	hits, err := e.Semantic(context.Background(), "topic\nten", 5)
	require.NoError(t, err)
	assert.Equal(t, "topic ten", got)
	require.Len(t, hits, 5)
	assert.Equal(t, "docs/d11.md", hits[0].Path)
	for i := 1; i < len(hits); i++ {
		assert.GreaterOrEqual(t, hits[i-1].Similarity, hits[i].Similarity)
	}
	for _, h := range hits {
		assert.NotEqual(t, "docs/plain.md", h.Path)
	}

	all, err := e.Semantic(context.Background(), "topic", 0)
	require.NoError(t, err)
	assert.Len(t, all, search.DefaultLimit)

	many, err := e.Semantic(context.Background(), "topic", 50)
	require.NoError(t, err)
	assert.Len(t, many, 12)
}

func TestSemanticSearch_TieBreakByPath(t *testing.T) {
	fs := testutil.ProjectRoot(t, map[string]string{
		"docs/c.md": "c",
		"docs/a.md": "a",
		"docs/b.md": "b",
	})
	testutil.WriteJSON(t, fs, "docs_embeddings.json", map[string][]float64{
		"docs/c.md": {1, 0},
		"docs/a.md": {2, 0},
		"docs/b.md": {3, 0},
	})
	e := search.New(testutil.LoadedStore(t, fs), constEmbedder([]float64{1, 0}))

	hits, err := e.Semantic(context.Background(), "q", 5)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, []string{"docs/a.md", "docs/b.md", "docs/c.md"},
		[]string{hits[0].Path, hits[1].Path, hits[2].Path})
}

func TestSemanticSearch_ScopedToLoadedDocuments(t *testing.T) {
	fs := testutil.ProjectRoot(t, map[string]string{
		"docs/a/x.md": "alpha content here",
		"docs/b/y.md": "beta content there",
	})
	testutil.WriteJSON(t, fs, "docs_embeddings.json", map[string][]float64{
		"docs/a/x.md": {0, 1},
		"docs/b/y.md": {1, 0},
	})
	e := search.New(testutil.LoadedStore(t, fs, "a"), constEmbedder([]float64{1, 0}))

	hits, err := e.Semantic(context.Background(), "beta", 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "docs/a/x.md", hits[0].Path)
}

func TestSemanticSearch_Format(t *testing.T) {
	fs := testutil.ProjectRoot(t, map[string]string{
		"docs/guide.md": "# Guide\nThe transport section explains stdio and HTTP.",
		"docs/short.md": "tiny",
	})
	testutil.WriteJSON(t, fs, "docs_metadata.json", map[string]string{"docs/guide.md": "Transport guide"})
	testutil.WriteJSON(t, fs, "docs_embeddings.json", map[string][]float64{
		"docs/guide.md": {1, 0},
		"docs/short.md": {0, 1},
	})
	e := search.New(testutil.LoadedStore(t, fs), constEmbedder([]float64{1, 0}))

	out := e.SemanticSearch(context.Background(), "transport", 5)
	assert.Equal(t,
		"docs/guide.md (similarity: 1.000) - Transport guide\n"+
			"  → The transport section explains stdio and HTTP.\n\n"+
			"docs/short.md (similarity: 0.000)",
		out)
}

func TestSemanticSearch_NoScoredDocuments(t *testing.T) {
	fs := testutil.ProjectRoot(t, map[string]string{"docs/a.md": "alpha"})
	testutil.WriteJSON(t, fs, "docs_embeddings.json", map[string][]float64{"docs/other.md": {1, 0}})
	e := search.New(testutil.LoadedStore(t, fs), constEmbedder([]float64{1, 0}))

	assert.Equal(t, "No results found", e.SemanticSearch(context.Background(), "alpha", 5))
}
