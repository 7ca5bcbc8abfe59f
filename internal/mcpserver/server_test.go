package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herring101/docs-mcp/internal/embedding"
	"github.com/herring101/docs-mcp/internal/mock"
	"github.com/herring101/docs-mcp/internal/search"
	"github.com/herring101/docs-mcp/internal/testutil"
)

func testServer(t *testing.T, provider embedding.Provider) *Server {
	t.Helper()
	fs := testutil.ProjectRoot(t, map[string]string{
		"docs/a/x.md": "alpha content here\nThe alpha guide covers installation steps.",
		"docs/b/y.md": "beta content there",
	})
	testutil.WriteJSON(t, fs, "docs_metadata.json", map[string]string{"docs/a/x.md": "Alpha guide"})
	testutil.WriteJSON(t, fs, "docs_embeddings.json", map[string][]float64{
		"docs/a/x.md": {1, 0},
		"docs/b/y.md": {0, 1},
	})
	return New(search.New(testutil.LoadedStore(t, fs), provider), "test")
}

func callTool(t *testing.T, srv *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	var (
		result *mcp.CallToolResult
		err    error
	)
	switch name {
	case "list_documents":
		result, err = srv.listDocuments(ctx, req)
	case "get_document":
		result, err = srv.getDocument(ctx, req)
	case "grep_search":
		result, err = srv.grepSearch(ctx, req)
	case "semantic_search":
		result, err = srv.semanticSearch(ctx, req)
	case "get_doc_count":
		result, err = srv.getDocCount(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}
	require.NoError(t, err, "tool %s", name)
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestListDocuments(t *testing.T) {
	srv := testServer(t, nil)
	r := callTool(t, srv, "list_documents", map[string]any{})
	assert.False(t, r.IsError)
	assert.Equal(t, "docs/a/x.md - Alpha guide\ndocs/b/y.md", resultText(r))
}

func TestGetDocument(t *testing.T) {
	srv := testServer(t, nil)

	r := callTool(t, srv, "get_document", map[string]any{"path": "docs/b/y.md"})
	assert.False(t, r.IsError)
	assert.Equal(t, "beta content there", resultText(r))

	r = callTool(t, srv, "get_document", map[string]any{"path": "docs/nope.md"})
	assert.True(t, r.IsError)
	assert.Equal(t, "Error: Document not found: docs/nope.md", resultText(r))

	r = callTool(t, srv, "get_document", map[string]any{})
	assert.True(t, r.IsError)
}

func TestGrepSearch(t *testing.T) {
	srv := testServer(t, nil)

	r := callTool(t, srv, "grep_search", map[string]any{"pattern": "ALPHA CONTENT"})
	assert.Equal(t, "docs/a/x.md:1: alpha content here", resultText(r))

	r = callTool(t, srv, "grep_search", map[string]any{"pattern": "ALPHA CONTENT", "ignore_case": false})
	assert.Equal(t, "No matches found", resultText(r))

	r = callTool(t, srv, "grep_search", map[string]any{"pattern": "(("})
	assert.True(t, r.IsError)
	assert.Contains(t, resultText(r), "Invalid regex pattern")
}

func TestSemanticSearch(t *testing.T) {
	p := &mock.Provider{
		EmbedFn: func(context.Context, string) ([]float64, error) { return []float64{1, 0.1}, nil },
	}
	srv := testServer(t, p)

	r := callTool(t, srv, "semantic_search", map[string]any{"query": "alpha installation", "limit": float64(1)})
	assert.False(t, r.IsError)
	text := resultText(r)
	assert.True(t, strings.HasPrefix(text, "docs/a/x.md (similarity: 0.995) - Alpha guide"), text)
	assert.Contains(t, text, "  → The alpha guide covers installation steps.")
	assert.NotContains(t, text, "docs/b/y.md")
}

func TestSemanticSearch_Errors(t *testing.T) {
	srv := testServer(t, nil)
	r := callTool(t, srv, "semantic_search", map[string]any{"query": "alpha"})
	assert.True(t, r.IsError)
	assert.Equal(t, "Error: Embedding provider not configured", resultText(r))

	failing := &mock.Provider{
		EmbedFn: func(context.Context, string) ([]float64, error) { return nil, errors.New("network down") },
	}
	srv = testServer(t, failing)
	r = callTool(t, srv, "semantic_search", map[string]any{"query": "alpha"})
	assert.True(t, r.IsError)
	assert.Contains(t, resultText(r), "network down")
}

func TestGetDocCount(t *testing.T) {
	srv := testServer(t, nil)
	r := callTool(t, srv, "get_doc_count", nil)
	assert.Equal(t, "2", resultText(r))
}

func TestIndexResource(t *testing.T) {
	srv := testServer(t, nil)
	contents, err := srv.readIndexResource(context.Background(), mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)
	tc, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, "docs/a/x.md - Alpha guide\ndocs/b/y.md", tc.Text)
}

func TestMCPServer_ListsToolsAndResources(t *testing.T) {
	srv := testServer(t, nil)
	ctx := context.Background()

	resp := srv.MCPServer().HandleMessage(ctx, json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	body, err := json.Marshal(resp)
	require.NoError(t, err)
	for _, name := range []string{"list_documents", "get_document", "grep_search", "semantic_search", "get_doc_count"} {
		assert.Contains(t, string(body), `"name":"`+name+`"`)
	}

	resp = srv.MCPServer().HandleMessage(ctx, json.RawMessage(`{"jsonrpc":"2.0","id":2,"method":"resources/list"}`))
	body, err = json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"uri":"docs://index"`)
}

func TestMCPServer_CallTool(t *testing.T) {
	srv := testServer(t, nil)

	msg := `{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"grep_search","arguments":{"pattern":"beta"}}}`
	resp := srv.MCPServer().HandleMessage(context.Background(), json.RawMessage(msg))
	body, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(body), "docs/b/y.md:1: beta content there")
}
