// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the document tools for LLM integration.
package mcpserver

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/herring101/docs-mcp/internal/search"
)

const indexURI = "docs://index"

// Server wraps the MCP server with the document tools.
type Server struct {
	mcp    *server.MCPServer
	engine *search.Engine
}

// New creates a new MCP server with all tools registered.
func New(engine *search.Engine, version string) *Server {
	s := &Server{engine: engine}

	s.mcp = server.NewMCPServer(
		"docs-mcp",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_documents",
		mcp.WithDescription("List every available document path with its one-line description."),
	), s.listDocuments)

	s.mcp.AddTool(mcp.NewTool("get_document",
		mcp.WithDescription("Return the full content of a document."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Document path as shown by list_documents (e.g. docs/guide/intro.md)")),
	), s.getDocument)

	s.mcp.AddTool(mcp.NewTool("grep_search",
		mcp.WithDescription("Search document lines with a regular expression. Returns path:line: text for each match, at most 100."),
		mcp.WithString("pattern", mcp.Required(), mcp.Description("Regular expression (RE2 syntax)")),
		mcp.WithBoolean("ignore_case", mcp.Description("Case-insensitive matching (default true)")),
	), s.grepSearch)

	s.mcp.AddTool(mcp.NewTool("semantic_search",
		mcp.WithDescription("Find documents whose meaning is closest to the query using embeddings."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Natural-language query")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 5)")),
	), s.semanticSearch)

	s.mcp.AddTool(mcp.NewTool("get_doc_count",
		mcp.WithDescription("Return the number of loaded documents."),
	), s.getDocCount)

	s.mcp.AddResource(
		mcp.NewResource(indexURI, "Document Index",
			mcp.WithResourceDescription("Listing of all loaded documents with descriptions."),
			mcp.WithMIMEType("text/plain"),
		),
		s.readIndexResource,
	)

	return s
}

// ServeStdio serves MCP on stdin/stdout until ctx is cancelled or stdin closes.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer, logger *slog.Logger) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(slog.NewLogLogger(logger.Handler(), slog.LevelError))
	return stdio.Listen(ctx, in, out)
}

// HTTPHandler returns the streamable HTTP transport for the server.
func (s *Server) HTTPHandler() http.Handler {
	return server.NewStreamableHTTPServer(s.mcp)
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.engine.ListDocuments()), nil
}

func (s *Server) getDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := s.engine.Document(path)
	if err != nil {
		return mcp.NewToolResultError(search.ErrorText(err)), nil
	}
	return mcp.NewToolResultText(content), nil
}

func (s *Server) grepSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pattern, err := req.RequireString("pattern")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.engine.Grep(pattern, req.GetBool("ignore_case", true))
	if err != nil {
		return mcp.NewToolResultError(search.ErrorText(err)), nil
	}
	return mcp.NewToolResultText(search.FormatGrep(res)), nil
}

func (s *Server) semanticSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	hits, err := s.engine.Semantic(ctx, query, req.GetInt("limit", search.DefaultLimit))
	if err != nil {
		slog.Warn("semantic search failed", slog.String("query", query), slog.String("error", err.Error()))
		return mcp.NewToolResultError(search.ErrorText(err)), nil
	}
	return mcp.NewToolResultText(search.FormatHits(hits)), nil
}

func (s *Server) getDocCount(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(strconv.Itoa(s.engine.GetDocCount())), nil
}

func (s *Server) readIndexResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      indexURI,
			MIMEType: "text/plain",
			Text:     s.engine.ListDocuments(),
		},
	}, nil
}
