package api

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/herring101/docs-mcp/internal/checksum"
	"github.com/herring101/docs-mcp/internal/search"
)

// Handler holds API route handlers.
type Handler struct {
	engine *search.Engine
}

// NewHandler creates a new Handler.
func NewHandler(engine *search.Engine) *Handler {
	return &Handler{engine: engine}
}

// documentPath extracts the document path from the URL (everything after
// /api/documents/). Supports encoded slashes (e.g. docs%2Fguide.md). chi
// routes on RawPath when it is set, so only then is the param still escaped.
func documentPath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" || r.URL.RawPath == "" {
		return raw
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// ListDocuments handles GET /api/documents.
//
//	@Summary		List loaded documents with descriptions
//	@Tags			documents
//	@Produce		json
//	@Success		200		{object}	DocumentListResponse
//	@Router			/documents [get]
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	docs := h.engine.Documents()
	writeJSON(w, http.StatusOK, DocumentListResponse{
		Documents: docs,
		Total:     len(docs),
	})
}

// GetDocument handles GET /api/documents/*.
//
//	@Summary		Get a single document by path
//	@Tags			documents
//	@Produce		json
//	@Param			path	path		string	true	"Document path"
//	@Param			If-None-Match	header	string	false	"Checksum from a previous response"
//	@Success		200		{object}	DocumentDetail
//	@Success		304
//	@Failure		404		{object}	errResponse
//	@Router			/documents/{path} [get]
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	path := documentPath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	content, err := h.engine.Document(path)
	if err != nil {
		writeError(w, err)
		return
	}

	etag := checksum.ETag(content)
	w.Header().Set("ETag", etag)
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	writeJSON(w, http.StatusOK, DocumentDetail{
		Path:        path,
		Description: h.engine.Description(path),
		Content:     content,
		Checksum:    checksum.Sum(content),
	})
}

// Grep handles GET /api/grep.
//
//	@Summary		Regex search over document lines
//	@Tags			search
//	@Produce		json
//	@Param			pattern		query		string	true	"Regular expression"
//	@Param			ignore_case	query		bool	false	"Case-insensitive (default true)"
//	@Success		200			{object}	GrepResponse
//	@Failure		400			{object}	errResponse
//	@Router			/grep [get]
func (h *Handler) Grep(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pattern := q.Get("pattern")
	if pattern == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("pattern is required"))
		return
	}
	ignoreCase := true
	if v := q.Get("ignore_case"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("ignore_case must be a boolean"))
			return
		}
		ignoreCase = b
	}

	res, err := h.engine.Grep(pattern, ignoreCase)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, GrepResponse{
		Pattern: pattern,
		Matches: res.Matches,
		Total:   res.Total,
		Omitted: res.Omitted(),
	})
}

// Search handles GET /api/search.
//
//	@Summary		Semantic search by embedding similarity
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Query"
//	@Param			limit	query		int		false	"Max results (default 5)"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Failure		502		{object}	errResponse
//	@Failure		503		{object}	errResponse
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("q")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("q is required"))
		return
	}
	var limit int
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("limit must be an integer"))
			return
		}
		limit = n
	}

	hits, err := h.engine.Semantic(r.Context(), query, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Query: query, Results: hits})
}

// Stats handles GET /api/stats.
//
//	@Summary		Corpus counters
//	@Tags			documents
//	@Produce		json
//	@Success		200		{object}	StatsResponse
//	@Router			/stats [get]
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatsResponse{
		Documents:       h.engine.Count(),
		Embeddings:      h.engine.EmbeddingCount(),
		SemanticEnabled: h.engine.SemanticEnabled(),
	})
}
