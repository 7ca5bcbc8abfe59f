package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/herring101/docs-mcp/internal/search"
)

// NewRouter creates a chi router with all API routes mounted.
func NewRouter(engine *search.Engine) chi.Router {
	h := NewHandler(engine)

	r := chi.NewRouter()
	r.Use(NoCache)

	r.Get("/documents", h.ListDocuments)
	r.Get("/documents/*", h.GetDocument)

	r.Get("/grep", h.Grep)
	r.Get("/search", h.Search)

	r.Get("/stats", h.Stats)

	return r
}
