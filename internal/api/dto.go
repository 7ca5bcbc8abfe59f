package api

import "github.com/herring101/docs-mcp/internal/search"

// DocumentListResponse wraps the document listing.
type DocumentListResponse struct {
	Documents []search.Entry `json:"documents" validate:"required"`
	Total     int            `json:"total" example:"42" validate:"required"`
}

// DocumentDetail is a single document with its metadata.
type DocumentDetail struct {
	Path        string `json:"path" example:"docs/guide/intro.md" validate:"required"`
	Description string `json:"description,omitempty" example:"Getting started guide"`
	Content     string `json:"content" validate:"required"`
	Checksum    string `json:"checksum" example:"9f86d08..." validate:"required"`
}

// GrepResponse wraps regex matches. Total counts every match, Matches is capped.
type GrepResponse struct {
	Pattern string             `json:"pattern" example:"install" validate:"required"`
	Matches []search.GrepMatch `json:"matches" validate:"required"`
	Total   int                `json:"total" example:"3" validate:"required"`
	Omitted int                `json:"omitted" example:"0"`
}

// SearchResponse wraps semantic search hits.
type SearchResponse struct {
	Query   string       `json:"query" example:"how do I deploy" validate:"required"`
	Results []search.Hit `json:"results" validate:"required"`
}

// StatsResponse reports corpus counters.
type StatsResponse struct {
	Documents       int  `json:"documents" example:"120"`
	Embeddings      int  `json:"embeddings" example:"118"`
	SemanticEnabled bool `json:"semantic_enabled"`
}
