// Package models defines the domain types for docs-mcp.
package models

import (
	"path"
	"strings"
)

// Document is a single text file loaded from the docs tree together with
// whatever side-index data is known for it.
type Document struct {
	Path        string    `json:"path"`
	Content     string    `json:"content"`
	Description string    `json:"description,omitempty"`
	Embedding   []float64 `json:"-"`
}

// DocumentMeta is a lightweight representation returned by storage listings.
type DocumentMeta struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// documentExtensions is the fixed allow-list of file suffixes treated as documents.
var documentExtensions = map[string]struct{}{
	".mdx":  {},
	".md":   {},
	".txt":  {},
	".json": {},
	".ts":   {},
	".yml":  {},
	".yaml": {},
}

// IsDocument reports whether name carries one of the document extensions.
// The match is case-sensitive.
func IsDocument(name string) bool {
	_, ok := documentExtensions[path.Ext(name)]
	return ok
}

// NormalizePath converts a host path to the forward-slash form used as
// document key.
func NormalizePath(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
