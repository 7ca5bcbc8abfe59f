// Package storage defines the file-system abstraction over the project root
// that holds the docs tree and its index files.
package storage

import "github.com/herring101/docs-mcp/internal/models"

// Provider is the interface for project file operations.
// All paths are relative to the project root and use forward slashes.
type Provider interface {
	// List returns metadata for every document file under dir.
	List(dir string) ([]models.DocumentMeta, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically replaces the file at path with content.
	Write(path string, content []byte) error
	// IsDir reports whether path exists and is a directory.
	IsDir(path string) bool
}
