// Package apperr holds the error kinds shared by the store, the query
// engine and the hosts. Callers wrap them with %w and branch with errors.Is.
package apperr

import "errors"

var (
	ErrNotFound              = errors.New("not found")
	ErrInvalidPattern        = errors.New("invalid regex pattern")
	ErrProviderNotConfigured = errors.New("embedding provider not configured")
	ErrNoEmbeddings          = errors.New("no embeddings available")
	ErrProvider              = errors.New("embedding provider failed")
	ErrAlreadyLoaded         = errors.New("already loaded")
)
