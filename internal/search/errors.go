package search

import (
	"errors"
	"fmt"

	"github.com/herring101/docs-mcp/internal/apperr"
)

// NotFoundError is returned for a path that is not loaded.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("document not found: %s", e.Path)
}

func (e *NotFoundError) Is(target error) bool {
	return target == apperr.ErrNotFound
}

// PatternError is returned when a grep pattern does not compile.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid regex pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Is(target error) bool {
	return target == apperr.ErrInvalidPattern
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// ErrorText renders err as the inline message returned to hosts.
func ErrorText(err error) string {
	var (
		nf *NotFoundError
		pe *PatternError
	)
	switch {
	case errors.As(err, &nf):
		return "Error: Document not found: " + nf.Path
	case errors.As(err, &pe):
		return "Error: Invalid regex pattern: " + pe.Err.Error()
	case errors.Is(err, apperr.ErrProviderNotConfigured):
		return "Error: Embedding provider not configured"
	case errors.Is(err, apperr.ErrNoEmbeddings):
		return "Error: No embeddings available. Run 'docs-mcp generate' first."
	case errors.Is(err, apperr.ErrProvider):
		return "Error during semantic search: " + err.Error()
	default:
		return "Error: " + err.Error()
	}
}
