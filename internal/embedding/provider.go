// Package embedding defines the remote model collaborator that turns text
// into vectors and documents into one-line descriptions.
package embedding

import (
	"context"
	"strings"
)

// Provider is implemented by the model adapters in the subpackages.
type Provider interface {
	// Embed returns the embedding vector for text in a single call.
	Embed(ctx context.Context, text string) ([]float64, error)
	// Describe returns a one-line description of the document at path.
	Describe(ctx context.Context, path, content string) (string, error)
}

// DescribePrompt is the system instruction shared by the adapters.
const DescribePrompt = "Write one concise, technically accurate line describing this documentation file. " +
	"Reply with the description only."

// DescribeInput renders the user message for a description request.
func DescribeInput(path, content string) string {
	return "File: " + path + "\n\nContent:\n" + content
}

// Clean trims whitespace, surrounding quotes and trailing full stops from a
// generated description and keeps only its first line.
func Clean(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return strings.Trim(s, `"'。.`)
}
