// Package mock provides hand-written test doubles for the service interfaces.
package mock

import (
	"context"

	"github.com/herring101/docs-mcp/internal/embedding"
)

var _ embedding.Provider = (*Provider)(nil)

// Provider is a mock implementation of embedding.Provider.
type Provider struct {
	EmbedFn    func(ctx context.Context, text string) ([]float64, error)
	DescribeFn func(ctx context.Context, path, content string) (string, error)
}

func (p *Provider) Embed(ctx context.Context, text string) ([]float64, error) {
	return p.EmbedFn(ctx, text)
}

func (p *Provider) Describe(ctx context.Context, path, content string) (string, error) {
	return p.DescribeFn(ctx, path, content)
}
