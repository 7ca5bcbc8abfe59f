// Package gemini provides an embedding.Provider backed by Google Gemini.
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/herring101/docs-mcp/internal/embedding"
)

// Ensure Provider implements the interface.
var _ embedding.Provider = (*Provider)(nil)

const (
	DefaultEmbeddingModel   = "gemini-embedding-001"
	DefaultDescriptionModel = "gemini-2.5-flash"
)

// Config holds configuration for the Gemini provider.
type Config struct {
	APIKey           string
	EmbeddingModel   string
	DescriptionModel string
}

// Provider generates embeddings and descriptions through Gemini.
type Provider struct {
	client           *genai.Client
	embeddingModel   string
	descriptionModel string
}

// New creates a Gemini provider using the Gemini API backend.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = DefaultEmbeddingModel
	}
	if cfg.DescriptionModel == "" {
		cfg.DescriptionModel = DefaultDescriptionModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &Provider{
		client:           client,
		embeddingModel:   cfg.EmbeddingModel,
		descriptionModel: cfg.DescriptionModel,
	}, nil
}

// Embed returns the embedding of text.
func (p *Provider) Embed(ctx context.Context, text string) ([]float64, error) {
	res, err := p.client.Models.EmbedContent(ctx, p.embeddingModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("gemini: embed: %w", err)
	}
	if res == nil || len(res.Embeddings) == 0 || res.Embeddings[0] == nil {
		return nil, fmt.Errorf("gemini: no embedding returned")
	}
	values := res.Embeddings[0].Values
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out, nil
}

// Describe asks the model for a one-line description of a document.
func (p *Provider) Describe(ctx context.Context, path, content string) (string, error) {
	temp := float32(0.3)
	result, err := p.client.Models.GenerateContent(ctx, p.descriptionModel,
		genai.Text(embedding.DescribeInput(path, content)),
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{
				Parts: []*genai.Part{{Text: embedding.DescribePrompt}},
			},
			Temperature: &temp,
		},
	)
	if err != nil {
		return "", fmt.Errorf("gemini: describe: %w", err)
	}
	if result == nil {
		return "", fmt.Errorf("gemini: nil result")
	}
	return embedding.Clean(result.Text()), nil
}
