// Package openai provides an embedding.Provider backed by the OpenAI API.
package openai

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/herring101/docs-mcp/internal/embedding"
)

// Ensure Provider implements the interface.
var _ embedding.Provider = (*Provider)(nil)

// Default configuration values.
const (
	DefaultEmbeddingModel   = "text-embedding-3-large"
	DefaultDescriptionModel = "gpt-4o"
	DefaultTimeout          = 60 * time.Second
)

// Config holds configuration for the OpenAI provider.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string
	// BaseURL overrides the API endpoint for compatible servers.
	BaseURL string
	// EmbeddingModel defaults to text-embedding-3-large.
	EmbeddingModel string
	// DescriptionModel defaults to gpt-4o.
	DescriptionModel string
	// Timeout bounds each request (default 60s).
	Timeout time.Duration
}

// Provider generates embeddings and descriptions through OpenAI.
type Provider struct {
	client           openai.Client
	embeddingModel   string
	descriptionModel string
}

// New creates a new OpenAI provider. Requests are never retried.
func New(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = DefaultEmbeddingModel
	}
	if cfg.DescriptionModel == "" {
		cfg.DescriptionModel = DefaultDescriptionModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(cfg.Timeout),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Provider{
		client:           openai.NewClient(opts...),
		embeddingModel:   cfg.EmbeddingModel,
		descriptionModel: cfg.DescriptionModel,
	}, nil
}

// Embed returns the embedding of text.
func (p *Provider) Embed(ctx context.Context, text string) ([]float64, error) {
	resp, err := p.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: []string{text}},
		Model: openai.EmbeddingModel(p.embeddingModel),
	})
	if err != nil {
		return nil, fmt.Errorf("openai: embed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai: no embedding returned")
	}
	return resp.Data[0].Embedding, nil
}

// Describe asks the chat model for a one-line description of a document.
func (p *Provider) Describe(ctx context.Context, path, content string) (string, error) {
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.descriptionModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(embedding.DescribePrompt),
			openai.UserMessage(embedding.DescribeInput(path, content)),
		},
		Temperature: openai.Float(0.3),
		MaxTokens:   openai.Int(100),
	})
	if err != nil {
		return "", fmt.Errorf("openai: describe: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: no response choices returned")
	}
	return embedding.Clean(resp.Choices[0].Message.Content), nil
}
