package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/herring101/docs-mcp/internal/index"
)

// Embedding providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config represents the application configuration.
type Config struct {
	App       ApplicationConfig `yaml:"app"`
	Docs      DocsConfig        `yaml:"docs"`
	Embedding EmbeddingConfig   `yaml:"embedding"`
	Generate  GenerateConfig    `yaml:"generate"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Docs.Validate(); err != nil {
		return err
	}
	if err := c.Embedding.Validate(); err != nil {
		return err
	}
	return c.Generate.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
	// Stdio serves MCP on stdin/stdout.
	Stdio bool `yaml:"stdio"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	if !c.Stdio && !c.HTTP.Enabled {
		return fmt.Errorf("app: at least one of stdio or http must be enabled")
	}
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Enabled bool `yaml:"enabled"`
	Port    int  `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.When(c.Enabled, validation.Required, validation.Min(1), validation.Max(65535))),
	)
}

// DocsConfig locates the document tree and its index files.
type DocsConfig struct {
	// Root is the project directory containing Dir and the index files.
	Root           string   `yaml:"root"`
	Dir            string   `yaml:"dir"`
	MetadataFile   string   `yaml:"metadata_file"`
	EmbeddingsFile string   `yaml:"embeddings_file"`
	Folders        []string `yaml:"folders"`
}

// Validate validates the docs configuration.
func (c *DocsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Root, validation.Required),
		validation.Field(&c.Dir, validation.Required),
		validation.Field(&c.MetadataFile, validation.Required),
		validation.Field(&c.EmbeddingsFile, validation.Required),
	)
}

// EmbeddingConfig selects and configures the embedding provider.
// An empty APIKey leaves semantic search and generation unavailable.
type EmbeddingConfig struct {
	Provider         string        `yaml:"provider"`
	APIKey           string        `yaml:"api_key"`
	BaseURL          string        `yaml:"base_url"`
	EmbeddingModel   string        `yaml:"embedding_model"`
	DescriptionModel string        `yaml:"description_model"`
	Timeout          time.Duration `yaml:"timeout"`
}

// Validate validates the embedding configuration.
func (c *EmbeddingConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Provider, validation.Required, validation.In(ProviderOpenAI, ProviderGemini)),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
	)
}

// Configured reports whether a provider can be built.
func (c *EmbeddingConfig) Configured() bool {
	return c.APIKey != ""
}

// GenerateConfig tunes the metadata generator.
type GenerateConfig struct {
	Concurrency       int     `yaml:"concurrency"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// Validate validates the generator configuration.
func (c *GenerateConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Concurrency, validation.Required, validation.Min(1), validation.Max(64)),
		validation.Field(&c.RequestsPerSecond, validation.Min(0.0)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			Stdio:    true,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Docs: DocsConfig{
			Root:           ".",
			Dir:            "docs",
			MetadataFile:   index.DefaultDescriptionsFile,
			EmbeddingsFile: index.DefaultEmbeddingsFile,
		},
		Embedding: EmbeddingConfig{
			Provider: ProviderOpenAI,
			Timeout:  60 * time.Second,
		},
		Generate: GenerateConfig{
			Concurrency:       4,
			RequestsPerSecond: 5,
		},
	}
}
