package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/herring101/docs-mcp/internal"
	"github.com/herring101/docs-mcp/internal/docstore"
	pkgconfig "github.com/herring101/docs-mcp/pkg/config"
)

// loadConfig builds the configuration from defaults, the optional YAML file
// and the flags (which carry the environment sources).
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cmd.IsSet("docs-root") {
		cfg.Docs.Root = cmd.String("docs-root")
	}
	if cmd.IsSet("folders") {
		cfg.Docs.Folders = docstore.ParseFolders(cmd.String("folders"))
	}
	if cmd.IsSet("provider") {
		cfg.Embedding.Provider = cmd.String("provider")
	}
	if cfg.Embedding.APIKey == "" {
		switch cfg.Embedding.Provider {
		case internal.ProviderGemini:
			cfg.Embedding.APIKey = cmd.String("gemini-api-key")
		default:
			cfg.Embedding.APIKey = cmd.String("openai-api-key")
		}
	}
	if cmd.IsSet("openai-base-url") {
		cfg.Embedding.BaseURL = cmd.String("openai-base-url")
	}
	if cmd.IsSet("http") {
		cfg.App.HTTP.Enabled = cmd.Bool("http")
	}
	if cmd.IsSet("port") {
		cfg.App.HTTP.Port = int(cmd.Int("port"))
	}
	if cmd.IsSet("stdio") {
		cfg.App.Stdio = cmd.Bool("stdio")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func generate(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.IsSet("concurrency") {
		cfg.Generate.Concurrency = int(cmd.Int("concurrency"))
	}

	report, err := internal.Generate(ctx, internal.WithConfig(cfg))
	if err != nil {
		return fmt.Errorf("generate error: %w", err)
	}

	fmt.Printf("Processed %d documents: %d descriptions and %d embeddings added, %d failed\n",
		report.Documents, report.DescriptionsAdded, report.EmbeddingsAdded, report.Failed)
	fmt.Printf("Index now holds %d descriptions and %d embeddings\n", report.Descriptions, report.Embeddings)
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:   "docs-mcp",
		Usage:  "Serve a local documentation tree to MCP clients with listing, grep and semantic search",
		Action: serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file (optional)",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "docs-root",
				Usage:   "Project directory containing docs/ and the index files",
				Sources: cli.EnvVars("DOCS_ROOT"),
			},
			&cli.StringFlag{
				Name:    "folders",
				Usage:   "Comma-separated top-level folders under docs/ to load (default: all)",
				Sources: cli.EnvVars("DOCS_FOLDERS"),
			},
			&cli.StringFlag{
				Name:    "provider",
				Usage:   "Embedding provider: openai or gemini",
				Sources: cli.EnvVars("EMBEDDING_PROVIDER"),
			},
			&cli.StringFlag{
				Name:    "openai-api-key",
				Usage:   "OpenAI API key",
				Sources: cli.EnvVars("OPENAI_API_KEY"),
			},
			&cli.StringFlag{
				Name:    "openai-base-url",
				Usage:   "OpenAI-compatible API endpoint",
				Sources: cli.EnvVars("OPENAI_BASE_URL"),
			},
			&cli.StringFlag{
				Name:    "gemini-api-key",
				Usage:   "Gemini API key",
				Sources: cli.EnvVars("GEMINI_API_KEY"),
			},
			&cli.BoolFlag{
				Name:    "stdio",
				Usage:   "Serve MCP on stdin/stdout",
				Sources: cli.EnvVars("DOCS_MCP_STDIO"),
			},
			&cli.BoolFlag{
				Name:    "http",
				Usage:   "Serve the REST API and streamable MCP over HTTP",
				Sources: cli.EnvVars("DOCS_MCP_HTTP"),
			},
			&cli.IntFlag{
				Name:    "port",
				Usage:   "HTTP port",
				Sources: cli.EnvVars("PORT"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "generate",
				Usage:  "Generate missing descriptions and embeddings for docs/",
				Action: generate,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "concurrency",
						Usage: "Documents processed in parallel",
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
