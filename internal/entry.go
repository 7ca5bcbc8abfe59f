// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/herring101/docs-mcp/internal/api"
	"github.com/herring101/docs-mcp/internal/apperr"
	"github.com/herring101/docs-mcp/internal/docstore"
	"github.com/herring101/docs-mcp/internal/embedding"
	"github.com/herring101/docs-mcp/internal/embedding/gemini"
	"github.com/herring101/docs-mcp/internal/embedding/openai"
	"github.com/herring101/docs-mcp/internal/mcpserver"
	"github.com/herring101/docs-mcp/internal/metagen"
	"github.com/herring101/docs-mcp/internal/search"
	"github.com/herring101/docs-mcp/internal/storage"
)

// Version is reported to MCP clients. Set at build time via -ldflags.
var Version = "dev"

// Run loads the documents once and serves them over MCP stdio and, when
// enabled, HTTP until ctx is cancelled, a signal arrives or stdin closes.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := app.logger
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("docs_root", cfg.Docs.Root),
		slog.Any("folders", cfg.Docs.Folders),
		slog.String("embedding_provider", cfg.Embedding.Provider),
		slog.Bool("stdio", cfg.App.Stdio),
		slog.Bool("http", cfg.App.HTTP.Enabled),
		slog.String("log_level", cfg.App.LogLevel.String()))

	engine, err := app.loadEngine(ctx)
	if err != nil {
		return err
	}
	mcpSrv := mcpserver.New(engine, Version)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gCtx := errgroup.WithContext(ctx)

	if cfg.App.Stdio {
		g.Go(func() error {
			defer cancel()
			logger.Info("Serving MCP on stdio")
			err := mcpSrv.ServeStdio(gCtx, os.Stdin, os.Stdout, logger)
			if err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("MCP stdio error: %w", err)
			}
			logger.Info("MCP stdio closed")
			return nil
		})
	}

	var httpServer *http.Server
	if cfg.App.HTTP.Enabled {
		httpServer = &http.Server{
			Addr:              cfg.App.HTTP.Address(),
			Handler:           NewHTTPHandler(engine, mcpSrv, logger),
			ReadHeaderTimeout: 10 * time.Second,
		}
		g.Go(func() error {
			logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("HTTP server error: %w", err)
			}
			return nil
		})
	}

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}
		cancel()

		if httpServer != nil {
			shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
			defer stop()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// Generate fills the description and embedding indexes for documents that
// lack entries. A configured provider is required.
func Generate(ctx context.Context, opts ...Option) (*metagen.Report, error) {
	app, err := newApplication(opts)
	if err != nil {
		return nil, err
	}
	cfg := app.config

	files, err := storage.NewFS(cfg.Docs.Root)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	provider, err := app.embeddingProvider(ctx)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, fmt.Errorf("generate: %w", apperr.ErrProviderNotConfigured)
	}

	gen := metagen.New(files, provider, metagen.Options{
		DocsDir:           cfg.Docs.Dir,
		MetadataFile:      cfg.Docs.MetadataFile,
		EmbeddingsFile:    cfg.Docs.EmbeddingsFile,
		Concurrency:       cfg.Generate.Concurrency,
		RequestsPerSecond: cfg.Generate.RequestsPerSecond,
		Logger:            app.logger,
	})
	return gen.Run(ctx)
}

// NewHTTPHandler builds the HTTP surface: health probes, the REST API under
// /api and the streamable MCP transport on /mcp.
func NewHTTPHandler(engine *search.Engine, mcpSrv *mcpserver.Server, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(api.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, `{"status":"ok","documents":%d}`, engine.Count())
	})

	r.Mount("/api", api.NewRouter(engine))
	r.Handle("/mcp", mcpSrv.HTTPHandler())

	return r
}

func (a *application) loadEngine(ctx context.Context) (*search.Engine, error) {
	cfg := a.config

	files, err := storage.NewFS(cfg.Docs.Root)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	store := docstore.New(files, docstore.Options{
		DocsDir:        cfg.Docs.Dir,
		MetadataFile:   cfg.Docs.MetadataFile,
		EmbeddingsFile: cfg.Docs.EmbeddingsFile,
		AllowedFolders: cfg.Docs.Folders,
		Logger:         a.logger,
	})
	if _, err := store.Load(ctx); err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}

	provider, err := a.embeddingProvider(ctx)
	if err != nil {
		return nil, err
	}
	if provider == nil {
		a.logger.Warn("No embedding API key configured, semantic search disabled")
	}
	return search.New(store, provider), nil
}

// embeddingProvider returns the injected provider, or builds one from the
// config. It returns a nil interface when no API key is set.
func (a *application) embeddingProvider(ctx context.Context) (embedding.Provider, error) {
	if a.provider != nil {
		return a.provider, nil
	}
	cfg := a.config.Embedding
	if !cfg.Configured() {
		return nil, nil
	}

	switch cfg.Provider {
	case ProviderGemini:
		p, err := gemini.New(ctx, gemini.Config{
			APIKey:           cfg.APIKey,
			EmbeddingModel:   cfg.EmbeddingModel,
			DescriptionModel: cfg.DescriptionModel,
		})
		if err != nil {
			return nil, fmt.Errorf("init gemini provider: %w", err)
		}
		return p, nil
	default:
		p, err := openai.New(openai.Config{
			APIKey:           cfg.APIKey,
			BaseURL:          cfg.BaseURL,
			EmbeddingModel:   cfg.EmbeddingModel,
			DescriptionModel: cfg.DescriptionModel,
			Timeout:          cfg.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("init openai provider: %w", err)
		}
		return p, nil
	}
}
