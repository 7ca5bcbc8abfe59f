package internal

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/herring101/docs-mcp/internal/embedding"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config   *Config
	provider embedding.Provider
	logger   *slog.Logger
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithProvider replaces the provider built from the embedding config.
func WithProvider(p embedding.Provider) Option {
	return func(a *application) {
		a.provider = p
	}
}

// WithLogger replaces the stderr JSON logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *application) {
		a.logger = l
	}
}

func newApplication(opts []Option) (*application, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if app.logger == nil {
		app.logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: app.config.App.LogLevel,
		}))
	}
	return app, nil
}
