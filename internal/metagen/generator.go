// Package metagen fills the description and embedding side indexes for
// documents that do not have entries yet.
package metagen

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/herring101/docs-mcp/internal/docstore"
	"github.com/herring101/docs-mcp/internal/embedding"
	"github.com/herring101/docs-mcp/internal/index"
	"github.com/herring101/docs-mcp/internal/storage"
)

const (
	describeInputLimit = 3000
	embedInputLimit    = 50000

	// FallbackDescription is stored when the model cannot describe a document.
	FallbackDescription = "Documentation page"
)

// Options configures a Generator.
type Options struct {
	DocsDir        string
	MetadataFile   string
	EmbeddingsFile string
	// Concurrency bounds in-flight documents (default 4).
	Concurrency int
	// RequestsPerSecond bounds provider calls; 0 disables the limit.
	RequestsPerSecond float64
	Logger            *slog.Logger
}

// Report summarises a Run.
type Report struct {
	Documents         int
	DescriptionsAdded int
	EmbeddingsAdded   int
	Failed            int
	Descriptions      int
	Embeddings        int
}

// Generator produces missing index entries through an embedding.Provider.
type Generator struct {
	files    storage.Provider
	provider embedding.Provider
	opts     Options
	limiter  *rate.Limiter
	logger   *slog.Logger
}

// New creates a Generator.
func New(files storage.Provider, provider embedding.Provider, opts Options) *Generator {
	if opts.DocsDir == "" {
		opts.DocsDir = docstore.DefaultDocsDir
	}
	if opts.MetadataFile == "" {
		opts.MetadataFile = index.DefaultDescriptionsFile
	}
	if opts.EmbeddingsFile == "" {
		opts.EmbeddingsFile = index.DefaultEmbeddingsFile
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		files:    files,
		provider: provider,
		opts:     opts,
		limiter:  rate.NewLimiter(limit, 1),
		logger:   logger,
	}
}

// Run walks every document under the docs tree, generates what is missing
// and saves the indexes that changed. Progress made before a cancellation
// is still saved.
func (g *Generator) Run(ctx context.Context) (*Report, error) {
	descriptions, err := index.ReadDescriptions(g.files, g.opts.MetadataFile)
	if err != nil {
		return nil, err
	}
	embeddings, err := index.ReadEmbeddings(g.files, g.opts.EmbeddingsFile)
	if err != nil {
		return nil, err
	}
	metas, err := g.files.List(g.opts.DocsDir)
	if err != nil {
		return nil, fmt.Errorf("metagen: %w", err)
	}

	var (
		mu     sync.Mutex
		report = &Report{Documents: len(metas)}
	)
	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(g.opts.Concurrency)

	for _, m := range metas {
		docPath := m.Path
		grp.Go(func() error {
			data, err := g.files.Read(docPath)
			if err == nil && !utf8.Valid(data) {
				err = fmt.Errorf("invalid UTF-8 content")
			}
			if err != nil {
				g.logger.Error("error processing document", slog.String("path", docPath), slog.String("error", err.Error()))
				mu.Lock()
				report.Failed++
				mu.Unlock()
				return nil
			}
			content := string(data)

			mu.Lock()
			_, hasDesc := descriptions[docPath]
			_, hasEmb := embeddings[docPath]
			mu.Unlock()

			if !hasDesc {
				desc, err := g.describe(gctx, docPath, content)
				if err != nil {
					return err
				}
				mu.Lock()
				descriptions[docPath] = desc
				report.DescriptionsAdded++
				mu.Unlock()
				g.logger.Info("generated description", slog.String("path", docPath), slog.String("description", desc))
			}

			if !hasEmb && strings.TrimSpace(content) != "" {
				vec, err := g.embed(gctx, content)
				if err != nil {
					if gctx.Err() != nil {
						return gctx.Err()
					}
					g.logger.Error("error generating embedding", slog.String("path", docPath), slog.String("error", err.Error()))
					mu.Lock()
					report.Failed++
					mu.Unlock()
					return nil
				}
				mu.Lock()
				embeddings[docPath] = vec
				report.EmbeddingsAdded++
				mu.Unlock()
				g.logger.Info("generated embedding", slog.String("path", docPath), slog.Int("dim", len(vec)))
			}
			return nil
		})
	}
	runErr := grp.Wait()

	if report.DescriptionsAdded > 0 {
		if err := index.WriteDescriptions(g.files, g.opts.MetadataFile, descriptions); err != nil {
			return nil, err
		}
		g.logger.Info("descriptions saved", slog.String("file", g.opts.MetadataFile))
	}
	if report.EmbeddingsAdded > 0 {
		if err := index.WriteEmbeddings(g.files, g.opts.EmbeddingsFile, embeddings); err != nil {
			return nil, err
		}
		g.logger.Info("embeddings saved", slog.String("file", g.opts.EmbeddingsFile))
	}
	report.Descriptions = len(descriptions)
	report.Embeddings = len(embeddings)

	if runErr != nil {
		return report, fmt.Errorf("metagen: %w", runErr)
	}
	return report, nil
}

// describe returns a static description for data files and asks the
// provider otherwise. Provider failures fall back to FallbackDescription;
// only cancellation is returned as an error.
func (g *Generator) describe(ctx context.Context, docPath, content string) (string, error) {
	if d, ok := staticDescription(docPath); ok {
		return d, nil
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return "", err
	}
	desc, err := g.provider.Describe(ctx, docPath, headRunes(content, describeInputLimit))
	if err != nil || desc == "" {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		g.logger.Warn("error generating description", slog.String("path", docPath), slog.Any("error", err))
		return FallbackDescription, nil
	}
	return desc, nil
}

func (g *Generator) embed(ctx context.Context, content string) ([]float64, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	text := strings.ReplaceAll(headRunes(content, embedInputLimit), "\n", " ")
	return g.provider.Embed(ctx, text)
}

func staticDescription(docPath string) (string, bool) {
	switch path.Ext(docPath) {
	case ".json":
		return "JSON data definition", true
	case ".ts":
		return "TypeScript type definitions", true
	case ".yml", ".yaml":
		return "YAML configuration file", true
	}
	return "", false
}

func headRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
