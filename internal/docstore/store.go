// Package docstore builds the in-memory document corpus from the docs tree
// and the side indexes. A Store is loaded once and is read-only afterwards,
// so any number of readers may use it concurrently.
package docstore

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"sync"
	"unicode/utf8"

	"github.com/herring101/docs-mcp/internal/apperr"
	"github.com/herring101/docs-mcp/internal/index"
	"github.com/herring101/docs-mcp/internal/models"
	"github.com/herring101/docs-mcp/internal/storage"
)

// DefaultDocsDir is the docs tree location relative to the project root.
const DefaultDocsDir = "docs"

// Options configures a Store.
type Options struct {
	DocsDir        string
	MetadataFile   string
	EmbeddingsFile string
	// AllowedFolders restricts loading to these top-level folders of DocsDir.
	// Empty means every document under DocsDir.
	AllowedFolders []string
	Logger         *slog.Logger
}

// FileError records a document that could not be read during Load.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// LoadReport summarises one Load call.
type LoadReport struct {
	Documents      int
	Descriptions   int
	Embeddings     int
	MissingFolders []string
	Skipped        []FileError
}

// Store holds document content, descriptions and embeddings keyed by path.
type Store struct {
	files  storage.Provider
	opts   Options
	logger *slog.Logger

	once sync.Once

	content      map[string]string
	descriptions index.Descriptions
	embeddings   index.Embeddings
	paths        []string
}

// New creates an empty Store reading from files.
func New(files storage.Provider, opts Options) *Store {
	if opts.DocsDir == "" {
		opts.DocsDir = DefaultDocsDir
	}
	if opts.MetadataFile == "" {
		opts.MetadataFile = index.DefaultDescriptionsFile
	}
	if opts.EmbeddingsFile == "" {
		opts.EmbeddingsFile = index.DefaultEmbeddingsFile
	}
	opts.AllowedFolders = append([]string(nil), opts.AllowedFolders...)
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		files:        files,
		opts:         opts,
		logger:       logger,
		content:      map[string]string{},
		descriptions: index.Descriptions{},
		embeddings:   index.Embeddings{},
	}
}

// Load reads the side indexes and the documents. It may be called once;
// later calls return apperr.ErrAlreadyLoaded.
func (s *Store) Load(ctx context.Context) (*LoadReport, error) {
	var (
		report *LoadReport
		err    error
		first  bool
	)
	s.once.Do(func() {
		first = true
		report, err = s.load(ctx)
	})
	if !first {
		return nil, fmt.Errorf("docstore: %w", apperr.ErrAlreadyLoaded)
	}
	return report, err
}

func (s *Store) load(ctx context.Context) (*LoadReport, error) {
	descriptions, err := index.ReadDescriptions(s.files, s.opts.MetadataFile)
	if err != nil {
		return nil, fmt.Errorf("docstore: load descriptions: %w", err)
	}
	embeddings, err := index.ReadEmbeddings(s.files, s.opts.EmbeddingsFile)
	if err != nil {
		return nil, fmt.Errorf("docstore: load embeddings: %w", err)
	}
	for p, vec := range embeddings {
		if len(vec) == 0 {
			delete(embeddings, p)
		}
	}
	s.descriptions = descriptions
	s.embeddings = embeddings
	s.logger.Info("index files loaded",
		slog.Int("descriptions", len(descriptions)),
		slog.Int("embeddings", len(embeddings)))

	report := &LoadReport{}
	if len(s.opts.AllowedFolders) > 0 {
		for _, folder := range s.opts.AllowedFolders {
			dir := path.Join(s.opts.DocsDir, folder)
			if !isFolderName(folder) || !s.files.IsDir(dir) {
				s.logger.Warn("folder not found", slog.String("folder", folder))
				report.MissingFolders = append(report.MissingFolders, folder)
				continue
			}
			if err := s.loadDir(ctx, dir, report); err != nil {
				return nil, err
			}
		}
	} else if s.files.IsDir(s.opts.DocsDir) {
		if err := s.loadDir(ctx, s.opts.DocsDir, report); err != nil {
			return nil, err
		}
	} else {
		s.logger.Warn("docs directory not found", slog.String("dir", s.opts.DocsDir))
	}

	s.paths = make([]string, 0, len(s.content))
	for p := range s.content {
		s.paths = append(s.paths, p)
	}
	sort.Strings(s.paths)

	report.Documents = len(s.content)
	report.Descriptions = len(descriptions)
	report.Embeddings = len(embeddings)
	s.logger.Info("documents loaded",
		slog.Int("documents", report.Documents),
		slog.Int("skipped", len(report.Skipped)),
		slog.Any("folders", s.opts.AllowedFolders))
	return report, nil
}

func (s *Store) loadDir(ctx context.Context, dir string, report *LoadReport) error {
	metas, err := s.files.List(dir)
	if err != nil {
		return fmt.Errorf("docstore: list %s: %w", dir, err)
	}
	for _, m := range metas {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := s.files.Read(m.Path)
		if err == nil && !utf8.Valid(data) {
			err = fmt.Errorf("invalid UTF-8 content")
		}
		if err != nil {
			s.logger.Error("error loading document",
				slog.String("path", m.Path),
				slog.String("error", err.Error()))
			report.Skipped = append(report.Skipped, FileError{Path: m.Path, Err: err})
			continue
		}
		s.content[models.NormalizePath(m.Path)] = string(data)
	}
	return nil
}

// Count returns the number of loaded documents.
func (s *Store) Count() int {
	return len(s.content)
}

// Paths returns the loaded document paths in lexicographic order.
// The returned slice must not be modified.
func (s *Store) Paths() []string {
	return s.paths
}

// Content returns the full text of a loaded document.
func (s *Store) Content(path string) (string, bool) {
	c, ok := s.content[path]
	return c, ok
}

// Description returns the known description for path, if any. Descriptions
// are kept for every path in the index, loaded or not.
func (s *Store) Description(path string) (string, bool) {
	d, ok := s.descriptions[path]
	return d, ok && d != ""
}

// Embedding returns the stored vector for path, if any.
func (s *Store) Embedding(path string) ([]float64, bool) {
	e, ok := s.embeddings[path]
	return e, ok
}

// EmbeddingCount returns the size of the embedding index.
func (s *Store) EmbeddingCount() int {
	return len(s.embeddings)
}

// Document assembles the loaded document at path.
func (s *Store) Document(path string) (*models.Document, error) {
	c, ok := s.content[path]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", path, apperr.ErrNotFound)
	}
	d, _ := s.Description(path)
	e, _ := s.Embedding(path)
	return &models.Document{Path: path, Content: c, Description: d, Embedding: e}, nil
}
