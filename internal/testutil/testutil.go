// Package testutil provides shared test helpers for building project roots
// and loaded document stores.
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/herring101/docs-mcp/internal/docstore"
	"github.com/herring101/docs-mcp/internal/storage"
)

// ProjectRoot creates a temporary project root populated with files
// (path relative to the root → content).
func ProjectRoot(t *testing.T, files map[string]string) *storage.FS {
	t.Helper()
	fs, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for p, content := range files {
		if err := fs.Write(p, []byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	return fs
}

// WriteJSON encodes v into the project file at path.
func WriteJSON(t *testing.T, fs *storage.FS, path string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	if err := fs.Write(path, data); err != nil {
		t.Fatal(err)
	}
}

// Logger returns a JSON logger writing into the returned buffer.
func Logger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

// LoadedStore builds and loads a Store over fs, optionally restricted to folders.
func LoadedStore(t *testing.T, fs *storage.FS, folders ...string) *docstore.Store {
	t.Helper()
	logger, _ := Logger()
	s := docstore.New(fs, docstore.Options{AllowedFolders: folders, Logger: logger})
	if _, err := s.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	return s
}
