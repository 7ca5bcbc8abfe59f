// Package index reads and writes the JSON side indexes that map document
// paths to descriptions and embedding vectors.
package index

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/herring101/docs-mcp/internal/storage"
)

// Default side-index file names, relative to the project root.
const (
	DefaultDescriptionsFile = "docs_metadata.json"
	DefaultEmbeddingsFile   = "docs_embeddings.json"
)

// Descriptions maps document path to a one-line description.
type Descriptions map[string]string

// Embeddings maps document path to its embedding vector.
type Embeddings map[string][]float64

// ReadDescriptions loads the description index. A missing file yields an
// empty index.
func ReadDescriptions(store storage.Provider, path string) (Descriptions, error) {
	out := Descriptions{}
	if err := readJSON(store, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReadEmbeddings loads the embedding index. A missing file yields an empty
// index.
func ReadEmbeddings(store storage.Provider, path string) (Embeddings, error) {
	out := Embeddings{}
	if err := readJSON(store, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// WriteDescriptions stores the description index pretty-printed.
func WriteDescriptions(store storage.Provider, path string, d Descriptions) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("index: encode %s: %w", path, err)
	}
	return store.Write(path, append(data, '\n'))
}

// WriteEmbeddings stores the embedding index in compact form.
func WriteEmbeddings(store storage.Provider, path string, e Embeddings) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("index: encode %s: %w", path, err)
	}
	return store.Write(path, data)
}

func readJSON(store storage.Provider, path string, target any) error {
	data, err := store.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("index: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("index: decode %s: %w", path, err)
	}
	return nil
}
