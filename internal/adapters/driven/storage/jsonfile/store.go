// Package jsonfile stores the graph as a single JSON document of the form
// {"nodes": {...}, "links": [...]}.
//
// Writes go to a temporary file in the same directory which is then
// renamed over the target, so readers never observe a partial graph.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/markdown-graph/internal/core/domain"
	"github.com/custodia-labs/markdown-graph/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.GraphStore = (*Store)(nil)

// Store persists the graph to a JSON file.
type Store struct {
	path   string
	indent string
	mu     sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithIndent sets the indentation used for each nesting level.
// An empty indent writes compact JSON.
func WithIndent(indent string) Option {
	return func(s *Store) {
		s.indent = indent
	}
}

// New creates a store writing to path. Nothing is written until Save.
func New(path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty output path", domain.ErrInvalidInput)
	}
	s := &Store{path: path, indent: "  "}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Location returns the output file path.
func (s *Store) Location() string {
	return s.path
}

// Save writes g to the output file, replacing its previous content.
func (s *Store) Save(ctx context.Context, g domain.Graph) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := s.encode(g)
	if err != nil {
		return fmt.Errorf("marshal graph: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	// Write atomically: temp file + rename
	tempFile, err := os.CreateTemp(dir, ".graph-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("write graph: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close graph: %w", err)
	}
	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("chmod graph: %w", err)
	}
	if err := os.Rename(tempPath, s.path); err != nil {
		return fmt.Errorf("rename graph: %w", err)
	}

	success = true
	return nil
}

// Load reads the graph from the output file.
// Returns domain.ErrNotFound if the file does not exist.
func (s *Store) Load(ctx context.Context) (*domain.Graph, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	data, err := os.ReadFile(s.path)
	s.mu.Unlock()
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("read graph: %w", err)
	}

	var g domain.Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", domain.ErrInvalidInput, s.path, err)
	}
	if g.Nodes == nil {
		g.Nodes = make(map[string]domain.Node)
	}
	if g.Links == nil {
		g.Links = make([]domain.Link, 0)
	}
	return &g, nil
}

// encode marshals g with empty collections written as {} and [].
func (s *Store) encode(g domain.Graph) ([]byte, error) {
	if g.Nodes == nil {
		g.Nodes = make(map[string]domain.Node)
	}
	if g.Links == nil {
		g.Links = make([]domain.Link, 0)
	}
	if s.indent == "" {
		return json.Marshal(g)
	}
	return json.MarshalIndent(g, "", s.indent)
}
