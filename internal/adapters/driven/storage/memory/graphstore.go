// Package memory provides an in-memory driven.GraphStore for tests and
// for commands that never write to disk.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/markdown-graph/internal/core/domain"
	"github.com/custodia-labs/markdown-graph/internal/core/ports/driven"
)

// Ensure GraphStore implements the interface.
var _ driven.GraphStore = (*GraphStore)(nil)

// GraphStore is an in-memory implementation of driven.GraphStore.
// Saved graphs are deep-copied in both directions.
type GraphStore struct {
	mu    sync.RWMutex
	graph *domain.Graph
	saves int
}

// NewGraphStore creates an empty in-memory graph store.
func NewGraphStore() *GraphStore {
	return &GraphStore{}
}

// Save replaces the stored graph.
func (s *GraphStore) Save(ctx context.Context, g domain.Graph) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	clone := g.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graph = &clone
	s.saves++
	return nil
}

// Load returns a copy of the stored graph.
// Returns domain.ErrNotFound if nothing has been saved.
func (s *GraphStore) Load(_ context.Context) (*domain.Graph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.graph == nil {
		return nil, fmt.Errorf("%w: no graph saved", domain.ErrNotFound)
	}
	clone := s.graph.Clone()
	return &clone, nil
}

// Location returns a fixed description.
func (s *GraphStore) Location() string {
	return "memory"
}

// Saves returns how many times Save succeeded.
func (s *GraphStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}
