package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/custodia-labs/markdown-graph/internal/adapters/driven/lexical"
	"github.com/custodia-labs/markdown-graph/internal/adapters/driven/markdown"
	"github.com/custodia-labs/markdown-graph/internal/adapters/driven/slug"
	"github.com/custodia-labs/markdown-graph/internal/connectors/memory"
	"github.com/custodia-labs/markdown-graph/internal/core/domain"
	"github.com/custodia-labs/markdown-graph/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockStore implements driven.GraphStore for testing.
type mockStore struct {
	mu      sync.Mutex
	saved   []domain.Graph
	saveErr error
}

func (m *mockStore) Save(_ context.Context, g domain.Graph) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, g.Clone())
	return nil
}

func (m *mockStore) Load(_ context.Context) (*domain.Graph, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.saved) == 0 {
		return nil, domain.ErrNotFound
	}
	g := m.saved[len(m.saved)-1].Clone()
	return &g, nil
}

func (m *mockStore) Location() string {
	return "mock"
}

func (m *mockStore) saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saved)
}

func (m *mockStore) last() domain.Graph {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saved[len(m.saved)-1]
}

// mockMetrics implements driven.MetricsRecorder for testing.
type mockMetrics struct {
	mu        sync.Mutex
	processed int
	failed    int
	removed   int
	saved     int
	size      domain.Stats
}

func (m *mockMetrics) DocumentProcessed(domain.ReferenceKind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.processed++
}

func (m *mockMetrics) DocumentFailed(domain.ReferenceKind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failed++
}

func (m *mockMetrics) DocumentRemoved() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removed++
}

func (m *mockMetrics) GraphSize(stats domain.Stats) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.size = stats
}

func (m *mockMetrics) GraphSaved(float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved++
}

// failingParser implements driven.MarkdownParser and always fails.
type failingParser struct{}

func (failingParser) Parse(string) ([]domain.Block, error) {
	return nil, errors.New("parser exploded")
}

// Ensure mocks implement the interfaces.
var (
	_ driven.GraphStore      = (*mockStore)(nil)
	_ driven.MetricsRecorder = (*mockMetrics)(nil)
	_ driven.MarkdownParser  = failingParser{}
)

func newTestAssembler(opts ...AssemblerOption) *Assembler {
	return NewAssembler(markdown.New(), slug.New(), lexical.New(), opts...)
}

func doc(id, content string) *domain.Document {
	return &domain.Document{ID: id, Hash: id, Content: content}
}

func parse(content string) []domain.Block {
	blocks, err := markdown.New().Parse(content)
	if err != nil {
		panic(err)
	}
	return blocks
}

func nodeLabels(g domain.Graph) map[string]string {
	labels := make(map[string]string, len(g.Nodes))
	for id, n := range g.Nodes {
		labels[id] = n.Label
	}
	return labels
}

func parserForTest() driven.MarkdownParser {
	return markdown.New()
}

// flakyRepository wraps a memory repository and fails to load some IDs.
type flakyRepository struct {
	*memory.Repository
	fail  map[string]bool
	mu    sync.Mutex
	loads int
}

func newFlakyRepository(content map[string]string, fail ...string) *flakyRepository {
	r := &flakyRepository{Repository: memory.New(content), fail: make(map[string]bool)}
	for _, id := range fail {
		r.fail[id] = true
	}
	return r
}

func (r *flakyRepository) Load(ctx context.Context, ref domain.DocumentReference) (*domain.Document, error) {
	r.mu.Lock()
	r.loads++
	r.mu.Unlock()
	if r.fail[ref.ID] {
		return nil, fmt.Errorf("%w: %s", domain.ErrMarkdownParsing, ref.ID)
	}
	return r.Repository.Load(ctx, ref)
}

func (r *flakyRepository) loadCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loads
}

// brokenRepository fails enumeration without yielding any reference.
type brokenRepository struct {
	*memory.Repository
}

func (r brokenRepository) Enumerate(context.Context) (<-chan domain.DocumentReference, <-chan error) {
	refs := make(chan domain.DocumentReference)
	errs := make(chan error, 1)
	errs <- fmt.Errorf("%w: no such corpus", domain.ErrRepositoryConfiguration)
	close(refs)
	close(errs)
	return refs, errs
}
