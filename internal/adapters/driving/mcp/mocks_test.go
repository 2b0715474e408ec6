package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/markdown-graph/internal/core/domain"
	"github.com/custodia-labs/markdown-graph/internal/core/ports/driving"
)

// mockGraphIndex is a mock implementation of driving.GraphIndex.
type mockGraphIndex struct {
	graph     domain.Graph
	ownership map[string][]string
	err       error
}

func (m *mockGraphIndex) Initialize(_ context.Context) (domain.Graph, error) {
	return m.graph.Clone(), m.err
}

func (m *mockGraphIndex) Update(_ context.Context, _ string) error {
	return m.err
}

func (m *mockGraphIndex) Remove(_ string) {}

func (m *mockGraphIndex) Graph() domain.Graph {
	return m.graph.Clone()
}

func (m *mockGraphIndex) Stats() domain.Stats {
	return m.graph.Stats()
}

func (m *mockGraphIndex) Owned(documentID string) []string {
	return m.ownership[documentID]
}

// mockWatchService is a mock implementation of driving.WatchService.
type mockWatchService struct {
	status driving.WatchStatus
}

func (m *mockWatchService) Run(_ context.Context) error {
	return nil
}

func (m *mockWatchService) Events() <-chan driving.WatchEvent {
	return nil
}

func (m *mockWatchService) Status() driving.WatchStatus {
	return m.status
}

// testGraph builds:
//
//	foo -> bar, foo -> missing, foo#usage -> foo, bar -> foo#usage
func testGraph() domain.Graph {
	g := domain.NewGraph()
	g.Nodes["foo"] = domain.Node{ID: "foo", Label: "Foo", Metadata: map[string]string{"tags": "a"}}
	g.Nodes["foo#usage"] = domain.Node{ID: "foo#usage", Label: "Usage", Metadata: map[string]string{"tags": "a"}}
	g.Nodes["bar"] = domain.Node{ID: "bar", Label: "Bar"}
	g.Links = append(g.Links,
		domain.Link{Source: "foo", Target: "bar"},
		domain.Link{Source: "foo", Target: "missing"},
		domain.Link{Source: "foo#usage", Target: "foo"},
		domain.Link{Source: "bar", Target: "foo#usage"},
	)
	return g
}

func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}

func testIndex() *mockGraphIndex {
	return &mockGraphIndex{
		graph: testGraph(),
		ownership: map[string][]string{
			"foo": {"foo", "foo#usage"},
			"bar": {"bar"},
		},
	}
}
