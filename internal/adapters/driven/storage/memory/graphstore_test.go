package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/markdown-graph/internal/core/domain"
)

func TestNewGraphStore(t *testing.T) {
	store := NewGraphStore()
	require.NotNil(t, store)
	assert.Equal(t, "memory", store.Location())
	assert.Zero(t, store.Saves())
}

func TestGraphStore_Load_Empty(t *testing.T) {
	store := NewGraphStore()

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGraphStore_SaveLoad(t *testing.T) {
	store := NewGraphStore()
	ctx := context.Background()
	g := domain.NewGraph()
	g.Nodes["foo"] = domain.Node{ID: "foo", Label: "Foo", Metadata: map[string]string{"k": "v"}}
	g.Links = append(g.Links, domain.Link{Source: "foo", Target: "bar"})

	require.NoError(t, store.Save(ctx, g))
	assert.Equal(t, 1, store.Saves())

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, g, *loaded)
}

func TestGraphStore_Isolation(t *testing.T) {
	store := NewGraphStore()
	ctx := context.Background()
	g := domain.NewGraph()
	g.Nodes["foo"] = domain.Node{ID: "foo", Label: "Foo", Metadata: map[string]string{"k": "v"}}
	require.NoError(t, store.Save(ctx, g))

	// Mutating the saved graph does not affect the store.
	g.Nodes["foo"].Metadata["k"] = "changed"
	delete(g.Nodes, "foo")

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Contains(t, loaded.Nodes, "foo")
	assert.Equal(t, "v", loaded.Nodes["foo"].Metadata["k"])

	// Mutating a loaded graph does not affect the store.
	loaded.Links = append(loaded.Links, domain.Link{Source: "x", Target: "y"})
	again, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, again.Links)
}

func TestGraphStore_Save_CancelledContext(t *testing.T) {
	store := NewGraphStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Save(ctx, domain.NewGraph()), context.Canceled)
	assert.Zero(t, store.Saves())
}
