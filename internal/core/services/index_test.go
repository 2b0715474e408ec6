package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/markdown-graph/internal/adapters/driven/lexical"
	"github.com/custodia-labs/markdown-graph/internal/adapters/driven/markdown"
	"github.com/custodia-labs/markdown-graph/internal/adapters/driven/slug"
	"github.com/custodia-labs/markdown-graph/internal/connectors/memory"
	"github.com/custodia-labs/markdown-graph/internal/core/domain"
	"github.com/custodia-labs/markdown-graph/internal/core/ports/driven"
)

func newTestIndex(repo driven.DocumentRepository, metrics driven.MetricsRecorder, opts ...AssemblerOption) *GraphIndex {
	return NewGraphIndex(repo, markdown.New(), slug.New(), lexical.New(), metrics, opts...)
}

func linkedCorpus() map[string]string {
	return map[string]string{
		"foo": "# Foo\n\nFoo content linking to [[bar]]",
		"bar": "# Bar\n\nBar content",
	}
}

func TestGraphIndex_Initialize(t *testing.T) {
	t.Run("builds the graph and ownership", func(t *testing.T) {
		x := newTestIndex(memory.New(linkedCorpus()), nil)

		g, err := x.Initialize(context.Background())

		require.NoError(t, err)
		assert.Equal(t, map[string]string{"foo": "Foo", "bar": "Bar"}, nodeLabels(g))
		assert.Equal(t, []domain.Link{{Source: "foo", Target: "bar"}}, g.Links)
		assert.Equal(t, []string{"foo"}, x.Owned("foo"))
		assert.Equal(t, domain.Stats{NodeCount: 2, LinkCount: 1}, x.Stats())
	})

	t.Run("skips documents that fail to load", func(t *testing.T) {
		metrics := &mockMetrics{}
		repo := newFlakyRepository(map[string]string{"a": "# A", "b": "# B", "c": "# C"}, "b")
		x := newTestIndex(repo, metrics)

		g, err := x.Initialize(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{"a", "c"}, g.NodeIDs())
		assert.Nil(t, x.Owned("b"))
		assert.Equal(t, 2, metrics.processed)
		assert.Equal(t, 1, metrics.failed)
		assert.Equal(t, domain.Stats{NodeCount: 2}, metrics.size)
	})

	t.Run("skips documents that fail to parse", func(t *testing.T) {
		x := NewGraphIndex(memory.New(linkedCorpus()), failingParser{}, slug.New(), nil, nil)

		g, err := x.Initialize(context.Background())

		require.NoError(t, err)
		assert.Empty(t, g.Nodes)
	})

	t.Run("empty corpus", func(t *testing.T) {
		x := newTestIndex(memory.New(nil), nil)

		g, err := x.Initialize(context.Background())

		require.NoError(t, err)
		assert.Equal(t, domain.NewGraph(), g)
	})

	t.Run("cancelled context", func(t *testing.T) {
		x := newTestIndex(memory.New(linkedCorpus()), nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := x.Initialize(ctx)

		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("reinitializing replaces the graph", func(t *testing.T) {
		repo := memory.New(linkedCorpus())
		x := newTestIndex(repo, nil)
		_, err := x.Initialize(context.Background())
		require.NoError(t, err)

		repo.Delete("foo")
		g, err := x.Initialize(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{"bar"}, g.NodeIDs())
		assert.Nil(t, x.Owned("foo"))
	})
}

func TestGraphIndex_Remove(t *testing.T) {
	t.Run("removing a link target drops its node and incoming links", func(t *testing.T) {
		metrics := &mockMetrics{}
		x := newTestIndex(memory.New(linkedCorpus()), metrics)
		_, err := x.Initialize(context.Background())
		require.NoError(t, err)

		x.Remove("bar")

		g := x.Graph()
		assert.False(t, g.HasNode("bar"))
		assert.True(t, g.HasNode("foo"))
		assert.Empty(t, g.LinksTo("bar"))
		assert.Nil(t, x.Owned("bar"))
		assert.Equal(t, 1, metrics.removed)
	})

	t.Run("removing a document drops its sections and outgoing links", func(t *testing.T) {
		x := newTestIndex(memory.New(map[string]string{
			"foo": "# Foo\n\n[[bar]]\n\n## Part\n\n[[baz]]",
			"bar": "# Bar",
		}), nil)
		_, err := x.Initialize(context.Background())
		require.NoError(t, err)

		x.Remove("Foo.md")

		g := x.Graph()
		assert.Equal(t, []string{"bar"}, g.NodeIDs())
		assert.Empty(t, g.Links)
	})

	t.Run("update then remove leaves nothing behind", func(t *testing.T) {
		repo := memory.New(linkedCorpus())
		x := newTestIndex(repo, nil, WithLinkAttribution(domain.AttributeToSection))
		_, err := x.Initialize(context.Background())
		require.NoError(t, err)

		repo.Put("foo", "# Foo\n\n[[bar]]\n\n## Extra\n\n[[bar]]")
		require.NoError(t, x.Update(context.Background(), "foo"))
		require.Equal(t, []string{"foo", "foo#extra"}, x.Owned("foo"))

		x.Remove("foo")

		g := x.Graph()
		assert.Nil(t, x.Owned("foo"))
		assert.Equal(t, []string{"bar"}, g.NodeIDs())
		for _, id := range []string{"foo", "foo#extra"} {
			assert.Empty(t, g.LinksFrom(id))
			assert.Empty(t, g.LinksTo(id))
		}
	})

	t.Run("unknown documents are ignored", func(t *testing.T) {
		metrics := &mockMetrics{}
		x := newTestIndex(memory.New(linkedCorpus()), metrics)
		_, err := x.Initialize(context.Background())
		require.NoError(t, err)

		x.Remove("nope")

		assert.Equal(t, domain.Stats{NodeCount: 2, LinkCount: 1}, x.Stats())
		assert.Zero(t, metrics.removed)
	})
}

func TestGraphIndex_Update(t *testing.T) {
	t.Run("replaces a changed document", func(t *testing.T) {
		repo := memory.New(linkedCorpus())
		x := newTestIndex(repo, nil)
		_, err := x.Initialize(context.Background())
		require.NoError(t, err)

		repo.Put("foo", "# Foo renamed\n\nnow links to [[baz]]\n\n## Extra")
		require.NoError(t, x.Update(context.Background(), "foo"))

		g := x.Graph()
		assert.Equal(t, "Foo renamed", g.Nodes["foo"].Label)
		assert.True(t, g.HasNode("foo#extra"))
		assert.Equal(t, []domain.Link{{Source: "foo", Target: "baz"}}, g.Links)
		assert.Equal(t, []string{"foo", "foo#extra"}, x.Owned("foo"))
	})

	t.Run("adds a new document", func(t *testing.T) {
		repo := memory.New(linkedCorpus())
		x := newTestIndex(repo, nil)
		_, err := x.Initialize(context.Background())
		require.NoError(t, err)

		repo.Put("baz", "# Baz\n\n[[foo]]")
		require.NoError(t, x.Update(context.Background(), "baz"))

		g := x.Graph()
		assert.True(t, g.HasNode("baz"))
		assert.Contains(t, g.Links, domain.Link{Source: "baz", Target: "foo"})
		assert.Len(t, g.Links, 2)
	})

	t.Run("resolves implicit links against the current nodes", func(t *testing.T) {
		repo := memory.New(map[string]string{"library": "# Library"})
		x := newTestIndex(repo, nil)
		_, err := x.Initialize(context.Background())
		require.NoError(t, err)

		repo.Put("readme", "# Readme\n\nThis is an awesome library.")
		require.NoError(t, x.Update(context.Background(), "readme"))

		assert.Equal(t, []domain.Link{{Source: "readme", Target: "library"}}, x.Graph().Links)
	})

	t.Run("updating a link target drops links into it", func(t *testing.T) {
		repo := memory.New(linkedCorpus())
		x := newTestIndex(repo, nil)
		_, err := x.Initialize(context.Background())
		require.NoError(t, err)

		require.NoError(t, x.Update(context.Background(), "bar"))

		g := x.Graph()
		assert.True(t, g.HasNode("bar"))
		assert.Empty(t, g.LinksTo("bar"))
	})

	t.Run("a document that can no longer be loaded stays retracted", func(t *testing.T) {
		metrics := &mockMetrics{}
		repo := memory.New(linkedCorpus())
		x := newTestIndex(repo, metrics)
		_, err := x.Initialize(context.Background())
		require.NoError(t, err)

		repo.Delete("foo")
		err = x.Update(context.Background(), "foo")

		assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
		assert.False(t, x.Graph().HasNode("foo"))
		assert.Empty(t, x.Graph().Links)
		assert.Equal(t, 1, metrics.failed)
	})

	t.Run("uses the configured attribution", func(t *testing.T) {
		repo := memory.New(map[string]string{"a": "# A"})
		x := newTestIndex(repo, nil, WithLinkAttribution(domain.AttributeToSection))
		_, err := x.Initialize(context.Background())
		require.NoError(t, err)

		repo.Put("a", "# A\n\n## Sub\n\n[[b]]")
		require.NoError(t, x.Update(context.Background(), "a"))

		assert.Equal(t, []domain.Link{{Source: "a#sub", Target: "b"}}, x.Graph().Links)
	})

	t.Run("invalid name", func(t *testing.T) {
		x := newTestIndex(memory.New(nil), nil)

		err := x.Update(context.Background(), "")

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestGraphIndex_GraphIsACopy(t *testing.T) {
	x := newTestIndex(memory.New(linkedCorpus()), nil)
	_, err := x.Initialize(context.Background())
	require.NoError(t, err)

	g := x.Graph()
	delete(g.Nodes, "foo")
	g.Links = nil

	assert.Equal(t, domain.Stats{NodeCount: 2, LinkCount: 1}, x.Stats())
}

func TestGraphIndex_EnumerationFailure(t *testing.T) {
	x := newTestIndex(brokenRepository{memory.New(nil)}, nil)

	_, err := x.Initialize(context.Background())

	assert.ErrorIs(t, err, domain.ErrRepositoryConfiguration)
}
