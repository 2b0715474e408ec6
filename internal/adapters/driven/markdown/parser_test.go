package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/markdown-graph/internal/core/domain"
)

func kinds(blocks []domain.Block) []domain.BlockKind {
	out := make([]domain.BlockKind, len(blocks))
	for i, b := range blocks {
		out[i] = b.Kind
	}
	return out
}

func findAll(blocks []domain.Block, kind domain.BlockKind) []domain.Block {
	var out []domain.Block
	for _, b := range domain.Flatten(blocks) {
		if b.Kind == kind {
			out = append(out, b)
		}
	}
	return out
}

func TestParser_Headings(t *testing.T) {
	blocks, err := New().Parse("# Foo\n\nfoo content\n\n## Foo section\n\n#### Deep")
	require.NoError(t, err)

	assert.Equal(t, []domain.BlockKind{
		domain.BlockHeading, domain.BlockParagraph, domain.BlockHeading, domain.BlockHeading,
	}, kinds(blocks))
	assert.Equal(t, 1, blocks[0].Depth)
	assert.Equal(t, "Foo", blocks[0].PlainText())
	assert.Equal(t, 2, blocks[2].Depth)
	assert.Equal(t, "Foo section", blocks[2].PlainText())
	assert.Equal(t, 4, blocks[3].Depth)
}

func TestParser_SetextHeading(t *testing.T) {
	blocks, err := New().Parse("Title\n=====\n\nSub\n---\n")
	require.NoError(t, err)

	require.Len(t, blocks, 2)
	assert.Equal(t, 1, blocks[0].Depth)
	assert.Equal(t, 2, blocks[1].Depth)
}

func TestParser_WikiLinks(t *testing.T) {
	blocks, err := New().Parse("Foo content linking to [[bar]] and [[Other Page#Intro|other]]")
	require.NoError(t, err)

	links := findAll(blocks, domain.BlockWikiLink)
	require.Len(t, links, 2)
	assert.Equal(t, "bar", links[0].Text)
	assert.Equal(t, "Other Page#Intro", links[1].Text)
}

func TestParser_Links(t *testing.T) {
	blocks, err := New().Parse("See [Bar](./bar.md), <https://example.com> and [x](https://x.io).")
	require.NoError(t, err)

	links := findAll(blocks, domain.BlockLink)
	require.Len(t, links, 2)
	assert.Equal(t, "./bar.md", links[0].URL)
	assert.Equal(t, "Bar", links[0].PlainText())
	assert.Equal(t, "https://x.io", links[1].URL)

	auto := findAll(blocks, domain.BlockAutoLink)
	require.Len(t, auto, 1)
	assert.Equal(t, "https://example.com", auto[0].URL)

	assert.NotContains(t, blocks[0].PlainText(), "example.com")
}

func TestParser_NestedContainers(t *testing.T) {
	blocks, err := New().Parse("- one [[a]]\n- two\n\n> quoted [[b]]\n")
	require.NoError(t, err)

	assert.Equal(t, []domain.BlockKind{domain.BlockList, domain.BlockQuote}, kinds(blocks))
	links := findAll(blocks, domain.BlockWikiLink)
	require.Len(t, links, 2)
	assert.Equal(t, "a", links[0].Text)
	assert.Equal(t, "b", links[1].Text)
}

func TestParser_CodeAndTables(t *testing.T) {
	content := "Use `lint` here.\n\n```go\nfmt.Println()\n```\n\n| a | b |\n|---|---|\n| 1 | 2 |\n"
	blocks, err := New().Parse(content)
	require.NoError(t, err)

	code := findAll(blocks, domain.BlockCode)
	require.Len(t, code, 2)
	assert.Equal(t, "lint", code[0].Text)
	assert.Equal(t, "fmt.Println()\n", code[1].Text)

	assert.Len(t, findAll(blocks, domain.BlockTable), 1)
}

func TestParser_Empty(t *testing.T) {
	blocks, err := New().Parse("")
	require.NoError(t, err)
	assert.Empty(t, blocks)
}
