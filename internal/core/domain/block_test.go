package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func text(s string) Block { return Block{Kind: BlockText, Text: s} }

func TestBlock_PlainText(t *testing.T) {
	tests := []struct {
		name     string
		block    Block
		expected string
	}{
		{
			name:     "plain heading",
			block:    Block{Kind: BlockHeading, Depth: 1, Children: []Block{text("Foo")}},
			expected: "Foo",
		},
		{
			name: "nested emphasis and code",
			block: Block{Kind: BlockParagraph, Children: []Block{
				text("a "),
				{Kind: BlockOther, Children: []Block{text("bold")}},
				text(" "),
				{Kind: BlockCode, Text: "x()"},
			}},
			expected: "a bold x()",
		},
		{
			name: "autolink excluded",
			block: Block{Kind: BlockHeading, Children: []Block{
				text("See "),
				{Kind: BlockAutoLink, URL: "https://foo.com"},
			}},
			expected: "See ",
		},
		{
			name: "link keeps its text",
			block: Block{Kind: BlockParagraph, Children: []Block{
				{Kind: BlockLink, URL: "./bar.md", Children: []Block{text("Bar")}},
			}},
			expected: "Bar",
		},
		{
			name: "wiki link without label uses target",
			block: Block{Kind: BlockParagraph, Children: []Block{
				{Kind: BlockWikiLink, Text: "bar"},
			}},
			expected: "bar",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.block.PlainText())
		})
	}
}

func TestFlatten_DirectBlocksFirst(t *testing.T) {
	blocks := []Block{
		{Kind: BlockParagraph, Children: []Block{
			{Kind: BlockWikiLink, Text: "a"},
		}},
		{Kind: BlockList, Children: []Block{
			{Kind: BlockListItem, Children: []Block{
				{Kind: BlockWikiLink, Text: "b"},
			}},
		}},
	}

	flat := Flatten(blocks)

	kinds := make([]BlockKind, len(flat))
	for i, b := range flat {
		kinds[i] = b.Kind
	}
	assert.Equal(t, []BlockKind{
		BlockParagraph, BlockList, BlockWikiLink, BlockListItem, BlockWikiLink,
	}, kinds)
}

func TestBlockKind_String(t *testing.T) {
	assert.Equal(t, "heading", BlockHeading.String())
	assert.Equal(t, "wikiLink", BlockWikiLink.String())
	assert.Equal(t, "unknown", BlockKind(99).String())
}

func TestSection_Accessors(t *testing.T) {
	s := &Section{Depth: 2, Body: []Block{
		{Kind: BlockParagraph, Children: []Block{text("p")}},
		{Kind: BlockHeading, Depth: 2, Children: []Block{text("h")}},
	}}

	h, ok := s.Heading()
	assert.True(t, ok)
	assert.Equal(t, "h", h.PlainText())

	p, ok := s.LeadParagraph()
	assert.True(t, ok)
	assert.Equal(t, "p", p.PlainText())

	assert.False(t, s.IsRoot())
	assert.True(t, (&Section{Depth: RootDepth}).IsRoot())

	_, ok = (&Section{}).Heading()
	assert.False(t, ok)
}

func TestChangeType_String(t *testing.T) {
	assert.Equal(t, "created", ChangeCreated.String())
	assert.Equal(t, "updated", ChangeUpdated.String())
	assert.Equal(t, "deleted", ChangeDeleted.String())
	assert.Equal(t, "unknown", ChangeType(9).String())
}

func TestReferenceKind_String(t *testing.T) {
	assert.Equal(t, "file", ReferenceFile.String())
	assert.Equal(t, "memory", ReferenceMemory.String())
	assert.Equal(t, "github", ReferenceGitHub.String())
}
