package domain

import "strings"

// BlockKind tags the type of a parsed markdown node.
type BlockKind int

const (
	// BlockOther is any node the graph engine does not inspect.
	// Its children are still traversed.
	BlockOther BlockKind = iota

	// BlockHeading is an ATX or setext heading. Depth holds the level.
	BlockHeading

	// BlockParagraph is a paragraph of inline content.
	BlockParagraph

	// BlockText is literal inline text.
	BlockText

	// BlockWikiLink is a [[target]] reference. Text holds the raw target.
	BlockWikiLink

	// BlockLink is an inline markdown link. URL holds the destination.
	BlockLink

	// BlockAutoLink is a bare <https://...> link. URL holds the address.
	BlockAutoLink

	// BlockCode is inline code or a code block. Text holds the code.
	BlockCode

	// BlockList is an ordered or bullet list.
	BlockList

	// BlockListItem is one entry of a list.
	BlockListItem

	// BlockQuote is a blockquote.
	BlockQuote

	// BlockTable is a table. Rows are its children.
	BlockTable
)

var blockKindNames = map[BlockKind]string{
	BlockOther:     "other",
	BlockHeading:   "heading",
	BlockParagraph: "paragraph",
	BlockText:      "text",
	BlockWikiLink:  "wikiLink",
	BlockLink:      "link",
	BlockAutoLink:  "autoLink",
	BlockCode:      "code",
	BlockList:      "list",
	BlockListItem:  "listItem",
	BlockQuote:     "blockquote",
	BlockTable:     "table",
}

// String returns the string representation.
func (k BlockKind) String() string {
	if name, ok := blockKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Block is one node of a parsed markdown document.
// Parsers produce an ordered sequence of top-level blocks; containers
// carry their content in Children.
type Block struct {
	// Kind is the node type.
	Kind BlockKind

	// Depth is the heading level (1-6). Zero for non-headings.
	Depth int

	// Text is the literal value of text and code nodes, or the raw
	// target of a wiki link.
	Text string

	// URL is the destination of link and autolink nodes.
	URL string

	// Children are nested inline or block nodes in document order.
	Children []Block
}

// IsHeading reports whether the block is a heading.
func (b Block) IsHeading() bool {
	return b.Kind == BlockHeading
}

// PlainText returns the concatenated text of the block's descendants.
// Autolinks are excluded so a bare URL never becomes part of a title.
func (b Block) PlainText() string {
	var sb strings.Builder
	for _, child := range b.Children {
		child.writeText(&sb)
	}
	return sb.String()
}

func (b Block) writeText(sb *strings.Builder) {
	switch b.Kind {
	case BlockAutoLink:
		return
	case BlockText, BlockCode:
		sb.WriteString(b.Text)
		return
	case BlockWikiLink:
		if len(b.Children) == 0 {
			sb.WriteString(b.Text)
			return
		}
	}
	for _, child := range b.Children {
		child.writeText(sb)
	}
}

// Flatten returns the blocks followed by all of their descendants.
// Direct blocks come first, then each block's descendants in order,
// recursively.
func Flatten(blocks []Block) []Block {
	all := make([]Block, 0, len(blocks))
	all = append(all, blocks...)
	for _, b := range blocks {
		all = append(all, Flatten(b.Children)...)
	}
	return all
}
