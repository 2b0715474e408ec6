// Package markdown parses markdown into the block stream consumed by
// the graph engine, using goldmark with table and wiki link extensions.
package markdown

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"go.abhg.dev/goldmark/wikilink"

	"github.com/custodia-labs/markdown-graph/internal/core/domain"
	"github.com/custodia-labs/markdown-graph/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.MarkdownParser = (*Parser)(nil)

// Parser converts markdown to domain blocks.
// It is safe for concurrent use.
type Parser struct {
	md goldmark.Markdown
}

// New creates a parser with [[wiki link]] and table support.
func New() *Parser {
	return &Parser{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.Table,
				&wikilink.Extender{},
			),
		),
	}
}

// Parse returns the top-level blocks of content in document order.
func (p *Parser) Parse(content string) (blocks []domain.Block, err error) {
	defer func() {
		if r := recover(); r != nil {
			blocks, err = nil, fmt.Errorf("goldmark: %v", r)
		}
	}()

	src := []byte(content)
	root := p.md.Parser().Parse(text.NewReader(src))
	return convertChildren(root, src), nil
}

func convertChildren(n ast.Node, src []byte) []domain.Block {
	var out []domain.Block
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		out = append(out, convert(child, src))
	}
	return out
}

func convert(n ast.Node, src []byte) domain.Block {
	switch node := n.(type) {
	case *ast.Heading:
		return domain.Block{Kind: domain.BlockHeading, Depth: node.Level, Children: convertChildren(node, src)}

	case *ast.Paragraph, *ast.TextBlock:
		return domain.Block{Kind: domain.BlockParagraph, Children: convertChildren(node, src)}

	case *ast.Text:
		value := string(node.Segment.Value(src))
		if node.SoftLineBreak() || node.HardLineBreak() {
			value += "\n"
		}
		return domain.Block{Kind: domain.BlockText, Text: value}

	case *ast.String:
		return domain.Block{Kind: domain.BlockText, Text: string(node.Value)}

	case *ast.CodeSpan:
		return domain.Block{Kind: domain.BlockCode, Text: inlineText(node, src)}

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		return domain.Block{Kind: domain.BlockCode, Text: linesText(node, src)}

	case *ast.Link:
		return domain.Block{Kind: domain.BlockLink, URL: string(node.Destination), Children: convertChildren(node, src)}

	case *ast.AutoLink:
		return domain.Block{Kind: domain.BlockAutoLink, URL: string(node.URL(src))}

	case *wikilink.Node:
		target := string(node.Target)
		if len(node.Fragment) > 0 {
			target += "#" + string(node.Fragment)
		}
		return domain.Block{Kind: domain.BlockWikiLink, Text: target, Children: convertChildren(node, src)}

	case *ast.List:
		return domain.Block{Kind: domain.BlockList, Children: convertChildren(node, src)}

	case *ast.ListItem:
		return domain.Block{Kind: domain.BlockListItem, Children: convertChildren(node, src)}

	case *ast.Blockquote:
		return domain.Block{Kind: domain.BlockQuote, Children: convertChildren(node, src)}

	case *east.Table:
		return domain.Block{Kind: domain.BlockTable, Children: convertChildren(node, src)}

	default:
		return domain.Block{Kind: domain.BlockOther, Children: convertChildren(node, src)}
	}
}

// inlineText concatenates the literal text below an inline node.
func inlineText(n ast.Node, src []byte) string {
	var sb strings.Builder
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch c := child.(type) {
		case *ast.Text:
			sb.Write(c.Segment.Value(src))
		case *ast.String:
			sb.Write(c.Value)
		default:
			sb.WriteString(inlineText(c, src))
		}
	}
	return sb.String()
}

// linesText returns the raw lines of a block node such as a code block.
func linesText(n ast.Node, src []byte) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		sb.Write(segment.Value(src))
	}
	return sb.String()
}
