package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/markdown-graph/internal/core/domain"
	"github.com/custodia-labs/markdown-graph/internal/core/ports/driven"
)

// AssemblerOption configures an Assembler or GraphIndex.
type AssemblerOption func(*assemblerOptions)

type assemblerOptions struct {
	attribution domain.LinkAttribution
	implicit    bool
	sections    bool
}

func defaultAssemblerOptions() assemblerOptions {
	return assemblerOptions{
		attribution: domain.AttributeToDocument,
		implicit:    true,
		sections:    true,
	}
}

// WithLinkAttribution selects which node explicit links are sourced at.
// Invalid values are ignored.
func WithLinkAttribution(a domain.LinkAttribution) AssemblerOption {
	return func(o *assemblerOptions) {
		if a.IsValid() {
			o.attribution = a
		}
	}
}

// WithImplicitLinks enables or disables lexical implicit links.
func WithImplicitLinks(enabled bool) AssemblerOption {
	return func(o *assemblerOptions) {
		o.implicit = enabled
	}
}

// WithSections selects whether subsections become nodes.
// When disabled, each document produces only its root node and all of
// its links are sourced there.
func WithSections(enabled bool) AssemblerOption {
	return func(o *assemblerOptions) {
		o.sections = enabled
	}
}

// OptionsFromSettings converts graph settings into assembler options.
func OptionsFromSettings(s domain.GraphSettings) []AssemblerOption {
	return []AssemblerOption{
		WithLinkAttribution(s.Attribution),
		WithImplicitLinks(s.ImplicitLinks),
		WithSections(s.Sections),
	}
}

// implicitCandidate is an inferred link waiting for resolution.
// Targets lists the candidate followed by its aliases; the first one
// that names an existing node wins.
type implicitCandidate struct {
	document string
	source   string
	targets  []string
}

// contribution is everything one document adds to a graph.
type contribution struct {
	nodeIDs    []string
	nodes      []domain.Node
	links      []domain.Link
	candidates []implicitCandidate
}

// contributor derives contributions from documents.
// Shared by Assembler and GraphIndex so both compute node IDs and
// links the same way.
type contributor struct {
	parser  driven.MarkdownParser
	slugger driven.Slugger
	linker  driven.ImplicitLinker
	opts    assemblerOptions
}

func newContributor(
	parser driven.MarkdownParser,
	slugger driven.Slugger,
	linker driven.ImplicitLinker,
	opts []AssemblerOption,
) contributor {
	o := defaultAssemblerOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return contributor{parser: parser, slugger: slugger, linker: linker, opts: o}
}

func (c contributor) contribute(doc *domain.Document) (*contribution, error) {
	blocks, err := c.parser.Parse(doc.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrMarkdownParsing, doc.ID, err)
	}

	sections := SplitSections(blocks)
	metadata := nodeMetadata(doc.Metadata)
	out := &contribution{}
	seen := make(map[string]bool, len(sections))

	for _, section := range sections {
		nodeID := c.nodeID(doc, section)
		if !seen[nodeID] {
			seen[nodeID] = true
			out.nodeIDs = append(out.nodeIDs, nodeID)
		}
		if c.opts.sections || section.IsRoot() {
			out.nodes = append(out.nodes, domain.Node{
				ID:       nodeID,
				Label:    section.Title,
				Metadata: metadata,
			})
		}

		source := doc.ID
		if c.opts.attribution == domain.AttributeToSection {
			source = nodeID
		}
		for _, target := range ExtractReferences(section, c.slugger) {
			out.links = append(out.links, domain.Link{Source: source, Target: target})
		}

		if c.opts.implicit && c.linker != nil {
			out.candidates = append(out.candidates, c.implicitCandidates(doc.ID, nodeID, section)...)
		}
	}
	return out, nil
}

// nodeID returns the document ID for the root section and
// "<document>#<slug of title>" for subsections. Without sections every
// section maps to the root. A title with no sluggable characters uses
// the slug of the untitled-section placeholder.
func (c contributor) nodeID(doc *domain.Document, section *domain.Section) string {
	if section.IsRoot() || !c.opts.sections {
		return doc.ID
	}
	slug := c.slugger.Slug(section.Title)
	if slug == "" {
		slug = c.slugger.Slug(domain.UntitledSection)
	}
	return doc.ID + "#" + slug
}

func (c contributor) implicitCandidates(document, source string, section *domain.Section) []implicitCandidate {
	paragraph, ok := section.LeadParagraph()
	if !ok {
		return nil
	}
	text := proseText(paragraph)
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var out []implicitCandidate
	for _, candidate := range c.linker.Candidates(text) {
		targets := append([]string{candidate}, c.linker.Aliases(candidate)...)
		out = append(out, implicitCandidate{document: document, source: source, targets: targets})
	}
	return out
}

// resolve returns the link for a candidate if one of its targets names
// a node in nodes. A document never links implicitly to its own nodes.
func (ic implicitCandidate) resolve(nodes map[string]domain.Node) (domain.Link, bool) {
	for _, target := range ic.targets {
		if target == ic.document || strings.HasPrefix(target, ic.document+"#") {
			continue
		}
		if _, ok := nodes[target]; ok {
			return domain.Link{Source: ic.source, Target: target}, true
		}
	}
	return domain.Link{}, false
}

// proseText returns the natural-language text of a block: code, wiki
// links and autolinks are dropped, link labels are kept.
func proseText(b domain.Block) string {
	var sb strings.Builder
	var walk func(domain.Block)
	walk = func(b domain.Block) {
		switch b.Kind {
		case domain.BlockCode, domain.BlockWikiLink, domain.BlockAutoLink:
			sb.WriteString(" ")
			return
		case domain.BlockText:
			sb.WriteString(b.Text)
			return
		}
		for _, child := range b.Children {
			walk(child)
		}
	}
	for _, child := range b.Children {
		walk(child)
	}
	return sb.String()
}

func nodeMetadata(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	return m
}

// Assembler folds documents into a single graph.
//
// Nodes and explicit links are written as documents are added.
// Implicit candidates are buffered and resolved in Build, once every
// node of the pass is known, so the result does not depend on the
// order documents were added in.
type Assembler struct {
	contributor
	graph   domain.Graph
	pending []implicitCandidate
}

// NewAssembler creates an Assembler. The linker may be nil to disable
// implicit links.
func NewAssembler(
	parser driven.MarkdownParser,
	slugger driven.Slugger,
	linker driven.ImplicitLinker,
	opts ...AssemblerOption,
) *Assembler {
	return &Assembler{
		contributor: newContributor(parser, slugger, linker, opts),
		graph:       domain.NewGraph(),
	}
}

// AddDocument adds the document's nodes and explicit links and buffers
// its implicit candidates. Returns the node IDs the document owns.
func (a *Assembler) AddDocument(doc *domain.Document) ([]string, error) {
	c, err := a.contribute(doc)
	if err != nil {
		return nil, err
	}
	for _, n := range c.nodes {
		a.graph.Nodes[n.ID] = n
	}
	a.graph.Links = append(a.graph.Links, c.links...)
	a.pending = append(a.pending, c.candidates...)
	return c.nodeIDs, nil
}

// AddReference adds a node for a document without loading it.
// The label is the document ID.
func (a *Assembler) AddReference(ref domain.DocumentReference) {
	a.graph.Nodes[ref.ID] = domain.Node{ID: ref.ID, Label: ref.ID}
}

// Build returns an independent graph: a copy of the accumulated nodes
// and links followed by every buffered implicit candidate whose target
// exists. Calling Build again without changes returns an equal graph.
func (a *Assembler) Build() domain.Graph {
	g := a.graph.Clone()
	for _, candidate := range a.pending {
		if link, ok := candidate.resolve(g.Nodes); ok {
			g.Links = append(g.Links, link)
		}
	}
	return g
}

// Reset clears nodes, links and buffered candidates.
func (a *Assembler) Reset() {
	a.graph = domain.NewGraph()
	a.pending = nil
}

// Stats returns the node and link counts accumulated so far.
// Buffered implicit candidates are not counted.
func (a *Assembler) Stats() domain.Stats {
	return a.graph.Stats()
}
