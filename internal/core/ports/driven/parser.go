package driven

import "github.com/custodia-labs/markdown-graph/internal/core/domain"

// MarkdownParser converts markdown text into an ordered block stream.
// Heading blocks carry their depth; wiki links, links and autolinks are
// exposed as inline children.
type MarkdownParser interface {
	Parse(content string) ([]domain.Block, error)
}

// Slugger turns arbitrary text into a lowercase, hyphenated, URL-safe
// identifier. Implementations must be deterministic.
type Slugger interface {
	Slug(text string) string
}

// ImplicitLinker infers candidate link targets from natural-language text.
type ImplicitLinker interface {
	// Candidates returns slugged candidate targets in emission order.
	// No existence filtering is performed.
	Candidates(text string) []string

	// Aliases returns alternative forms of a candidate (e.g. its
	// singular). Returns an empty slice when there is none.
	Aliases(word string) []string
}
