package domain

const (
	// RootDepth is the depth of a document's root section.
	RootDepth = 1

	// MaxHeadingDepth is the deepest heading level markdown supports.
	MaxHeadingDepth = 6

	// UntitledDocument is the root section title when a document has
	// neither a heading nor a paragraph.
	UntitledDocument = "untitled"

	// UntitledSection is the title of a section without a heading or paragraph.
	UntitledSection = "no title"
)

// Section is a titled, depth-tagged part of a document.
type Section struct {
	// Depth is 1 for the document's root section, otherwise the
	// heading level that opened the section.
	Depth int

	// Title is the heading text, or the lead paragraph text when the
	// section has no heading.
	Title string

	// Body holds the section's own blocks, including its heading.
	Body []Block

	// Children are the sections nested directly below this one.
	Children []*Section
}

// IsRoot reports whether this is the document's root section.
func (s *Section) IsRoot() bool {
	return s.Depth == RootDepth
}

// Heading returns the first heading in the section body.
func (s *Section) Heading() (Block, bool) {
	return s.first(BlockHeading)
}

// LeadParagraph returns the first paragraph in the section body.
func (s *Section) LeadParagraph() (Block, bool) {
	return s.first(BlockParagraph)
}

func (s *Section) first(kind BlockKind) (Block, bool) {
	for _, b := range s.Body {
		if b.Kind == kind {
			return b, true
		}
	}
	return Block{}, false
}
