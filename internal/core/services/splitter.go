package services

import (
	"strings"

	"github.com/custodia-labs/markdown-graph/internal/core/domain"
)

// SplitSections converts a document's block stream into sections.
//
// The first section is always the depth-1 root. Top-level headings and
// all content before the first subsection belong to the root. A heading
// of depth > 1 opens a new section, unless no top-level heading has been
// seen yet, in which case the heading is dropped.
//
// A new section attaches to the nearest open section of smaller depth,
// so a skipped level (## followed by ####) nests directly below the ##
// section without a synthesized intermediate.
//
// The returned slice holds every section in document order; the tree is
// reachable from element 0 through Children.
func SplitSections(blocks []domain.Block) []*domain.Section {
	root := &domain.Section{Depth: domain.RootDepth}
	sections := []*domain.Section{root}

	var open [domain.MaxHeadingDepth + 1]*domain.Section
	open[domain.RootDepth] = root

	current := root
	foundRootHeading := false

	for _, block := range blocks {
		if block.IsHeading() {
			depth := clampDepth(block.Depth)
			if depth == domain.RootDepth {
				current = root
				foundRootHeading = true
			} else {
				if !foundRootHeading {
					continue
				}
				section := &domain.Section{Depth: depth}
				parent := nearestOpen(&open, depth)
				parent.Children = append(parent.Children, section)
				open[depth] = section
				for d := depth + 1; d <= domain.MaxHeadingDepth; d++ {
					open[d] = nil
				}
				sections = append(sections, section)
				current = section
			}
		}
		current.Body = append(current.Body, block)
	}

	for _, s := range sections {
		s.Title = sectionTitle(s)
	}
	return sections
}

// nearestOpen returns the deepest open section above depth.
// The root occupies depth 1, so a parent always exists.
func nearestOpen(open *[domain.MaxHeadingDepth + 1]*domain.Section, depth int) *domain.Section {
	for d := depth - 1; d > domain.RootDepth; d-- {
		if open[d] != nil {
			return open[d]
		}
	}
	return open[domain.RootDepth]
}

func clampDepth(depth int) int {
	if depth < domain.RootDepth {
		return domain.RootDepth
	}
	if depth > domain.MaxHeadingDepth {
		return domain.MaxHeadingDepth
	}
	return depth
}

// sectionTitle returns the heading text, else the lead paragraph text,
// else a placeholder. Blank text falls through to the next choice, so
// an empty "## " heading never yields an empty title.
func sectionTitle(s *domain.Section) string {
	if heading, ok := s.Heading(); ok {
		if title := strings.TrimSpace(heading.PlainText()); title != "" {
			return title
		}
	}
	if paragraph, ok := s.LeadParagraph(); ok {
		if title := strings.TrimSpace(paragraph.PlainText()); title != "" {
			return title
		}
	}
	if s.IsRoot() {
		return domain.UntitledDocument
	}
	return domain.UntitledSection
}
