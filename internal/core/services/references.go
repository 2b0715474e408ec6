package services

import (
	"strings"

	"github.com/custodia-labs/markdown-graph/internal/core/domain"
	"github.com/custodia-labs/markdown-graph/internal/core/ports/driven"
)

// relativeLinkPrefix marks a markdown link as pointing at another document.
const relativeLinkPrefix = "./"

// ExtractReferences returns the explicit link targets of a section in
// document order, duplicates preserved.
//
// Wiki links yield the slug of their target; a "target#heading" wiki
// link yields "<slug>#<slug>" so it addresses a subsection node.
// Links whose URL starts with "./" yield the final path segment with
// the .md extension removed.
func ExtractReferences(section *domain.Section, slugger driven.Slugger) []string {
	var targets []string
	for _, block := range domain.Flatten(section.Body) {
		switch block.Kind {
		case domain.BlockWikiLink:
			if target := wikiTarget(block.Text, slugger); target != "" {
				targets = append(targets, target)
			}
		case domain.BlockLink:
			if strings.HasPrefix(block.URL, relativeLinkPrefix) {
				if target := fileNameFromURL(block.URL); target != "" {
					targets = append(targets, target)
				}
			}
		}
	}
	return targets
}

func wikiTarget(raw string, slugger driven.Slugger) string {
	page, heading, found := strings.Cut(raw, "#")
	target := slugger.Slug(page)
	if found && heading != "" {
		return target + "#" + slugger.Slug(heading)
	}
	return target
}

// fileNameFromURL strips directories, any query or fragment, trailing
// slashes and .md extensions from a relative URL.
func fileNameFromURL(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}
	for {
		trimmed := strings.TrimSuffix(strings.TrimSuffix(url, "/"), ".md")
		if trimmed == url {
			break
		}
		url = trimmed
	}
	if i := strings.LastIndex(url, "/"); i >= 0 {
		url = url[i+1:]
	}
	return url
}
