// Package slug derives URL-safe identifiers for node IDs and link targets.
package slug

import (
	gslug "github.com/gosimple/slug"

	"github.com/custodia-labs/markdown-graph/internal/core/ports/driven"
)

// Ensure Slugger implements the interface.
var _ driven.Slugger = (*Slugger)(nil)

// Slugger lowercases, transliterates and hyphenates text.
type Slugger struct{}

// New creates a slugger.
func New() *Slugger {
	return &Slugger{}
}

// Slug returns the slug of text, e.g. "Foo Section" becomes "foo-section".
func (s *Slugger) Slug(text string) string {
	return gslug.Make(text)
}
