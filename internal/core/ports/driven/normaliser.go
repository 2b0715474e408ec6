package driven

import "github.com/custodia-labs/markdown-graph/internal/core/domain"

// Normaliser turns raw file bytes into a Document.
// It separates frontmatter from the markdown body and flattens the
// frontmatter into string metadata.
type Normaliser interface {
	// Normalise builds the document for ref from its raw content.
	// Malformed frontmatter is not an error: metadata is left empty and
	// a visible marker is appended to the content instead.
	Normalise(ref domain.DocumentReference, content []byte) *domain.Document
}
