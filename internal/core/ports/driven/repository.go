package driven

import (
	"context"

	"github.com/custodia-labs/markdown-graph/internal/core/domain"
)

// DocumentRepository enumerates and loads the documents of a corpus.
// Each repository kind (file, memory, github) implements this interface.
type DocumentRepository interface {
	// Kind returns the reference kind this repository produces and loads.
	Kind() domain.ReferenceKind

	// Description returns a human-readable description used in errors and logs.
	Description() string

	// Enumerate yields a reference for every document in the corpus.
	// Both channels are closed when enumeration finishes. Errors on the
	// error channel are non-fatal unless the reference channel closes
	// without yielding anything.
	Enumerate(ctx context.Context) (<-chan domain.DocumentReference, <-chan error)

	// Load reads and normalises the referenced document.
	// Returns an error wrapping domain.ErrFileNotFound,
	// domain.ErrDocumentNotFound or domain.ErrMarkdownParsing.
	Load(ctx context.Context, ref domain.DocumentReference) (*domain.Document, error)

	// Reference builds the reference for a document ID or a
	// corpus-relative path. Used by the watcher and incremental updates.
	Reference(name string) (domain.DocumentReference, error)
}

// ChangeWatcher pushes debounced document change events.
type ChangeWatcher interface {
	// Watch starts watching and returns the change channel.
	// The channel is closed when ctx is cancelled or Close is called.
	Watch(ctx context.Context) (<-chan domain.DocumentChange, error)

	// Close releases resources.
	Close() error
}
