package driven

import (
	"context"

	"github.com/custodia-labs/markdown-graph/internal/core/domain"
)

// GraphStore persists graph snapshots.
// Backed by a JSON file, a SQLite database, or memory for tests.
type GraphStore interface {
	// Save replaces the stored graph with g.
	Save(ctx context.Context, g domain.Graph) error

	// Load returns the stored graph.
	// Returns domain.ErrNotFound if nothing has been saved yet.
	Load(ctx context.Context) (*domain.Graph, error)

	// Location describes where the graph is stored (usually a path).
	Location() string
}

// MetricsRecorder receives graph processing measurements.
// Optional - a nil recorder disables metrics.
type MetricsRecorder interface {
	// DocumentProcessed counts a document folded into the graph.
	DocumentProcessed(kind domain.ReferenceKind)

	// DocumentFailed counts a document that failed to load.
	DocumentFailed(kind domain.ReferenceKind)

	// DocumentRemoved counts a document retracted from the graph.
	DocumentRemoved()

	// GraphSize records the current graph size.
	GraphSize(stats domain.Stats)

	// GraphSaved records how long a save took.
	GraphSaved(seconds float64)
}
