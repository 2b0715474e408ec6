package driving

import (
	"context"

	"github.com/custodia-labs/markdown-graph/internal/core/domain"
)

// GraphService builds graphs from a whole corpus in one pass.
type GraphService interface {
	// Assemble loads every document in the repository and returns the graph.
	// Documents that fail to load are logged and skipped.
	Assemble(ctx context.Context) (domain.Graph, error)

	// Generate assembles the graph and saves it to the configured store.
	Generate(ctx context.Context) (domain.Graph, error)
}

// GraphIndex maintains a graph incrementally as documents change.
// It remembers which nodes each document contributed so a single
// document can be replaced or removed without a full rebuild.
type GraphIndex interface {
	// Initialize processes every document in the repository and
	// returns the first snapshot. Bad documents are logged and skipped.
	Initialize(ctx context.Context) (domain.Graph, error)

	// Update retracts the document's previous contribution and
	// reprocesses its current content.
	Update(ctx context.Context, documentID string) error

	// Remove retracts the document's contribution without reprocessing.
	Remove(documentID string)

	// Graph returns a copy of the current graph.
	Graph() domain.Graph

	// Stats returns node and link counts for the current graph.
	Stats() domain.Stats

	// Owned returns the node IDs currently attributed to a document.
	Owned(documentID string) []string
}
