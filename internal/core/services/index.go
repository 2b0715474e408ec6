package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/custodia-labs/markdown-graph/internal/core/domain"
	"github.com/custodia-labs/markdown-graph/internal/core/ports/driven"
	"github.com/custodia-labs/markdown-graph/internal/core/ports/driving"
	"github.com/custodia-labs/markdown-graph/internal/logger"
)

// Ensure GraphIndex implements the interface.
var _ driving.GraphIndex = (*GraphIndex)(nil)

// GraphIndex maintains a long-lived graph plus a record of which node
// IDs each document contributed.
//
// Retracting a document deletes its nodes and every link that starts
// or ends at one of them. Links other documents authored towards the
// retracted nodes are therefore lost until those documents are
// themselves updated.
type GraphIndex struct {
	contributor
	repo          driven.DocumentRepository
	metrics       driven.MetricsRecorder
	assemblerOpts []AssemblerOption

	mu        sync.RWMutex
	graph     domain.Graph
	ownership map[string]domain.Ownership
}

// NewGraphIndex creates an index over a repository.
// The linker and metrics recorder may be nil.
func NewGraphIndex(
	repo driven.DocumentRepository,
	parser driven.MarkdownParser,
	slugger driven.Slugger,
	linker driven.ImplicitLinker,
	metrics driven.MetricsRecorder,
	opts ...AssemblerOption,
) *GraphIndex {
	return &GraphIndex{
		contributor:   newContributor(parser, slugger, linker, opts),
		repo:          repo,
		metrics:       metrics,
		assemblerOpts: opts,
		graph:         domain.NewGraph(),
		ownership:     make(map[string]domain.Ownership),
	}
}

// Initialize processes every document in the repository once and
// replaces the current graph with the result.
func (x *GraphIndex) Initialize(ctx context.Context) (domain.Graph, error) {
	assembler := NewAssembler(x.parser, x.slugger, x.linker, x.assemblerOpts...)
	ownership := make(map[string]domain.Ownership)

	refs, errs := x.repo.Enumerate(ctx)
	var enumErrs []error
	yielded := 0
	for refs != nil || errs != nil {
		select {
		case <-ctx.Done():
			return domain.Graph{}, ctx.Err()

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Warn("Enumerating %s: %v", x.repo.Description(), err)
			enumErrs = append(enumErrs, err)

		case ref, ok := <-refs:
			if !ok {
				refs = nil
				continue
			}
			yielded++
			doc, err := x.repo.Load(ctx, ref)
			if err != nil {
				logger.Warn("Failed to load document %s: %v", ref.ID, err)
				x.recordFailure(ref.Kind)
				continue
			}
			nodeIDs, err := assembler.AddDocument(doc)
			if err != nil {
				logger.Warn("Failed to parse document %s: %v", ref.ID, err)
				x.recordFailure(ref.Kind)
				continue
			}
			ownership[ref.ID] = domain.Ownership{DocumentID: ref.ID, NodeIDs: nodeIDs}
			x.recordProcessed(ref.Kind)
			logger.Debug("Indexed %s (%d nodes)", ref.ID, len(nodeIDs))
		}
	}
	if err := ctx.Err(); err != nil {
		return domain.Graph{}, err
	}
	if yielded == 0 && len(enumErrs) > 0 {
		return domain.Graph{}, fmt.Errorf("enumerate %s: %w", x.repo.Description(), errors.Join(enumErrs...))
	}

	graph := assembler.Build()

	x.mu.Lock()
	x.graph = graph
	x.ownership = ownership
	stats := x.graph.Stats()
	x.mu.Unlock()

	x.recordSize(stats)
	logger.Info("Initialized graph: %d nodes, %d links", stats.NodeCount, stats.LinkCount)
	return graph.Clone(), nil
}

// Update retracts the document's previous contribution, reloads it, and
// inserts its nodes, explicit links and resolvable implicit links.
// If the document cannot be loaded it stays retracted and the error is
// returned.
func (x *GraphIndex) Update(ctx context.Context, documentID string) error {
	ref, err := x.repo.Reference(documentID)
	if err != nil {
		return fmt.Errorf("resolve reference: %w", err)
	}

	// Load before taking the lock so readers are not blocked on I/O.
	doc, loadErr := x.repo.Load(ctx, ref)
	var c *contribution
	if loadErr == nil {
		c, loadErr = x.contribute(doc)
	}

	x.mu.Lock()
	x.retract(ref.ID)
	if loadErr != nil {
		stats := x.graph.Stats()
		x.mu.Unlock()
		x.recordFailure(ref.Kind)
		x.recordSize(stats)
		return fmt.Errorf("update %s: %w", ref.ID, loadErr)
	}
	for _, n := range c.nodes {
		x.graph.Nodes[n.ID] = n
	}
	x.graph.Links = append(x.graph.Links, c.links...)
	for _, candidate := range c.candidates {
		if link, ok := candidate.resolve(x.graph.Nodes); ok {
			x.graph.Links = append(x.graph.Links, link)
		}
	}
	x.ownership[ref.ID] = domain.Ownership{DocumentID: ref.ID, NodeIDs: c.nodeIDs}
	stats := x.graph.Stats()
	x.mu.Unlock()

	x.recordProcessed(ref.Kind)
	x.recordSize(stats)
	logger.Debug("Updated %s (%d nodes)", ref.ID, len(c.nodeIDs))
	return nil
}

// Remove retracts the document's contribution.
// Unknown IDs are ignored.
func (x *GraphIndex) Remove(documentID string) {
	id := documentID
	if ref, err := x.repo.Reference(documentID); err == nil {
		id = ref.ID
	}

	x.mu.Lock()
	removed := x.retract(id)
	stats := x.graph.Stats()
	x.mu.Unlock()

	if removed {
		if x.metrics != nil {
			x.metrics.DocumentRemoved()
		}
		x.recordSize(stats)
		logger.Debug("Removed %s", id)
	}
}

// Graph returns a copy of the current graph.
func (x *GraphIndex) Graph() domain.Graph {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.graph.Clone()
}

// Stats returns node and link counts.
func (x *GraphIndex) Stats() domain.Stats {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.graph.Stats()
}

// Owned returns a copy of the node IDs attributed to a document.
func (x *GraphIndex) Owned(documentID string) []string {
	x.mu.RLock()
	defer x.mu.RUnlock()
	o, ok := x.ownership[documentID]
	if !ok {
		return nil
	}
	return append([]string(nil), o.NodeIDs...)
}

// retract removes every owned node and every link touching one of them.
// Caller must hold the write lock.
func (x *GraphIndex) retract(documentID string) bool {
	o, ok := x.ownership[documentID]
	if !ok {
		return false
	}

	owned := make(map[string]bool, len(o.NodeIDs))
	for _, id := range o.NodeIDs {
		owned[id] = true
		delete(x.graph.Nodes, id)
	}

	kept := x.graph.Links[:0]
	for _, l := range x.graph.Links {
		if owned[l.Source] || owned[l.Target] {
			continue
		}
		kept = append(kept, l)
	}
	x.graph.Links = kept

	delete(x.ownership, documentID)
	return true
}

func (x *GraphIndex) recordProcessed(kind domain.ReferenceKind) {
	if x.metrics != nil {
		x.metrics.DocumentProcessed(kind)
	}
}

func (x *GraphIndex) recordFailure(kind domain.ReferenceKind) {
	if x.metrics != nil {
		x.metrics.DocumentFailed(kind)
	}
}

func (x *GraphIndex) recordSize(stats domain.Stats) {
	if x.metrics != nil {
		x.metrics.GraphSize(stats)
	}
}
