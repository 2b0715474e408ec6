package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/markdown-graph/internal/core/domain"
	"github.com/custodia-labs/markdown-graph/internal/core/ports/driven"
	"github.com/custodia-labs/markdown-graph/internal/core/ports/driving"
	"github.com/custodia-labs/markdown-graph/internal/logger"
)

// Ensure GraphService implements the interface.
var _ driving.GraphService = (*GraphService)(nil)

// DefaultConcurrency is the number of documents loaded per batch.
const DefaultConcurrency = 8

// GraphService assembles a whole corpus into one graph.
//
// Documents are loaded concurrently in fixed-size batches. The loads of
// a batch are joined before their results are folded into the
// Assembler one at a time, in batch order, on the calling goroutine.
type GraphService struct {
	repo    driven.DocumentRepository
	parser  driven.MarkdownParser
	slugger driven.Slugger
	linker  driven.ImplicitLinker
	store   driven.GraphStore
	metrics driven.MetricsRecorder

	opts        []AssemblerOption
	concurrency int
	namesOnly   bool
}

// GraphServiceOption configures a GraphService.
type GraphServiceOption func(*GraphService)

// WithAssemblerOptions passes options through to the Assembler.
func WithAssemblerOptions(opts ...AssemblerOption) GraphServiceOption {
	return func(s *GraphService) {
		s.opts = append(s.opts, opts...)
	}
}

// WithConcurrency sets the batch size. Values below 1 are ignored.
func WithConcurrency(n int) GraphServiceOption {
	return func(s *GraphService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithNamesOnly produces one node per document reference, labelled with
// the document ID, without loading or parsing any content.
func WithNamesOnly() GraphServiceOption {
	return func(s *GraphService) {
		s.namesOnly = true
	}
}

// WithMetrics records processing measurements.
func WithMetrics(m driven.MetricsRecorder) GraphServiceOption {
	return func(s *GraphService) {
		s.metrics = m
	}
}

// NewGraphService creates a graph service.
// The linker may be nil to disable implicit links; the store may be nil
// when only Assemble is used.
func NewGraphService(
	repo driven.DocumentRepository,
	parser driven.MarkdownParser,
	slugger driven.Slugger,
	linker driven.ImplicitLinker,
	store driven.GraphStore,
	opts ...GraphServiceOption,
) *GraphService {
	s := &GraphService{
		repo:        repo,
		parser:      parser,
		slugger:     slugger,
		linker:      linker,
		store:       store,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// loaded is the outcome of one document load within a batch.
type loaded struct {
	ref domain.DocumentReference
	doc *domain.Document
	err error
}

// Assemble loads every document in the repository and returns the graph.
func (s *GraphService) Assemble(ctx context.Context) (domain.Graph, error) {
	assembler := NewAssembler(s.parser, s.slugger, s.linker, s.opts...)

	refs, errs := s.repo.Enumerate(ctx)
	var enumErrs []error
	yielded := 0
	batch := make([]domain.DocumentReference, 0, s.concurrency)
	processed, failed := 0, 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		results, err := s.loadBatch(ctx, batch)
		if err != nil {
			return err
		}
		batch = batch[:0]
		for _, r := range results {
			if r.err == nil {
				_, r.err = assembler.AddDocument(r.doc)
			}
			if r.err != nil {
				failed++
				logger.Warn("Skipping document %s: %v", r.ref.ID, r.err)
				if s.metrics != nil {
					s.metrics.DocumentFailed(r.ref.Kind)
				}
				continue
			}
			processed++
			if s.metrics != nil {
				s.metrics.DocumentProcessed(r.ref.Kind)
			}
		}
		return nil
	}

	for refs != nil || errs != nil {
		select {
		case <-ctx.Done():
			return domain.Graph{}, ctx.Err()

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Warn("Enumerating %s: %v", s.repo.Description(), err)
			enumErrs = append(enumErrs, err)

		case ref, ok := <-refs:
			if !ok {
				refs = nil
				continue
			}
			yielded++
			if s.namesOnly {
				assembler.AddReference(ref)
				processed++
				continue
			}
			batch = append(batch, ref)
			if len(batch) == s.concurrency {
				if err := flush(); err != nil {
					return domain.Graph{}, err
				}
			}
		}
	}
	if err := flush(); err != nil {
		return domain.Graph{}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.Graph{}, err
	}
	if yielded == 0 && len(enumErrs) > 0 {
		return domain.Graph{}, fmt.Errorf("enumerate %s: %w", s.repo.Description(), errors.Join(enumErrs...))
	}

	graph := assembler.Build()
	if s.metrics != nil {
		s.metrics.GraphSize(graph.Stats())
	}
	logger.Info("Assembled %d documents (%d skipped): %d nodes, %d links",
		processed, failed, len(graph.Nodes), len(graph.Links))
	return graph, nil
}

// loadBatch loads documents concurrently. Individual load failures are
// reported per result; only context cancellation fails the batch.
func (s *GraphService) loadBatch(ctx context.Context, refs []domain.DocumentReference) ([]loaded, error) {
	results := make([]loaded, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		g.Go(func() error {
			doc, err := s.repo.Load(gctx, ref)
			results[i] = loaded{ref: ref, doc: doc, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// Generate assembles the graph and saves it.
func (s *GraphService) Generate(ctx context.Context) (domain.Graph, error) {
	if s.store == nil {
		return domain.Graph{}, fmt.Errorf("save graph: graph store not configured")
	}
	graph, err := s.Assemble(ctx)
	if err != nil {
		return domain.Graph{}, err
	}
	if err := s.store.Save(ctx, graph); err != nil {
		return domain.Graph{}, fmt.Errorf("save graph: %w", err)
	}
	logger.Info("Graph written to %s", s.store.Location())
	return graph, nil
}
