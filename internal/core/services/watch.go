package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/markdown-graph/internal/core/domain"
	"github.com/custodia-labs/markdown-graph/internal/core/ports/driven"
	"github.com/custodia-labs/markdown-graph/internal/core/ports/driving"
	"github.com/custodia-labs/markdown-graph/internal/logger"
)

// Ensure WatchService implements the interface.
var _ driving.WatchService = (*WatchService)(nil)

// DefaultSaveDelay is how long the graph must be unchanged before it is saved.
const DefaultSaveDelay = 300 * time.Millisecond

// eventBuffer is the capacity of the events channel. Events are
// dropped rather than blocking the watch loop when nobody reads them.
const eventBuffer = 64

// WatchService applies change events to a GraphIndex and saves the
// graph once changes settle.
//
// Events are consumed on a single goroutine, so updates to different
// documents never interleave.
type WatchService struct {
	index     driving.GraphIndex
	watcher   driven.ChangeWatcher
	store     driven.GraphStore
	metrics   driven.MetricsRecorder
	saveDelay time.Duration

	events chan driving.WatchEvent

	mu     sync.RWMutex
	status driving.WatchStatus
}

// NewWatchService creates a watch service.
// A saveDelay of zero selects DefaultSaveDelay. Metrics may be nil.
func NewWatchService(
	index driving.GraphIndex,
	watcher driven.ChangeWatcher,
	store driven.GraphStore,
	metrics driven.MetricsRecorder,
	saveDelay time.Duration,
) *WatchService {
	if saveDelay <= 0 {
		saveDelay = DefaultSaveDelay
	}
	return &WatchService{
		index:     index,
		watcher:   watcher,
		store:     store,
		metrics:   metrics,
		saveDelay: saveDelay,
		events:    make(chan driving.WatchEvent, eventBuffer),
	}
}

// Events returns the progress event channel.
func (w *WatchService) Events() <-chan driving.WatchEvent {
	return w.events
}

// Status returns a snapshot of the watch state.
func (w *WatchService) Status() driving.WatchStatus {
	w.mu.RLock()
	defer w.mu.RUnlock()
	s := w.status
	if s.LastEvent != nil {
		e := *s.LastEvent
		s.LastEvent = &e
	}
	return s
}

// Run builds and saves the initial graph, then processes changes until
// ctx is cancelled or the watcher closes. Pending changes are saved
// before returning.
func (w *WatchService) Run(ctx context.Context) error {
	defer close(w.events)

	logger.Section("Initial Graph")
	graph, err := w.index.Initialize(ctx)
	if err != nil {
		return fmt.Errorf("initialize graph: %w", err)
	}
	w.setRunning(true)
	defer w.setRunning(false)
	w.emit(driving.WatchEvent{Type: driving.WatchInitialized, Stats: graph.Stats()})

	if err := w.save(ctx); err != nil {
		return err
	}

	changes, err := w.watcher.Watch(ctx)
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer w.watcher.Close()

	logger.Section("Watching")
	timer := time.NewTimer(w.saveDelay)
	if !timer.Stop() {
		<-timer.C
	}
	dirty := false

	for {
		select {
		case <-ctx.Done():
			if dirty {
				// The run context is done; give the final save its own.
				return w.save(context.WithoutCancel(ctx))
			}
			return nil

		case change, ok := <-changes:
			if !ok {
				if dirty {
					return w.save(context.WithoutCancel(ctx))
				}
				return nil
			}
			w.apply(ctx, change)
			dirty = true
			timer.Reset(w.saveDelay)

		case <-timer.C:
			if err := w.save(ctx); err != nil {
				logger.Warn("Failed to save graph: %v", err)
				continue
			}
			dirty = false
		}
	}
}

func (w *WatchService) apply(ctx context.Context, change domain.DocumentChange) {
	name := change.Reference.Path
	if name == "" {
		name = change.Reference.ID
	}

	switch change.Type {
	case domain.ChangeCreated, domain.ChangeUpdated:
		logger.Debug("Change %s: %s", change.Type, name)
		if err := w.index.Update(ctx, name); err != nil {
			logger.Warn("Failed to update %s: %v", name, err)
			w.emit(driving.WatchEvent{
				Type: driving.WatchFailed, DocumentID: change.Reference.ID, Err: err, Stats: w.index.Stats(),
			})
			return
		}
		w.emit(driving.WatchEvent{Type: driving.WatchUpdated, DocumentID: change.Reference.ID, Stats: w.index.Stats()})

	case domain.ChangeDeleted:
		logger.Debug("Change %s: %s", change.Type, name)
		w.index.Remove(name)
		w.emit(driving.WatchEvent{Type: driving.WatchRemoved, DocumentID: change.Reference.ID, Stats: w.index.Stats()})
	}
}

func (w *WatchService) save(ctx context.Context) error {
	start := time.Now()
	graph := w.index.Graph()
	if err := w.store.Save(ctx, graph); err != nil {
		w.emit(driving.WatchEvent{Type: driving.WatchFailed, Err: err, Stats: graph.Stats()})
		return fmt.Errorf("save graph: %w", err)
	}
	if w.metrics != nil {
		w.metrics.GraphSaved(time.Since(start).Seconds())
	}
	logger.Info("Saved graph to %s: %d nodes, %d links",
		w.store.Location(), len(graph.Nodes), len(graph.Links))
	w.emit(driving.WatchEvent{Type: driving.WatchSaved, Stats: graph.Stats()})
	return nil
}

func (w *WatchService) emit(e driving.WatchEvent) {
	if e.At.IsZero() {
		e.At = time.Now()
	}

	w.mu.Lock()
	w.status.Stats = e.Stats
	switch e.Type {
	case driving.WatchUpdated, driving.WatchRemoved:
		w.status.Updates++
	case driving.WatchSaved:
		w.status.Saves++
	case driving.WatchFailed:
		w.status.Errors++
	}
	last := e
	w.status.LastEvent = &last
	w.mu.Unlock()

	select {
	case w.events <- e:
	default:
	}
}

func (w *WatchService) setRunning(running bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.status.Running = running
}
