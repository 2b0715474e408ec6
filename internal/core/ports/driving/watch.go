package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/markdown-graph/internal/core/domain"
)

// WatchService keeps a saved graph up to date with a changing corpus.
type WatchService interface {
	// Run builds the initial graph, then applies change events until
	// ctx is cancelled. The graph is saved after each quiet period.
	Run(ctx context.Context) error

	// Events returns a channel of progress events for display.
	// The channel is closed when Run returns.
	Events() <-chan WatchEvent

	// Status returns a snapshot of the watch state.
	Status() WatchStatus
}

// WatchEventType classifies a WatchEvent.
type WatchEventType int

const (
	// WatchInitialized is emitted once the initial graph is built.
	WatchInitialized WatchEventType = iota

	// WatchUpdated is emitted after a document was (re)processed.
	WatchUpdated

	// WatchRemoved is emitted after a document was retracted.
	WatchRemoved

	// WatchSaved is emitted after the graph was persisted.
	WatchSaved

	// WatchFailed is emitted when processing or saving failed.
	WatchFailed
)

// String returns the string representation.
func (t WatchEventType) String() string {
	switch t {
	case WatchInitialized:
		return "initialized"
	case WatchUpdated:
		return "updated"
	case WatchRemoved:
		return "removed"
	case WatchSaved:
		return "saved"
	case WatchFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// WatchEvent reports one step of watch processing.
type WatchEvent struct {
	Type       WatchEventType
	DocumentID string
	Stats      domain.Stats
	Err        error
	At         time.Time
}

// WatchStatus summarises the watch state.
type WatchStatus struct {
	// Running indicates the watch loop is active.
	Running bool

	// Stats is the current graph size.
	Stats domain.Stats

	// Updates is the number of processed change events.
	Updates int

	// Saves is the number of successful saves.
	Saves int

	// Errors is the number of failed updates or saves.
	Errors int

	// LastEvent is the most recent event, if any.
	LastEvent *WatchEvent
}
