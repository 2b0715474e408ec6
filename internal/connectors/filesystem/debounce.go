package filesystem

import (
	"time"

	"github.com/custodia-labs/markdown-graph/internal/core/domain"
)

// firing is a debounce timer expiring for one scheduling of a path.
type firing struct {
	path       string
	generation uint64
}

// pendingChange is a change waiting for its path to settle.
type pendingChange struct {
	change     domain.DocumentChange
	generation uint64
	timer      *time.Timer
}

// debouncer coalesces changes per path until the path has been quiet
// for delay. It is not safe for concurrent use; only the timers send on
// ready.
//
// Stopping a timer does not recall a firing that is already waiting on
// ready, so every firing carries the generation it was scheduled with
// and take ignores firings from a superseded schedule.
type debouncer struct {
	delay   time.Duration
	pending map[string]*pendingChange
	ready   chan firing
	done    chan struct{}
	next    uint64
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:   delay,
		pending: make(map[string]*pendingChange),
		ready:   make(chan firing),
		done:    make(chan struct{}),
	}
}

// schedule records change and restarts the quiet period of its path.
func (d *debouncer) schedule(change domain.DocumentChange) {
	path := change.Reference.Path
	if p, ok := d.pending[path]; ok {
		p.timer.Stop()
		change.Type = mergeChange(p.change.Type, change.Type)
	}

	d.next++
	f := firing{path: path, generation: d.next}
	d.pending[path] = &pendingChange{
		change:     change,
		generation: f.generation,
		timer: time.AfterFunc(d.delay, func() {
			select {
			case d.ready <- f:
			case <-d.done:
			}
		}),
	}
}

// take returns the settled change for f. It reports false when the
// path was rescheduled after f's timer started.
func (d *debouncer) take(f firing) (domain.DocumentChange, bool) {
	p, ok := d.pending[f.path]
	if !ok || p.generation != f.generation {
		return domain.DocumentChange{}, false
	}
	delete(d.pending, f.path)
	return p.change, true
}

// stop cancels every pending timer and releases blocked firings.
func (d *debouncer) stop() {
	for _, p := range d.pending {
		p.timer.Stop()
	}
	close(d.done)
}
