package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/markdown-graph/internal/core/domain"
	"github.com/custodia-labs/markdown-graph/internal/core/ports/driven"
	"github.com/custodia-labs/markdown-graph/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.ChangeWatcher = (*Watcher)(nil)

// DefaultDebounce is how long a path must be quiet before its change is emitted.
const DefaultDebounce = 300 * time.Millisecond

// Watcher reports changes to the markdown files of a Repository.
//
// Directories are watched recursively, including directories created
// after Watch is called. Hidden and excluded paths are ignored. Events
// for the same path are coalesced until the path has been quiet for
// the debounce interval.
type Watcher struct {
	repo     *Repository
	debounce time.Duration

	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	closed  bool
	started bool
}

// NewWatcher creates a watcher for repo. A debounce of zero selects
// DefaultDebounce.
func NewWatcher(repo *Repository, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{repo: repo, debounce: debounce}
}

// Watch starts watching. The returned channel is closed when ctx is
// cancelled or the watcher is closed.
func (w *Watcher) Watch(ctx context.Context) (<-chan domain.DocumentChange, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, domain.ErrRepositoryClosed
	}
	if w.started {
		return nil, fmt.Errorf("watch %s: already watching", w.repo.Root())
	}
	if _, err := os.Stat(w.repo.Root()); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrDirectoryNotFound, w.repo.Root())
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.addRecursive(fsw, w.repo.Root()); err != nil {
		fsw.Close()
		return nil, err
	}
	w.fsw = fsw
	w.started = true

	changes := make(chan domain.DocumentChange)
	go w.loop(ctx, fsw, changes)
	return changes, nil
}

// Close stops watching. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	if w.fsw != nil {
		return w.fsw.Close()
	}
	return nil
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, out chan<- domain.DocumentChange) {
	d := newDebouncer(w.debounce)
	defer func() {
		d.stop()
		close(out)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) && w.isDir(event.Name) {
				for _, change := range w.handleNewDir(fsw, event.Name) {
					d.schedule(change)
				}
				continue
			}
			if change := w.handleFsEvent(event); change != nil {
				d.schedule(*change)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("Watcher error: %v", err)

		case f := <-d.ready:
			change, ok := d.take(f)
			if !ok {
				continue
			}
			select {
			case out <- change:
			case <-ctx.Done():
				return
			}
		}
	}
}

// handleFsEvent maps a filesystem event to a document change.
// Returns nil for directories, hidden or excluded paths, non-markdown
// files and attribute-only changes.
func (w *Watcher) handleFsEvent(event fsnotify.Event) *domain.DocumentChange {
	if w.repo.ignored(event.Name) || !w.repo.isCandidate(filepath.Base(event.Name)) {
		return nil
	}

	var changeType domain.ChangeType
	switch {
	case event.Has(fsnotify.Create):
		if w.isDir(event.Name) {
			return nil
		}
		changeType = domain.ChangeCreated
	case event.Has(fsnotify.Write):
		changeType = domain.ChangeUpdated
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		changeType = domain.ChangeDeleted
	default:
		return nil
	}

	ref, err := w.repo.referenceForPath(event.Name)
	if err != nil {
		return nil
	}
	return &domain.DocumentChange{Type: changeType, Reference: ref, At: time.Now()}
}

// handleNewDir starts watching a new directory tree and reports the
// markdown files already inside it as created.
func (w *Watcher) handleNewDir(fsw *fsnotify.Watcher, dir string) []domain.DocumentChange {
	if w.repo.ignored(dir) {
		return nil
	}
	if err := w.addRecursive(fsw, dir); err != nil {
		logger.Warn("Failed to watch %s: %v", dir, err)
		return nil
	}

	var changes []domain.DocumentChange
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if w.repo.ignored(path) || !w.repo.isCandidate(d.Name()) {
			return nil
		}
		if ref, err := w.repo.referenceForPath(path); err == nil {
			changes = append(changes, domain.DocumentChange{Type: domain.ChangeCreated, Reference: ref, At: time.Now()})
		}
		return nil
	})
	return changes
}

func (w *Watcher) addRecursive(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.repo.Root() && w.repo.ignored(path) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// mergeChange coalesces two changes to the same path.
// A file created and then written is still new; anything else
// takes the latest change.
func mergeChange(previous, next domain.ChangeType) domain.ChangeType {
	if previous == domain.ChangeCreated && next == domain.ChangeUpdated {
		return domain.ChangeCreated
	}
	if previous == domain.ChangeDeleted && next == domain.ChangeCreated {
		return domain.ChangeUpdated
	}
	return next
}
