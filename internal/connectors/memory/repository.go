// Package memory serves markdown documents from an in-memory content map.
// It is used for tests and for content generated on the fly.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/markdown-graph/internal/core/domain"
	"github.com/custodia-labs/markdown-graph/internal/core/ports/driven"
	"github.com/custodia-labs/markdown-graph/internal/normalisers"
	"github.com/custodia-labs/markdown-graph/internal/normalisers/markdown"
)

// Ensure Repository implements the interfaces.
var (
	_ driven.DocumentRepository = (*Repository)(nil)
	_ driven.ChangeWatcher      = (*Repository)(nil)
)

// changeBuffer is the capacity of each subscriber channel.
const changeBuffer = 64

type subscriber struct {
	ch   chan domain.DocumentChange
	done chan struct{}
	once sync.Once
}

// Repository holds documents keyed by ID.
//
// Keys are lowercased and a trailing ".md" is removed, so "Foo.md" and
// "foo" name the same document. Put and Delete notify watchers.
type Repository struct {
	mu          sync.RWMutex
	content     map[string]string
	normaliser  driven.Normaliser
	subscribers []*subscriber
	closed      bool
}

// New creates a repository with the given content.
func New(content map[string]string) *Repository {
	r := &Repository{
		content:    make(map[string]string, len(content)),
		normaliser: markdown.New(),
	}
	for k, v := range content {
		r.content[NormalizeID(k)] = v
	}
	return r
}

// NormalizeID lowercases a name and removes a trailing ".md".
func NormalizeID(name string) string {
	id := strings.ToLower(name)
	return strings.TrimSuffix(id, ".md")
}

// Kind returns the reference kind this repository produces.
func (r *Repository) Kind() domain.ReferenceKind {
	return domain.ReferenceMemory
}

// Description returns a human-readable name for log messages.
func (r *Repository) Description() string {
	return "in-memory repository"
}

// Size returns the number of documents.
func (r *Repository) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.content)
}

// Has reports whether a document exists.
func (r *Repository) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.content[NormalizeID(name)]
	return ok
}

// IDs returns the document IDs in sorted order.
func (r *Repository) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.content))
	for id := range r.content {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Enumerate emits a reference for every document, in ID order.
func (r *Repository) Enumerate(ctx context.Context) (<-chan domain.DocumentReference, <-chan error) {
	refs := make(chan domain.DocumentReference)
	errs := make(chan error, 1)
	ids := r.IDs()

	go func() {
		defer close(refs)
		defer close(errs)
		for _, id := range ids {
			select {
			case refs <- r.reference(id):
			case <-ctx.Done():
				return
			}
		}
	}()

	return refs, errs
}

// Load returns the document for ref.
// Returns domain.ErrDocumentNotFound if the ID is unknown.
func (r *Repository) Load(ctx context.Context, ref domain.DocumentReference) (*domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ref.Kind != domain.ReferenceMemory {
		return nil, fmt.Errorf("%w: %s reference in memory repository", domain.ErrUnsupportedType, ref.Kind)
	}

	r.mu.RLock()
	content, ok := r.content[ref.ID]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s", domain.ErrDocumentNotFound, ref.ID, r.Description())
	}
	return r.normaliser.Normalise(ref, []byte(content)), nil
}

// Reference returns the reference for a name. The document need not
// exist; loading a missing document fails instead.
func (r *Repository) Reference(name string) (domain.DocumentReference, error) {
	if name == "" {
		return domain.DocumentReference{}, fmt.Errorf("%w: empty document name", domain.ErrInvalidInput)
	}
	return r.reference(NormalizeID(name)), nil
}

func (r *Repository) reference(id string) domain.DocumentReference {
	return domain.DocumentReference{
		Kind: domain.ReferenceMemory,
		ID:   id,
		Hash: normalisers.Fingerprint(id),
		Key:  id,
	}
}

// Put adds or replaces a document and notifies watchers.
func (r *Repository) Put(name, content string) {
	id := NormalizeID(name)

	r.mu.Lock()
	_, existed := r.content[id]
	r.content[id] = content
	r.mu.Unlock()

	changeType := domain.ChangeCreated
	if existed {
		changeType = domain.ChangeUpdated
	}
	r.notify(domain.DocumentChange{Type: changeType, Reference: r.reference(id), At: time.Now()})
}

// Delete removes a document and notifies watchers.
// Returns false if the document did not exist.
func (r *Repository) Delete(name string) bool {
	id := NormalizeID(name)

	r.mu.Lock()
	_, existed := r.content[id]
	delete(r.content, id)
	r.mu.Unlock()

	if existed {
		r.notify(domain.DocumentChange{Type: domain.ChangeDeleted, Reference: r.reference(id), At: time.Now()})
	}
	return existed
}

// Watch returns a channel of Put and Delete changes.
// The channel is closed when ctx is cancelled or the repository is closed.
func (r *Repository) Watch(ctx context.Context) (<-chan domain.DocumentChange, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, domain.ErrRepositoryClosed
	}

	s := &subscriber{
		ch:   make(chan domain.DocumentChange, changeBuffer),
		done: make(chan struct{}),
	}
	r.subscribers = append(r.subscribers, s)

	go func() {
		select {
		case <-ctx.Done():
			r.unsubscribe(s)
		case <-s.done:
		}
	}()
	return s.ch, nil
}

// Watchers returns the number of active Watch channels.
func (r *Repository) Watchers() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subscribers)
}

// Close stops all watchers.
func (r *Repository) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	subs := append([]*subscriber(nil), r.subscribers...)
	r.mu.Unlock()

	for _, s := range subs {
		r.unsubscribe(s)
	}
	return nil
}

func (r *Repository) notify(change domain.DocumentChange) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.subscribers {
		select {
		case s.ch <- change:
		case <-s.done:
		}
	}
}

func (r *Repository) unsubscribe(s *subscriber) {
	s.once.Do(func() {
		close(s.done)

		r.mu.Lock()
		defer r.mu.Unlock()
		for i, sub := range r.subscribers {
			if sub == s {
				r.subscribers = append(r.subscribers[:i], r.subscribers[i+1:]...)
				break
			}
		}
		close(s.ch)
	})
}
