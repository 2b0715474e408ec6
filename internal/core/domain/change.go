package domain

import "time"

// ChangeType represents the type of document change.
type ChangeType int

const (
	// ChangeCreated indicates a new document.
	ChangeCreated ChangeType = iota

	// ChangeUpdated indicates a modified document.
	ChangeUpdated

	// ChangeDeleted indicates a removed document.
	ChangeDeleted
)

// String returns the string representation.
func (c ChangeType) String() string {
	switch c {
	case ChangeCreated:
		return "created"
	case ChangeUpdated:
		return "updated"
	case ChangeDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// DocumentChange represents a change event from a watcher.
// Events for the same document are debounced upstream, so only the
// latest on-disk content is read when the change is processed.
type DocumentChange struct {
	// Type is the kind of change.
	Type ChangeType

	// Reference identifies the affected document.
	Reference DocumentReference

	// At is when the change was observed.
	At time.Time
}
