// Package eventlog provides a scrollable log of watch events.
package eventlog

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/markdown-graph/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/markdown-graph/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/markdown-graph/internal/core/ports/driving"
)

// DefaultCapacity bounds the number of retained events.
const DefaultCapacity = 500

// Log displays recent watch events, newest last.
type Log struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	events   []driving.WatchEvent
	capacity int
	offset   int // lines scrolled up from the bottom
	height   int
	width    int
}

// New creates an empty event log.
func New(s *styles.Styles, km *keymap.KeyMap) *Log {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &Log{
		styles:   s,
		keymap:   km,
		capacity: DefaultCapacity,
		height:   10,
		width:    80,
	}
}

// Init initialises the log.
func (l *Log) Init() tea.Cmd {
	return nil
}

// Update handles scrolling keys.
func (l *Log) Update(msg tea.Msg) (*Log, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return l, nil
	}

	switch {
	case keymap.Matches(keyMsg.String(), l.keymap.Up):
		if l.offset < l.maxOffset() {
			l.offset++
		}
	case keymap.Matches(keyMsg.String(), l.keymap.Down):
		if l.offset > 0 {
			l.offset--
		}
	case keymap.Matches(keyMsg.String(), l.keymap.Clear):
		l.Clear()
	}
	return l, nil
}

// View renders the visible window of events.
func (l *Log) View() string {
	if len(l.events) == 0 {
		return l.styles.Muted.Render("No events yet")
	}

	end := len(l.events) - l.offset
	start := end - l.height
	if start < 0 {
		start = 0
	}

	lines := make([]string, 0, end-start)
	for _, e := range l.events[start:end] {
		lines = append(lines, l.renderEvent(e))
	}
	return strings.Join(lines, "\n")
}

func (l *Log) renderEvent(e driving.WatchEvent) string {
	ts := l.styles.Muted.Render(e.At.Format("15:04:05"))
	kind := fmt.Sprintf("%-11s", e.Type.String())

	var detail string
	switch e.Type {
	case driving.WatchFailed:
		kind = l.styles.Error.Render(kind)
		if e.Err != nil {
			detail = e.Err.Error()
		}
		if e.DocumentID != "" {
			detail = e.DocumentID + ": " + detail
		}
	case driving.WatchSaved, driving.WatchInitialized:
		kind = l.styles.Success.Render(kind)
		detail = fmt.Sprintf("%d nodes, %d links", e.Stats.NodeCount, e.Stats.LinkCount)
	case driving.WatchRemoved:
		kind = l.styles.Warning.Render(kind)
		detail = e.DocumentID
	default:
		kind = l.styles.Normal.Render(kind)
		detail = e.DocumentID
	}

	return ts + " " + kind + " " + detail
}

// Append adds an event, dropping the oldest when over capacity.
func (l *Log) Append(e driving.WatchEvent) {
	l.events = append(l.events, e)
	if over := len(l.events) - l.capacity; over > 0 {
		l.events = append(l.events[:0], l.events[over:]...)
	}
	if l.offset > l.maxOffset() {
		l.offset = l.maxOffset()
	}
}

// Events returns the retained events.
func (l *Log) Events() []driving.WatchEvent {
	return l.events
}

// Len returns the number of retained events.
func (l *Log) Len() int {
	return len(l.events)
}

// Offset returns how many lines the view is scrolled up.
func (l *Log) Offset() int {
	return l.offset
}

// Clear empties the log.
func (l *Log) Clear() {
	l.events = nil
	l.offset = 0
}

// SetCapacity sets the retained event limit.
func (l *Log) SetCapacity(n int) {
	if n > 0 {
		l.capacity = n
	}
}

// SetSize sets the visible dimensions.
func (l *Log) SetSize(width, height int) {
	l.width = width
	if height > 0 {
		l.height = height
	}
	if l.offset > l.maxOffset() {
		l.offset = l.maxOffset()
	}
}

func (l *Log) maxOffset() int {
	if n := len(l.events) - l.height; n > 0 {
		return n
	}
	return 0
}
