// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/markdown-graph/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/markdown-graph/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/markdown-graph/internal/core/domain"
)

// State represents the current watch state for display.
type State string

const (
	StateStarting State = "starting"
	StateWatching State = "watching"
	StateError    State = "error"
	StateStopped  State = "stopped"
)

// Bar displays watch status, graph size and keybinding hints.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   State
	message string
	stats   domain.Stats
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateStarting,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	// Bar is passive, updated via Set methods
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the state and graph size.
func (s *Bar) renderLeft() string {
	size := fmt.Sprintf("%d nodes, %d links", s.stats.NodeCount, s.stats.LinkCount)

	switch s.state {
	case StateStarting:
		return s.styles.Muted.Render("Building graph...")
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message)) + " " + s.styles.Muted.Render(size)
		}
		return s.styles.Error.Render("Error") + " " + s.styles.Muted.Render(size)
	case StateStopped:
		return s.styles.Muted.Render("Stopped") + " " + s.styles.Muted.Render(size)
	case StateWatching:
		return s.styles.Success.Render("Watching") + " " + s.styles.Normal.Render(size)
	}
	return s.styles.Muted.Render(size)
}

// renderRight renders keybinding hints.
func (s *Bar) renderRight() string {
	bindings := s.keymap.ShortHelp()

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetStats sets the displayed graph size.
func (s *Bar) SetStats(stats domain.Stats) {
	s.stats = stats
}

// Stats returns the displayed graph size.
func (s *Bar) Stats() domain.Stats {
	return s.stats
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the message and returns to watching.
func (s *Bar) Clear() {
	s.state = StateWatching
	s.message = ""
}
