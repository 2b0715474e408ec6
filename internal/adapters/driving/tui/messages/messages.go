// Package messages defines Bubbletea message types for the TUI.
// Messages represent events that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/markdown-graph/internal/core/ports/driving"
)

// WatchEventReceived carries one watch event to the model.
type WatchEventReceived struct {
	Event driving.WatchEvent
}

// WatchStopped is sent when the watch event channel is closed.
type WatchStopped struct{}

// ErrorOccurred is sent when an error needs to be displayed.
type ErrorOccurred struct {
	Err error
}

// Quit is sent to request application exit.
type Quit struct{}
