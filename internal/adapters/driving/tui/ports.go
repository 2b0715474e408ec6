// Package tui provides a terminal dashboard for watch mode.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/markdown-graph/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
type Ports struct {
	// Watch streams graph updates. Required.
	Watch driving.WatchService

	// Index answers graph queries for the summary panel. Optional.
	Index driving.GraphIndex
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(watch driving.WatchService, index driving.GraphIndex) *Ports {
	return &Ports{
		Watch: watch,
		Index: index,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Watch == nil {
		return ErrMissingWatchService
	}
	return nil
}
