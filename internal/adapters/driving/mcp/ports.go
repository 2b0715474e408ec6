package mcp

import (
	"github.com/custodia-labs/markdown-graph/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Index holds the current graph.
	Index driving.GraphIndex

	// Watch reports live update progress. Optional; set when the server
	// keeps the graph up to date while serving.
	Watch driving.WatchService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Index == nil {
		return ErrMissingGraphIndex
	}
	return nil
}
