// Package mcp provides an MCP (Model Context Protocol) server adapter for the graph.
// It lets AI assistants read the current graph, single nodes and their links.
package mcp

import "errors"

var (
	// ErrMissingGraphIndex is returned when the graph index is not provided.
	ErrMissingGraphIndex = errors.New("mcp: graph index is required")

	// ErrMissingNodeID is returned when get_node is called without an id.
	ErrMissingNodeID = errors.New("mcp: node id is required")
)
