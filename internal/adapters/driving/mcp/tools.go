package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/markdown-graph/internal/core/domain"
)

// GetGraphInput is the input schema for the get_graph tool.
type GetGraphInput struct {
	Prefix          string `json:"prefix,omitempty" jsonschema:"only return nodes whose id starts with this prefix, and links between them"`
	IncludeMetadata bool   `json:"include_metadata,omitempty" jsonschema:"include frontmatter metadata on each node"`
}

// GraphOutput is the output schema for the get_graph tool.
type GraphOutput struct {
	Nodes []NodeOutput `json:"nodes"`
	Links []LinkOutput `json:"links"`
	Stats StatsOutput  `json:"stats"`
}

// NodeOutput represents a single graph node.
type NodeOutput struct {
	ID       string            `json:"id"`
	Label    string            `json:"label"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// LinkOutput represents a single directed link.
type LinkOutput struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	Dangling bool   `json:"dangling,omitempty"`
}

// GetStatsInput is the input schema for the get_stats tool.
type GetStatsInput struct{}

// StatsOutput is the output schema for the get_stats tool.
type StatsOutput struct {
	NodeCount int `json:"node_count"`
	LinkCount int `json:"link_count"`

	// Watch fields are only set while the graph is being kept up to date.
	Watching bool `json:"watching,omitempty"`
	Updates  int  `json:"updates,omitempty"`
	Saves    int  `json:"saves,omitempty"`
	Errors   int  `json:"errors,omitempty"`
}

// GetNodeInput is the input schema for the get_node tool.
type GetNodeInput struct {
	ID string `json:"id" jsonschema:"the node id, e.g. notes-foo or notes-foo#usage"`
}

// NodeDetailsOutput is the output schema for the get_node tool.
type NodeDetailsOutput struct {
	Node     NodeOutput   `json:"node"`
	Outgoing []LinkOutput `json:"outgoing"`
	Incoming []LinkOutput `json:"incoming"`
}

// GetLinksInput is the input schema for the get_links tool.
type GetLinksInput struct {
	Source       string `json:"source,omitempty" jsonschema:"only links starting at this node id"`
	Target       string `json:"target,omitempty" jsonschema:"only links ending at this node id"`
	DanglingOnly bool   `json:"dangling_only,omitempty" jsonschema:"only links whose target is not a node"`
}

// LinksOutput is the output schema for the get_links tool.
type LinksOutput struct {
	Links []LinkOutput `json:"links"`
	Count int          `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_graph",
		Description: "Return the nodes and links of the current markdown graph",
	}, s.handleGetGraph)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_stats",
		Description: "Return node and link counts for the current graph",
	}, s.handleGetStats)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_node",
		Description: "Return one node with its outgoing and incoming links",
	}, s.handleGetNode)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_links",
		Description: "List links, optionally filtered by source or target node",
	}, s.handleGetLinks)
}

// handleGetGraph handles the get_graph tool invocation.
func (s *Server) handleGetGraph(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input GetGraphInput,
) (*mcp.CallToolResult, GraphOutput, error) {
	g := s.ports.Index.Graph()

	output := GraphOutput{
		Nodes: make([]NodeOutput, 0, len(g.Nodes)),
		Links: make([]LinkOutput, 0),
	}
	for _, id := range g.NodeIDs() {
		if !strings.HasPrefix(id, input.Prefix) {
			continue
		}
		output.Nodes = append(output.Nodes, nodeOutput(g.Nodes[id], input.IncludeMetadata))
	}
	for _, l := range g.Links {
		if !strings.HasPrefix(l.Source, input.Prefix) || !strings.HasPrefix(l.Target, input.Prefix) {
			continue
		}
		output.Links = append(output.Links, linkOutput(g, l))
	}
	output.Stats = StatsOutput{NodeCount: len(output.Nodes), LinkCount: len(output.Links)}

	return nil, output, nil
}

// handleGetStats handles the get_stats tool invocation.
func (s *Server) handleGetStats(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ GetStatsInput,
) (*mcp.CallToolResult, StatsOutput, error) {
	stats := s.ports.Index.Stats()
	output := StatsOutput{
		NodeCount: stats.NodeCount,
		LinkCount: stats.LinkCount,
	}

	if s.ports.Watch != nil {
		status := s.ports.Watch.Status()
		output.Watching = status.Running
		output.Updates = status.Updates
		output.Saves = status.Saves
		output.Errors = status.Errors
	}

	return nil, output, nil
}

// handleGetNode handles the get_node tool invocation.
func (s *Server) handleGetNode(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input GetNodeInput,
) (*mcp.CallToolResult, NodeDetailsOutput, error) {
	if input.ID == "" {
		return nil, NodeDetailsOutput{}, ErrMissingNodeID
	}

	g := s.ports.Index.Graph()
	node, ok := g.Nodes[input.ID]
	if !ok {
		return nil, NodeDetailsOutput{}, fmt.Errorf("%w: node %q", domain.ErrNotFound, input.ID)
	}

	output := NodeDetailsOutput{
		Node:     nodeOutput(node, true),
		Outgoing: linkOutputs(g, g.LinksFrom(input.ID)),
		Incoming: linkOutputs(g, g.LinksTo(input.ID)),
	}
	return nil, output, nil
}

// handleGetLinks handles the get_links tool invocation.
func (s *Server) handleGetLinks(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input GetLinksInput,
) (*mcp.CallToolResult, LinksOutput, error) {
	g := s.ports.Index.Graph()

	output := LinksOutput{Links: make([]LinkOutput, 0)}
	for _, l := range g.Links {
		if input.Source != "" && l.Source != input.Source {
			continue
		}
		if input.Target != "" && l.Target != input.Target {
			continue
		}
		out := linkOutput(g, l)
		if input.DanglingOnly && !out.Dangling {
			continue
		}
		output.Links = append(output.Links, out)
	}
	output.Count = len(output.Links)

	return nil, output, nil
}

func nodeOutput(n domain.Node, withMetadata bool) NodeOutput {
	out := NodeOutput{ID: n.ID, Label: n.Label}
	if withMetadata {
		out.Metadata = n.Metadata
	}
	return out
}

func linkOutput(g domain.Graph, l domain.Link) LinkOutput {
	return LinkOutput{Source: l.Source, Target: l.Target, Dangling: !g.HasNode(l.Target)}
}

func linkOutputs(g domain.Graph, links []domain.Link) []LinkOutput {
	out := make([]LinkOutput, len(links))
	for i, l := range links {
		out[i] = linkOutput(g, l)
	}
	return out
}
