package domain

import (
	"sort"
	"strings"
)

// Node is one section of one document in the graph.
type Node struct {
	// ID is the document ID for a root section, otherwise
	// "<document id>#<slug of section title>".
	ID string `json:"id"`

	// Label is the section title.
	Label string `json:"label"`

	// Metadata is the owning document's metadata.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// IsSectionID reports whether id names a subsection rather than a document root.
func IsSectionID(id string) bool {
	return strings.Contains(id, "#")
}

// Link is a directed reference between two node IDs.
// The target may be absent from the graph (a dangling link).
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph is a snapshot of nodes and links.
// Links are kept in insertion order and are not deduplicated.
type Graph struct {
	Nodes map[string]Node `json:"nodes"`
	Links []Link          `json:"links"`
}

// Stats summarises the size of a graph.
type Stats struct {
	NodeCount int `json:"nodeCount"`
	LinkCount int `json:"linkCount"`
}

// Ownership records the node IDs a document contributed to a graph.
type Ownership struct {
	DocumentID string
	NodeIDs    []string
}

// NewGraph returns an empty graph whose collections are never nil.
func NewGraph() Graph {
	return Graph{
		Nodes: make(map[string]Node),
		Links: make([]Link, 0),
	}
}

// Clone returns a deep copy that shares no memory with g.
func (g Graph) Clone() Graph {
	out := Graph{
		Nodes: make(map[string]Node, len(g.Nodes)),
		Links: make([]Link, len(g.Links)),
	}
	for id, n := range g.Nodes {
		n.Metadata = cloneMetadata(n.Metadata)
		out.Nodes[id] = n
	}
	copy(out.Links, g.Links)
	return out
}

// Stats returns node and link counts.
func (g Graph) Stats() Stats {
	return Stats{NodeCount: len(g.Nodes), LinkCount: len(g.Links)}
}

// HasNode reports whether a node with the given ID exists.
func (g Graph) HasNode(id string) bool {
	_, ok := g.Nodes[id]
	return ok
}

// NodeIDs returns all node IDs in sorted order.
func (g Graph) NodeIDs() []string {
	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// LinksFrom returns the links whose source is id, in insertion order.
func (g Graph) LinksFrom(id string) []Link {
	var out []Link
	for _, l := range g.Links {
		if l.Source == id {
			out = append(out, l)
		}
	}
	return out
}

// LinksTo returns the links whose target is id, in insertion order.
func (g Graph) LinksTo(id string) []Link {
	var out []Link
	for _, l := range g.Links {
		if l.Target == id {
			out = append(out, l)
		}
	}
	return out
}

func cloneMetadata(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
