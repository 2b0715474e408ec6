package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for graph resources.
	uriScheme = "graph://"

	jsonMIMEType = "application/json"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for the whole graph.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "current",
		Name:        "current-graph",
		Description: "The current graph as {\"nodes\": {...}, \"links\": [...]}",
		MIMEType:    jsonMIMEType,
	}, s.handleCurrentGraphResource)

	// Template for a single node.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "nodes/{nodeId}",
		Name:        "node",
		Description: "A single node of the graph",
		MIMEType:    jsonMIMEType,
	}, s.handleNodeResource)

	// Template for the nodes a document contributed.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{documentId}",
		Name:        "document-nodes",
		Description: "Node ids owned by a document",
		MIMEType:    jsonMIMEType,
	}, s.handleDocumentResource)
}

// handleCurrentGraphResource returns the whole graph.
func (s *Server) handleCurrentGraphResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return jsonResource(req.Params.URI, s.ports.Index.Graph())
}

// handleNodeResource returns a single node.
func (s *Server) handleNodeResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract nodeId from URI: graph://nodes/{nodeId}
	nodeID := extractID(req.Params.URI, "nodes/")
	if nodeID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	node, ok := s.ports.Index.Graph().Nodes[nodeID]
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return jsonResource(req.Params.URI, nodeOutput(node, true))
}

// handleDocumentResource returns the node ids a document owns.
func (s *Server) handleDocumentResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract documentId from URI: graph://documents/{documentId}
	docID := extractID(req.Params.URI, "documents/")
	if docID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	owned := s.ports.Index.Owned(docID)
	if len(owned) == 0 {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	type documentInfo struct {
		ID    string   `json:"id"`
		Nodes []string `json:"nodes"`
	}
	return jsonResource(req.Params.URI, documentInfo{ID: docID, Nodes: owned})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: jsonMIMEType,
			Text:     string(data),
		}},
	}, nil
}

// extractID extracts the id from a URI like graph://<kind>/{id}.
// Node ids contain '#', which a client may send percent-encoded.
func extractID(uri, kind string) string {
	prefix := uriScheme + kind

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	return strings.ReplaceAll(id, "%23", "#")
}
