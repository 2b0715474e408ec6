// Package domain defines the core entities for markdown-graph.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A markdown body with its metadata
//   - DocumentReference: A tagged pointer to a loadable document
//   - Block: A parsed markdown node
//   - Section: A titled, depth-tagged part of a document
//   - Graph: Nodes and directed links derived from sections
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
