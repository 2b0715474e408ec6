// Package connectors builds the document repositories a graph is read from.
//
// Each subpackage implements [driven.DocumentRepository] for one corpus kind:
//
//   - filesystem: markdown files below a directory, with an fsnotify watcher
//   - memory: an in-memory content map, mainly for tests
//   - github: markdown blobs in a GitHub repository tree
//
// NewRepository selects the implementation from [domain.RepositorySettings].
//
// [driven.DocumentRepository]: github.com/custodia-labs/markdown-graph/internal/core/ports/driven.DocumentRepository
// [domain.RepositorySettings]: github.com/custodia-labs/markdown-graph/internal/core/domain.RepositorySettings
package connectors
