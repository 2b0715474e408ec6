// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - DocumentRepository: Enumerates and loads documents (file, memory, github)
//   - MarkdownParser: Converts markdown into a block stream
//   - Slugger: Derives node IDs from titles and wiki link targets
//   - Normaliser: Splits frontmatter from markdown bodies
//   - GraphStore: Graph persistence (JSON file or SQLite)
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ImplicitLinker: Lexical link inference. Without it only explicit links are produced.
//   - ChangeWatcher: Change notification. Only needed for watch mode.
//   - MetricsRecorder: Prometheus metrics. Only enabled with a metrics address.
//   - TokenProvider: API tokens. Without it GitHub is read anonymously.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
