// Package sqlite provides a SQLite-based implementation of driven.GraphStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. A snapshot is held in three tables:
//
//   - nodes: one row per node, metadata encoded as a JSON object
//   - links: one row per link, ordered by position
//   - snapshots: a single row recording when the graph was last saved
//
// Links hold node IDs by value, so dangling targets survive a round trip.
//
// # Data Location
//
// By default, the database is written next to the corpus as .garden-graph.db.
//
// # Thread Safety
//
// All operations are thread-safe. Save replaces the whole snapshot in one
// transaction, so readers never observe a partial graph.
package sqlite
