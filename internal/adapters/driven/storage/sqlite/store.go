package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/markdown-graph/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/markdown-graph/internal/core/domain"
	"github.com/custodia-labs/markdown-graph/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.GraphStore = (*Store)(nil)

// DefaultFileName is the database written into the corpus directory
// when no output path is configured.
const DefaultFileName = ".garden-graph.db"

// Store persists graph snapshots in a SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the database at path and applies migrations.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty database path", domain.ErrInvalidInput)
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: path,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Location returns the database file path.
func (s *Store) Location() string {
	return s.path
}

// Save replaces the stored graph with g in a single transaction.
// Links keep their order through the position column.
func (s *Store) Save(ctx context.Context, g domain.Graph) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{"DELETE FROM links", "DELETE FROM nodes"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clearing graph: %w", err)
		}
	}

	nodeStmt, err := tx.PrepareContext(ctx, "INSERT INTO nodes (id, label, metadata) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing node insert: %w", err)
	}
	defer nodeStmt.Close()

	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		node := g.Nodes[id]
		metadata, err := marshalMetadata(node.Metadata)
		if err != nil {
			return fmt.Errorf("encoding metadata for %s: %w", id, err)
		}
		if _, err := nodeStmt.ExecContext(ctx, id, node.Label, metadata); err != nil {
			return fmt.Errorf("inserting node %s: %w", id, err)
		}
	}

	linkStmt, err := tx.PrepareContext(ctx, "INSERT INTO links (position, source, target) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing link insert: %w", err)
	}
	defer linkStmt.Close()

	for i, link := range g.Links {
		if _, err := linkStmt.ExecContext(ctx, i, link.Source, link.Target); err != nil {
			return fmt.Errorf("inserting link %s -> %s: %w", link.Source, link.Target, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshots (id, saved_at, node_count, link_count) VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			saved_at = excluded.saved_at,
			node_count = excluded.node_count,
			link_count = excluded.link_count
	`, time.Now().UTC(), len(g.Nodes), len(g.Links))
	if err != nil {
		return fmt.Errorf("recording snapshot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing graph: %w", err)
	}
	return nil
}

// Load returns the stored graph.
// Returns domain.ErrNotFound if no graph has been saved.
func (s *Store) Load(ctx context.Context) (*domain.Graph, error) {
	var nodeCount, linkCount int
	err := s.db.QueryRowContext(ctx,
		"SELECT node_count, link_count FROM snapshots WHERE id = 1").Scan(&nodeCount, &linkCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no graph in %s", domain.ErrNotFound, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	g := domain.Graph{
		Nodes: make(map[string]domain.Node, nodeCount),
		Links: make([]domain.Link, 0, linkCount),
	}

	rows, err := s.db.QueryContext(ctx, "SELECT id, label, metadata FROM nodes")
	if err != nil {
		return nil, fmt.Errorf("querying nodes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var node domain.Node
		var metadata string
		if err := rows.Scan(&node.ID, &node.Label, &metadata); err != nil {
			return nil, fmt.Errorf("scanning node: %w", err)
		}
		if node.Metadata, err = unmarshalMetadata(metadata); err != nil {
			return nil, fmt.Errorf("decoding metadata for %s: %w", node.ID, err)
		}
		g.Nodes[node.ID] = node
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating nodes: %w", err)
	}

	linkRows, err := s.db.QueryContext(ctx, "SELECT source, target FROM links ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("querying links: %w", err)
	}
	defer linkRows.Close()

	for linkRows.Next() {
		var link domain.Link
		if err := linkRows.Scan(&link.Source, &link.Target); err != nil {
			return nil, fmt.Errorf("scanning link: %w", err)
		}
		g.Links = append(g.Links, link)
	}
	if err := linkRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating links: %w", err)
	}

	return &g, nil
}

// LinksFrom returns the stored links whose source is id, in order.
// The source index makes this cheap for large graphs.
func (s *Store) LinksFrom(ctx context.Context, id string) ([]domain.Link, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT source, target FROM links WHERE source = ? ORDER BY position", id)
	if err != nil {
		return nil, fmt.Errorf("querying links from %s: %w", id, err)
	}
	defer rows.Close()

	var links []domain.Link
	for rows.Next() {
		var link domain.Link
		if err := rows.Scan(&link.Source, &link.Target); err != nil {
			return nil, fmt.Errorf("scanning link: %w", err)
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_graph.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

func marshalMetadata(m map[string]string) (string, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unmarshalMetadata(s string) (map[string]string, error) {
	if s == "" || s == "{}" {
		return nil, nil
	}
	var m map[string]string
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, err
	}
	return m, nil
}
