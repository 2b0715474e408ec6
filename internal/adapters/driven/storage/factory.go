// Package storage selects the graph store for the configured output.
package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/markdown-graph/internal/adapters/driven/storage/jsonfile"
	"github.com/custodia-labs/markdown-graph/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/markdown-graph/internal/core/domain"
	"github.com/custodia-labs/markdown-graph/internal/core/ports/driven"
)

// ResolveFormat returns the output format to use. An explicit format
// wins; otherwise a .db or .sqlite extension selects SQLite and
// anything else JSON.
func ResolveFormat(out domain.OutputSettings) domain.OutputFormat {
	if out.Format != "" {
		return out.Format
	}
	switch strings.ToLower(filepath.Ext(out.Path)) {
	case ".db", ".sqlite", ".sqlite3":
		return domain.OutputSQLite
	default:
		return domain.OutputJSON
	}
}

// ResolvePath returns the output path. An empty path selects the
// default file name for the format inside dir.
func ResolvePath(out domain.OutputSettings, dir string) string {
	if out.Path != "" {
		return out.Path
	}
	if ResolveFormat(out) == domain.OutputSQLite {
		return filepath.Join(dir, sqlite.DefaultFileName)
	}
	return filepath.Join(dir, domain.DefaultOutputName)
}

// NewGraphStore creates the store for out. Stores that hold resources
// also implement io.Closer.
func NewGraphStore(out domain.OutputSettings, dir string) (driven.GraphStore, error) {
	format := ResolveFormat(out)
	path := ResolvePath(out, dir)

	switch format {
	case domain.OutputJSON:
		return jsonfile.New(path)
	case domain.OutputSQLite:
		return sqlite.NewStore(path)
	default:
		return nil, fmt.Errorf("%w: output format %q", domain.ErrUnsupportedType, format)
	}
}
