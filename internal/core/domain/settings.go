package domain

import "time"

const unknownDescription = "Unknown"

// LinkAttribution selects which node explicit links are sourced at.
type LinkAttribution string

// Available link attributions.
const (
	// AttributeToDocument sources every explicit link at the document's root node.
	AttributeToDocument LinkAttribution = "document"

	// AttributeToSection sources explicit links at the section that contains them.
	AttributeToSection LinkAttribution = "section"
)

// IsValid returns true if the attribution is recognised.
func (a LinkAttribution) IsValid() bool {
	switch a {
	case AttributeToDocument, AttributeToSection:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (a LinkAttribution) String() string {
	return string(a)
}

// Description returns a human-readable description of the attribution.
func (a LinkAttribution) Description() string {
	switch a {
	case AttributeToDocument:
		return "Document (links start at the document node)"
	case AttributeToSection:
		return "Section (links start at the containing section)"
	default:
		return unknownDescription
	}
}

// RepositoryKind selects where the corpus is read from.
type RepositoryKind string

// Available repository kinds.
const (
	// RepositoryFile reads markdown files below a directory.
	RepositoryFile RepositoryKind = "file"

	// RepositoryMemory reads an in-memory content map.
	RepositoryMemory RepositoryKind = "memory"

	// RepositoryGitHub reads markdown blobs from a GitHub repository.
	RepositoryGitHub RepositoryKind = "github"
)

// IsValid returns true if the repository kind is recognised.
func (k RepositoryKind) IsValid() bool {
	switch k {
	case RepositoryFile, RepositoryMemory, RepositoryGitHub:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k RepositoryKind) String() string {
	return string(k)
}

// OutputFormat selects how the graph is persisted.
type OutputFormat string

// Available output formats.
const (
	// OutputJSON writes a JSON document with nodes and links keys.
	OutputJSON OutputFormat = "json"

	// OutputSQLite writes nodes and links tables to a SQLite database.
	OutputSQLite OutputFormat = "sqlite"
)

// IsValid returns true if the output format is recognised.
func (f OutputFormat) IsValid() bool {
	return f == OutputJSON || f == OutputSQLite
}

// String returns the string representation.
func (f OutputFormat) String() string {
	return string(f)
}

// DefaultOutputName is the graph file written into the corpus directory
// when no output path is configured.
const DefaultOutputName = ".garden-graph.json"

// RepositorySettings configures the corpus source.
type RepositorySettings struct {
	// Kind selects the repository implementation.
	Kind RepositoryKind

	// Excludes are directory names that are never scanned.
	Excludes []string

	// IncludeHidden scans dot-prefixed files and directories.
	IncludeHidden bool

	// GitHub is "owner/repo" or "owner/repo@ref" for github repositories.
	GitHub string
}

// GraphSettings configures graph assembly.
type GraphSettings struct {
	// Attribution selects the explicit link source.
	Attribution LinkAttribution

	// ImplicitLinks enables lexical implicit link inference.
	ImplicitLinks bool

	// Sections emits a node per subsection. When false only document
	// root nodes are produced.
	Sections bool

	// Concurrency is the number of documents loaded per batch.
	Concurrency int
}

// OutputSettings configures graph persistence.
type OutputSettings struct {
	// Path is the output file. Empty means <dir>/.garden-graph.json.
	Path string

	// Format is the output encoding. Empty infers it from the Path extension.
	Format OutputFormat
}

// WatchSettings configures watch mode.
type WatchSettings struct {
	// Debounce is how long a path must be quiet before its change is processed.
	Debounce time.Duration

	// SaveDelay is how long the graph must be unchanged before it is saved.
	SaveDelay time.Duration

	// MetricsAddress serves Prometheus metrics when non-empty (e.g. ":9090").
	MetricsAddress string
}

// Settings holds all application settings.
type Settings struct {
	Repository RepositorySettings
	Graph      GraphSettings
	Output     OutputSettings
	Watch      WatchSettings
}

// DefaultSettings returns settings with sensible defaults.
func DefaultSettings() Settings {
	return Settings{
		Repository: RepositorySettings{
			Kind:     RepositoryFile,
			Excludes: DefaultExcludes(),
		},
		Graph: GraphSettings{
			Attribution:   AttributeToDocument,
			ImplicitLinks: true,
			Sections:      true,
			Concurrency:   8,
		},
		Output: OutputSettings{},
		Watch: WatchSettings{
			Debounce:  300 * time.Millisecond,
			SaveDelay: 300 * time.Millisecond,
		},
	}
}

// DefaultExcludes returns the directory names skipped by default.
func DefaultExcludes() []string {
	return []string{"node_modules", "dist", ".git"}
}
