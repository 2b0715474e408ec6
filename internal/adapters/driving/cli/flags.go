package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/markdown-graph/internal/adapters/driven/config"
	"github.com/custodia-labs/markdown-graph/internal/adapters/driven/config/file"
	"github.com/custodia-labs/markdown-graph/internal/core/domain"
	"github.com/custodia-labs/markdown-graph/internal/logger"
)

// OutputEnv overrides the configured output path.
const OutputEnv = "MARKDOWN_GRAPH_OUTPUT"

// Flag names shared by the graph-building commands.
const (
	flagOutput      = "output"
	flagFormat      = "format"
	flagNoSections  = "no-sections"
	flagNoImplicit  = "no-implicit"
	flagAttribution = "attribution"
	flagGitHub      = "github"
	flagConcurrency = "concurrency"
)

// addGraphFlags registers the flags that shape the graph and its output.
func addGraphFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringP(flagOutput, "o", "", "output file (default <dir>/"+domain.DefaultOutputName+")")
	flags.String(flagFormat, "", "output format: json or sqlite (default from the output extension)")
	flags.Bool(flagNoSections, false, "emit only document nodes")
	flags.Bool(flagNoImplicit, false, "disable implicit links")
	flags.String(flagAttribution, "", "explicit link source: document or section")
	flags.String(flagGitHub, "", "read the corpus from a GitHub repository (owner/repo[@ref])")
	flags.Int(flagConcurrency, 0, "documents loaded per batch")
}

// corpusDir returns the directory argument, defaulting to the working directory.
func corpusDir(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, err)
	}
	return abs, nil
}

// loadSettings reads <dir>/.markdown-graph.toml, then applies the
// environment and finally any flags set on cmd.
func loadSettings(cmd *cobra.Command, dir string) (domain.Settings, error) {
	store, err := file.NewConfigStore(dir)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("open config: %w", err)
	}
	settings, err := config.LoadSettings(store)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load config: %w", err)
	}
	logger.Debug("Configuration from %s", store.Path())

	if v := os.Getenv(OutputEnv); v != "" {
		settings.Output.Path = v
	}

	if err := applyFlags(cmd, &settings); err != nil {
		return domain.Settings{}, err
	}
	return settings, nil
}

// applyFlags overlays flags that were set explicitly.
func applyFlags(cmd *cobra.Command, s *domain.Settings) error {
	flags := cmd.Flags()

	if flags.Changed(flagOutput) {
		s.Output.Path, _ = flags.GetString(flagOutput)
	}
	if flags.Changed(flagFormat) {
		v, _ := flags.GetString(flagFormat)
		format := domain.OutputFormat(v)
		if !format.IsValid() {
			return fmt.Errorf("%w: --%s must be json or sqlite, got %q", domain.ErrInvalidInput, flagFormat, v)
		}
		s.Output.Format = format
	}
	if flags.Changed(flagNoSections) {
		v, _ := flags.GetBool(flagNoSections)
		s.Graph.Sections = !v
	}
	if flags.Changed(flagNoImplicit) {
		v, _ := flags.GetBool(flagNoImplicit)
		s.Graph.ImplicitLinks = !v
	}
	if flags.Changed(flagAttribution) {
		v, _ := flags.GetString(flagAttribution)
		attribution := domain.LinkAttribution(v)
		if !attribution.IsValid() {
			return fmt.Errorf("%w: --%s must be document or section, got %q", domain.ErrInvalidInput, flagAttribution, v)
		}
		s.Graph.Attribution = attribution
	}
	if flags.Changed(flagGitHub) {
		s.Repository.GitHub, _ = flags.GetString(flagGitHub)
		s.Repository.Kind = domain.RepositoryGitHub
	}
	if flags.Changed(flagConcurrency) {
		if v, _ := flags.GetInt(flagConcurrency); v > 0 {
			s.Graph.Concurrency = v
		}
	}
	return nil
}
