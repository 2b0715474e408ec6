package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/markdown-graph/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/markdown-graph/internal/core/services"
	"github.com/custodia-labs/markdown-graph/internal/logger"
)

const flagNamesOnly = "names-only"

var generateCmd = &cobra.Command{
	Use:   "generate [dir]",
	Short: "Write the graph for a corpus",
	Long: `Reads every markdown document below dir (default the working directory)
and writes the graph to the output file.

The default output is <dir>/.garden-graph.json. An output path ending in
.db or .sqlite writes a SQLite database instead.

Examples:
  markdown-graph generate notes/
  markdown-graph generate notes/ -o graph.db
  markdown-graph generate --no-sections --names-only`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	addGraphFlags(generateCmd)
	for _, cmd := range []*cobra.Command{rootCmd, generateCmd} {
		cmd.Flags().Bool(flagNamesOnly, false, "with --no-sections, list documents without reading them")
	}
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	dir, err := corpusDir(args)
	if err != nil {
		return err
	}
	settings, err := loadSettings(cmd, dir)
	if err != nil {
		return err
	}

	c, err := newComponents(settings, dir, true)
	if err != nil {
		return err
	}
	defer c.Close()

	var opts []services.GraphServiceOption
	if namesOnly, _ := cmd.Flags().GetBool(flagNamesOnly); namesOnly {
		if settings.Graph.Sections {
			logger.Warn("--%s has no effect unless --%s is set", flagNamesOnly, flagNoSections)
		} else {
			opts = append(opts, services.WithNamesOnly())
		}
	}

	graph, err := c.graphService(opts...).Generate(cmd.Context())
	if err != nil {
		return fmt.Errorf("generate graph: %w", err)
	}

	s := styles.DefaultStyles()
	stats := graph.Stats()
	cmd.Printf("%s %s  %s\n",
		s.Success.Render("Wrote"),
		c.store.Location(),
		s.Muted.Render(fmt.Sprintf("(%d nodes, %d links)", stats.NodeCount, stats.LinkCount)),
	)
	return nil
}
