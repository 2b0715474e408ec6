// Package cli provides the markdown-graph command line interface.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/markdown-graph/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

var (
	verbose bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "markdown-graph [dir]",
	Short: "Build a link graph from a folder of markdown notes",
	Long: `markdown-graph reads a corpus of markdown documents and writes a graph
of documents, sections and the links between them.

Explicit links are markdown links and [[wiki links]]. Implicit links are
inferred where a document's text mentions another document's title.

Running without a subcommand is the same as "markdown-graph generate".`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		// A missing .env is fine.
		_ = godotenv.Load()
		logger.SetVerbose(verbose)
		logger.SetQuiet(quiet)
	},
	RunE: runGenerate,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show debug output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only show errors")
	addGraphFlags(rootCmd)
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}
