package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/markdown-graph/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/markdown-graph/internal/core/domain"
)

var (
	statsJSON  bool
	statsSaved bool
)

var statsCmd = &cobra.Command{
	Use:   "stats [dir]",
	Short: "Print node and link counts",
	Long: `Builds the graph for dir and prints its size without writing anything.

With --saved the counts are read from the output file instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStats,
}

func init() {
	addGraphFlags(statsCmd)
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output as JSON")
	statsCmd.Flags().BoolVar(&statsSaved, "saved", false, "read the saved graph instead of rebuilding")
	rootCmd.AddCommand(statsCmd)
}

// graphSummary is the stats output.
type graphSummary struct {
	domain.Stats
	Documents     int `json:"documentCount"`
	DanglingLinks int `json:"danglingLinkCount"`
}

func summarise(g domain.Graph) graphSummary {
	summary := graphSummary{Stats: g.Stats()}
	for id := range g.Nodes {
		if !domain.IsSectionID(id) {
			summary.Documents++
		}
	}
	for _, link := range g.Links {
		if !g.HasNode(link.Target) {
			summary.DanglingLinks++
		}
	}
	return summary
}

func runStats(cmd *cobra.Command, args []string) error {
	dir, err := corpusDir(args)
	if err != nil {
		return err
	}
	settings, err := loadSettings(cmd, dir)
	if err != nil {
		return err
	}

	c, err := newComponents(settings, dir, statsSaved)
	if err != nil {
		return err
	}
	defer c.Close()

	var graph domain.Graph
	if statsSaved {
		saved, err := c.store.Load(cmd.Context())
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no saved graph at %s, run generate first", c.store.Location())
		}
		if err != nil {
			return fmt.Errorf("load graph: %w", err)
		}
		graph = *saved
	} else {
		graph, err = c.graphService().Assemble(cmd.Context())
		if err != nil {
			return fmt.Errorf("assemble graph: %w", err)
		}
	}

	summary := summarise(graph)
	if statsJSON {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	s := styles.DefaultStyles()
	cmd.Println(s.Stat("Nodes:    ", summary.NodeCount))
	cmd.Println(s.Stat("Links:    ", summary.LinkCount))
	cmd.Println(s.Stat("Documents:", summary.Documents))
	cmd.Println(s.Stat("Dangling: ", summary.DanglingLinks))
	return nil
}
