package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/markdown-graph/internal/adapters/driving/mcp"
	"github.com/custodia-labs/markdown-graph/internal/connectors"
	"github.com/custodia-labs/markdown-graph/internal/core/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the graph to other programs",
}

var serveMCPCmd = &cobra.Command{
	Use:   "mcp [dir]",
	Short: "Start an MCP server over the graph",
	Long: `Start a Model Context Protocol server exposing the graph of dir.

Tools: get_graph, get_stats, get_node, get_links.
Resources: graph://current, graph://nodes/{nodeId}, graph://documents/{documentId}.

By default the server speaks JSON-RPC over stdio. Use --http to listen on
an address instead. With --watch the graph follows changes to dir and is
saved to the output file as it changes.

Examples:
  # Stdio mode
  markdown-graph serve mcp notes/

  # HTTP mode (for MCP Inspector, remote access)
  markdown-graph serve mcp notes/ --http :8080

MCP client configuration:
  {
    "mcpServers": {
      "notes": {
        "command": "/path/to/markdown-graph",
        "args": ["serve", "mcp", "/path/to/notes"]
      }
    }
  }`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServeMCP,
}

func init() {
	addGraphFlags(serveMCPCmd)
	serveMCPCmd.Flags().String("http", "", "HTTP listen address (empty = use stdio)")
	serveMCPCmd.Flags().Bool("watch", false, "follow changes to the corpus")
	serveCmd.AddCommand(serveMCPCmd)
	rootCmd.AddCommand(serveCmd)
}

func runServeMCP(cmd *cobra.Command, args []string) error {
	addr, err := cmd.Flags().GetString("http")
	if err != nil {
		return fmt.Errorf("getting http flag: %w", err)
	}
	watch, _ := cmd.Flags().GetBool("watch")

	dir, err := corpusDir(args)
	if err != nil {
		return err
	}
	settings, err := loadSettings(cmd, dir)
	if err != nil {
		return err
	}

	c, err := newComponents(settings, dir, watch)
	if err != nil {
		return err
	}
	defer c.Close()

	index := c.graphIndex(nil)
	ports := &mcp.Ports{Index: index}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	if watch {
		watcher, err := connectors.NewWatcher(c.repo, settings.Watch.Debounce)
		if err != nil {
			return err
		}
		svc := services.NewWatchService(index, watcher, c.store, nil, settings.Watch.SaveDelay)
		ports.Watch = svc
		g.Go(func() error {
			return svc.Run(gctx)
		})
	} else if _, err := index.Initialize(ctx); err != nil {
		return fmt.Errorf("build graph: %w", err)
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	g.Go(func() error {
		defer cancel()
		if addr != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://%s\n", addr)
			return server.RunHTTP(gctx, addr)
		}
		return server.Run(gctx)
	})
	return g.Wait()
}
