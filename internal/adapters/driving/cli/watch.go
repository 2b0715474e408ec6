package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/custodia-labs/markdown-graph/internal/adapters/driven/metrics"
	"github.com/custodia-labs/markdown-graph/internal/adapters/driving/tui"
	"github.com/custodia-labs/markdown-graph/internal/connectors"
	"github.com/custodia-labs/markdown-graph/internal/core/ports/driven"
	"github.com/custodia-labs/markdown-graph/internal/core/services"
	"github.com/custodia-labs/markdown-graph/internal/logger"
)

const (
	flagTUI         = "tui"
	flagMetricsAddr = "metrics-addr"
	flagDebounce    = "debounce"
)

// isTerminal reports whether stdout is an interactive terminal.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Keep the graph up to date as documents change",
	Long: `Writes the graph once, then watches dir and rewrites the output each
time changes settle. Only file repositories can be watched.

Use --tui for a live dashboard when running in a terminal, and
--metrics-addr to serve Prometheus metrics on /metrics.

Examples:
  markdown-graph watch notes/
  markdown-graph watch notes/ --tui
  markdown-graph watch notes/ --metrics-addr :9090`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	addGraphFlags(watchCmd)
	watchCmd.Flags().Bool(flagTUI, false, "show a live dashboard (terminal only)")
	watchCmd.Flags().String(flagMetricsAddr, "", "serve Prometheus metrics on this address")
	watchCmd.Flags().Duration(flagDebounce, 0, "quiet period before a changed file is processed")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir, err := corpusDir(args)
	if err != nil {
		return err
	}
	settings, err := loadSettings(cmd, dir)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed(flagMetricsAddr) {
		settings.Watch.MetricsAddress, _ = cmd.Flags().GetString(flagMetricsAddr)
	}
	if cmd.Flags().Changed(flagDebounce) {
		if d, _ := cmd.Flags().GetDuration(flagDebounce); d > 0 {
			settings.Watch.Debounce = d
		}
	}

	c, err := newComponents(settings, dir, true)
	if err != nil {
		return err
	}
	defer c.Close()

	watcher, err := connectors.NewWatcher(c.repo, settings.Watch.Debounce)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	var recorder driven.MetricsRecorder
	if addr := settings.Watch.MetricsAddress; addr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		recorder = metrics.NewRecorder(reg)

		server, err := metrics.Listen(addr, reg)
		if err != nil {
			return fmt.Errorf("start metrics server: %w", err)
		}
		g.Go(func() error {
			return server.Serve(gctx)
		})
	}

	index := c.graphIndex(recorder)
	svc := services.NewWatchService(index, watcher, c.store, recorder, settings.Watch.SaveDelay)

	g.Go(func() error {
		defer cancel()
		return svc.Run(gctx)
	})

	useTUI, _ := cmd.Flags().GetBool(flagTUI)
	if useTUI && !isTerminal() {
		logger.Warn("--%s needs a terminal, continuing without it", flagTUI)
		useTUI = false
	}
	if useTUI {
		app, err := tui.NewApp(tui.NewPorts(svc, index), tui.WithSubtitle(c.repo.Description()))
		if err != nil {
			cancel()
			_ = g.Wait()
			return err
		}
		// Log lines would corrupt the dashboard.
		logger.SetOutput(io.Discard)
		defer logger.SetOutput(os.Stderr)

		g.Go(func() error {
			defer cancel()
			return app.WithContext(gctx).Run()
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	status := svc.Status()
	cmd.Printf("Stopped after %d updates and %d saves (%d nodes, %d links)\n",
		status.Updates, status.Saves, status.Stats.NodeCount, status.Stats.LinkCount)
	return nil
}
