package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/markdown-graph/internal/adapters/driving/tui/components/eventlog"
	"github.com/custodia-labs/markdown-graph/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/markdown-graph/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/markdown-graph/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/markdown-graph/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/markdown-graph/internal/core/domain"
	"github.com/custodia-labs/markdown-graph/internal/core/ports/driving"
)

// headerLines is the number of rows used above the event log.
const headerLines = 5

// App is the watch dashboard following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles  *styles.Styles
	keymap  *keymap.KeyMap
	spinner spinner.Model
	help    help.Model
	bar     *status.Bar
	log     *eventlog.Log

	// subtitle names the watched corpus in the header.
	subtitle string

	// stats is the graph size from the latest event.
	stats domain.Stats

	// counters mirror WatchStatus so the header can render without polling.
	updates int
	saves   int
	errors  int

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates the terminal size is known.
	ready bool

	// initialized indicates the initial graph has been built.
	initialized bool

	// stopped indicates the watch service closed its event channel.
	stopped bool

	showHelp bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// Option configures an App.
type Option func(*App)

// WithSubtitle sets the header subtitle, typically the watched directory.
func WithSubtitle(subtitle string) Option {
	return func(a *App) {
		a.subtitle = subtitle
	}
}

// NewApp creates a new dashboard with the given ports.
func NewApp(ports *Ports, opts ...Option) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Subtitle

	a := &App{
		ports:   ports,
		ctx:     context.Background(),
		styles:  s,
		keymap:  km,
		spinner: sp,
		help:    help.New(),
		bar:     status.NewBar(s, km),
		log:     eventlog.New(s, km),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// WithContext sets the context for the app. Cancelling it quits the program.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("markdown-graph watch"),
		a.spinner.Tick,
		waitForEvent(a.ports.Watch.Events()),
	)
}

// waitForEvent blocks on the next watch event.
func waitForEvent(ch <-chan driving.WatchEvent) tea.Cmd {
	return func() tea.Msg {
		e, ok := <-ch
		if !ok {
			return messages.WatchStopped{}
		}
		return messages.WatchEventReceived{Event: e}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		switch {
		case keymap.Matches(msg.String(), a.keymap.Quit):
			return a, tea.Quit
		case keymap.Matches(msg.String(), a.keymap.Help):
			a.showHelp = !a.showHelp
			return a, nil
		}
		var cmd tea.Cmd
		a.log, cmd = a.log.Update(msg)
		return a, cmd

	case messages.WatchEventReceived:
		a.handleEvent(msg.Event)
		return a, waitForEvent(a.ports.Watch.Events())

	case messages.WatchStopped:
		a.stopped = true
		a.bar.SetState(status.StateStopped)
		return a, tea.Quit

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.bar.SetState(status.StateError)
		if msg.Err != nil {
			a.bar.SetMessage(msg.Err.Error())
		}
		return a, nil

	case messages.Quit:
		return a, tea.Quit

	case spinner.TickMsg:
		if a.initialized {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	return a, nil
}

func (a *App) handleEvent(e driving.WatchEvent) {
	a.log.Append(e)
	a.stats = e.Stats
	a.bar.SetStats(e.Stats)

	switch e.Type {
	case driving.WatchInitialized:
		a.initialized = true
		a.bar.SetState(status.StateWatching)
	case driving.WatchUpdated, driving.WatchRemoved:
		a.updates++
		if a.bar.State() != status.StateError {
			a.bar.SetState(status.StateWatching)
		}
	case driving.WatchSaved:
		a.saves++
		a.bar.Clear()
	case driving.WatchFailed:
		a.errors++
		a.err = e.Err
		a.bar.SetState(status.StateError)
		if e.Err != nil {
			a.bar.SetMessage(e.Err.Error())
		}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(a.styles.Title.Render("markdown-graph"))
	if a.subtitle != "" {
		b.WriteString(" " + a.styles.Subtitle.Render(a.subtitle))
	}
	b.WriteString("\n\n")

	if !a.initialized {
		b.WriteString(a.spinner.View() + " Building graph...")
	} else {
		b.WriteString(strings.Join([]string{
			a.styles.Stat("nodes", a.stats.NodeCount),
			a.styles.Stat("links", a.stats.LinkCount),
			a.styles.Stat("updates", a.updates),
			a.styles.Stat("saves", a.saves),
			a.styles.Stat("errors", a.errors),
		}, "  "))
	}
	b.WriteString("\n\n")

	if a.showHelp {
		b.WriteString(a.help.FullHelpView(a.keymap.FullHelp()))
	} else {
		b.WriteString(a.log.View())
	}
	b.WriteString("\n")
	b.WriteString(a.bar.View())
	return b.String()
}

// Run starts the dashboard and blocks until it exits.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	if a.ctx.Err() != nil {
		// Cancelled by the caller, not a failure.
		return nil
	}
	return err
}

// Stats returns the graph size from the latest event.
func (a *App) Stats() domain.Stats {
	return a.stats
}

// Log returns the event log component.
func (a *App) Log() *eventlog.Log {
	return a.log
}

// Bar returns the status bar component.
func (a *App) Bar() *status.Bar {
	return a.bar
}

// Counts returns the number of updates, saves and errors seen.
func (a *App) Counts() (updates, saves, errors int) {
	return a.updates, a.saves, a.errors
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the terminal size is known.
func (a *App) Ready() bool {
	return a.ready
}

// Initialized returns whether the initial graph has been built.
func (a *App) Initialized() bool {
	return a.initialized
}

// Stopped returns whether the watch service has finished.
func (a *App) Stopped() bool {
	return a.stopped
}

// ShowingHelp returns whether the help view is open.
func (a *App) ShowingHelp() bool {
	return a.showHelp
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.bar.SetWidth(width)
	a.help.Width = width
	a.log.SetSize(width, height-headerLines-1)
}
