// Package tui is an interactive terminal chart viewer built on bubbletea.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"FinAdventure/internal/chart"
	"FinAdventure/internal/insight"
	"FinAdventure/internal/model"
	"FinAdventure/internal/notifier"
	"FinAdventure/internal/series"
	"FinAdventure/internal/viewer"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("62")).Padding(0, 1)
	sparkStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4bc0c0"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	activeStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

const helpLine = "+/- zoom  r reset  1-5 range (1m 3m 6m 1y all)  f refetch  s save  q quit"

// fetchedMsg carries a settled fetch back to Update.
type fetchedMsg struct {
	gen uint64
	ts  *model.TimeSeries
	err error
}

// Model is the bubbletea model for the viewer.
type Model struct {
	ctx      context.Context
	store    *series.Store
	session  *viewer.Session
	renderer *chart.Renderer
	query    series.Query
	output   string
	logger   *zap.Logger

	spinner spinner.Model
	loading bool
	state   viewer.ViewState
	status  string
	width   int
}

// New creates a viewer model that fetches q through store.
func New(ctx context.Context, store *series.Store, session *viewer.Session, renderer *chart.Renderer, q series.Query, output string, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		ctx:      ctx,
		store:    store,
		session:  session,
		renderer: renderer,
		query:    q,
		output:   output,
		logger:   logger,
		spinner:  sp,
		loading:  true,
		state:    viewer.Handle(session, viewer.Event{Kind: viewer.EventLoadStarted, Symbol: q.Symbol, DataType: q.DataType}),
		width:    80,
	}
}

// Init starts the first fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchCmd())
}

// startFetch marks the session as loading and returns the fetch command.
// A spinner tick chain is already running while loading, so only a fetch
// from idle starts a new one.
func (m *Model) startFetch() tea.Cmd {
	ticking := m.loading
	m.loading = true
	m.state = viewer.Handle(m.session, viewer.Event{Kind: viewer.EventLoadStarted, Symbol: m.query.Symbol, DataType: m.query.DataType})
	if ticking {
		return m.fetchCmd()
	}
	return tea.Batch(m.spinner.Tick, m.fetchCmd())
}

// fetchCmd takes a request generation immediately, so any older fetch still
// in flight becomes stale, and returns the command that performs the fetch.
func (m Model) fetchCmd() tea.Cmd {
	gen := m.store.Begin()
	store, ctx, q := m.store, m.ctx, m.query
	return func() tea.Msg {
		ts, err := store.FetchGen(ctx, gen, q)
		return fetchedMsg{gen: gen, ts: ts, err: err}
	}
}

// Update handles keys, fetch results and spinner ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.KeyMsg:
		return m.handleKey(msg)

	case fetchedMsg:
		if errors.Is(msg.err, series.ErrStaleResponse) {
			return m, nil
		}
		m.loading = false
		m.state = viewer.Handle(m.session, viewer.Event{Kind: viewer.EventLoaded, Series: msg.ts, Err: msg.err})
		m.status = ""

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q", "ctrl+c", "esc":
		viewer.Handle(m.session, viewer.Event{Kind: viewer.EventClose})
		return m, tea.Quit
	case "+", "=":
		m.state = viewer.Handle(m.session, viewer.Event{Kind: viewer.EventZoomIn})
	case "-", "_":
		m.state = viewer.Handle(m.session, viewer.Event{Kind: viewer.EventZoomOut})
	case "r":
		m.state = viewer.Handle(m.session, viewer.Event{Kind: viewer.EventReset})
	case "1", "2", "3", "4", "5":
		w := viewer.Windows[int(key[0]-'1')]
		m.state = viewer.Handle(m.session, viewer.Event{Kind: viewer.EventRange, Window: w})
	case "f":
		cmd := m.startFetch()
		return m, cmd
	case "s":
		m.status = m.save()
	}
	return m, nil
}

func (m Model) save() string {
	if m.state.Status != viewer.StatusReady || m.state.Chart == nil {
		return "Nothing to save yet"
	}
	if err := m.renderer.WriteFile(m.state.Chart, m.output); err != nil {
		return fmt.Sprintf("Save failed: %v", err)
	}
	m.logger.Info("chart saved", zap.String("path", m.output))
	return "Saved chart to " + m.output
}

// View renders the current state.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%s - %s", m.query.Symbol, m.query.DataType)))
	b.WriteString("  ")
	b.WriteString(m.windowBar())
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(m.spinner.View())
		b.WriteString(" Loading chart data...\n")
	} else {
		b.WriteString(notifier.FormatViewState(m.state))
		b.WriteString("\n")
		if m.state.Status == viewer.StatusReady {
			dates, values := m.session.Visible()
			if len(values) > 0 {
				b.WriteString("\n")
				b.WriteString(sparkStyle.Render(chart.Sparkline(values, max(10, m.width-4))))
				b.WriteString(fmt.Sprintf("\n%s  ..  %s\n", dates[0], dates[len(dates)-1]))
			}
			if in, err := insight.Build(m.state.Symbol, m.state.DataType, dates, values); err == nil {
				b.WriteString("\n")
				b.WriteString(notifier.FormatInsight(in))
				b.WriteString("\n")
			}
		}
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(helpLine))
	return b.String()
}

func (m Model) windowBar() string {
	parts := make([]string, len(viewer.Windows))
	for i, w := range viewer.Windows {
		label := string(w)
		if w == m.state.Window {
			label = activeStyle.Render(label)
		}
		parts[i] = label
	}
	return strings.Join(parts, " ")
}

// State returns the last view state, for tests.
func (m Model) State() viewer.ViewState { return m.state }

// Loading reports whether a fetch is in flight.
func (m Model) Loading() bool { return m.loading }
