package ui

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"vantage/internal/api"
	"vantage/internal/config"
	"vantage/internal/logging"
	"vantage/internal/prefs"
	"vantage/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewTargets View = iota
	ViewLogs
)

// TargetFilter represents the targets filter mode.
type TargetFilter int

const (
	FilterAll TargetFilter = iota
	FilterPods
	FilterJobs
	FilterProblems
)

// Options configures the UI.
type Options struct {
	Context    context.Context
	Client     *api.Client
	Store      *state.Store
	Config     *config.Config
	Logger     *slog.Logger
	PollTick   time.Duration
	ThemeName  string
	FollowLogs bool
	PrefsPath  string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	client    *api.Client
	store     *state.Store
	config    *config.Config
	logger    *slog.Logger
	prefsPath string
	pollTick  time.Duration

	// UI state
	theme         Theme
	followDefault bool
	currentView   View
	width         int
	height        int
	ready         bool

	// Data state
	snapshot    state.Snapshot
	lastUpdated time.Time

	// Targets state
	selectedRow int
	filterMode  TargetFilter

	// Log state
	logViewport viewport.Model
	logState    logState

	// Help overlay
	showHelp bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = time.Second
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Dracula"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	return Model{
		ctx:           ctx,
		client:        opts.Client,
		store:         opts.Store,
		config:        opts.Config,
		logger:        logger,
		prefsPath:     prefsPath,
		pollTick:      pollTick,
		theme:         GetTheme(themeName),
		followDefault: opts.FollowLogs,
		currentView:   ViewTargets,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
	}
	// Fetch snapshot immediately on start
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.initLogState()
			m.initLogViewport()
		}
		m.ready = true
		m.updateLogViewport()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.lastUpdated = time.Now()
		m.clampSelection()
		return m, nil

	case tailStartedMsg:
		return m.handleTailStarted(msg)

	case logLinesMsg:
		return m.handleLogLines(msg)

	case logErrMsg:
		return m.handleLogError(msg)

	case tailDoneMsg:
		return m.handleTailDone(msg)
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	// Search input grabs keys while active
	if m.currentView == ViewLogs && m.logState.searchActive {
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "e":
		m.stopTail()
		return m, tea.Quit

	case "h", "?":
		m.showHelp = true
		return m, nil

	case "T":
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if m.prefsPath != "" {
			_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, FollowLogs: m.followDefault})
		}
		m.logState.contentVersion++
		return m, nil

	case "q":
		m.stopTail()
		m.currentView = ViewTargets
		return m, nil

	case "esc":
		if m.currentView == ViewLogs {
			m.stopTail()
			m.currentView = ViewTargets
		}
		return m, nil

	case "f":
		if m.currentView == ViewTargets {
			m.cycleFilter()
			m.clampSelection()
		}
		return m, nil

	case "enter", "l":
		if m.currentView == ViewTargets {
			target := m.selectedTarget()
			if target == nil {
				return m, nil
			}
			m.currentView = ViewLogs
			return m, m.startTail(*target)
		}
	}

	switch m.currentView {
	case ViewTargets:
		return m.handleTargetsKey(msg)
	case ViewLogs:
		return m.handleLogsKey(msg)
	}

	return m, nil
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}

	cmds = append(cmds, tickCmd(m.pollTick))

	return m, tea.Batch(cmds...)
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	switch m.currentView {
	case ViewTargets:
		b.WriteString(m.renderTargets())
	case ViewLogs:
		b.WriteString(m.renderLogs())
	}

	return b.String()
}

// cycleFilter cycles through target filter modes.
func (m *Model) cycleFilter() {
	switch m.filterMode {
	case FilterAll:
		m.filterMode = FilterPods
	case FilterPods:
		m.filterMode = FilterJobs
	case FilterJobs:
		m.filterMode = FilterProblems
	default:
		m.filterMode = FilterAll
	}
}

// filterLabel returns the display label for the current filter mode.
func (m *Model) filterLabel() string {
	switch m.filterMode {
	case FilterPods:
		return "Pods"
	case FilterJobs:
		return "Jobs"
	case FilterProblems:
		return "Problems"
	default:
		return "All"
	}
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// newSearchInput builds the log search input widget.
func newSearchInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "Search logs..."
	ti.CharLimit = 100
	return ti
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
