package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/crawlboard/internal/crawler"
	"github.com/five82/crawlboard/internal/grid"
	"github.com/five82/crawlboard/internal/prefs"
	"github.com/five82/crawlboard/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewTable View = iota
	ViewLogs
)

// pane identifies which half of the split layout has focus.
type pane int

const (
	paneTable pane = iota
	paneDetail
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Service   crawler.Service
	Store     *state.Store
	Logger    *zap.Logger
	PollTick  time.Duration
	ThemeName string
	PrefsPath string
	PageSize  int
	LogPath   string
}

// statusLine is the transient message shown under the content area.
type statusLine struct {
	text  string
	isErr bool
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	service   crawler.Service
	store     *state.Store
	logger    *zap.Logger
	prefsPath string
	logPath   string
	pollTick  time.Duration

	// UI state
	theme       Theme
	keys        keyMap
	help        help.Model
	spinner     spinner.Model
	currentView View
	focusedPane pane
	width       int
	height      int
	ready       bool

	// Data state
	snapshot state.Snapshot

	// Table state. The table is only touched from Update.
	table      *grid.Table
	cursor     int // Row index within the current page
	sortColumn int // Index into grid.Columns, -1 when unsorted

	// Detail state
	detailViewport viewport.Model

	// Log state
	logViewport viewport.Model
	logState    logState

	// Global search input
	searchActive bool
	searchInput  textinput.Model

	// Overlays
	modal    Modal
	showHelp bool

	// Actions
	status        statusLine
	submitting    bool
	confirmDelete int64 // Result armed for deletion by the previous key press
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = DefaultUIInterval
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Nightfox"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "search title, url, html version, status"
	search.CharLimit = 200

	h := help.New()
	h.ShowAll = true

	return Model{
		ctx:         ctx,
		service:     opts.Service,
		store:       opts.Store,
		logger:      logger.Named("ui"),
		prefsPath:   prefsPath,
		logPath:     opts.LogPath,
		pollTick:    pollTick,
		theme:       GetTheme(themeName),
		keys:        DefaultKeyMap(),
		help:        h,
		spinner:     sp,
		currentView: ViewTable,
		table:       grid.NewTable(opts.PageSize),
		sortColumn:  -1,
		searchInput: search,
		logState:    logState{follow: true},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.pollTick),
		m.spinner.Tick,
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
		m.ready = true
		m.help.Width = msg.Width
		m.updateDetailViewport()
		m.updateLogViewport()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.table.SettlePage(m.currentProjection())
		m.clampCursor()
		m.updateDetailViewport()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case logLinesMsg:
		m.handleLogLines(msg)
		return m, nil

	case filtersAppliedMsg:
		m.applyFilters(msg)
		return m, nil

	case submitRequestedMsg:
		m.submitting = true
		m.setStatus("Submitting "+msg.url+"...", false)
		return m, submitCmd(m.ctx, m.service, msg.url)

	case actionResultMsg:
		m.handleActionResult(msg)
		return m, nil
	}

	// Cursor blink and similar housekeeping for whichever input is live.
	if m.modal != nil {
		var cmd tea.Cmd
		m.modal, cmd, _ = m.modal.Update(msg, m.keys)
		return m, cmd
	}
	if m.searchActive {
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	// Show help overlay if active
	if m.showHelp {
		return m.renderHelp()
	}

	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key closes help
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		var cmd tea.Cmd
		var closed bool
		m.modal, cmd, closed = m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		}
		return m, cmd
	}

	if m.searchActive {
		return m.handleSearchKey(msg)
	}

	// Delete confirmation only survives a single key press.
	armed := m.confirmDelete
	m.confirmDelete = 0

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil

	case key.Matches(msg, m.keys.Dismiss):
		if m.store != nil {
			m.store.DismissError()
		}
		m.snapshot.LastError = nil
		return m, nil

	case key.Matches(msg, m.keys.ViewLogs):
		if m.currentView == ViewLogs {
			m.currentView = ViewTable
			return m, nil
		}
		m.currentView = ViewLogs
		m.logState.follow = true
		m.updateLogViewport()
		return m, loadLogsCmd(m.logPath)
	}

	if m.currentView == ViewLogs {
		return m.handleLogsKey(msg)
	}
	return m.handleTableKey(msg, armed)
}

// handleTableKey processes keyboard input for the table view.
func (m Model) handleTableKey(msg tea.KeyMsg, armed int64) (tea.Model, tea.Cmd) {
	view := m.currentProjection()
	detailFocused := m.table.IsOpen() && m.focusedPane == paneDetail

	switch {
	case key.Matches(msg, m.keys.Escape):
		if m.table.IsOpen() {
			m.closeDetail()
		} else {
			m.status = statusLine{}
		}

	case key.Matches(msg, m.keys.Tab), key.Matches(msg, m.keys.ShiftTab):
		if m.table.IsOpen() {
			m.toggleFocus()
		}

	case key.Matches(msg, m.keys.Up):
		if detailFocused {
			m.detailViewport.ScrollUp(1)
		} else if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if detailFocused {
			m.detailViewport.ScrollDown(1)
		} else if m.cursor < len(view.Rows)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Top):
		if detailFocused {
			m.detailViewport.GotoTop()
		} else {
			m.cursor = 0
		}

	case key.Matches(msg, m.keys.Bottom):
		if detailFocused {
			m.detailViewport.GotoBottom()
		} else {
			m.cursor = max(len(view.Rows)-1, 0)
		}

	case key.Matches(msg, m.keys.NextPage):
		if m.table.NextPage(view) {
			m.cursor = 0
		}

	case key.Matches(msg, m.keys.PrevPage):
		if m.table.PreviousPage(view) {
			m.cursor = 0
		}

	case key.Matches(msg, m.keys.Open):
		if r, ok := cursorResult(view, m.cursor); ok {
			m.table.Select(r)
			m.updateDetailViewport()
			m.detailViewport.GotoTop()
		}

	case key.Matches(msg, m.keys.Search):
		m.searchActive = true
		m.searchInput.SetValue(m.table.Filter(grid.KeyGlobal))
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.Filters):
		modal := newFilterModal(m.table)
		m.modal = modal
		return m, modal.focusCmd()

	case key.Matches(msg, m.keys.ClearFilters):
		m.table.ClearFilters()
		m.searchInput.SetValue("")
		m.cursor = 0
		m.setStatus("Filters cleared", false)

	case key.Matches(msg, m.keys.CycleSort):
		m.sortColumn = (m.sortColumn + 1) % len(grid.Columns)
		m.table.SetSort(grid.SortKey{Field: grid.Columns[m.sortColumn]})
		m.cursor = 0

	case key.Matches(msg, m.keys.ToggleSort):
		if m.sortColumn < 0 {
			m.sortColumn = 0
		}
		m.table.ToggleSort(grid.Columns[m.sortColumn])
		m.cursor = 0

	case key.Matches(msg, m.keys.Submit):
		if m.submitting {
			m.setStatus("A submission is already in flight", true)
			return m, nil
		}
		modal := newSubmitModal()
		m.modal = modal
		return m, modal.focusCmd()

	case key.Matches(msg, m.keys.Requeue):
		r, ok := m.targetResult(view)
		if !ok {
			return m, nil
		}
		m.setStatus(actionPending(actionRequeue, r.ID), false)
		return m, requeueCmd(m.ctx, m.service, r.ID)

	case key.Matches(msg, m.keys.Delete):
		r, ok := m.targetResult(view)
		if !ok {
			return m, nil
		}
		if armed == r.ID {
			m.setStatus(actionPending(actionDelete, r.ID), false)
			return m, deleteCmd(m.ctx, m.service, r.ID)
		}
		m.confirmDelete = r.ID
		m.setStatus(deletePrompt(r), false)
	}

	return m, nil
}

// handleSearchKey feeds the global search input, filtering as the user types.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.searchActive = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.table.SetGlobal("")
		m.cursor = 0
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		m.searchActive = false
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if value := m.searchInput.Value(); value != m.table.Filter(grid.KeyGlobal) {
		m.table.SetGlobal(value)
		m.cursor = 0
	}
	return m, cmd
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Fetch latest snapshot
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}

	// Refresh logs if in log view and following
	if m.currentView == ViewLogs && m.logState.follow {
		cmds = append(cmds, loadLogsCmd(m.logPath))
	}

	// Schedule next tick
	cmds = append(cmds, tickCmd(m.pollTick))

	return m, tea.Batch(cmds...)
}

// currentProjection derives the visible page from the latest snapshot.
func (m Model) currentProjection() grid.Projection {
	return m.table.View(m.snapshot.Results)
}

// clampCursor keeps the cursor on a row of the current page.
func (m *Model) clampCursor() {
	rows := len(m.currentProjection().Rows)
	if m.cursor >= rows {
		m.cursor = max(rows-1, 0)
	}
}

// targetResult is the result an action applies to: the open detail when
// there is one, otherwise the row under the cursor.
func (m Model) targetResult(view grid.Projection) (crawler.Result, bool) {
	if r, ok := m.table.Selection(); ok {
		return r, true
	}
	return cursorResult(view, m.cursor)
}

func cursorResult(view grid.Projection, cursor int) (crawler.Result, bool) {
	if cursor < 0 || cursor >= len(view.Rows) {
		return crawler.Result{}, false
	}
	return view.Rows[cursor], true
}

// applyFilters installs the column filters submitted from the filter modal.
func (m *Model) applyFilters(msg filtersAppliedMsg) {
	for _, k := range filterModalKeys {
		if err := m.table.SetFilter(k, msg.values[k]); err != nil {
			m.logger.Warn("set filter failed", zap.String("key", string(k)), zap.Error(err))
		}
	}
	m.cursor = 0
	if m.table.Filters().Active() {
		m.setStatus("Filters applied", false)
	} else {
		m.setStatus("Filters cleared", false)
	}
}

func (m *Model) closeDetail() {
	m.table.ClearSelection()
	m.focusedPane = paneTable
	m.updateDetailViewport()
}

// toggleFocus moves focus between the table and the detail pane.
func (m *Model) toggleFocus() {
	if m.focusedPane == paneTable {
		m.focusedPane = paneDetail
	} else {
		m.focusedPane = paneTable
	}
	m.updateDetailViewport()
}

// cycleTheme switches to the next theme and remembers it.
func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	if m.prefsPath != "" {
		p, _ := prefs.Load(m.prefsPath)
		p.Theme = m.theme.Name
		if err := prefs.Save(m.prefsPath, p); err != nil {
			m.logger.Warn("save prefs failed", zap.Error(err))
		}
	}
	m.updateDetailViewport()
	m.logState.lastRendered = 0
	m.updateLogViewport()
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = statusLine{text: text, isErr: isErr}
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	// Header line 1: logo + status
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	// Header line 2: command bar
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	// Main content
	b.WriteString(m.renderContent())
	b.WriteString("\n")

	b.WriteString(m.renderStatusBar())

	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewLogs:
		return m.renderLogs()
	default:
		return m.renderTableView()
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

// Run starts the Bubble Tea program and blocks until the user quits or
// the context is cancelled.
func Run(opts Options) error {
	m := New(opts)
	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		programOpts = append(programOpts, tea.WithContext(opts.Context))
	}
	p := tea.NewProgram(m, programOpts...)
	if _, err := p.Run(); err != nil {
		// Cancellation is how the caller asks us to stop.
		if errors.Is(err, tea.ErrProgramKilled) && opts.Context != nil && opts.Context.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
