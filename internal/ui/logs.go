package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/crawlboard/internal/logtail"
)

// logState holds all log-related state.
type logState struct {
	entries []logtail.Entry
	err     error
	follow  bool

	// Content caching - skip re-render when unchanged
	contentVersion uint64
	lastRendered   uint64
}

// logLinesMsg carries a fresh tail of the log file.
type logLinesMsg struct {
	entries []logtail.Entry
	err     error
}

func loadLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return logLinesMsg{}
		}
		entries, err := logtail.ReadEntries(path, LogTailLines)
		return logLinesMsg{entries: entries, err: err}
	}
}

func (m *Model) handleLogLines(msg logLinesMsg) {
	m.logState.entries = msg.entries
	m.logState.err = msg.err
	m.logState.contentVersion++
	m.updateLogViewport()
}

// updateLogViewport updates the log viewport with current content.
func (m *Model) updateLogViewport() {
	// Box height = m.height - chromeHeight; inner = box height - 2 borders
	width, height := max(m.width-4, 0), max(m.height-chromeHeight-2, 0)
	if m.logViewport.Width == 0 && m.logViewport.Height == 0 {
		m.logViewport = viewport.New(width, height)
	}
	m.logViewport.Width = width
	m.logViewport.Height = height
	m.logViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))

	// Only re-render content if it changed (version mismatch or first render)
	if m.logState.lastRendered == 0 || m.logState.contentVersion != m.logState.lastRendered {
		m.logViewport.SetContent(m.renderLogContent())
		m.logState.lastRendered = max(m.logState.contentVersion, 1)
	}

	if m.logState.follow {
		m.logViewport.GotoBottom()
	}
}

// renderLogs renders the log view.
func (m Model) renderLogs() string {
	contentHeight := m.height - chromeHeight
	title := "Log"
	if m.logPath != "" {
		title = "Log " + truncate(m.logPath, max(m.width/2, 10))
	}
	if !m.logState.follow {
		title += " (paused)"
	}
	bg := NewBgStyle(m.theme.FocusBg)
	body := bg.Space() + strings.ReplaceAll(m.logViewport.View(), "\n", "\n"+bg.Space())
	return m.renderTitledBox(title, body, m.width, contentHeight, true)
}

// renderLogContent renders the decoded entries, newest last.
func (m *Model) renderLogContent() string {
	styles := m.theme.Styles().WithBackground(m.theme.FocusBg)
	bg := NewBgStyle(m.theme.FocusBg)

	switch {
	case m.logPath == "":
		return bg.Render("Logging is disabled. Set log_file or pass --log-file.", styles.MutedText)
	case m.logState.err != nil:
		return bg.Render("Cannot read log: "+m.logState.err.Error(), styles.DangerText)
	case len(m.logState.entries) == 0:
		return bg.Render("No log entries yet.", styles.MutedText)
	}

	lines := make([]string, 0, len(m.logState.entries))
	for _, e := range m.logState.entries {
		lines = append(lines, bg.Render(logtail.Format(e), m.getLevelStyle(e.Level, styles)))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) getLevelStyle(level string, styles Styles) lipgloss.Style {
	switch strings.ToLower(level) {
	case "error", "dpanic", "panic", "fatal":
		return styles.DangerText
	case "warn", "warning":
		return styles.WarningText
	case "debug":
		return styles.FaintText
	case "":
		return styles.MutedText
	default:
		return styles.Text
	}
}

// handleLogsKey processes keyboard input for the log view.
func (m *Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.currentView = ViewTable
		return *m, nil

	case key.Matches(msg, m.keys.ToggleFollow):
		m.logState.follow = !m.logState.follow
		if m.logState.follow {
			m.logViewport.GotoBottom()
			return *m, loadLogsCmd(m.logPath)
		}

	case key.Matches(msg, m.keys.Top):
		m.logState.follow = false
		m.logViewport.GotoTop()

	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()

	case key.Matches(msg, m.keys.Down):
		m.logViewport.ScrollDown(1)

	case key.Matches(msg, m.keys.Up):
		m.logState.follow = false
		m.logViewport.ScrollUp(1)

	case key.Matches(msg, m.keys.NextPage):
		m.logViewport.HalfPageDown()

	case key.Matches(msg, m.keys.PrevPage):
		m.logState.follow = false
		m.logViewport.HalfPageUp()
	}

	return *m, nil
}
