package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/crawlboard/internal/crawler"
	"github.com/five82/crawlboard/internal/grid"
)

// renderHeader renders the status bar with all information.
func (m Model) renderHeader() string {
	// Header uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if m.snapshot.Loading {
		return m.renderConnectingHeader(styles, bg)
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(m.buildStatusContent(styles, bg))
}

// renderConnectingHeader shows the state before the first poll resolves.
func (m Model) renderConnectingHeader(styles Styles, bg BgStyle) string {
	sep := bg.Spaces(2)
	return styles.Header.Width(m.width).Render(
		bg.Render("crawlboard", styles.Logo) + sep +
			bg.Render(m.spinner.View(), styles.AccentText) + bg.Space() +
			bg.Render("Loading results...", styles.WarningText.Bold(true)),
	)
}

// buildStatusContent builds the status bar content string.
func (m Model) buildStatusContent(styles Styles, bg BgStyle) string {
	compact := m.width < LayoutCompactWidth
	sep := bg.Spaces(2)

	parts := []string{bg.Render("crawlboard", styles.Logo)}

	switch {
	case m.snapshot.IsOffline():
		parts = append(parts, bg.Render("● OFFLINE", styles.DangerText))
	case m.snapshot.LastError != nil:
		parts = append(parts, bg.Render("● DEGRADED", styles.WarningText.Bold(true)))
	default:
		parts = append(parts, bg.Render("● LIVE", styles.SuccessText))
	}

	parts = append(parts,
		bg.Render("Results:", styles.MutedText)+bg.Space()+
			bg.Render(fmt.Sprintf("%d", len(m.snapshot.Results)), styles.Text),
	)

	counts := statusCounts(m.snapshot.Results)
	for _, s := range crawler.Statuses {
		n := counts[s]
		if n == 0 || (compact && s != crawler.StatusRunning && s != crawler.StatusError) {
			continue
		}
		color := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.StatusColor(s)))
		parts = append(parts,
			bg.Render(statusLabel(s)+":", styles.MutedText)+bg.Space()+bg.Render(fmt.Sprintf("%d", n), color))
	}

	if m.snapshot.LastError != nil {
		parts = append(parts, m.renderErrorBanner(styles, bg, compact))
	}

	if !m.snapshot.LastUpdated.IsZero() {
		parts = append(parts,
			bg.Render("Updated", styles.FaintText)+bg.Space()+
				bg.Render(formatTimestamp(m.snapshot.LastUpdated, time.Now()), styles.MutedText))
	}

	return strings.Join(parts, sep)
}

// renderErrorBanner renders the dismissable "failed to load" notice.
func (m Model) renderErrorBanner(styles Styles, bg BgStyle, compact bool) string {
	label := "Failed to load: " + classifyConnectionError(m.snapshot.LastError)
	if m.snapshot.ConsecutiveFailures > 1 {
		label = fmt.Sprintf("%s (x%d)", label, m.snapshot.ConsecutiveFailures)
	}
	banner := bg.Render(label, styles.DangerText)
	if !compact {
		banner += bg.Space() + bg.Hint("x", "dismiss", styles.AccentText, styles.FaintText)
	}
	return banner
}

// statusCounts tallies results per status.
func statusCounts(results []crawler.Result) map[crawler.Status]int {
	counts := make(map[crawler.Status]int, len(crawler.Statuses))
	for _, r := range results {
		counts[r.Status]++
	}
	return counts
}

// classifyConnectionError returns a short description of the connection error.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	case strings.Contains(msg, "decode"):
		return "BAD RESPONSE"
	default:
		return "ERROR"
	}
}

// renderCommandBar renders the command hints bar.
func (m Model) renderCommandBar() string {
	// Command bar uses Surface background
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch {
	case m.currentView == ViewLogs:
		followLabel := "Pause"
		if !m.logState.follow {
			followLabel = "Follow"
		}
		commands = []cmd{
			{"Space", followLabel},
			{"j/k", "Scroll"},
			{"l", "Table"},
			{"?", "More"},
		}
	case m.table.IsOpen():
		commands = []cmd{
			{"Tab", "Focus"},
			{"r", "Re-queue"},
			{"D", "Delete"},
			{"esc", "Close"},
			{"n/p", "Page"},
			{"?", "More"},
		}
	default:
		commands = []cmd{
			{"Enter", "Open"},
			{"/", "Search"},
			{"F", "Filters"},
			{"s", m.sortLabel()},
			{"n/p", "Page"},
			{"a", "Submit"},
			{"l", "Logs"},
			{"?", "More"},
		}
	}

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+2)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	if q := m.table.Filter(grid.KeyGlobal); q != "" && m.currentView == ViewTable {
		segments = append(segments, bg.Render("/"+truncate(q, 18), styles.AccentText))
	}

	// Add theme indicator
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}

// sortLabel names the active sort for the command bar.
func (m Model) sortLabel() string {
	sorting := m.table.Sort()
	if len(sorting) == 0 {
		return "Sort"
	}
	return "Sort " + headerLabel(sorting[0].Field, sorting)
}

// renderStatusBar renders the search input, or the last action message.
func (m Model) renderStatusBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)

	var content string
	switch {
	case m.searchActive:
		content = m.searchInput.View()
	case m.submitting:
		content = bg.Render(m.spinner.View(), styles.AccentText) + bg.Space() + bg.Render(m.status.text, styles.MutedText)
	case m.status.text != "" && m.status.isErr:
		content = bg.Render(m.status.text, styles.DangerText)
	case m.status.text != "":
		content = bg.Render(m.status.text, styles.MutedText)
	}

	return styles.Footer.Width(m.width).Render(content)
}
