package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/crawlboard/internal/crawler"
)

// detailPaneSize returns the inner size of the detail pane.
func (m Model) detailPaneSize() (int, int) {
	_, detailWidth := m.splitWidths()
	return max(detailWidth-2, 0), max(m.height-chromeHeight-2, 0)
}

func (m Model) detailBg() string {
	if m.focusedPane == paneDetail {
		return m.theme.FocusBg
	}
	return m.theme.SurfaceAlt
}

// updateDetailViewport re-renders the selected result into the viewport.
// It runs after every snapshot so the stale marker stays current.
func (m *Model) updateDetailViewport() {
	width, height := m.detailPaneSize()
	if m.detailViewport.Width == 0 && m.detailViewport.Height == 0 {
		m.detailViewport = viewport.New(width, height)
	}
	m.detailViewport.Width = width
	m.detailViewport.Height = height

	bg := m.detailBg()
	m.detailViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(bg))

	r, ok := m.table.Selection()
	if !ok {
		m.detailViewport.SetContent("")
		return
	}
	stale := m.table.SelectionStale(m.snapshot.Results)
	m.detailViewport.SetContent(m.renderDetailContent(r, width, bg, stale))
}

// detailTitle labels the detail pane.
func (m Model) detailTitle() string {
	r, ok := m.table.Selection()
	if !ok {
		return "Details"
	}
	if m.table.SelectionStale(m.snapshot.Results) {
		return fmt.Sprintf("Result #%d (removed)", r.ID)
	}
	return fmt.Sprintf("Result #%d", r.ID)
}

// renderDetailContent renders every field of r. A stale selection keeps the
// last known values and says so.
func (m Model) renderDetailContent(r crawler.Result, width int, bgColor string, stale bool) string {
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)
	inner := max(width-2, 10)

	var lines []string
	add := func(s string) { lines = append(lines, s) }

	title := strings.TrimSpace(r.Title)
	if title == "" {
		add(bg.Render("(untitled)", styles.MutedText))
	} else {
		add(bg.Render(truncate(title, inner), styles.Text.Bold(true)))
	}
	for _, chunk := range wrapRunes(r.Url, inner) {
		add(bg.Render(chunk, styles.AccentText))
	}
	add("")

	add(m.theme.Styles().StatusStyle(r.Status).Render(statusLabel(r.Status)))
	if stale {
		add("")
		add(bg.Render("No longer in the latest results.", styles.WarningText))
		add(bg.Render("Showing the last known values.", styles.MutedText))
	}
	add("")

	kv := func(label, value string, valueStyle lipgloss.Style) {
		add(bg.Render(padRight(label, 14), styles.MutedText) + bg.Render(value, valueStyle))
	}
	section := func(name string) {
		add(bg.Render(name, styles.AccentText.Bold(true)))
	}

	section("Page")
	html := r.HTMLVersion
	if html == "" {
		html = "unknown"
	}
	kv("HTML version", html, styles.Text)
	loginStyle := styles.Text
	if r.LoginFormDetected {
		loginStyle = styles.WarningText
	}
	kv("Login form", yesNo(r.LoginFormDetected), loginStyle)
	add("")

	section("Links")
	kv("Internal", strconv.Itoa(r.InternalLinks), styles.Text)
	kv("External", strconv.Itoa(r.ExternalLinks), styles.Text)
	brokenStyle := styles.SuccessText
	if r.BrokenLinks > 0 {
		brokenStyle = styles.DangerText
	}
	kv("Broken", strconv.Itoa(r.BrokenLinks), brokenStyle)

	if r.HasHeadings() {
		add("")
		section("Headings")
		counts := r.Headings()
		parts := make([]string, 0, len(counts))
		for i, n := range counts {
			parts = append(parts,
				bg.Render(fmt.Sprintf("H%d", i+1), styles.MutedText)+bg.Space()+bg.Render(strconv.Itoa(n), styles.Text))
		}
		add(strings.Join(parts, bg.Spaces(2)))
	}

	created, updated := r.ParsedCreatedAt(), r.ParsedUpdatedAt()
	if !created.IsZero() || !updated.IsZero() {
		now := time.Now()
		add("")
		section("Timestamps")
		if !created.IsZero() {
			kv("Created", formatTimestamp(created, now)+" ("+humanizeDuration(now.Sub(created))+")", styles.Text)
		}
		if !updated.IsZero() {
			kv("Updated", formatTimestamp(updated, now)+" ("+humanizeDuration(now.Sub(updated))+")", styles.Text)
		}
	}

	add("")
	add(strings.Join([]string{
		bg.Hint("r", "re-queue", styles.AccentText, styles.FaintText),
		bg.Hint("D", "delete", styles.AccentText, styles.FaintText),
		bg.Hint("esc", "close", styles.AccentText, styles.FaintText),
	}, bg.Spaces(2)))

	return lipgloss.NewStyle().
		Background(lipgloss.Color(bgColor)).
		Padding(0, 1).
		Width(width).
		Render(strings.Join(lines, "\n"))
}

// wrapRunes hard-wraps s into chunks of at most width runes. URLs have no
// spaces to break on, so word wrapping does not help here.
func wrapRunes(s string, width int) []string {
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return []string{s}
	}
	var out []string
	for len(runes) > width {
		out = append(out, string(runes[:width]))
		runes = runes[width:]
	}
	if len(runes) > 0 {
		out = append(out, string(runes))
	}
	return out
}

// formatTimestamp formats a timestamp for display.
func formatTimestamp(t time.Time, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	local := t.In(time.Local)
	if local.Year() == now.Year() && local.YearDay() == now.YearDay() {
		return local.Format("15:04:05")
	}
	return local.Format("Jan 02 15:04")
}

// humanizeDuration formats a duration as relative time (e.g., "5m ago").
func humanizeDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	if d < time.Minute {
		return "just now"
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
	return fmt.Sprintf("%dd ago", int(d.Hours()/24))
}
