package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/crawlboard/internal/crawler"
	"github.com/five82/crawlboard/internal/grid"
)

// column is one rendered table column.
type column struct {
	key   grid.Key
	width int
	right bool
}

// tableColumns lays out the columns for a pane of the given inner width.
// Title and URL share whatever the fixed columns leave over.
func tableColumns(width int) []column {
	fixed := []column{
		{key: grid.KeyID, width: 6, right: true},
		{key: grid.KeyStatus, width: 9},
	}
	if width >= LayoutCompactWidth {
		fixed = append(fixed,
			column{key: grid.KeyHTMLVersion, width: 8},
			column{key: grid.KeyInternalLinks, width: 10, right: true},
			column{key: grid.KeyExternalLinks, width: 10, right: true},
			column{key: grid.KeyBrokenLinks, width: 8, right: true},
			column{key: grid.KeyLoginForm, width: 7},
		)
	} else {
		fixed = append(fixed, column{key: grid.KeyBrokenLinks, width: 8, right: true})
	}

	used := 0
	for _, c := range fixed {
		used += c.width
	}
	gaps := len(fixed) + 2 // Leading space plus one between each column
	flex := max(width-used-gaps, 20)
	urlWidth := min(flex*3/5, grid.URLCellWidth+3)
	titleWidth := flex - urlWidth

	cols := make([]column, 0, len(fixed)+2)
	cols = append(cols, fixed[0])
	cols = append(cols,
		column{key: grid.KeyTitle, width: titleWidth},
		column{key: grid.KeyURL, width: urlWidth},
	)
	return append(cols, fixed[1:]...)
}

// cellText is the plain text shown for key in row r.
func cellText(r crawler.Result, key grid.Key) string {
	switch key {
	case grid.KeyTitle:
		if strings.TrimSpace(r.Title) == "" {
			return "-"
		}
		return r.Title
	case grid.KeyURL:
		return grid.TruncateURL(r.Url, grid.URLCellWidth)
	case grid.KeyStatus:
		return statusLabel(r.Status)
	case grid.KeyHTMLVersion:
		if r.HTMLVersion == "" {
			return "-"
		}
		return r.HTMLVersion
	case grid.KeyLoginForm:
		return yesNo(r.LoginFormDetected)
	default:
		return grid.Value(r, key)
	}
}

func fitCell(text string, c column) string {
	text = truncate(text, c.width)
	if c.right {
		return padLeft(text, c.width)
	}
	return padRight(text, c.width)
}

// headerLabel adds the sort direction marker to a column label.
func headerLabel(key grid.Key, sorting grid.SortState) string {
	label := grid.Label(key)
	if desc, ok := sorting.Direction(key); ok {
		if desc {
			return label + " ▼"
		}
		return label + " ▲"
	}
	return label
}

// renderTableView renders the results table, split with the detail pane
// while a result is open.
func (m Model) renderTableView() string {
	styles := m.theme.Styles()
	contentHeight := m.height - chromeHeight
	view := m.currentProjection()

	if !m.table.IsOpen() {
		content := m.renderTableContent(view, m.width-2, m.theme.FocusBg)
		return m.renderTitledBox(m.tableTitle(view), content, m.width, contentHeight, true)
	}

	tableWidth, detailWidth := m.splitWidths()

	tableFocused := m.focusedPane == paneTable
	tableBg := m.theme.SurfaceAlt
	if tableFocused {
		tableBg = m.theme.FocusBg
	}
	tableContent := m.renderTableContent(view, tableWidth-2, tableBg)
	tablePane := m.renderTitledBox(m.tableTitle(view), tableContent, tableWidth, contentHeight, tableFocused)

	detailFocused := m.focusedPane == paneDetail
	detailContent := m.detailViewport.View()
	if _, ok := m.table.Selection(); !ok {
		detailContent = styles.MutedText.Render("Select a result")
	}
	detailPane := m.renderTitledBox(m.detailTitle(), detailContent, detailWidth, contentHeight, detailFocused)

	return lipgloss.JoinHorizontal(lipgloss.Top, tablePane, detailPane)
}

// splitWidths divides the screen between table and detail panes.
func (m Model) splitWidths() (int, int) {
	var tableWidth int
	if m.width >= LayoutExtraWideWidth {
		tableWidth = m.width * 65 / 100
	} else {
		tableWidth = m.width * 55 / 100
	}
	return tableWidth, m.width - tableWidth
}

// renderTableContent renders the column header, the page rows and the page
// footer, or an empty-state message.
func (m Model) renderTableContent(view grid.Projection, width int, bgColor string) string {
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)

	if len(view.Rows) == 0 {
		return bg.FillLine(" "+m.emptyMessage(styles, bg), width)
	}

	cols := tableColumns(width)
	sorting := m.table.Sort()

	headerCells := make([]string, len(cols))
	for i, c := range cols {
		headerCells[i] = bg.Render(fitCell(headerLabel(c.key, sorting), c), styles.MutedText.Bold(true))
	}
	lines := []string{bg.FillLine(bg.Space()+strings.Join(headerCells, bg.Space()), width)}

	selectedID := int64(-1)
	if r, ok := m.table.Selection(); ok {
		selectedID = r.ID
	}

	for i, r := range view.Rows {
		if i == m.cursor {
			content := m.formatRowContent(r, cols, m.theme.SelectionBg, true, false)
			lines = append(lines, NewBgStyle(m.theme.SelectionBg).FillLine(content, width))
			continue
		}
		content := m.formatRowContent(r, cols, bgColor, false, r.ID == selectedID)
		lines = append(lines, bg.FillLine(content, width))
	}

	lines = append(lines, bg.FillLine("", width))
	lines = append(lines, bg.FillLine(bg.Space()+m.pageSummary(view, styles, bg), width))
	return strings.Join(lines, "\n")
}

// formatRowContent formats a result row with inline colors.
// When selected is true, uses SelectionText color for all text to ensure contrast.
func (m Model) formatRowContent(r crawler.Result, cols []column, bgColor string, selected, open bool) string {
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()
	selText := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))

	cells := make([]string, len(cols))
	for i, c := range cols {
		style := styles.Text
		switch {
		case selected:
			style = selText
		case c.key == grid.KeyID && open:
			style = styles.AccentText.Bold(true)
		case c.key == grid.KeyID, c.key == grid.KeyURL:
			style = styles.MutedText
		case c.key == grid.KeyStatus:
			style = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.StatusColor(r.Status)))
		case c.key == grid.KeyBrokenLinks && r.BrokenLinks > 0:
			style = styles.DangerText
		case c.key == grid.KeyLoginForm && r.LoginFormDetected:
			style = styles.WarningText
		}
		cells[i] = bg.Render(fitCell(cellText(r, c.key), c), style)
	}
	return bg.Space() + strings.Join(cells, bg.Space())
}

// emptyMessage explains why no rows are shown.
func (m Model) emptyMessage(styles Styles, bg BgStyle) string {
	switch {
	case m.snapshot.Loading:
		return bg.Render(m.spinner.View(), styles.AccentText) + bg.Space() +
			bg.Render("Loading results...", styles.MutedText)
	case len(m.snapshot.Results) == 0:
		return bg.Render("No results yet. Press a to submit a URL.", styles.MutedText)
	default:
		return bg.Render("No results match the current filters.", styles.MutedText) + bg.Space() +
			bg.Hint("c", "clears them.", styles.AccentText, styles.MutedText)
	}
}

// pageSummary renders "Rows 11-20 of 42 · Page 2/5".
func (m Model) pageSummary(view grid.Projection, styles Styles, bg BgStyle) string {
	first := view.Offset(m.table.Page().Size) + 1
	last := first + len(view.Rows) - 1
	parts := []string{
		bg.Render(fmt.Sprintf("Rows %d-%d of %d", first, last, view.Total), styles.MutedText),
		bg.Render(fmt.Sprintf("Page %d/%d", view.Page+1, max(view.PageCount, 1)), styles.Text),
	}
	if view.HasPrevious {
		parts = append(parts, bg.Render("◀ p", styles.AccentText))
	}
	if view.HasNext {
		parts = append(parts, bg.Render("n ▶", styles.AccentText))
	}
	return strings.Join(parts, bg.Render(" · ", styles.FaintText))
}

// tableTitle returns the table pane title with the filter indicator.
func (m Model) tableTitle(view grid.Projection) string {
	total := len(m.snapshot.Results)
	if !m.table.Filters().Active() {
		return fmt.Sprintf("Results (%d)", total)
	}
	return fmt.Sprintf("Results (%d/%d) Filtered", view.Total, total)
}

// renderTitledBox renders content in a box with the title embedded in the top border:
// ┌─── Title ───┐
// When focused is true, uses BorderFocus color and FocusBg background.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	var borderColorStr, bgColorStr string
	if focused {
		borderColorStr = m.theme.BorderFocus
		bgColorStr = m.theme.FocusBg
	} else {
		borderColorStr = m.theme.Border
		bgColorStr = m.theme.SurfaceAlt
	}
	bg := NewBgStyle(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 0))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	// Inline keeps long lines from wrapping; MaxWidth clips them instead.
	contentStyle := lipgloss.NewStyle().
		Inline(true).
		Width(innerWidth).
		MaxWidth(innerWidth).
		Background(lipgloss.Color(bgColorStr))

	contentLines := strings.Split(content, "\n")
	boxHeight := max(height-2, 0)

	paddedLines := make([]string, 0, boxHeight)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		paddedLines = append(paddedLines,
			bg.Render("│", borderStyle)+
				contentStyle.Render(line)+
				bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(paddedLines, "\n") + "\n" + bottomBorder
}
