package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// renderHelp renders the help overlay from the key map.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	h := m.help
	h.ShowAll = true
	h.Styles.FullKey = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Warning))
	h.Styles.FullDesc = styles.Text
	h.Styles.FullSeparator = styles.FaintText
	h.Styles.ShortKey = h.Styles.FullKey
	h.Styles.ShortDesc = styles.MutedText
	h.FullSeparator = "    "
	h.Width = max(m.width-8, 40)

	body := h.View(m.keys) + "\n\n" + styles.FaintText.Render("Press any key to close")
	return renderModal(m.theme, m.width, m.height, min(max(m.width-4, 40), 120), "Keyboard Shortcuts", body)
}
