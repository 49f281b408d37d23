package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/crawlboard/internal/crawler"
)

// submitRequestedMsg is emitted once the form holds a valid URL.
type submitRequestedMsg struct {
	url string
}

// submitModal is the single-field form for queueing a new URL.
type submitModal struct {
	input textinput.Model
	err   string
}

func newSubmitModal() *submitModal {
	in := textinput.New()
	in.Prompt = "URL: "
	in.Placeholder = "https://example.com"
	in.CharLimit = 2048
	in.Width = 48
	return &submitModal{input: in}
}

func (s *submitModal) focusCmd() tea.Cmd {
	return s.input.Focus()
}

// Update implements Modal. Invalid input keeps the form open with the
// reason shown under the field.
func (s *submitModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Escape):
			return s, nil, true

		case key.Matches(msg, keys.Confirm):
			target, err := crawler.ValidateURL(s.input.Value())
			if err != nil {
				s.err = "Enter an http(s) URL with a host"
				return s, nil, false
			}
			return s, func() tea.Msg { return submitRequestedMsg{url: target} }, true
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	if _, ok := msg.(tea.KeyMsg); ok {
		s.err = ""
	}
	return s, cmd, false
}

// View implements Modal.
func (s *submitModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.MutedText.Render("The crawl service fetches the page and reports"))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("its title, HTML version and link counts."))
	b.WriteString("\n\n")
	b.WriteString(s.input.View())
	b.WriteString("\n")
	if s.err != "" {
		b.WriteString(styles.DangerText.Render(s.err))
	}
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("Enter: Submit  •  Esc: Cancel"))

	return renderModal(theme, width, height, 64, "Submit URL", b.String())
}
