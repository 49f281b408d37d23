package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/crawlboard/internal/grid"
)

// filterModalKeys are the fields offered by the filter modal, in order.
var filterModalKeys = append([]grid.Key{grid.KeyGlobal}, grid.Columns...)

// filtersAppliedMsg carries the raw values confirmed in the filter modal.
// Empty values clear the corresponding filter.
type filtersAppliedMsg struct {
	values map[grid.Key]string
}

// filterModal edits one text input per filterable field.
type filterModal struct {
	inputs   []textinput.Model
	focusIdx int
}

func newFilterModal(table *grid.Table) *filterModal {
	inputs := make([]textinput.Model, len(filterModalKeys))
	for i, k := range filterModalKeys {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = filterPlaceholder(k)
		in.CharLimit = 200
		in.Width = 36
		in.SetValue(table.Filter(k))
		inputs[i] = in
	}
	return &filterModal{inputs: inputs}
}

func (f *filterModal) focusCmd() tea.Cmd {
	return f.inputs[f.focusIdx].Focus()
}

func (f *filterModal) values() map[grid.Key]string {
	out := make(map[grid.Key]string, len(filterModalKeys))
	for i, k := range filterModalKeys {
		out[k] = f.inputs[i].Value()
	}
	return out
}

func (f *filterModal) moveFocus(delta int) tea.Cmd {
	f.inputs[f.focusIdx].Blur()
	f.focusIdx = (f.focusIdx + delta + len(f.inputs)) % len(f.inputs)
	return f.inputs[f.focusIdx].Focus()
}

// Update implements Modal.
func (f *filterModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Escape):
			return f, nil, true

		case key.Matches(msg, keys.Confirm):
			values := f.values()
			return f, func() tea.Msg { return filtersAppliedMsg{values: values} }, true

		case key.Matches(msg, keys.Tab), msg.Type == tea.KeyDown:
			return f, f.moveFocus(1), false

		case key.Matches(msg, keys.ShiftTab), msg.Type == tea.KeyUp:
			return f, f.moveFocus(-1), false

		case msg.Type == tea.KeyCtrlX:
			for i := range f.inputs {
				f.inputs[i].SetValue("")
			}
			return f, nil, false
		}
	}

	// Let the focused input handle the key
	var cmd tea.Cmd
	f.inputs[f.focusIdx], cmd = f.inputs[f.focusIdx].Update(msg)
	return f, cmd, false
}

// View implements Modal.
func (f *filterModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.MutedText.Render("Text fields match substrings (case-sensitive)."))
	b.WriteString("\n")
	b.WriteString(styles.MutedText.Render("Numbers match exactly. Leave blank to disable."))
	b.WriteString("\n\n")

	for i, k := range filterModalKeys {
		label := padRight(grid.Label(k)+":", 10)
		if i == f.focusIdx {
			label = styles.AccentText.Render(label)
		} else {
			label = styles.MutedText.Render(label)
		}
		b.WriteString(label)
		b.WriteString(" ")
		b.WriteString(f.inputs[i].View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("Enter: Apply  •  Esc: Cancel  •  Ctrl+X: Clear all"))

	return renderModal(theme, width, height, 56, "Filters", b.String())
}

func filterPlaceholder(k grid.Key) string {
	switch k {
	case grid.KeyGlobal:
		return "any of title, url, html, status"
	case grid.KeyStatus:
		return "queued, running, done, error"
	case grid.KeyLoginForm:
		return "true or false"
	}
	if kind, _ := grid.KindOf(k); kind == grid.KindNumeric {
		return "exact number"
	}
	return "contains..."
}
