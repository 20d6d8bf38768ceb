package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// SuggestFunc returns history entries matching the typed text
type SuggestFunc func(prefix string) []string

// SearchBox is the query input with recent-search suggestions
type SearchBox struct {
	visible     bool
	title       string
	input       textinput.Model
	suggest     SuggestFunc
	suggestions []string
	cursor      int // -1 while editing the input itself
}

// NewSearchBox creates a hidden search box
func NewSearchBox(suggest SuggestFunc) SearchBox {
	ti := textinput.New()
	ti.CharLimit = 100
	ti.Width = 40
	ti.Prompt = "› "

	return SearchBox{
		input:   ti,
		suggest: suggest,
		cursor:  -1,
	}
}

// Show displays the box with a title and an empty query
func (m *SearchBox) Show(title string) {
	m.visible = true
	m.title = title
	m.input.SetValue("")
	m.input.Focus()
	m.refresh()
}

// Hide dismisses the box
func (m *SearchBox) Hide() {
	m.visible = false
	m.input.Blur()
}

// IsVisible returns whether the box is shown
func (m SearchBox) IsVisible() bool {
	return m.visible
}

// Value returns the highlighted suggestion, or the typed text when none is
// highlighted
func (m SearchBox) Value() string {
	if m.cursor >= 0 && m.cursor < len(m.suggestions) {
		return m.suggestions[m.cursor]
	}
	return strings.TrimSpace(m.input.Value())
}

// Suggestions returns the suggestions currently listed
func (m SearchBox) Suggestions() []string {
	return m.suggestions
}

// Update handles input events, returns (box, cmd, submitted)
func (m SearchBox) Update(msg tea.Msg) (SearchBox, tea.Cmd, bool) {
	if !m.visible {
		return m, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			return m, nil, m.Value() != ""
		case "esc":
			m.Hide()
			return m, nil, false
		case "down", "ctrl+n":
			if m.cursor < len(m.suggestions)-1 {
				m.cursor++
			}
			return m, nil, false
		case "up", "ctrl+p":
			if m.cursor >= 0 {
				m.cursor--
			}
			return m, nil, false
		}
	}

	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.refresh()
	}
	return m, cmd, false
}

func (m *SearchBox) refresh() {
	m.cursor = -1
	if m.suggest == nil {
		m.suggestions = nil
		return
	}
	m.suggestions = m.suggest(m.input.Value())
}

// View renders the box
func (m SearchBox) View(st styles.Styles, width int) string {
	if !m.visible {
		return ""
	}
	if width < 20 {
		width = 20
	}

	lines := []string{
		st.Title.Render(m.title),
		"",
		m.input.View(),
	}
	if len(m.suggestions) > 0 {
		lines = append(lines, "")
		for i, s := range m.suggestions {
			text := styles.Truncate(s, width-4)
			if i == m.cursor {
				lines = append(lines, st.Selected.Render(text))
			} else {
				lines = append(lines, st.Row.Render(text))
			}
		}
	}

	return st.Modal.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
