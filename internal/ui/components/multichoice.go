package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/biilim/biilim/internal/ui/theme"
)

// Option is one lettered answer.
type Option struct {
	Letter string
	Text   string
}

// MultiChoice is a lettered multiple-choice selector. Enter picks the
// highlighted option, a letter key picks that option directly.
type MultiChoice struct {
	Question string
	Options  []Option
	Selected int

	// Chosen is the picked letter, empty until a choice is made.
	Chosen string
}

// NewMultiChoice creates a selector. preset highlights a previously chosen
// letter.
func NewMultiChoice(question string, options []Option, preset string) MultiChoice {
	m := MultiChoice{Question: question, Options: options}
	for i, o := range options {
		if o.Letter == preset {
			m.Selected = i
		}
	}
	return m
}

// Update handles keyboard navigation and selection.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.Options) == 0 {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter":
		m.Chosen = m.Options[m.Selected].Letter
	default:
		for i, o := range m.Options {
			if strings.EqualFold(key, o.Letter) {
				m.Selected = i
				m.Chosen = o.Letter
			}
		}
	}
	return m, nil
}

// View renders the question and its options.
func (m MultiChoice) View() string {
	var b strings.Builder
	b.WriteString(theme.Body.Bold(true).Render(m.Question))
	b.WriteString("\n\n")

	for i, o := range m.Options {
		prefix := "  "
		style := theme.Unselected
		if i == m.Selected {
			prefix = "▸ "
			style = theme.Selected
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%s)  %s", prefix, o.Letter, o.Text)))
		b.WriteString("\n")
	}
	return b.String()
}
