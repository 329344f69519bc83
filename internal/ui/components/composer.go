package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

const (
	askPrompt        = "? "
	explainPrompt    = "✎ "
	askPlaceholder   = "Ask a question..."
	explainPlacehold = "Explain the topic in your own words..."
)

// Composer is the chat input line. It has two modes: asking the tutor a
// question and submitting an explanation for feedback.
type Composer struct {
	input      textinput.Model
	explaining bool
}

// NewComposer creates a focused composer in ask mode.
func NewComposer(charLimit int) Composer {
	in := textinput.New()
	in.CharLimit = charLimit
	c := Composer{input: in}
	c.SetExplaining(false)
	c.input.Focus()
	return c
}

func (c Composer) Init() tea.Cmd {
	return c.input.Focus()
}

func (c Composer) Update(msg tea.Msg) (Composer, tea.Cmd) {
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

func (c Composer) View() string {
	return c.input.View()
}

// Explaining reports the current mode.
func (c Composer) Explaining() bool { return c.explaining }

// SetExplaining switches mode. Typed text is kept.
func (c *Composer) SetExplaining(on bool) {
	c.explaining = on
	if on {
		c.input.Prompt, c.input.Placeholder = explainPrompt, explainPlacehold
	} else {
		c.input.Prompt, c.input.Placeholder = askPrompt, askPlaceholder
	}
}

// Take returns the trimmed text and clears the line. Blank input is left
// untouched and returns "".
func (c *Composer) Take() string {
	text := strings.TrimSpace(c.input.Value())
	if text != "" {
		c.input.Reset()
	}
	return text
}

// Placeholder returns the hint shown while the line is empty.
func (c Composer) Placeholder() string { return c.input.Placeholder }
