package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/biilim/biilim/internal/ui/theme"
)

// Mark is the state of one question on a QuizTrack.
type Mark int

const (
	MarkPending Mark = iota
	MarkCurrent
	MarkAnswered
	MarkSkipped
)

var markGlyphs = map[Mark]string{
	MarkPending:  "·",
	MarkCurrent:  "◆",
	MarkAnswered: "●",
	MarkSkipped:  "○",
}

// QuizTrack shows one glyph per question so a student sees at a glance
// which questions were skipped.
type QuizTrack struct {
	Marks []Mark
}

// View renders the glyphs followed by an answered count.
func (t QuizTrack) View() string {
	current := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	answered := lipgloss.NewStyle().Foreground(theme.Secondary)

	glyphs := make([]string, len(t.Marks))
	n := 0
	for i, m := range t.Marks {
		g := markGlyphs[m]
		switch m {
		case MarkCurrent:
			g = current.Render(g)
		case MarkAnswered:
			g = answered.Render(g)
			n++
		default:
			g = theme.Skipped.Render(g)
		}
		glyphs[i] = g
	}
	return strings.Join(glyphs, " ") + "  " + theme.Hint.Render(fmt.Sprintf("%d/%d answered", n, len(t.Marks)))
}
