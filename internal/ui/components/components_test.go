package components

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
)

func TestComposer_TakeAndModes(t *testing.T) {
	c := NewComposer(200)
	assert.False(t, c.Explaining())
	assert.Equal(t, askPlaceholder, c.Placeholder())

	for _, r := range "  why?  " {
		c, _ = c.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	c.SetExplaining(true)
	assert.True(t, c.Explaining())
	assert.Equal(t, explainPlacehold, c.Placeholder())

	assert.Equal(t, "why?", c.Take())
	assert.Equal(t, "", c.Take())
}

func TestMultiChoice_LetterKeyPicks(t *testing.T) {
	m := NewMultiChoice("2+2?", []Option{{"A", "3"}, {"B", "4"}}, "")
	m, _ = m.Update(tea.KeyPressMsg{Code: 'b', Text: "b"})
	assert.Equal(t, "B", m.Chosen)
}

func TestMultiChoice_PresetHighlights(t *testing.T) {
	m := NewMultiChoice("2+2?", []Option{{"A", "3"}, {"B", "4"}}, "B")
	assert.Equal(t, 1, m.Selected)
	assert.Empty(t, m.Chosen)
}

func TestQuizTrack_CountsAnswered(t *testing.T) {
	tr := QuizTrack{Marks: []Mark{MarkAnswered, MarkSkipped, MarkAnswered, MarkCurrent, MarkPending}}
	assert.Contains(t, tr.View(), "2/5 answered")
}
