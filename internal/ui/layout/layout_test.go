package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
)

func TestFrame_RenderGivesBodyRemainingSpace(t *testing.T) {
	f := Frame{Title: "Tides", Status: "2/5", Hints: []KeyHint{{Key: "Enter", Description: "Answer"}}}

	var gotW, gotH int
	out := f.Render(80, 24, func(w, h int) string {
		gotW, gotH = w, h
		return "body"
	})

	assert.Equal(t, 80, gotW)
	assert.Equal(t, 24-3-3, gotH)
	assert.Equal(t, 24, lipgloss.Height(out))
	for _, want := range []string{"Biilim", "Tides", "2/5", "Enter", "Answer", "body"} {
		assert.Contains(t, out, want)
	}
}

func TestFrame_TooSmall(t *testing.T) {
	called := false
	out := Frame{Title: "Tides"}.Render(40, 10, func(int, int) string {
		called = true
		return ""
	})
	assert.False(t, called)
	assert.True(t, strings.Contains(out, "Terminal too small"))
}
