// Package layout draws the window chrome around a screen: a header naming
// the topic, the screen body and a footer of key hints.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/biilim/biilim/internal/ui/theme"
)

// Smallest terminal the frame renders in.
const (
	MinWidth  = 60
	MinHeight = 16
)

// KeyHint is one "key description" pair in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// Frame describes the chrome for one render.
type Frame struct {
	Title  string
	Status string
	Hints  []KeyHint
}

var bar = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(theme.Border)

// Render draws the frame at width x height. body is called with the size
// left for the content area.
func (f Frame) Render(width, height int, body func(width, height int) string) string {
	if width < MinWidth || height < MinHeight {
		return tooSmall(width, height)
	}
	header := f.header(width)
	footer := f.footer(width)
	inner := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := lipgloss.NewStyle().Width(width).Height(inner).Render(body(width, inner))
	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

// header puts the app name left, the title in the middle and the status
// right.
func (f Frame) header(width int) string {
	name := theme.Title.Render("  Biilim")
	title := theme.Body.Render(f.Title)
	status := lipgloss.NewStyle().Foreground(theme.Accent).Render(f.Status)

	inner := max(width-4, 0)
	left := max((inner-lipgloss.Width(title))/2-lipgloss.Width(name), 1)
	right := max(inner-lipgloss.Width(name)-left-lipgloss.Width(title)-lipgloss.Width(status), 1)
	return bar.Width(width).Render(name + strings.Repeat(" ", left) + title + strings.Repeat(" ", right) + status)
}

func (f Frame) footer(width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	parts := make([]string, len(f.Hints))
	for i, h := range f.Hints {
		parts[i] = key.Render(h.Key) + " " + theme.Skipped.Render(h.Description)
	}
	return bar.Width(width).Render("  " + strings.Join(parts, "   "))
}

func tooSmall(width, height int) string {
	return theme.Body.Align(lipgloss.Center).Width(width).Height(height).Render(fmt.Sprintf(
		"Terminal too small.\n\nResize to at least %d x %d\n(currently %d x %d)",
		MinWidth, MinHeight, width, height))
}
