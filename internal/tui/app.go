// Package tui is the terminal client for taking quizzes and chatting about
// a topic.
package tui

import (
	tea "charm.land/bubbletea/v2"

	"github.com/biilim/biilim/internal/ui/layout"
)

// Screen is one full-window view hosted by the app frame.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the content area, excluding header and footer.
	View(width, height int) string

	Title() string
	Status() string
	KeyHints() []layout.KeyHint
}

// appModel draws the frame around a single screen and owns global keys.
type appModel struct {
	screen Screen
	width  int
	height int
}

func (m appModel) Init() tea.Cmd {
	return m.screen.Init()
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.screen, cmd = m.screen.Update(msg)
	return m, cmd
}

func (m appModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	frame := layout.Frame{
		Title:  m.screen.Title(),
		Status: m.screen.Status(),
		Hints:  append(m.screen.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Quit"}),
	}
	v.SetContent(frame.Render(m.width, m.height, m.screen.View))
	return v
}

// Run starts the program with s as the only screen and blocks until the
// user quits.
func Run(s Screen) error {
	_, err := tea.NewProgram(appModel{screen: s}).Run()
	return err
}
