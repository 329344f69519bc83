package tui

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/biilim/biilim/internal/learn"
	"github.com/biilim/biilim/internal/ui/components"
	"github.com/biilim/biilim/internal/ui/layout"
	"github.com/biilim/biilim/internal/ui/theme"
)

// ChatService is the conversation backend.
type ChatService interface {
	Welcome(ctx context.Context, userID, topicID int64) (*learn.ChatMessage, error)
	History(ctx context.Context, userID, topicID int64) ([]learn.ChatMessage, error)
	PostUserMessage(ctx context.Context, userID, topicID int64, text string, t learn.ChatType) (string, error)
}

type historyLoadedMsg struct {
	Messages []learn.ChatMessage
	Err      error
}

type replyMsg struct {
	Type  learn.ChatType
	Reply string
	Err   error
}

// ChatScreen is a line-based conversation about one topic. Tab switches
// between asking questions and submitting an explanation for feedback.
type ChatScreen struct {
	ctx     context.Context
	service ChatService
	topic   *learn.Topic
	userID  int64

	messages []learn.ChatMessage
	input    components.Composer
	waiting  bool
	err      error
}

var _ Screen = (*ChatScreen)(nil)

// NewChatScreen creates the chat view for topic.
func NewChatScreen(ctx context.Context, service ChatService, topic *learn.Topic, userID int64) *ChatScreen {
	return &ChatScreen{
		ctx:     ctx,
		service: service,
		topic:   topic,
		userID:  userID,
		input:   components.NewComposer(2000),
		waiting: true,
	}
}

func (s *ChatScreen) Init() tea.Cmd {
	topicID, userID := s.topic.ID, s.userID
	load := func() tea.Msg {
		if _, err := s.service.Welcome(s.ctx, userID, topicID); err != nil {
			return historyLoadedMsg{Err: err}
		}
		msgs, err := s.service.History(s.ctx, userID, topicID)
		return historyLoadedMsg{Messages: msgs, Err: err}
	}
	return tea.Batch(load, s.input.Init())
}

func (s *ChatScreen) Title() string { return s.topic.Title }

func (s *ChatScreen) Status() string {
	if s.input.Explaining() {
		return "Explain mode"
	}
	return "Chat"
}

func (s *ChatScreen) KeyHints() []layout.KeyHint {
	mode := "Explain mode"
	if s.input.Explaining() {
		mode = "Chat mode"
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "Tab", Description: mode},
		{Key: "Esc", Description: "Leave"},
	}
}

// Explaining reports whether the next message is an explanation.
func (s *ChatScreen) Explaining() bool { return s.input.Explaining() }

// Messages returns the conversation as displayed.
func (s *ChatScreen) Messages() []learn.ChatMessage { return s.messages }

func (s *ChatScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		s.waiting = false
		s.messages, s.err = msg.Messages, msg.Err
		return s, nil

	case replyMsg:
		s.waiting = false
		if msg.Err != nil {
			s.err = msg.Err
			return s, nil
		}
		s.err = nil
		s.messages = append(s.messages, learn.ChatMessage{
			UserID: s.userID, TopicID: s.topic.ID,
			Sender: learn.SenderAI, Type: msg.Type, Text: msg.Reply,
		})
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, tea.Quit
		case "tab":
			s.input.SetExplaining(!s.input.Explaining())
			return s, nil
		case "enter":
			return s, s.send()
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *ChatScreen) send() tea.Cmd {
	if s.waiting {
		return nil
	}
	text := s.input.Take()
	if text == "" {
		return nil
	}
	userType, aiType := learn.ChatGeneral, learn.ChatGeneral
	if s.input.Explaining() {
		userType, aiType = learn.ChatExplanationSubmission, learn.ChatEvaluationFeedback
	}
	s.messages = append(s.messages, learn.ChatMessage{
		UserID: s.userID, TopicID: s.topic.ID,
		Sender: learn.SenderUser, Type: userType, Text: text,
	})
	s.waiting = true

	topicID, userID := s.topic.ID, s.userID
	return func() tea.Msg {
		reply, err := s.service.PostUserMessage(s.ctx, userID, topicID, text, userType)
		return replyMsg{Type: aiType, Reply: reply, Err: err}
	}
}

func (s *ChatScreen) View(width, height int) string {
	inner := max(width-4, 10)

	var footer strings.Builder
	switch {
	case s.err != nil:
		footer.WriteString(theme.Incorrect.Render("Error: "+s.err.Error()) + "\n")
	case s.waiting:
		footer.WriteString(theme.Hint.Render("Tutor is thinking...") + "\n")
	}
	footer.WriteString(s.input.View())
	bottom := footer.String()

	logHeight := max(height-lipgloss.Height(bottom)-2, 1)
	log := tail(s.renderLog(inner), logHeight)

	return lipgloss.NewStyle().Padding(1, 2, 0).Render(log + "\n\n" + bottom)
}

func (s *ChatScreen) renderLog(width int) string {
	wrap := lipgloss.NewStyle().Width(width)
	var b strings.Builder
	for _, m := range s.messages {
		label := theme.Tutor.Render("Tutor")
		if m.Sender == learn.SenderUser {
			label = theme.Student.Render("You")
		}
		switch m.Type {
		case learn.ChatExplanationSubmission:
			label += theme.Hint.Render(" (explanation)")
		case learn.ChatEvaluationFeedback:
			label += theme.Hint.Render(" (feedback)")
		}
		b.WriteString(label + "\n")
		b.WriteString(wrap.Render(theme.Body.Render(m.Text)) + "\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// tail keeps the last n lines of s.
func tail(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}
