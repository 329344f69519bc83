package tui

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/biilim/biilim/internal/grading"
	"github.com/biilim/biilim/internal/learn"
	"github.com/biilim/biilim/internal/ui/components"
	"github.com/biilim/biilim/internal/ui/layout"
	"github.com/biilim/biilim/internal/ui/theme"
)

// QuizSubmitter grades a finished quiz.
type QuizSubmitter interface {
	Submit(ctx context.Context, quizID, userID int64, answers map[int64]string) (*grading.Result, error)
}

type quizGradedMsg struct {
	Result *grading.Result
	Err    error
}

// QuizScreen walks through a quiz one question at a time and submits all
// answers at the end. Questions can be skipped.
type QuizScreen struct {
	ctx    context.Context
	grader QuizSubmitter
	quiz   *learn.Quiz
	title  string
	userID int64

	current    int
	answers    map[int64]string
	choice     components.MultiChoice
	submitting bool
	result     *grading.Result
	err        error
}

var _ Screen = (*QuizScreen)(nil)

// NewQuizScreen creates the quiz taker. title labels the header.
func NewQuizScreen(ctx context.Context, grader QuizSubmitter, quiz *learn.Quiz, title string, userID int64) *QuizScreen {
	s := &QuizScreen{
		ctx:     ctx,
		grader:  grader,
		quiz:    quiz,
		title:   title,
		userID:  userID,
		answers: make(map[int64]string),
	}
	s.loadQuestion()
	return s
}

func (s *QuizScreen) Init() tea.Cmd {
	if len(s.quiz.Questions) == 0 {
		return s.submit()
	}
	return nil
}

func (s *QuizScreen) Title() string {
	if s.quiz.IsGraded {
		return s.title + " · Final quiz"
	}
	return s.title + " · Practice"
}

func (s *QuizScreen) Status() string {
	if s.result != nil {
		return fmt.Sprintf("%.0f%%", s.result.ScorePercent)
	}
	return fmt.Sprintf("%d/%d", min(s.current+1, len(s.quiz.Questions)), len(s.quiz.Questions))
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.result != nil || s.err != nil:
		return []layout.KeyHint{{Key: "Enter", Description: "Close"}}
	case s.submitting:
		return nil
	}
	hints := []layout.KeyHint{
		{Key: "↑↓/A-D", Description: "Choose"},
		{Key: "Enter", Description: "Answer"},
		{Key: "S", Description: "Skip"},
	}
	if s.current > 0 {
		hints = append(hints, layout.KeyHint{Key: "Backspace", Description: "Back"})
	}
	return hints
}

// Result returns the graded result once the quiz is submitted.
func (s *QuizScreen) Result() *grading.Result { return s.result }

func (s *QuizScreen) loadQuestion() {
	if s.current >= len(s.quiz.Questions) {
		return
	}
	q := s.quiz.Questions[s.current]
	opts := make([]components.Option, len(q.Choices))
	for i, c := range q.Choices {
		opts[i] = components.Option{Letter: c.Letter, Text: c.Text}
	}
	s.choice = components.NewMultiChoice(fmt.Sprintf("%d. %s", s.current+1, q.Text), opts, s.answers[q.ID])
}

func (s *QuizScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case quizGradedMsg:
		s.submitting = false
		s.result, s.err = msg.Result, msg.Err
		return s, nil
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (Screen, tea.Cmd) {
	if s.result != nil || s.err != nil {
		if msg.String() == "enter" || msg.String() == "q" || msg.String() == "esc" {
			return s, tea.Quit
		}
		return s, nil
	}
	if s.submitting {
		return s, nil
	}

	q := s.quiz.Questions[s.current]
	switch msg.String() {
	case "s":
		delete(s.answers, q.ID)
		return s, s.advance()
	case "backspace":
		if s.current > 0 {
			s.current--
			s.loadQuestion()
		}
		return s, nil
	}

	var cmd tea.Cmd
	s.choice, cmd = s.choice.Update(msg)
	if s.choice.Chosen != "" {
		s.answers[q.ID] = s.choice.Chosen
		return s, tea.Batch(cmd, s.advance())
	}
	return s, cmd
}

func (s *QuizScreen) advance() tea.Cmd {
	s.current++
	if s.current < len(s.quiz.Questions) {
		s.loadQuestion()
		return nil
	}
	return s.submit()
}

func (s *QuizScreen) submit() tea.Cmd {
	s.submitting = true
	answers := make(map[int64]string, len(s.answers))
	for k, v := range s.answers {
		answers[k] = v
	}
	quizID, userID := s.quiz.ID, s.userID
	return func() tea.Msg {
		res, err := s.grader.Submit(s.ctx, quizID, userID, answers)
		return quizGradedMsg{Result: res, Err: err}
	}
}

func (s *QuizScreen) View(width, height int) string {
	var body string
	switch {
	case s.err != nil:
		body = theme.Card.Render(theme.Incorrect.Render("Could not submit the quiz: ") + s.err.Error())
	case s.result != nil:
		body = s.renderResult(width)
	case s.submitting:
		body = theme.Hint.Render("Grading...")
	default:
		body = s.track().View() + "\n\n" + s.choice.View()
	}
	return lipgloss.NewStyle().Padding(1, 2).Width(width).MaxHeight(height).Render(body)
}

func (s *QuizScreen) track() components.QuizTrack {
	marks := make([]components.Mark, len(s.quiz.Questions))
	for i, q := range s.quiz.Questions {
		switch {
		case i == s.current:
			marks[i] = components.MarkCurrent
		case s.answers[q.ID] != "":
			marks[i] = components.MarkAnswered
		case i < s.current:
			marks[i] = components.MarkSkipped
		}
	}
	return components.QuizTrack{Marks: marks}
}

func (s *QuizScreen) renderResult(width int) string {
	r := s.result
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", theme.Title.Render(fmt.Sprintf("Score: %d/%d (%.0f%%)", r.CorrectCount, r.TotalCount, r.ScorePercent)))

	answered := make(map[int64]learn.StudentAnswer, len(r.Answers))
	for _, a := range r.Answers {
		answered[a.QuestionID] = a
	}
	for i, q := range s.quiz.Questions {
		line := fmt.Sprintf("%d. %s", i+1, q.Text)
		a, ok := answered[q.ID]
		switch {
		case !ok:
			b.WriteString(theme.Skipped.Render("–  " + line + " (skipped, answer " + q.CorrectAnswerLetter + ")"))
		case a.IsCorrect:
			b.WriteString(theme.Correct.Render("✓  " + line))
		default:
			b.WriteString(theme.Incorrect.Render(fmt.Sprintf("✗  %s (you chose %s, answer %s)", line, a.SelectedLetter, q.CorrectAnswerLetter)))
		}
		b.WriteString("\n")
	}
	return theme.Card.Width(min(width-4, 100)).Render(b.String())
}
