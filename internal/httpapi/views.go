package httpapi

import (
	"time"

	"github.com/biilim/biilim/internal/grading"
	"github.com/biilim/biilim/internal/learn"
)

type topicView struct {
	ID                   int64                       `json:"id"`
	Title                string                      `json:"title"`
	Description          string                      `json:"description"`
	Duration             int                         `json:"duration"`
	IsRecommended        bool                        `json:"is_recommended"`
	SupplementaryPrompts []learn.SupplementaryPrompt `json:"supplementary_prompts"`
	OwnerID              *int64                      `json:"owner_id"`
	CreatedAt            time.Time                   `json:"created_at"`
	Sections             []sectionView               `json:"sections,omitempty"`
	QuizID               int64                       `json:"quiz_id,omitempty"`
}

type sectionView struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Index   int    `json:"index"`
	QuizID  int64  `json:"quiz_id,omitempty"`
}

func newTopicView(t *learn.Topic) topicView {
	v := topicView{
		ID:                   t.ID,
		Title:                t.Title,
		Description:          t.Description,
		Duration:             t.Duration,
		IsRecommended:        t.IsRecommended,
		SupplementaryPrompts: t.SupplementaryPrompts,
		OwnerID:              t.OwnerID,
		CreatedAt:            t.CreatedAt,
	}
	if v.SupplementaryPrompts == nil {
		v.SupplementaryPrompts = []learn.SupplementaryPrompt{}
	}
	for _, s := range t.Sections {
		v.Sections = append(v.Sections, sectionView{ID: s.ID, Title: s.Title, Content: s.Content, Index: s.Index})
	}
	return v
}

func newTopicList(topics []learn.Topic) []topicView {
	out := make([]topicView, len(topics))
	for i := range topics {
		out[i] = newTopicView(&topics[i])
	}
	return out
}

// quizView never carries the answer key.
type quizView struct {
	ID        int64          `json:"id"`
	TopicID   int64          `json:"topic_id,omitempty"`
	SectionID int64          `json:"section_id,omitempty"`
	IsGraded  bool           `json:"is_graded"`
	Questions []questionView `json:"questions"`
}

type questionView struct {
	ID      int64        `json:"id"`
	Text    string       `json:"text"`
	Index   int          `json:"index"`
	Choices []choiceView `json:"choices"`
}

type choiceView struct {
	Letter string `json:"letter"`
	Text   string `json:"text"`
}

func newQuizView(q *learn.Quiz) quizView {
	v := quizView{ID: q.ID, IsGraded: q.IsGraded, Questions: []questionView{}}
	switch o := q.Owner.(type) {
	case learn.TopicOwner:
		v.TopicID = o.TopicID
	case learn.SectionOwner:
		v.SectionID = o.SectionID
	}
	for _, qn := range q.Questions {
		qv := questionView{ID: qn.ID, Text: qn.Text, Index: qn.Index, Choices: []choiceView{}}
		for _, c := range qn.Choices {
			qv.Choices = append(qv.Choices, choiceView{Letter: c.Letter, Text: c.Text})
		}
		v.Questions = append(v.Questions, qv)
	}
	return v
}

type answerView struct {
	QuestionID     int64     `json:"question_id"`
	SelectedLetter string    `json:"selected_letter"`
	IsCorrect      bool      `json:"is_correct"`
	AnsweredAt     time.Time `json:"answered_at"`
}

func newAnswerViews(answers []learn.StudentAnswer) []answerView {
	out := make([]answerView, len(answers))
	for i, a := range answers {
		out[i] = answerView{QuestionID: a.QuestionID, SelectedLetter: a.SelectedLetter, IsCorrect: a.IsCorrect, AnsweredAt: a.AnsweredAt}
	}
	return out
}

type resultView struct {
	QuizID       int64        `json:"quiz_id"`
	CorrectCount int          `json:"correct_count"`
	TotalCount   int          `json:"total_count"`
	ScorePercent float64      `json:"score_percent"`
	IsGraded     bool         `json:"is_graded"`
	Answers      []answerView `json:"answers"`
}

func newResultView(r *grading.Result) resultView {
	return resultView{
		QuizID:       r.QuizID,
		CorrectCount: r.CorrectCount,
		TotalCount:   r.TotalCount,
		ScorePercent: r.ScorePercent,
		IsGraded:     r.IsGraded,
		Answers:      newAnswerViews(r.Answers),
	}
}

type messageView struct {
	ID        int64          `json:"id"`
	Sender    learn.Sender   `json:"sender"`
	ChatType  learn.ChatType `json:"chat_type"`
	Text      string         `json:"text"`
	CreatedAt time.Time      `json:"created_at"`
}

func newMessageViews(msgs []learn.ChatMessage) []messageView {
	out := make([]messageView, len(msgs))
	for i, m := range msgs {
		out[i] = messageView{ID: m.ID, Sender: m.Sender, ChatType: m.Type, Text: m.Text, CreatedAt: m.CreatedAt}
	}
	return out
}

type profileView struct {
	Age                *int     `json:"age"`
	City               string   `json:"city"`
	Country            string   `json:"country"`
	CulturalBackground string   `json:"cultural_background"`
	Hobbies            []string `json:"hobbies"`
	LearningStyles     []string `json:"learning_styles"`
}

func newProfileView(p learn.Profile) profileView {
	v := profileView{
		Age:                p.Age,
		City:               p.City,
		Country:            p.Country,
		CulturalBackground: p.CulturalBackground,
		Hobbies:            p.HobbyList(),
		LearningStyles:     []string{},
	}
	if v.Hobbies == nil {
		v.Hobbies = []string{}
	}
	for _, s := range p.Styles() {
		v.LearningStyles = append(v.LearningStyles, string(s))
	}
	return v
}
