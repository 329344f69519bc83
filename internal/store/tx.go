package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/biilim/biilim/internal/learn"
)

// Tx writes the topic graph and quiz submissions inside one transaction.
// Obtain one through Store.InTx.
type Tx struct {
	tx dialect.Tx
}

// TopicIDByTitle looks up a topic by case-insensitive title.
func (t *Tx) TopicIDByTitle(ctx context.Context, title string) (int64, bool, error) {
	return topicIDByTitle(ctx, t.tx, title)
}

// InsertTopic writes a topic row and returns its id.
func (t *Tx) InsertTopic(ctx context.Context, topic learn.Topic) (int64, error) {
	prompts := topic.SupplementaryPrompts
	if prompts == nil {
		prompts = []learn.SupplementaryPrompt{}
	}
	raw, err := json.Marshal(prompts)
	if err != nil {
		return 0, fmt.Errorf("encode supplementary prompts: %w", err)
	}
	now := time.Now().UTC()
	id, err := insert(ctx, t.tx, builder.Insert(tableTopics).
		Columns("title", "description", "duration", "is_recommended",
			"supplementary_prompts", "owner_id", "created_at", "updated_at").
		Values(topic.Title, topic.Description, topic.Duration, topic.IsRecommended,
			string(raw), nullInt64(topic.OwnerID), now, now))
	if err != nil {
		return 0, fmt.Errorf("insert topic: %w", err)
	}
	return id, nil
}

// InsertSection writes a section row and returns its id.
func (t *Tx) InsertSection(ctx context.Context, s learn.Section) (int64, error) {
	id, err := insert(ctx, t.tx, builder.Insert(tableSections).
		Columns("topic_id", "title", "content", "position").
		Values(s.TopicID, s.Title, s.Content, s.Index))
	if err != nil {
		return 0, fmt.Errorf("insert section: %w", err)
	}
	return id, nil
}

// InsertQuiz writes a quiz row for its owner and returns its id.
func (t *Tx) InsertQuiz(ctx context.Context, q learn.Quiz) (int64, error) {
	var topicID, sectionID *int64
	switch o := q.Owner.(type) {
	case learn.TopicOwner:
		topicID = &o.TopicID
	case learn.SectionOwner:
		sectionID = &o.SectionID
	default:
		return 0, learn.ErrQuizOwnerRequired
	}
	id, err := insert(ctx, t.tx, builder.Insert(tableQuizzes).
		Columns("topic_id", "section_id", "is_graded").
		Values(nullInt64(topicID), nullInt64(sectionID), q.IsGraded))
	if err != nil {
		return 0, fmt.Errorf("insert quiz: %w", err)
	}
	return id, nil
}

// InsertQuestion writes a question row and returns its id.
func (t *Tx) InsertQuestion(ctx context.Context, q learn.Question) (int64, error) {
	id, err := insert(ctx, t.tx, builder.Insert(tableQuestions).
		Columns("quiz_id", "text", "correct_answer_letter", "position").
		Values(q.QuizID, q.Text, q.CorrectAnswerLetter, q.Index))
	if err != nil {
		return 0, fmt.Errorf("insert question: %w", err)
	}
	return id, nil
}

// InsertChoice writes a choice row and returns its id.
func (t *Tx) InsertChoice(ctx context.Context, c learn.Choice) (int64, error) {
	id, err := insert(ctx, t.tx, builder.Insert(tableChoices).
		Columns("question_id", "letter", "text").
		Values(c.QuestionID, c.Letter, c.Text))
	if err != nil {
		return 0, fmt.Errorf("insert choice: %w", err)
	}
	return id, nil
}

// InsertAnswer appends a student answer row and returns its id.
func (t *Tx) InsertAnswer(ctx context.Context, a learn.StudentAnswer) (int64, error) {
	id, err := insert(ctx, t.tx, builder.Insert(tableAnswers).
		Columns("user_id", "question_id", "selected_letter", "is_correct", "answered_at").
		Values(a.UserID, a.QuestionID, a.SelectedLetter, a.IsCorrect, a.AnsweredAt.UTC()))
	if err != nil {
		return 0, fmt.Errorf("insert answer: %w", err)
	}
	return id, nil
}

func topicIDByTitle(ctx context.Context, q dialect.ExecQuerier, title string) (int64, bool, error) {
	id, ok, err := scanInt64(ctx, q, builder.Select("id").
		From(entsql.Table(tableTopics)).
		Where(entsql.EqualFold("title", title)).
		Limit(1))
	if err != nil {
		return 0, false, fmt.Errorf("lookup topic by title: %w", err)
	}
	return id, ok, nil
}
