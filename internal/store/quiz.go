package store

import (
	"context"
	"database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/biilim/biilim/internal/learn"
)

// QuizRepo loads quizzes with their questions and choices.
type QuizRepo struct {
	q dialect.ExecQuerier
}

// Get returns the quiz with questions ordered by index and choices ordered
// by letter.
func (r *QuizRepo) Get(ctx context.Context, id int64) (*learn.Quiz, error) {
	return loadQuiz(ctx, r.q, entsql.EQ("id", id))
}

// TopicOf returns the id of the topic a quiz belongs to, following the
// section for section quizzes.
func (r *QuizRepo) TopicOf(ctx context.Context, quiz *learn.Quiz) (int64, error) {
	switch o := quiz.Owner.(type) {
	case learn.TopicOwner:
		return o.TopicID, nil
	case learn.SectionOwner:
		id, ok, err := scanInt64(ctx, r.q, builder.Select("topic_id").
			From(entsql.Table(tableSections)).
			Where(entsql.EQ("id", o.SectionID)))
		if err != nil {
			return 0, fmt.Errorf("query section topic: %w", err)
		}
		if !ok {
			return 0, learn.ErrNotFound
		}
		return id, nil
	}
	return 0, learn.ErrQuizOwnerRequired
}

func loadQuiz(ctx context.Context, q dialect.ExecQuerier, where *entsql.Predicate) (*learn.Quiz, error) {
	var (
		quiz   *learn.Quiz
		ownErr error
	)
	sel := builder.Select("id", "topic_id", "section_id", "is_graded").
		From(entsql.Table(tableQuizzes)).
		Where(where).
		OrderBy("id").
		Limit(1)
	err := scanRows(ctx, q, sel, func(rows *entsql.Rows) error {
		var (
			qz                 learn.Quiz
			topicID, sectionID sql.NullInt64
		)
		if err := rows.Scan(&qz.ID, &topicID, &sectionID, &qz.IsGraded); err != nil {
			return err
		}
		qz.Owner, ownErr = learn.OwnerFromColumns(int64Ptr(topicID), int64Ptr(sectionID))
		quiz = &qz
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query quiz: %w", err)
	}
	if quiz == nil {
		return nil, learn.ErrNotFound
	}
	if ownErr != nil {
		return nil, fmt.Errorf("quiz %d: %w", quiz.ID, ownErr)
	}

	if quiz.Questions, err = loadQuestions(ctx, q, quiz.ID); err != nil {
		return nil, err
	}
	return quiz, nil
}

func loadQuestions(ctx context.Context, q dialect.ExecQuerier, quizID int64) ([]learn.Question, error) {
	var questions []learn.Question
	sel := builder.Select("id", "quiz_id", "text", "correct_answer_letter", "position").
		From(entsql.Table(tableQuestions)).
		Where(entsql.EQ("quiz_id", quizID)).
		OrderBy("position", "id")
	err := scanRows(ctx, q, sel, func(rows *entsql.Rows) error {
		var qn learn.Question
		if err := rows.Scan(&qn.ID, &qn.QuizID, &qn.Text, &qn.CorrectAnswerLetter, &qn.Index); err != nil {
			return err
		}
		questions = append(questions, qn)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, nil
	}

	ids := make([]any, len(questions))
	byID := make(map[int64]int, len(questions))
	for i, qn := range questions {
		ids[i] = qn.ID
		byID[qn.ID] = i
	}
	sel = builder.Select("id", "question_id", "letter", "text").
		From(entsql.Table(tableChoices)).
		Where(entsql.In("question_id", ids...)).
		OrderBy("question_id", "letter")
	err = scanRows(ctx, q, sel, func(rows *entsql.Rows) error {
		var c learn.Choice
		if err := rows.Scan(&c.ID, &c.QuestionID, &c.Letter, &c.Text); err != nil {
			return err
		}
		i := byID[c.QuestionID]
		questions[i].Choices = append(questions[i].Choices, c)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query choices: %w", err)
	}
	return questions, nil
}
