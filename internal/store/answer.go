package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/biilim/biilim/internal/learn"
)

// AnswerRepo reads stored quiz answers. Answers are written through Tx so
// that one submission commits as a unit.
type AnswerRepo struct {
	q dialect.ExecQuerier
}

// ListForQuiz returns the user's answers to questions of the quiz, oldest
// first.
func (r *AnswerRepo) ListForQuiz(ctx context.Context, userID, quizID int64) ([]learn.StudentAnswer, error) {
	a := entsql.Table(tableAnswers)
	q := entsql.Table(tableQuestions)
	sel := builder.Select(
		a.C("id"), a.C("user_id"), a.C("question_id"),
		a.C("selected_letter"), a.C("is_correct"), a.C("answered_at"),
	).
		From(a).
		Join(q).On(a.C("question_id"), q.C("id")).
		Where(entsql.And(
			entsql.EQ(a.C("user_id"), userID),
			entsql.EQ(q.C("quiz_id"), quizID),
		)).
		OrderBy(a.C("answered_at"), a.C("id"))

	var out []learn.StudentAnswer
	err := scanRows(ctx, r.q, sel, func(rows *entsql.Rows) error {
		var sa learn.StudentAnswer
		if err := rows.Scan(&sa.ID, &sa.UserID, &sa.QuestionID, &sa.SelectedLetter, &sa.IsCorrect, &sa.AnsweredAt); err != nil {
			return err
		}
		out = append(out, sa)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	return out, nil
}

// CountForUser returns how many answer rows the user has, and how many of
// them were correct.
func (r *AnswerRepo) CountForUser(ctx context.Context, userID int64) (total, correct int64, err error) {
	total, _, err = scanInt64(ctx, r.q, builder.Select(entsql.Count("*")).
		From(entsql.Table(tableAnswers)).
		Where(entsql.EQ("user_id", userID)))
	if err != nil {
		return 0, 0, fmt.Errorf("count answers: %w", err)
	}
	correct, _, err = scanInt64(ctx, r.q, builder.Select(entsql.Count("*")).
		From(entsql.Table(tableAnswers)).
		Where(entsql.And(entsql.EQ("user_id", userID), entsql.EQ("is_correct", true))))
	if err != nil {
		return 0, 0, fmt.Errorf("count correct answers: %w", err)
	}
	return total, correct, nil
}
