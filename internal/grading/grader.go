// Package grading scores quiz submissions and records the answers.
package grading

import (
	"context"
	"fmt"
	"time"

	"github.com/biilim/biilim/internal/learn"
	"github.com/biilim/biilim/internal/logger"
	"github.com/biilim/biilim/internal/store"
)

// Result is the outcome of one submission.
type Result struct {
	QuizID       int64
	CorrectCount int
	TotalCount   int
	ScorePercent float64
	IsGraded     bool
	// Answers are the rows written, in question order. Skipped questions
	// have no row.
	Answers []learn.StudentAnswer
}

// Grader scores submissions against the stored answer key.
type Grader struct {
	store *store.Store
	log   *logger.Logger
	now   func() time.Time
}

// New creates a Grader.
func New(s *store.Store, log *logger.Logger) *Grader {
	if log == nil {
		log = logger.Nop()
	}
	return &Grader{store: s, log: log.With("component", "grading"), now: time.Now}
}

// Submit grades answers (question id -> selected letter) for quizID.
// Every question of the quiz counts toward the total; a missing or blank
// answer is wrong and not stored. Letters compare exactly, so "a" does not
// match "A". Ids that are not questions of the quiz are ignored. All rows
// are written in one transaction.
func (g *Grader) Submit(ctx context.Context, quizID, userID int64, answers map[int64]string) (*Result, error) {
	quiz, err := g.store.QuizRepo().Get(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("load quiz %d: %w", quizID, err)
	}

	res := &Result{
		QuizID:     quiz.ID,
		TotalCount: len(quiz.Questions),
		IsGraded:   quiz.IsGraded,
	}
	answeredAt := g.now().UTC()
	for _, q := range quiz.Questions {
		selected, ok := answers[q.ID]
		if !ok || selected == "" {
			continue
		}
		a := learn.StudentAnswer{
			UserID:         userID,
			QuestionID:     q.ID,
			SelectedLetter: selected,
			IsCorrect:      selected == q.CorrectAnswerLetter,
			AnsweredAt:     answeredAt,
		}
		if a.IsCorrect {
			res.CorrectCount++
		}
		res.Answers = append(res.Answers, a)
	}
	res.ScorePercent = Score(res.CorrectCount, res.TotalCount)

	if len(res.Answers) > 0 {
		err = g.store.InTx(ctx, func(tx *store.Tx) error {
			for i := range res.Answers {
				id, err := tx.InsertAnswer(ctx, res.Answers[i])
				if err != nil {
					return err
				}
				res.Answers[i].ID = id
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("record answers for quiz %d: %w", quizID, err)
		}
	}

	g.log.Info("quiz submitted",
		"quiz_id", quizID, "user_id", userID,
		"correct", res.CorrectCount, "total", res.TotalCount, "score", res.ScorePercent)
	return res, nil
}

// Score is correct/total as a percentage, 0 for an empty quiz.
func Score(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}
