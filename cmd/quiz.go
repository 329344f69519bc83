package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/biilim/biilim/internal/learn"
	"github.com/biilim/biilim/internal/tui"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Take and submit quizzes",
}

var quizTakeCmd = &cobra.Command{
	Use:   "take <quiz-id>",
	Short: "Take a quiz interactively",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		u, err := e.user(cmd)
		if err != nil {
			return err
		}
		quiz, err := e.store.QuizRepo().Get(ctx, id)
		if err != nil {
			return fmt.Errorf("quiz %d: %w", id, err)
		}
		topicID, err := e.store.QuizRepo().TopicOf(ctx, quiz)
		if err != nil {
			return err
		}
		topic, err := e.store.TopicRepo().Get(ctx, topicID)
		if err != nil {
			return err
		}
		return tui.Run(tui.NewQuizScreen(ctx, e.grader(), quiz, topic.Title, u.ID))
	},
}

var quizSubmitCmd = &cobra.Command{
	Use:   "submit <quiz-id> [question-id=letter ...]",
	Short: "Submit answers without the interactive view",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		answers := make(map[int64]string, len(args)-1)
		for _, a := range args[1:] {
			qid, letter, ok := strings.Cut(a, "=")
			if !ok {
				return fmt.Errorf("answer %q must look like <question-id>=<letter>", a)
			}
			n, err := parseID(qid)
			if err != nil {
				return err
			}
			answers[n] = letter
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		u, err := e.user(cmd)
		if err != nil {
			return err
		}
		res, err := e.grader().Submit(cmd.Context(), id, u.ID, answers)
		if err != nil {
			return err
		}
		fmt.Printf("Score: %d/%d (%.0f%%)\n", res.CorrectCount, res.TotalCount, res.ScorePercent)
		return nil
	},
}

var quizShowCmd = &cobra.Command{
	Use:   "history <quiz-id>",
	Short: "Show the acting user's past answers for a quiz",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		u, err := e.user(cmd)
		if err != nil {
			return err
		}
		answers, err := e.store.AnswerRepo().ListForQuiz(cmd.Context(), u.ID, id)
		if err != nil {
			return err
		}
		if len(answers) == 0 {
			fmt.Println("No answers yet.")
			return nil
		}
		for _, a := range answers {
			fmt.Printf("%s  question %-5d  %s  %s\n",
				a.AnsweredAt.Local().Format("2006-01-02 15:04"), a.QuestionID, a.SelectedLetter, mark(a))
		}
		total, correct, err := e.store.AnswerRepo().CountForUser(cmd.Context(), u.ID)
		if err != nil {
			return err
		}
		fmt.Printf("\nAll quizzes: %d of %d answers correct\n", correct, total)
		return nil
	},
}

func mark(a learn.StudentAnswer) string {
	if a.IsCorrect {
		return "✓"
	}
	return "✗"
}

func init() {
	quizCmd.AddCommand(quizTakeCmd)
	quizCmd.AddCommand(quizSubmitCmd)
	quizCmd.AddCommand(quizShowCmd)
}
