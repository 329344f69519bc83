package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/biilim/biilim/internal/learn"
	"github.com/biilim/biilim/internal/topicgen"
)

var topicCmd = &cobra.Command{
	Use:   "topic",
	Short: "Browse, generate and delete topics",
}

var topicListCmd = &cobra.Command{
	Use:   "list",
	Short: "List topics, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		recommended, _ := cmd.Flags().GetBool("recommended")
		var topics []learn.Topic
		if recommended {
			topics, err = e.store.TopicRepo().Recommended(cmd.Context(), 0)
		} else {
			topics, err = e.store.TopicRepo().List(cmd.Context())
		}
		if err != nil {
			return err
		}
		if len(topics) == 0 {
			fmt.Println("No topics yet. Try `biilim topic generate <query>` or `biilim seed`.")
			return nil
		}

		fmt.Printf("%-5s  %-40s  %6s  %s\n", "ID", "Title", "Min", "Created")
		fmt.Println(strings.Repeat("─", 72))
		for _, t := range topics {
			mark := ""
			if t.IsRecommended {
				mark = " ★"
			}
			fmt.Printf("%-5d  %-40s  %6d  %s\n",
				t.ID, truncate(t.Title, 38)+mark, t.Duration, t.CreatedAt.Local().Format("2006-01-02"))
		}
		return nil
	},
}

var topicShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a topic with its sections and quizzes",
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
		repo := e.store.TopicRepo()
		t, err := repo.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("topic %d: %w", id, err)
		}
		printTopic(t)

		for _, s := range t.Sections {
			fmt.Printf("\n## %d. %s\n\n%s\n", s.Index+1, s.Title, s.Content)
			if q, err := repo.QuizForSection(ctx, s.ID); err == nil && len(q.Questions) > 0 {
				fmt.Printf("\n  Practice quiz: %d questions (biilim quiz take %d)\n", len(q.Questions), q.ID)
			}
		}
		if q, err := repo.QuizForTopic(ctx, id); err == nil {
			fmt.Printf("\nFinal quiz: %d questions (biilim quiz take %d)\n", len(q.Questions), q.ID)
		}
		if len(t.SupplementaryPrompts) > 0 {
			fmt.Println("\nTry next:")
			for _, p := range t.SupplementaryPrompts {
				fmt.Printf("  [%s] %s\n", learn.LearningStyle(p.Style).Label(), p.Prompt)
			}
		}
		return nil
	},
}

var topicGenerateCmd = &cobra.Command{
	Use:   "generate <query>",
	Short: "Find or generate a topic personalized to the acting user's profile",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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
		profile, err := e.store.ProfileRepo().Get(ctx, u.ID)
		if err != nil {
			return err
		}
		svc, err := e.topics(ctx)
		if err != nil {
			return err
		}

		t, created, err := svc.Search(ctx, &u.ID, profile, strings.Join(args, " "))
		var conflict *learn.ConflictError
		var validation *topicgen.ValidationError
		switch {
		case errors.As(err, &conflict):
			return fmt.Errorf("the model produced %q, which already exists as topic %d", conflict.Title, conflict.ExistingID)
		case errors.As(err, &validation):
			return fmt.Errorf("couldn't generate a usable topic: %w", err)
		case err != nil:
			return err
		}

		if created {
			fmt.Println("Generated a new topic.")
		} else {
			fmt.Println("Found an existing topic.")
		}
		printTopic(t)
		return nil
	},
}

var topicDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a topic with its sections, quizzes, answers and chats",
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

		if err := e.store.TopicRepo().Delete(cmd.Context(), id); err != nil {
			return fmt.Errorf("delete topic %d: %w", id, err)
		}
		fmt.Printf("Deleted topic %d.\n", id)
		return nil
	},
}

func printTopic(t *learn.Topic) {
	fmt.Printf("# %s  (id %d, %d min)\n\n%s\n", t.Title, t.ID, t.Duration, t.Description)
	if len(t.Sections) > 0 {
		fmt.Printf("\n%d sections:\n", len(t.Sections))
		for _, s := range t.Sections {
			fmt.Printf("  %d. %s\n", s.Index+1, s.Title)
		}
	}
}

func init() {
	topicListCmd.Flags().Bool("recommended", false, "Only recommended topics")

	topicCmd.AddCommand(topicListCmd)
	topicCmd.AddCommand(topicShowCmd)
	topicCmd.AddCommand(topicGenerateCmd)
	topicCmd.AddCommand(topicDeleteCmd)
}
