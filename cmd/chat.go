package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/biilim/biilim/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat <topic-id>",
	Short: "Chat with the tutor about a topic",
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
		topic, err := e.store.TopicRepo().Get(ctx, id)
		if err != nil {
			return fmt.Errorf("topic %d: %w", id, err)
		}
		orch, err := e.chat(ctx)
		if err != nil {
			return err
		}
		return tui.Run(tui.NewChatScreen(ctx, orch, topic, u.ID))
	},
}
