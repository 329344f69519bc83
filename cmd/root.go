package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "biilim",
	Short: "Personalized AI lessons, quizzes and tutoring",
	Long: "Biilim generates topics tailored to a learner's profile, grades quizzes " +
		"and runs a tutoring chat for every topic.",
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides BIILIM_DB)")
	rootCmd.PersistentFlags().String("env-file", "", "Load environment from this file instead of ./.env")
	rootCmd.PersistentFlags().String("user", "", "Email of the acting user (overrides BIILIM_USER_EMAIL)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(topicCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}
