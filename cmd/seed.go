package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/biilim/biilim/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the catalog with sample topics",
	RunE: func(cmd *cobra.Command, args []string) error {
		reset, _ := cmd.Flags().GetBool("reset")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		rep, err := seed.Run(cmd.Context(), e.store, e.log, seed.Options{Reset: reset})
		if err != nil {
			return err
		}
		if reset {
			fmt.Printf("Deleted %d existing topics.\n", rep.Deleted)
		}
		for _, t := range rep.Created {
			fmt.Printf("  + %-40s  %d sections, %d min\n", t.Title, len(t.Sections), t.Duration)
		}
		for _, title := range rep.Skipped {
			fmt.Printf("  = %-40s  already exists\n", title)
		}
		fmt.Printf("Created %d topics, skipped %d.\n", len(rep.Created), len(rep.Skipped))
		return nil
	},
}

func init() {
	seedCmd.Flags().Bool("reset", false, "Delete every topic before seeding")
}
