package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/biilim/biilim/internal/learn"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or update the acting user's learning profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		u, err := e.user(cmd)
		if err != nil {
			return err
		}
		p, err := e.store.ProfileRepo().Get(cmd.Context(), u.ID)
		if err != nil {
			return err
		}
		printProfile(u, p)
		return nil
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update profile fields; unset flags keep their value",
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
		p, err := e.store.ProfileRepo().Get(ctx, u.ID)
		if err != nil {
			return err
		}
		p.UserID = u.ID

		flags := cmd.Flags()
		if flags.Changed("age") {
			age, _ := flags.GetInt("age")
			switch {
			case age < 0 || age > 150:
				return fmt.Errorf("age %d out of range", age)
			case age == 0:
				p.Age = nil
			default:
				p.Age = &age
			}
		}
		if flags.Changed("city") {
			p.City, _ = flags.GetString("city")
		}
		if flags.Changed("country") {
			p.Country, _ = flags.GetString("country")
		}
		if flags.Changed("culture") {
			p.CulturalBackground, _ = flags.GetString("culture")
		}
		if flags.Changed("hobbies") {
			hobbies, _ := flags.GetStringSlice("hobbies")
			p.Hobbies = strings.Join(hobbies, ",")
		}
		if flags.Changed("styles") {
			raw, _ := flags.GetString("styles")
			if p.LearningStyles, err = learn.ParseLearningStyles(raw); err != nil {
				return err
			}
		}

		if err := e.store.ProfileRepo().Upsert(ctx, p); err != nil {
			return err
		}
		printProfile(u, p)
		return nil
	},
}

func printProfile(u *learn.User, p learn.Profile) {
	age := "-"
	if p.Age != nil {
		age = fmt.Sprint(*p.Age)
	}
	var styles []string
	for _, s := range p.Styles() {
		styles = append(styles, s.Label())
	}
	fmt.Printf("User:      %s (%s)\n", u.Name, u.Email)
	fmt.Printf("Age:       %s\n", age)
	fmt.Printf("City:      %s\n", orDash(p.City))
	fmt.Printf("Country:   %s\n", orDash(p.Country))
	fmt.Printf("Culture:   %s\n", orDash(p.CulturalBackground))
	fmt.Printf("Hobbies:   %s\n", orDash(strings.Join(p.HobbyList(), ", ")))
	fmt.Printf("Styles:    %s\n", orDash(strings.Join(styles, ", ")))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	f := profileSetCmd.Flags()
	f.Int("age", 0, "Age in years (0 clears)")
	f.String("city", "", "City")
	f.String("country", "", "Country")
	f.String("culture", "", "Cultural background")
	f.StringSlice("hobbies", nil, "Comma-separated hobbies")
	f.String("styles", "", "Comma-separated learning styles: visual, auditory, reading_writing, kinesthetic, simulation, real_world")

	profileCmd.AddCommand(profileSetCmd)
}
