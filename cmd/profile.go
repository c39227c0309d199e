package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	flagProfileName       string
	flagProfileAge        int
	flagProfileOccupation string
	flagProfileCity       string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or update your profile",
	RunE:  runProfile,
}

func init() {
	profileCmd.Flags().StringVar(&flagProfileName, "name", "", "Your name")
	profileCmd.Flags().IntVar(&flagProfileAge, "age", 0, "Your age")
	profileCmd.Flags().StringVar(&flagProfileOccupation, "occupation", "", "Your occupation")
	profileCmd.Flags().StringVar(&flagProfileCity, "city", "", "Your city")
	rootCmd.AddCommand(profileCmd)
}

func runProfile(cmd *cobra.Command, _ []string) error {
	return withSession(func(ctx context.Context, s *session) error {
		p := s.tracker.State().Profile
		flags := cmd.Flags()
		changed := false
		if flags.Changed("name") {
			p.Name, changed = flagProfileName, true
		}
		if flags.Changed("age") {
			if flagProfileAge < 0 || flagProfileAge > 150 {
				return fmt.Errorf("invalid age %d", flagProfileAge)
			}
			p.Age, changed = flagProfileAge, true
		}
		if flags.Changed("occupation") {
			p.Occupation, changed = flagProfileOccupation, true
		}
		if flags.Changed("city") {
			p.City, changed = flagProfileCity, true
		}

		if changed {
			if err := s.tracker.SetProfile(ctx, p); err != nil {
				return err
			}
			fmt.Println("  Profile saved")
		}

		show := func(label, v string) {
			if v == "" {
				v = "not set"
			}
			fmt.Printf("  %-12s %s\n", label, v)
		}
		age := ""
		if p.Age > 0 {
			age = fmt.Sprintf("%d", p.Age)
		}
		fmt.Println()
		show("Name", p.Name)
		show("Age", age)
		show("Occupation", p.Occupation)
		show("City", p.City)
		return nil
	})
}
