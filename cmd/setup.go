package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/kharcha/internal/cli"
	"github.com/theirongolddev/kharcha/internal/config"
	"github.com/theirongolddev/kharcha/internal/tui/theme"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

// setupValues holds the wizard answers as the strings huh edits.
type setupValues struct {
	Name      string
	Budget    string
	SalaryDay string
	Currency  string
	Theme     string
	Period    string
}

func runSetup(_ *cobra.Command, _ []string) error {
	// The wizard waits on the user, so no deadline.
	ctx := context.Background()
	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	st := s.tracker.State()
	v := setupValues{
		Name:      st.Profile.Name,
		Budget:    st.Budget.MonthlyBudget.String(),
		SalaryDay: strconv.Itoa(st.Budget.SalaryDay),
		Currency:  s.cfg.General.CurrencySymbol,
		Theme:     s.cfg.Appearance.Theme,
		Period:    s.cfg.General.DefaultPeriod,
	}

	themeOpts := []huh.Option[string]{huh.NewOption("Auto (follow dark mode)", "")}
	for _, name := range theme.Names() {
		themeOpts = append(themeOpts, huh.NewOption(name, name))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to kharcha!").
				Description(fmt.Sprintf("Your ledger lives in %s", s.cfg.DBPath())),
			huh.NewInput().Title("Your name").Value(&v.Name),
			huh.NewInput().Title("Monthly budget").Value(&v.Budget).Validate(validatePositive),
			huh.NewInput().Title("Salary day (1-31)").Value(&v.SalaryDay).Validate(validateDay),
		),
		huh.NewGroup(
			huh.NewInput().Title("Currency symbol").Value(&v.Currency),
			huh.NewSelect[string]().Title("Color theme").Options(themeOpts...).Value(&v.Theme),
			huh.NewSelect[string]().
				Title("Default period").
				Options(
					huh.NewOption("Today", "today"),
					huh.NewOption("This week", "week"),
					huh.NewOption("This month", "month"),
					huh.NewOption("All time", "all"),
				).
				Value(&v.Period),
		),
	).WithTheme(huh.ThemeCharm())

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled.")
			return nil
		}
		return fmt.Errorf("setup form: %w", err)
	}

	budget, _ := decimal.NewFromString(strings.TrimSpace(v.Budget))
	day, _ := strconv.Atoi(strings.TrimSpace(v.SalaryDay))

	profile := st.Profile
	profile.Name = strings.TrimSpace(v.Name)
	if err := s.tracker.SetProfile(ctx, profile); err != nil {
		return err
	}
	if err := s.tracker.SetBudget(ctx, budget); err != nil {
		return err
	}
	if err := s.tracker.SetSalaryDay(ctx, day); err != nil {
		return err
	}

	cfg := s.cfg
	if c := strings.TrimSpace(v.Currency); c != "" {
		cfg.General.CurrencySymbol = c
	}
	cfg.Appearance.Theme = v.Theme
	cfg.General.DefaultPeriod = v.Period
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	cli.CurrencySymbol = cfg.General.CurrencySymbol

	fmt.Println()
	fmt.Printf("  Budget %s, salary on day %d\n", cli.FormatAmount(budget), day)
	fmt.Printf("  Saved to %s\n", config.Path())
	fmt.Println("  Run `kharcha setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}

func validatePositive(s string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || !d.IsPositive() {
		return errors.New("enter an amount greater than zero")
	}
	return nil
}

func validateDay(s string) error {
	d, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || d < 1 || d > 31 {
		return errors.New("enter a day between 1 and 31")
	}
	return nil
}
