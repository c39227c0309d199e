package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/kharcha/internal/cli"
	"github.com/theirongolddev/kharcha/internal/model"
	"github.com/theirongolddev/kharcha/internal/pipeline"
)

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Show monthly and category budgets",
	RunE:  runBudget,
}

var budgetSetCmd = &cobra.Command{
	Use:   "set <amount>",
	Short: "Set the monthly budget",
	Args:  cobra.ExactArgs(1),
	RunE:  runBudgetSet,
}

var budgetCategoryCmd = &cobra.Command{
	Use:   "category <category> <amount>",
	Short: "Set a category budget (0 clears it)",
	Args:  cobra.ExactArgs(2),
	RunE:  runBudgetCategory,
}

var budgetSalaryDayCmd = &cobra.Command{
	Use:   "salary-day <1-31>",
	Short: "Set the day of month your salary arrives",
	Args:  cobra.ExactArgs(1),
	RunE:  runBudgetSalaryDay,
}

func init() {
	budgetCmd.AddCommand(budgetSetCmd)
	budgetCmd.AddCommand(budgetCategoryCmd)
	budgetCmd.AddCommand(budgetSalaryDayCmd)
	rootCmd.AddCommand(budgetCmd)
}

func runBudget(_ *cobra.Command, _ []string) error {
	return withSession(func(_ context.Context, s *session) error {
		now := s.tracker.Now()
		cfg := s.tracker.Budget()
		month, _ := pipeline.Select(s.tracker.Expenses(), pipeline.ThisMonth(), now)
		status := pipeline.Evaluate(pipeline.TotalSpent(month), cfg.MonthlyBudget)

		fmt.Println()
		fmt.Println(cli.RenderTitle("BUDGET  " + now.Format("January 2006")))
		fmt.Println()

		fmt.Printf("  Monthly budget   %s\n", cli.FormatAmount(cfg.MonthlyBudget))
		fmt.Printf("  Spent            %s\n", cli.FormatAmount(status.Total))
		fmt.Printf("  Remaining        %s\n", cli.StatusStyle(status.Status).Render(cli.FormatAmount(status.SignedRemaining)))
		if status.HasBudget {
			fmt.Printf("  Used             %s  %s\n",
				cli.RenderProgressBar(status.PercentUsed, status.Status, 24),
				cli.StatusStyle(status.Status).Render(cli.StatusLabel(status.Status)))
		}
		fmt.Printf("  Daily limit      %s\n", cli.FormatAmount(pipeline.DailyLimit(cfg)))
		fmt.Printf("  Salary day       %d\n", cfg.SalaryDay)
		fmt.Println()

		rows := make([][]string, 0, len(model.Categories))
		for _, cb := range pipeline.CategoryBudgets(month, cfg) {
			if !cb.HasBudget {
				rows = append(rows, []string{cb.Category.Label(), cli.FormatAmount(cb.Spent), "-", "-", cli.Muted("not set")})
				continue
			}
			rows = append(rows, []string{
				cb.Category.Label(),
				cli.FormatAmount(cb.Spent),
				cli.FormatAmount(cb.Budget),
				cli.FormatAmount(cb.Left),
				cli.RenderProgressBar(cb.PercentUsed, cb.Status, 12),
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Category Budgets",
			Headers: []string{"Category", "Spent", "Budget", "Left", "Used"},
			Rows:    rows,
		}))
		return nil
	})
}

func runBudgetSet(_ *cobra.Command, args []string) error {
	amount, err := decimal.NewFromString(args[0])
	if err != nil {
		return fmt.Errorf("invalid amount %q", args[0])
	}
	return withSession(func(ctx context.Context, s *session) error {
		if err := s.tracker.SetBudget(ctx, amount); err != nil {
			return err
		}
		fmt.Printf("  Monthly budget set to %s\n", cli.FormatAmount(amount))
		return nil
	})
}

func runBudgetCategory(_ *cobra.Command, args []string) error {
	c, err := model.ParseCategory(args[0])
	if err != nil {
		return err
	}
	amount, err := decimal.NewFromString(args[1])
	if err != nil {
		return fmt.Errorf("invalid amount %q", args[1])
	}
	return withSession(func(ctx context.Context, s *session) error {
		if err := s.tracker.SetCategoryBudget(ctx, c, amount); err != nil {
			return err
		}
		if amount.IsZero() {
			fmt.Printf("  %s budget cleared\n", c.Label())
		} else {
			fmt.Printf("  %s budget set to %s\n", c.Label(), cli.FormatAmount(amount))
		}
		return nil
	})
}

func runBudgetSalaryDay(_ *cobra.Command, args []string) error {
	day, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid day %q", args[0])
	}
	return withSession(func(ctx context.Context, s *session) error {
		if err := s.tracker.SetSalaryDay(ctx, day); err != nil {
			return err
		}
		fmt.Printf("  Salary day set to %d\n", day)
		return nil
	})
}
