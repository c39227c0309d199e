package cmd

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/kharcha/internal/cli"
	"github.com/theirongolddev/kharcha/internal/model"
)

var (
	flagAddCategory string
	flagAddNotes    string
	flagAddDate     string
)

var addCmd = &cobra.Command{
	Use:   "add <amount>",
	Short: "Add an expense",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&flagAddCategory, "category", "c", "", "Category (default: last used)")
	addCmd.Flags().StringVarP(&flagAddNotes, "notes", "m", "", "Optional notes")
	addCmd.Flags().StringVar(&flagAddDate, "date", "", "Expense date YYYY-MM-DD (default today)")
	rootCmd.AddCommand(addCmd)
}

func runAdd(_ *cobra.Command, args []string) error {
	amount, err := decimal.NewFromString(args[0])
	if err != nil {
		return fmt.Errorf("invalid amount %q", args[0])
	}

	return withSession(func(ctx context.Context, s *session) error {
		in := model.ExpenseInput{Amount: amount, Notes: flagAddNotes, Date: s.tracker.Now()}

		in.Category = s.tracker.State().Preferences.SelectedCategory
		if flagAddCategory != "" {
			if in.Category, err = model.ParseCategory(flagAddCategory); err != nil {
				return err
			}
		}
		if !in.Category.Valid() {
			in.Category = model.Food
		}
		if flagAddDate != "" {
			if in.Date, err = parseDate(flagAddDate); err != nil {
				return err
			}
		}

		e, status, err := s.tracker.AddExpense(ctx, in)
		if err != nil {
			return fmt.Errorf("adding expense: %w", err)
		}

		fmt.Printf("  Added %s %s on %s  (id %s)\n",
			cli.FormatAmount(e.Amount), e.Category.Label(), cli.FormatDate(e.Date), shortID(e.ID))
		if status.HasBudget {
			fmt.Printf("  This month %s\n", cli.RenderProgressBar(status.PercentUsed, status.Status, 20))
		}
		if msg := cli.FeedbackMessage(status.Feedback); msg != "" {
			fmt.Printf("  %s\n", msg)
		}
		return nil
	})
}

// shortID is the displayed id prefix. delete accepts any unique prefix.
func shortID(id string) string {
	if len(id) > 13 {
		return id[:13]
	}
	return id
}
