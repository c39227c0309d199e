package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/kharcha/internal/cli"
	"github.com/theirongolddev/kharcha/internal/pipeline"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Dashboard summary of spending and budget",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	return withSession(func(ctx context.Context, s *session) error {
		if _, err := s.tracker.EvaluateStreak(ctx); err != nil {
			return err
		}
		st := s.tracker.State()
		now := s.tracker.Now()
		snap := pipeline.Snapshot(st, now)

		if snap.Expenses == 0 {
			fmt.Println("\n  No expenses recorded yet.")
			fmt.Println("  Add one with: kharcha add 250 --category food --notes lunch")
			return nil
		}

		greeting := pipeline.Greeting(now)
		if st.Profile.Name != "" {
			greeting += ", " + st.Profile.Name
		}

		fmt.Println()
		fmt.Println(cli.RenderTitle(fmt.Sprintf("KHARCHA  %s", now.Format("January 2006"))))
		fmt.Printf("  %s\n\n", greeting)

		month := snap.Month
		rows := [][]string{
			{"Today", cli.FormatAmount(snap.Today)},
			{"This Week", cli.FormatAmount(snap.Week)},
			{"This Month", cli.FormatAmount(month.Total)},
			{"All Time", cli.FormatAmount(snap.AllTime)},
			{"---"},
			{"Monthly Budget", cli.FormatAmount(month.Budget)},
		}
		if month.HasBudget {
			rows = append(rows,
				[]string{"Remaining", cli.StatusStyle(month.Status).Render(cli.FormatAmount(month.SignedRemaining))},
				[]string{"Used", cli.RenderProgressBar(month.PercentUsed, month.Status, 20)},
				[]string{"Status", cli.StatusStyle(month.Status).Render(cli.StatusLabel(month.Status))},
			)
		}
		rows = append(rows,
			[]string{"---"},
			[]string{"Days to Salary", fmt.Sprintf("%d", snap.Salary.DaysUntilSalary)},
			[]string{"Safe Daily Spend", cli.FormatAmount(snap.Salary.SafeDailySpend)},
			[]string{"Streak", fmt.Sprintf("%d days", snap.Streak)},
		)

		fmt.Print(cli.RenderTable(cli.Table{
			Headers: []string{"Metric", "Value"},
			Rows:    rows,
		}))

		if msg := cli.FeedbackMessage(month.Feedback); msg != "" {
			fmt.Printf("\n  %s\n", msg)
		}

		due := pipeline.DueWithin(st.Reminders, now, 3)
		if len(due) > 0 {
			fmt.Println()
			for _, rs := range due {
				fmt.Printf("  ⏰ %s %s (%s)\n", rs.Reminder.Title,
					cli.FormatAmount(rs.Reminder.Amount), cli.FormatDaysLeft(rs.DaysLeft))
			}
		}
		fmt.Println()
		return nil
	})
}
