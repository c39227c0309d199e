package cmd

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/kharcha/internal/cli"
	"github.com/theirongolddev/kharcha/internal/pipeline"
)

var (
	flagTrendDays int
	flagTrendYear int
)

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Daily spending trend and monthly totals",
	RunE:  runTrend,
}

func init() {
	trendCmd.Flags().IntVar(&flagTrendDays, "days", 7, "Number of days in the daily trend")
	trendCmd.Flags().IntVar(&flagTrendYear, "year", 0, "Year for the monthly chart (default current)")
	rootCmd.AddCommand(trendCmd)
}

func runTrend(_ *cobra.Command, _ []string) error {
	if flagTrendDays < 1 {
		return fmt.Errorf("--days must be at least 1")
	}
	return withSession(func(_ context.Context, s *session) error {
		now := s.tracker.Now()
		records := s.tracker.Expenses()

		days := pipeline.DailyTotals(records, now, flagTrendDays)
		values := make([]decimal.Decimal, len(days))
		rows := make([][]string, 0, len(days))
		for i, d := range days {
			values[i] = d.Total
			rows = append(rows, []string{
				d.Date.Format("2006-01-02"),
				cli.FormatDayOfWeek(int(d.Date.Weekday())),
				cli.FormatNumber(int64(d.Count)),
				cli.FormatAmount(d.Total),
			})
		}

		fmt.Println()
		fmt.Println(cli.RenderTitle(fmt.Sprintf("DAILY SPEND  Last %dd", flagTrendDays)))
		fmt.Println()
		fmt.Printf("  %s\n\n", cli.RenderSparkline(values))
		fmt.Print(cli.RenderTable(cli.Table{
			Headers: []string{"Date", "Day", "Count", "Total"},
			Rows:    rows,
		}))

		year := flagTrendYear
		if year == 0 {
			year = now.Year()
		}
		months := pipeline.MonthlyTotals(records, year)
		peak := decimal.Zero
		for _, m := range months {
			peak = decimal.Max(peak, m.Total)
		}

		fmt.Println()
		fmt.Printf("  Monthly totals %d\n\n", year)
		for _, m := range months {
			bar := cli.RenderHorizontalBar(m.Month.String()[:3], m.Total, peak, 30)
			fmt.Printf("%s  %s\n", bar, cli.Muted(cli.FormatAmount(m.Total)))
		}
		return nil
	})
}
