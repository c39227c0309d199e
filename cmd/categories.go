package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/kharcha/internal/cli"
	"github.com/theirongolddev/kharcha/internal/pipeline"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Spending breakdown by category",
	RunE:  runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(_ *cobra.Command, _ []string) error {
	return withSession(func(_ context.Context, s *session) error {
		period, err := selectedPeriod(s.cfg)
		if err != nil {
			return err
		}
		records, err := pipeline.Select(s.tracker.Expenses(), period, s.tracker.Now())
		if err != nil {
			return err
		}

		shares := pipeline.CategoryBreakdown(records)
		if len(shares) == 0 {
			fmt.Println("\n  No expenses in the selected period.")
			return nil
		}

		fmt.Println()
		fmt.Println(cli.RenderTitle("CATEGORIES  " + period.String()))
		fmt.Println()

		rows := make([][]string, 0, len(shares)+2)
		for _, sh := range shares {
			rows = append(rows, []string{
				sh.Category.Label(),
				cli.FormatNumber(int64(sh.Count)),
				cli.FormatAmount(sh.Total),
				cli.FormatPercent(sh.Percent),
			})
		}
		rows = append(rows, []string{"---"})
		rows = append(rows, []string{"Total", "", cli.FormatAmount(pipeline.TotalSpent(records)), "100.0%"})

		fmt.Print(cli.RenderTable(cli.Table{
			Headers: []string{"Category", "Count", "Total", "Share"},
			Rows:    rows,
		}))

		maxTotal := shares[0].Total
		fmt.Println()
		for _, sh := range shares {
			fmt.Println(cli.RenderHorizontalBar(fmt.Sprintf("%-16s", sh.Category.Label()), sh.Total, maxTotal, 30))
		}
		return nil
	})
}
