package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/kharcha/internal/cli"
	"github.com/theirongolddev/kharcha/internal/model"
	"github.com/theirongolddev/kharcha/internal/pipeline"
)

var (
	flagListCategory string
	flagListLimit    int
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List expenses for a period",
	RunE:    runList,
}

func init() {
	listCmd.Flags().StringVarP(&flagListCategory, "category", "c", "", "Filter to one category")
	listCmd.Flags().IntVarP(&flagListLimit, "limit", "l", 0, "Show at most N expenses (0 = all)")
	rootCmd.AddCommand(listCmd)
}

func runList(_ *cobra.Command, _ []string) error {
	return withSession(func(_ context.Context, s *session) error {
		period, err := selectedPeriod(s.cfg)
		if err != nil {
			return err
		}

		records, err := pipeline.Select(s.tracker.Expenses(), period, s.tracker.Now())
		if err != nil {
			return err
		}
		title := period.String()
		if flagListCategory != "" {
			c, err := model.ParseCategory(flagListCategory)
			if err != nil {
				return err
			}
			records = pipeline.FilterByCategory(records, c)
			title += "  " + c.Label()
		}
		records = pipeline.SortByDate(records)

		if len(records) == 0 {
			fmt.Println("\n  No expenses in the selected period.")
			return nil
		}

		total := pipeline.TotalSpent(records)
		shown := records
		if flagListLimit > 0 && len(shown) > flagListLimit {
			shown = shown[:flagListLimit]
		}

		fmt.Println()
		fmt.Println(cli.RenderTitle("EXPENSES  " + title))
		fmt.Println()

		rows := make([][]string, 0, len(shown)+2)
		for _, e := range shown {
			rows = append(rows, []string{
				cli.FormatDate(e.Date),
				e.Category.Label(),
				cli.FormatAmount(e.Amount),
				e.Notes,
				shortID(e.ID),
			})
		}
		rows = append(rows, []string{"---"})
		rows = append(rows, []string{fmt.Sprintf("%d items", len(records)), "", cli.FormatAmount(total), "", ""})

		fmt.Print(cli.RenderTable(cli.Table{
			Headers: []string{"Date", "Category", "Amount", "Notes", "ID"},
			Rows:    rows,
		}))
		return nil
	})
}
