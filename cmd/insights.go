package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/kharcha/internal/cli"
	"github.com/theirongolddev/kharcha/internal/model"
	"github.com/theirongolddev/kharcha/internal/pipeline"
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Spending insights and trends",
	RunE:  runInsights,
}

func init() {
	rootCmd.AddCommand(insightsCmd)
}

func runInsights(_ *cobra.Command, _ []string) error {
	return withSession(func(_ context.Context, s *session) error {
		now := s.tracker.Now()
		records := s.tracker.Expenses()
		list := pipeline.GenerateInsights(records, s.tracker.Budget(), now)

		fmt.Println()
		fmt.Println(cli.RenderTitle("INSIGHTS"))
		fmt.Println()

		if len(list) == 0 {
			fmt.Println("  Add a few expenses to see insights.")
			return nil
		}
		for _, in := range list {
			marker := "•"
			switch in.Kind {
			case model.InsightSuccess:
				marker = cli.StatusStyle(model.StatusNormal).Render("✓")
			case model.InsightWarning:
				marker = cli.StatusStyle(model.StatusWarning).Render("!")
			}
			fmt.Printf("  %s %s\n", marker, cli.InsightText(in))
		}

		d := pipeline.DetailedInsights(records, now)
		fmt.Println()
		rows := [][]string{
			{"Month total", cli.FormatAmount(d.MonthTotal)},
			{"Average daily", cli.FormatAmount(d.AverageDaily)},
		}
		if d.HasTopCategory {
			rows = append(rows, []string{"Top category",
				fmt.Sprintf("%s %s (%s)", d.TopCategory.Label(), cli.FormatAmount(d.TopCategoryTotal), cli.FormatPercent(d.TopCategoryPercent))})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "This Month",
			Headers: []string{"Metric", "Value"},
			Rows:    rows,
		}))
		return nil
	})
}
