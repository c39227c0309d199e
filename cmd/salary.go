package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/kharcha/internal/cli"
	"github.com/theirongolddev/kharcha/internal/pipeline"
)

var salaryCmd = &cobra.Command{
	Use:   "salary",
	Short: "Days until salary and safe daily spend",
	RunE:  runSalary,
}

func init() {
	rootCmd.AddCommand(salaryCmd)
}

func runSalary(_ *cobra.Command, _ []string) error {
	return withSession(func(_ context.Context, s *session) error {
		now := s.tracker.Now()
		proj := pipeline.SalaryCycle(s.tracker.Expenses(), s.tracker.Budget(), now)

		fmt.Println()
		fmt.Println(cli.RenderTitle("SALARY CYCLE"))
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Headers: []string{"Metric", "Value"},
			Rows: [][]string{
				{"Next payday", fmt.Sprintf("%s (%s)", cli.FormatDate(proj.NextPayday), proj.NextPayday.Format("Mon"))},
				{"Days until salary", fmt.Sprintf("%d", proj.DaysUntilSalary)},
				{"Budget remaining", cli.FormatAmount(proj.Remaining)},
				{"Safe daily spend", cli.FormatAmount(proj.SafeDailySpend)},
			},
		}))
		return nil
	})
}
