package cmd

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/kharcha/internal/cli"
	"github.com/theirongolddev/kharcha/internal/pipeline"
)

var whatifCmd = &cobra.Command{
	Use:   "whatif <daily-saving>",
	Short: "Project a daily saving over a week, month and year",
	Args:  cobra.ExactArgs(1),
	RunE:  runWhatIf,
}

func init() {
	rootCmd.AddCommand(whatifCmd)
}

func runWhatIf(_ *cobra.Command, args []string) error {
	daily, err := decimal.NewFromString(args[0])
	if err != nil {
		return fmt.Errorf("invalid amount %q", args[0])
	}
	proj, ok := pipeline.Project(daily)
	if !ok {
		return errors.New("daily saving must be greater than zero")
	}

	fmt.Println()
	fmt.Printf("  Saving %s every day adds up to\n\n", cli.FormatAmount(proj.Daily))
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Period", "Saved"},
		Rows: [][]string{
			{"Week", cli.FormatAmount(proj.Weekly)},
			{"Month", cli.FormatAmount(proj.Monthly)},
			{"Year", cli.FormatAmount(proj.Yearly)},
		},
	}))
	return nil
}
