package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/kharcha/internal/cli"
	"github.com/theirongolddev/kharcha/internal/pipeline"
)

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Print a one-line monthly summary to share",
	RunE:  runShare,
}

func init() {
	rootCmd.AddCommand(shareCmd)
}

func runShare(_ *cobra.Command, _ []string) error {
	return withSession(func(_ context.Context, s *session) error {
		month, _ := pipeline.Select(s.tracker.Expenses(), pipeline.ThisMonth(), s.tracker.Now())
		fmt.Println(cli.ShareText(pipeline.TotalSpent(month)))
		return nil
	})
}
