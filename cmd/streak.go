package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/kharcha/internal/cli"
	"github.com/theirongolddev/kharcha/internal/pipeline"
)

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Evaluate and show the under-budget streak",
	RunE:  runStreak,
}

func init() {
	rootCmd.AddCommand(streakCmd)
}

func runStreak(_ *cobra.Command, _ []string) error {
	return withSession(func(ctx context.Context, s *session) error {
		streak, err := s.tracker.EvaluateStreak(ctx)
		if err != nil {
			return fmt.Errorf("evaluating streak: %w", err)
		}
		limit := pipeline.DailyLimit(s.tracker.Budget())
		fmt.Printf("  🔥 %d day streak\n", streak)
		fmt.Printf("  %s\n", cli.Muted(fmt.Sprintf("Days spent within the daily limit of %s", cli.FormatAmount(limit))))
		return nil
	})
}
