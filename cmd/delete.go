package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete an expense by id or unique id prefix",
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(_ *cobra.Command, args []string) error {
	return withSession(func(ctx context.Context, s *session) error {
		id, ok, err := s.tracker.ResolveID(args[0])
		if err != nil {
			return err
		}
		if !ok {
			fmt.Printf("  No expense matches %s\n", args[0])
			return nil
		}
		if _, err := s.tracker.RemoveExpense(ctx, id); err != nil {
			return fmt.Errorf("deleting expense: %w", err)
		}
		fmt.Printf("  Deleted %s\n", id)
		return nil
	})
}
