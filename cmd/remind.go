package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/kharcha/internal/cli"
	"github.com/theirongolddev/kharcha/internal/model"
	"github.com/theirongolddev/kharcha/internal/pipeline"
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Bill reminders",
	RunE:  runRemindList,
}

var remindAddCmd = &cobra.Command{
	Use:   "add <title> <amount> <due YYYY-MM-DD>",
	Short: "Add a bill reminder",
	Args:  cobra.ExactArgs(3),
	RunE:  runRemindAdd,
}

var remindListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bill reminders with countdowns",
	RunE:  runRemindList,
}

var remindRemoveCmd = &cobra.Command{
	Use:   "remove <number>",
	Short: "Remove a reminder by its list number",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemindRemove,
}

func init() {
	remindCmd.AddCommand(remindAddCmd)
	remindCmd.AddCommand(remindListCmd)
	remindCmd.AddCommand(remindRemoveCmd)
	rootCmd.AddCommand(remindCmd)
}

func runRemindAdd(_ *cobra.Command, args []string) error {
	amount, err := decimal.NewFromString(args[1])
	if err != nil {
		return fmt.Errorf("invalid amount %q", args[1])
	}
	due, err := parseDate(args[2])
	if err != nil {
		return err
	}
	return withSession(func(ctx context.Context, s *session) error {
		r := model.Reminder{Title: args[0], Amount: amount, DueDate: due}
		if err := s.tracker.AddReminder(ctx, r); err != nil {
			return err
		}
		fmt.Printf("  Reminder added: %s %s due %s\n", strings.TrimSpace(args[0]), cli.FormatAmount(amount), cli.FormatDate(due))
		return nil
	})
}

func runRemindList(_ *cobra.Command, _ []string) error {
	return withSession(func(_ context.Context, s *session) error {
		statuses := pipeline.ReminderStatuses(s.tracker.Reminders(), s.tracker.Now())
		if len(statuses) == 0 {
			fmt.Println("\n  No bill reminders.")
			return nil
		}

		rows := make([][]string, 0, len(statuses))
		for _, rs := range statuses {
			left := cli.FormatDaysLeft(rs.DaysLeft)
			switch {
			case rs.DaysLeft < 0:
				left = cli.StatusStyle(model.StatusDanger).Render(left)
			case rs.Urgent:
				left = cli.StatusStyle(model.StatusWarning).Render(left)
			}
			rows = append(rows, []string{
				strconv.Itoa(rs.Index + 1),
				rs.Reminder.Title,
				cli.FormatAmount(rs.Reminder.Amount),
				cli.FormatDate(rs.Reminder.DueDate),
				left,
			})
		}

		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Bill Reminders",
			Headers: []string{"#", "Bill", "Amount", "Due", "Countdown"},
			Rows:    rows,
		}))
		return nil
	})
}

func runRemindRemove(_ *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid reminder number %q", args[0])
	}
	return withSession(func(ctx context.Context, s *session) error {
		removed, err := s.tracker.RemoveReminder(ctx, n-1)
		if err != nil {
			return err
		}
		if !removed {
			fmt.Printf("  No reminder #%d\n", n)
			return nil
		}
		fmt.Printf("  Removed reminder #%d\n", n)
		return nil
	})
}
