package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/kharcha/internal/cli"
	"github.com/theirongolddev/kharcha/internal/export"
	"github.com/theirongolddev/kharcha/internal/pipeline"
)

var (
	flagImportFormat string
	flagImportDryRun bool
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import expenses from a CSV, JSON or YAML export",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	importCmd.Flags().StringVarP(&flagImportFormat, "format", "f", "", "csv, json or yaml (default from file extension)")
	importCmd.Flags().BoolVar(&flagImportDryRun, "dry-run", false, "Validate the file without saving")
	rootCmd.AddCommand(importCmd)
}

func runImport(_ *cobra.Command, args []string) error {
	path := args[0]
	format, err := exportFormat(flagImportFormat, path)
	if err != nil {
		return err
	}

	//nolint:gosec // import path is chosen by the local user
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening import file: %w", err)
	}
	defer func() { _ = f.Close() }()

	inputs, err := export.Read(f, format, time.Local)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if len(inputs) == 0 {
		fmt.Println("  Nothing to import.")
		return nil
	}

	total := inputs[0].Amount
	for _, in := range inputs[1:] {
		total = total.Add(in.Amount)
	}

	if flagImportDryRun {
		fmt.Printf("  %d expenses totalling %s would be imported\n", len(inputs), cli.FormatAmount(total))
		return nil
	}

	return withSession(func(ctx context.Context, s *session) error {
		n, err := s.tracker.ImportExpenses(ctx, inputs)
		if err != nil {
			return fmt.Errorf("importing: %w", err)
		}
		month, _ := pipeline.Select(s.tracker.Expenses(), pipeline.ThisMonth(), s.tracker.Now())
		fmt.Printf("  Imported %d expenses totalling %s\n", n, cli.FormatAmount(total))
		fmt.Printf("  This month is now %s\n", cli.FormatAmount(pipeline.TotalSpent(month)))
		return nil
	})
}
