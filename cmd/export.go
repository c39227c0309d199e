package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/kharcha/internal/export"
	"github.com/theirongolddev/kharcha/internal/pipeline"
)

var (
	flagExportFormat string
	flagExportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export expenses as CSV, JSON or YAML",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportFormat, "format", "f", "", "csv, json or yaml (default from --output extension, else csv)")
	exportCmd.Flags().StringVarP(&flagExportOutput, "output", "o", "", "Output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	format, err := exportFormat(flagExportFormat, flagExportOutput)
	if err != nil {
		return err
	}

	return withSession(func(_ context.Context, s *session) error {
		records := s.tracker.Expenses()
		if flagPeriod != "" || flagFrom != "" || flagTo != "" {
			period, err := selectedPeriod(s.cfg)
			if err != nil {
				return err
			}
			if records, err = pipeline.Select(records, period, s.tracker.Now()); err != nil {
				return err
			}
		}
		records = pipeline.SortByDate(records)

		var w io.Writer = os.Stdout
		if flagExportOutput != "" {
			f, err := os.OpenFile(flagExportOutput, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
			if err != nil {
				return fmt.Errorf("creating export file: %w", err)
			}
			defer func() { _ = f.Close() }()
			w = f
		}

		if err := export.Write(w, format, records, s.tracker.Now()); err != nil {
			return err
		}
		if flagExportOutput != "" {
			progress("  Exported %d expenses to %s\n", len(records), flagExportOutput)
		}
		return nil
	})
}

// exportFormat picks the explicit format, else the file extension, else CSV.
func exportFormat(explicit, path string) (export.Format, error) {
	if explicit != "" {
		return export.ParseFormat(explicit)
	}
	if ext := filepath.Ext(path); ext != "" {
		return export.ParseFormat(ext)
	}
	return export.CSV, nil
}
