// Package cmd implements the kharcha CLI commands.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/kharcha/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Default period:  %s\n", cfg.General.DefaultPeriod)
	fmt.Printf("    Currency symbol: %s\n", cfg.General.CurrencySymbol)
	fmt.Printf("    Database:        %s\n", cfg.DBPath())
	fmt.Println()

	fmt.Println("  [Appearance]")
	if cfg.Appearance.Theme == "" {
		fmt.Println("    Theme: auto (follows dark mode)")
	} else {
		fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	}
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:          %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Streak schedule:  %s\n", cfg.Daemon.StreakSchedule)
	fmt.Printf("    Reminder scan:    %s (window %d days)\n", cfg.Daemon.ReminderScan, cfg.Daemon.ReminderWindow)
	fmt.Printf("    Refresh:          %s\n", cfg.RefreshInterval())
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level: %s  Development: %v\n", cfg.Log.Level, cfg.Log.Development)
	fmt.Println()

	if err := cfg.Validate(); err != nil {
		fmt.Printf("  Problems: %v\n\n", err)
	}

	fmt.Println("  Run `kharcha setup` to reconfigure.")
	return nil
}
