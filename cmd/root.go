package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/theirongolddev/kharcha/internal/cli"
	"github.com/theirongolddev/kharcha/internal/clock"
	"github.com/theirongolddev/kharcha/internal/config"
	"github.com/theirongolddev/kharcha/internal/logging"
	"github.com/theirongolddev/kharcha/internal/pipeline"
	"github.com/theirongolddev/kharcha/internal/store"
	"github.com/theirongolddev/kharcha/internal/tracker"
)

var (
	flagDB      string
	flagPeriod  string
	flagFrom    string
	flagTo      string
	flagVerbose bool
	flagQuiet   bool
)

var rootCmd = &cobra.Command{
	Use:          "kharcha",
	Short:        "Personal expense tracker",
	Long:         "Track daily expenses against a monthly budget: totals, category budgets, salary-cycle projections and insights.",
	RunE:         runSummary,
	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "State database path (default from config)")
	rootCmd.PersistentFlags().StringVarP(&flagPeriod, "period", "p", "", "Period: today, week, month, all, custom or YYYY-MM")
	rootCmd.PersistentFlags().StringVar(&flagFrom, "from", "", "Custom period start (YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringVar(&flagTo, "to", "", "Custom period end (YYYY-MM-DD)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug output to stderr")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// session bundles everything a command needs to work on the ledger.
type session struct {
	cfg     config.Config
	log     *zap.Logger
	store   *store.Store
	tracker *tracker.Tracker
}

func (s *session) Close() {
	_ = s.log.Sync()
	_ = s.store.Close()
}

// openSession is the shared loading path used by all commands.
func openSession(ctx context.Context) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flagDB != "" {
		cfg.General.DBPath = flagDB
	}
	if cfg.General.CurrencySymbol != "" {
		cli.CurrencySymbol = cfg.General.CurrencySymbol
	}

	log := zap.NewNop()
	if flagVerbose {
		if log, err = logging.New(logging.Options{Level: "debug", Development: true}); err != nil {
			return nil, fmt.Errorf("building logger: %w", err)
		}
	}

	st, err := store.Open(cfg.DBPath())
	if err != nil {
		return nil, err
	}
	log.Debug("store opened", zap.String("path", st.Path()), zap.Uint("schema", st.SchemaVersion()))

	tr, err := tracker.Open(ctx, st, clock.System{}, tracker.WithLogger(log))
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return &session{cfg: cfg, log: log, store: st, tracker: tr}, nil
}

// withSession opens the ledger, runs fn and closes it again.
func withSession(fn func(ctx context.Context, s *session) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(ctx, s)
}

// selectedPeriod resolves --period/--from/--to, falling back to the
// configured default.
func selectedPeriod(cfg config.Config) (pipeline.Period, error) {
	name := flagPeriod
	if name == "" {
		name = cfg.General.DefaultPeriod
	}
	var from, to time.Time
	var err error
	if flagFrom != "" {
		if from, err = parseDate(flagFrom); err != nil {
			return pipeline.Period{}, err
		}
	}
	if flagTo != "" {
		if to, err = parseDate(flagTo); err != nil {
			return pipeline.Period{}, err
		}
	}
	if (flagFrom != "" || flagTo != "") && flagPeriod == "" {
		name = "custom"
	}
	return pipeline.ParsePeriod(name, from, to)
}

// parseDate reads a YYYY-MM-DD date in local time.
func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

func progress(format string, args ...any) {
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
