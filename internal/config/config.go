// Package config handles kharcha configuration loading and saving.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/theirongolddev/kharcha/internal/pipeline"
)

const appName = "kharcha"

// Environment overrides.
const (
	EnvDB         = "KHARCHA_DB"
	EnvTheme      = "KHARCHA_THEME"
	EnvLogLevel   = "KHARCHA_LOG_LEVEL"
	EnvDaemonAddr = "KHARCHA_DAEMON_ADDR"
)

// Config holds all kharcha configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Appearance AppearanceConfig `toml:"appearance"`
	Daemon     DaemonConfig     `toml:"daemon"`
	Log        LogConfig        `toml:"log"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DefaultPeriod  string `toml:"default_period"`
	CurrencySymbol string `toml:"currency_symbol"`
	DBPath         string `toml:"db_path,omitempty"`
}

// AppearanceConfig holds theme settings. An empty theme follows the
// dark-mode preference stored with the ledger.
type AppearanceConfig struct {
	Theme string `toml:"theme,omitempty"`
}

// DaemonConfig holds background daemon settings.
type DaemonConfig struct {
	Addr           string `toml:"addr"`
	StreakSchedule string `toml:"streak_schedule"`
	ReminderScan   string `toml:"reminder_schedule"`
	ReminderWindow int    `toml:"reminder_window_days"`
	RefreshSeconds int    `toml:"refresh_seconds"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultPeriod:  "month",
			CurrencySymbol: "₹",
		},
		Daemon: DaemonConfig{
			Addr:           "127.0.0.1:8788",
			StreakSchedule: "0 5 0 * * *",
			ReminderScan:   "0 0 9 * * *",
			ReminderWindow: 3,
			RefreshSeconds: 30,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName)
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", appName)
}

// CacheDir returns the XDG-compliant cache directory used for daemon
// pid and log files.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", appName)
}

// DBPath returns the state database path for cfg.
func (c Config) DBPath() string {
	if c.General.DBPath != "" {
		return c.General.DBPath
	}
	return filepath.Join(DataDir(), appName+".db")
}

// RefreshInterval returns the daemon snapshot refresh interval.
func (c Config) RefreshInterval() time.Duration {
	return time.Duration(c.Daemon.RefreshSeconds) * time.Second
}

// Load reads the config file, returning defaults if it doesn't exist.
// A .env file next to the config and KHARCHA_* variables override it.
func Load() (Config, error) {
	cfg := DefaultConfig()

	if err := godotenv.Load(filepath.Join(Dir(), ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("reading .env: %w", err)
	}

	data, err := os.ReadFile(Path())
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvDB); v != "" {
		cfg.General.DBPath = v
	}
	if v := os.Getenv(EnvTheme); v != "" {
		cfg.Appearance.Theme = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(EnvDaemonAddr); v != "" {
		cfg.Daemon.Addr = v
	}
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(Path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

var scheduleParser = cron.NewParser(
	cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ParseSchedule parses a six-field cron expression or descriptor.
func ParseSchedule(spec string) (cron.Schedule, error) {
	return scheduleParser.Parse(spec)
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var problems []string

	if _, err := pipeline.ParsePeriod(c.General.DefaultPeriod, time.Time{}, time.Time{}); err != nil || c.General.DefaultPeriod == "custom" {
		problems = append(problems, fmt.Sprintf("general.default_period %q is not a named period", c.General.DefaultPeriod))
	}
	if strings.TrimSpace(c.General.CurrencySymbol) == "" {
		problems = append(problems, "general.currency_symbol is empty")
	}

	host, _, err := net.SplitHostPort(c.Daemon.Addr)
	switch {
	case err != nil:
		problems = append(problems, fmt.Sprintf("daemon.addr %q: %v", c.Daemon.Addr, err))
	case host != "localhost" && !isLoopback(host):
		problems = append(problems, fmt.Sprintf("daemon.addr %q must be a loopback address", c.Daemon.Addr))
	}
	if _, err := ParseSchedule(c.Daemon.StreakSchedule); err != nil {
		problems = append(problems, fmt.Sprintf("daemon.streak_schedule: %v", err))
	}
	if _, err := ParseSchedule(c.Daemon.ReminderScan); err != nil {
		problems = append(problems, fmt.Sprintf("daemon.reminder_schedule: %v", err))
	}
	if c.Daemon.ReminderWindow < 0 {
		problems = append(problems, "daemon.reminder_window_days cannot be negative")
	}
	if c.Daemon.RefreshSeconds < 1 {
		problems = append(problems, "daemon.refresh_seconds must be at least 1")
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func isLoopback(host string) bool {
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
