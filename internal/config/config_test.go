package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	for _, k := range []string{EnvDB, EnvTheme, EnvLogLevel, EnvDaemonAddr} {
		t.Setenv(k, "")
		_ = os.Unsetenv(k)
	}
	return dir
}

func TestLoadMissingReturnsDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.False(t, Exists())
	assert.Equal(t, filepath.Join(dir, "data", "kharcha", "kharcha.db"), cfg.DBPath())
	require.NoError(t, cfg.Validate())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	isolate(t)

	cfg := DefaultConfig()
	cfg.Appearance.Theme = "tokyo-night"
	cfg.Daemon.ReminderWindow = 5
	cfg.General.DefaultPeriod = "week"
	require.NoError(t, Save(cfg))
	assert.True(t, Exists())

	info, err := os.Stat(Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestEnvOverrides(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "kharcha"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "kharcha", ".env"),
		[]byte("KHARCHA_THEME=terminal\n"), 0o600))
	t.Setenv(EnvDB, "/tmp/other.db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/other.db", cfg.DBPath())
	assert.Equal(t, "terminal", cfg.Appearance.Theme)
}

func TestParseError(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "kharcha"), 0o755))
	require.NoError(t, os.WriteFile(Path(), []byte("[general\n"), 0o600))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestValidateCollectsProblems(t *testing.T) {
	cfg := DefaultConfig()
	cfg.General.DefaultPeriod = "fortnight"
	cfg.Daemon.Addr = "0.0.0.0:8788"
	cfg.Daemon.StreakSchedule = "every day"
	cfg.Log.Level = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "default_period")
	assert.Contains(t, msg, "loopback")
	assert.Contains(t, msg, "streak_schedule")
	assert.Contains(t, msg, "log.level")
	assert.NotContains(t, msg, "reminder_schedule")
}
