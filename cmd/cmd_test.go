package cmd

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/kharcha/internal/config"
	"github.com/theirongolddev/kharcha/internal/export"
	"github.com/theirongolddev/kharcha/internal/pipeline"
)

func resetPeriodFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		flagPeriod, flagFrom, flagTo = "", "", ""
	})
}

func TestSelectedPeriodFallsBackToConfig(t *testing.T) {
	resetPeriodFlags(t)
	cfg := config.DefaultConfig()
	cfg.General.DefaultPeriod = "week"

	p, err := selectedPeriod(cfg)
	require.NoError(t, err)
	assert.Equal(t, pipeline.PeriodWeek, p.Kind)

	flagPeriod = "today"
	p, err = selectedPeriod(cfg)
	require.NoError(t, err)
	assert.Equal(t, pipeline.PeriodToday, p.Kind)
}

func TestSelectedPeriodFromToImpliesCustom(t *testing.T) {
	resetPeriodFlags(t)
	flagFrom, flagTo = "2024-03-01", "2024-03-10"

	p, err := selectedPeriod(config.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, pipeline.PeriodCustom, p.Kind)
	assert.Equal(t, 10, p.End.Day())

	flagFrom = "2024-03-11"
	_, err = selectedPeriod(config.DefaultConfig())
	assert.Error(t, err)

	flagFrom, flagTo = "", "2024-03-10"
	_, err = selectedPeriod(config.DefaultConfig())
	assert.Error(t, err, "custom range needs both ends")
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.February, d.Month())
	assert.Equal(t, time.Local, d.Location())

	_, err = parseDate("29/02/2024")
	assert.ErrorContains(t, err, "YYYY-MM-DD")
}

func TestExportFormat(t *testing.T) {
	tests := []struct {
		explicit, path string
		want           export.Format
		wantErr        bool
	}{
		{"", "", export.CSV, false},
		{"", "out.json", export.JSON, false},
		{"", "out.yml", export.YAML, false},
		{"csv", "out.json", export.CSV, false},
		{"xml", "", "", true},
		{"", "out.txt", "", true},
	}
	for _, tt := range tests {
		got, err := exportFormat(tt.explicit, tt.path)
		if tt.wantErr {
			assert.Error(t, err, "%q %q", tt.explicit, tt.path)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestSetupValidators(t *testing.T) {
	assert.NoError(t, validatePositive("25000"))
	assert.NoError(t, validatePositive(" 99.50 "))
	assert.Error(t, validatePositive("0"))
	assert.Error(t, validatePositive("-5"))
	assert.Error(t, validatePositive("lots"))

	assert.NoError(t, validateDay("1"))
	assert.NoError(t, validateDay("31"))
	assert.Error(t, validateDay("0"))
	assert.Error(t, validateDay("32"))
	assert.Error(t, validateDay("first"))
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "abc", shortID("abc"))
	assert.Equal(t, "0190a1b2-7c3d", shortID("0190a1b2-7c3d-7e4f-8a9b-0c1d2e3f4a5b"))
}

func TestFilterDetachArg(t *testing.T) {
	got := filterDetachArg([]string{"daemon", "--detach", "--addr", "127.0.0.1:9000", "--detach=true"})
	assert.Equal(t, []string{"daemon", "--addr", "127.0.0.1:9000"}, got)
}

func TestDaemonPIDAndState(t *testing.T) {
	dir := t.TempDir()
	pidFile := filepath.Join(dir, "kharchad.pid")

	require.NoError(t, writePID(pidFile, 4242))
	pid, err := readPID(pidFile)
	require.NoError(t, err)
	assert.Equal(t, 4242, pid)

	st := daemonRuntimeState{PID: 4242, Addr: "127.0.0.1:8765", DBPath: "/tmp/k.db"}
	require.NoError(t, writeState(statePath(pidFile), st))
	got, err := readState(statePath(pidFile))
	require.NoError(t, err)
	assert.Equal(t, st.Addr, got.Addr)
	assert.Equal(t, st.DBPath, got.DBPath)

	assert.NoError(t, ensureDaemonNotRunning(filepath.Join(dir, "missing.pid")))
}
