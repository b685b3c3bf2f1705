package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"LOG_LEVEL", "LOG_FORMAT", "BINSCOPE_DB", "BINSCOPE_METRICS_TEXTFILE"} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 0.02, cfg.Engine.RiskFreeRate)
	assert.Equal(t, 0.003, cfg.Engine.FeeRate)
	assert.Equal(t, 0.10, cfg.Engine.CashReserve)
	assert.Equal(t, 0.10, cfg.Engine.ILPriceChange)
	assert.Equal(t, 10, cfg.Rebalance.BinCount)
	assert.Equal(t, int64(5000), cfg.Rebalance.LamportsPerSignature)
	assert.Equal(t, 10_000.0, cfg.Backtest.InitialCapital)
	assert.Equal(t, "binscope.db", cfg.Storage.DSN)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Empty(t, cfg.Metrics.Textfile)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
engine:
  fee_rate: 0.0025
  cash_reserve: 0.2
rebalance:
  bin_count: 20
backtest:
  workers: 4
storage:
  dsn: ":memory:"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.0025, cfg.Engine.FeeRate)
	assert.Equal(t, 0.2, cfg.Engine.CashReserve)
	assert.Equal(t, 20, cfg.Rebalance.BinCount)
	assert.Equal(t, 4, cfg.Backtest.Workers)
	assert.Equal(t, ":memory:", cfg.Storage.DSN)
	assert.Equal(t, 0.02, cfg.Engine.RiskFreeRate)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("BINSCOPE_DB", "/tmp/series.db")
	t.Setenv("BINSCOPE_METRICS_TEXTFILE", "/tmp/binscope.prom")

	cfg, err := Load(writeConfig(t, "log:\n  level: warn\n"))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "/tmp/series.db", cfg.Storage.DSN)
	assert.Equal(t, "/tmp/binscope.prom", cfg.Metrics.Textfile)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "engine: [not, a, map]"))
	assert.Error(t, err)
}

func TestLoad_ExampleFile(t *testing.T) {
	cfg, err := Load("config.yaml")
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Rebalance.BinCount)
	assert.Equal(t, 0.10, cfg.Engine.ILPriceChange)
}
