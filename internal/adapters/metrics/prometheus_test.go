package metrics_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alejandrodnm/binscope/internal/adapters/metrics"
	"github.com/alejandrodnm/binscope/internal/domain"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(name string, rebalances int, gas, ret float64) domain.BacktestResult {
	return domain.BacktestResult{
		Strategy:        domain.RebalanceStrategy{Name: name},
		TotalRebalances: rebalances,
		TotalGasCost:    gas,
		TotalReturn:     ret,
	}
}

func TestRecorder_ObserveBacktest(t *testing.T) {
	r := metrics.NewRecorder()
	r.ObserveBacktest(run("tight", 3, 0.03, 4.5))
	r.ObserveBacktest(run("tight", 1, 0.01, -2))

	assert.Equal(t, 2.0, testutil.ToFloat64(r.Backtests.WithLabelValues("tight")))
	assert.Equal(t, 4.0, testutil.ToFloat64(r.Rebalances.WithLabelValues("tight")))
	assert.InDelta(t, 0.04, testutil.ToFloat64(r.GasSpent.WithLabelValues("tight")), 1e-12)
	assert.Equal(t, -2.0, testutil.ToFloat64(r.StrategyReturn.WithLabelValues("tight")))
}

func TestRecorder_ObserveComparison(t *testing.T) {
	r := metrics.NewRecorder()
	r.ObserveComparison(domain.MultiBacktestResult{
		Results: []domain.BacktestResult{run("a", 1, 0.01, 1), run("b", 0, 0, 2)},
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(r.Comparisons))
	assert.Equal(t, 2, testutil.CollectAndCount(r.Backtests))
}

func TestRecorder_ObserveAdvisory(t *testing.T) {
	r := metrics.NewRecorder()
	r.ObserveAdvisory(domain.RebalanceOpportunity{})
	r.ObserveAdvisory(domain.RebalanceOpportunity{ShouldRebalance: true, GasQuoted: true})
	r.ObserveAdvisory(domain.RebalanceOpportunity{ShouldRebalance: true})

	assert.Equal(t, 1.0, testutil.ToFloat64(r.Advisories.WithLabelValues("hold", "none")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Advisories.WithLabelValues("rebalance", "quoted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Advisories.WithLabelValues("rebalance", "fallback")))
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := metrics.NewRecorder()
	r.ObserveBacktest(run("wide", 0, 0, 1.5))
	r.ObserveCommand("backtest", 120*time.Millisecond)

	path := filepath.Join(t.TempDir(), "binscope.prom")
	require.NoError(t, r.WriteTextfile(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(raw)
	assert.Contains(t, out, `binscope_backtests_total{strategy="wide"} 1`)
	assert.Contains(t, out, `binscope_command_duration_seconds_count{command="backtest"} 1`)
}
