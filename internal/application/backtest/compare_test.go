package backtest_test

import (
	"context"
	"math"
	"testing"

	"github.com/alejandrodnm/binscope/internal/application/backtest"
	"github.com/alejandrodnm/binscope/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wavySeries(n int) []domain.BacktestData {
	prices := make([][2]float64, n)
	for i := range prices {
		prices[i] = [2]float64{120 + 25*math.Sin(float64(i)/4), 1 + 0.02*math.Cos(float64(i)/7)}
	}
	return daily(prices...)
}

func TestRunAll_ParallelEqualsSequential(t *testing.T) {
	series := wavySeries(60)
	end := day0.AddDate(0, 0, 60)
	strategies := []domain.RebalanceStrategy{
		strategy("tight", 1),
		strategy("medium", 5),
		strategy("wide", 20),
		strategy("never", 90),
	}

	sim := newSim()
	cmp := backtest.NewComparator(sim, 3)
	multi, err := cmp.RunAll(context.Background(), strategies, series, 10_000, day0, end)
	require.NoError(t, err)
	require.Len(t, multi.Results, len(strategies))

	for i, s := range strategies {
		want, err := sim.Run(s, series, 10_000, day0, end)
		require.NoError(t, err)
		assert.Equal(t, want, multi.Results[i], "result %d (%s)", i, s.Name)
	}
	assert.Equal(t, len(strategies), multi.Summary.TotalStrategiesTested)
}

func TestRunAll_Deterministic(t *testing.T) {
	series := wavySeries(45)
	end := day0.AddDate(0, 0, 45)
	strategies := []domain.RebalanceStrategy{strategy("a", 2), strategy("b", 4), strategy("c", 8)}

	first, err := backtest.NewComparator(newSim(), 1).RunAll(context.Background(), strategies, series, 1000, day0, end)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := backtest.NewComparator(newSim(), 0).RunAll(context.Background(), strategies, series, 1000, day0, end)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestRunAll_NoStrategies(t *testing.T) {
	_, err := backtest.NewComparator(newSim(), 2).RunAll(context.Background(), nil, wavySeries(5), 1000, day0, day0.AddDate(0, 0, 5))
	assert.ErrorIs(t, err, domain.ErrNoStrategies)
}

func TestRunAll_FailingStrategyFailsCall(t *testing.T) {
	strategies := []domain.RebalanceStrategy{strategy("ok", 5), strategy("broken", -1)}
	_, err := backtest.NewComparator(newSim(), 2).RunAll(context.Background(), strategies, wavySeries(10), 1000, day0, day0.AddDate(0, 0, 10))
	assert.ErrorIs(t, err, domain.ErrInvalidStrategy)
}

func TestRunAll_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := backtest.NewComparator(newSim(), 1).RunAll(ctx, []domain.RebalanceStrategy{strategy("a", 5)}, wavySeries(10), 1000, day0, day0.AddDate(0, 0, 10))
	assert.ErrorIs(t, err, context.Canceled)
}

// --- Rank ---

func result(name string, ret, sharpe, dd float64) domain.BacktestResult {
	return domain.BacktestResult{
		Strategy:    domain.RebalanceStrategy{Name: name},
		TotalReturn: ret,
		SharpeRatio: sharpe,
		MaxDrawdown: dd,
	}
}

func TestRank(t *testing.T) {
	multi := backtest.Rank([]domain.BacktestResult{
		result("a", 5, 1.5, 10),
		result("b", 12, 0.5, 20),
		result("c", -3, 2.0, 30),
	})

	assert.Equal(t, "b", multi.BestByReturn.Strategy.Name)
	assert.Equal(t, "c", multi.BestBySharpe.Strategy.Name)
	assert.InDelta(t, 14.0/3, multi.Summary.AverageReturn, 1e-9)
	assert.InDelta(t, 4.0/3, multi.Summary.AverageSharpe, 1e-9)
	assert.InDelta(t, 20.0, multi.Summary.AverageMaxDrawdown, 1e-9)
	assert.Equal(t, 3, multi.Summary.TotalStrategiesTested)
	assert.Equal(t, "a", multi.Results[0].Strategy.Name, "input order kept")
}

func TestRank_TiesKeepInputOrder(t *testing.T) {
	multi := backtest.Rank([]domain.BacktestResult{
		result("first", 7, 1, 0),
		result("second", 7, 1, 0),
	})
	assert.Equal(t, "first", multi.BestByReturn.Strategy.Name)
	assert.Equal(t, "first", multi.BestBySharpe.Strategy.Name)
}
