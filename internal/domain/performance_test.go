package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalReturn(t *testing.T) {
	assert.InDelta(t, 10.0, TotalReturn(1000, 1100), 1e-9)
	assert.InDelta(t, -25.0, TotalReturn(1000, 750), 1e-9)
	assert.Equal(t, 0.0, TotalReturn(0, 100))
}

func TestSimpleReturns(t *testing.T) {
	r := SimpleReturns([]float64{100, 110, 99})
	assert.Len(t, r, 2)
	assert.InDelta(t, 0.10, r[0], 1e-12)
	assert.InDelta(t, -0.10, r[1], 1e-12)
	assert.Nil(t, SimpleReturns([]float64{100}))
}

// --- MaxDrawdown ---

func TestMaxDrawdown(t *testing.T) {
	// pico 120, valle 90 → 25%
	assert.InDelta(t, 25.0, MaxDrawdown([]float64{100, 120, 100, 90, 130}), 1e-9)
}

func TestMaxDrawdown_Monotonic(t *testing.T) {
	assert.Equal(t, 0.0, MaxDrawdown([]float64{1, 2, 3, 4}))
	assert.Equal(t, 0.0, MaxDrawdown(nil))
}

// --- SharpeRatio ---

func TestSharpeRatio(t *testing.T) {
	returns := []float64{0.01, 0.03}
	// media 0.02, sd poblacional 0.01
	want := (0.02 - 0.02/365) / 0.01
	assert.InDelta(t, want, SharpeRatio(returns, DefaultRiskFreeRate), 1e-9)
}

func TestSharpeRatio_Degenerate(t *testing.T) {
	assert.Equal(t, 0.0, SharpeRatio([]float64{0.05}, DefaultRiskFreeRate))
	assert.Equal(t, 0.0, SharpeRatio([]float64{0.25, 0.25, 0.25}, DefaultRiskFreeRate))
	assert.Equal(t, 0.0, SharpeRatio(nil, DefaultRiskFreeRate))
}

// --- WinRate ---

func TestWinRate(t *testing.T) {
	assert.InDelta(t, 50.0, WinRate([]float64{100, 101, 100, 100, 102}), 1e-9)
	assert.Equal(t, 0.0, WinRate([]float64{100}))
}

// --- ProfitFactor ---

func TestProfitFactor(t *testing.T) {
	assert.InDelta(t, 2.0, ProfitFactor([]float64{0.02, -0.01, 0.02, -0.01}), 1e-9)
}

func TestProfitFactor_InfiniteOnlyWithGainsAndNoLosses(t *testing.T) {
	assert.True(t, math.IsInf(ProfitFactor([]float64{0.01, 0, 0.02}), 1))
	assert.Equal(t, 0.0, ProfitFactor([]float64{0, 0}))
	assert.Equal(t, 0.0, ProfitFactor([]float64{-0.01, 0}))
	assert.Equal(t, 0.0, ProfitFactor(nil))
}

// --- Recovery / Calmar ---

func TestRecoveryFactor(t *testing.T) {
	assert.InDelta(t, 2.0, RecoveryFactor(10, 5), 1e-9)
	assert.True(t, math.IsInf(RecoveryFactor(10, 0), 1))
	assert.Equal(t, 0.0, RecoveryFactor(-3, 0))
	assert.Equal(t, 0.0, RecoveryFactor(0, 0))
}

func TestCalmarRatio(t *testing.T) {
	returns := []float64{0.001, 0.003}
	// media 0.002 → 73% anualizado; sobre 10% de drawdown
	assert.InDelta(t, 7.3, CalmarRatio(returns, 10), 1e-9)
	assert.True(t, math.IsInf(CalmarRatio(returns, 0), 1))
	assert.Equal(t, 0.0, CalmarRatio(nil, 0))
}

func TestAnnualizedVolatility(t *testing.T) {
	assert.InDelta(t, 0.01*math.Sqrt(365)*100, AnnualizedVolatility([]float64{0.01, -0.01}), 1e-9)
	assert.Equal(t, 0.0, AnnualizedVolatility(nil))
}
