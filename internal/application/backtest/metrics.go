package backtest

import (
	"math"
	"time"

	"github.com/alejandrodnm/binscope/internal/domain"
)

// buildResult deriva todas las estadísticas de la secuencia de pasos y la ventana filtrada.
func (s *Simulator) buildResult(
	strategy domain.RebalanceStrategy,
	initialCapital float64,
	start, end time.Time,
	window []domain.BacktestData,
	steps []domain.BacktestStep,
) domain.BacktestResult {
	finalValue, fees := initialCapital, 0.0
	if n := len(steps); n > 0 {
		finalValue = steps[n-1].PortfolioValue
		fees = steps[n-1].FeesEarned
	}

	gas, rebalances := 0.0, 0
	for _, st := range steps {
		gas += st.GasCost
		if st.RebalanceExecuted {
			rebalances++
		}
	}

	values := domain.StepValues(steps)
	returns := domain.SimpleReturns(values)
	totalReturn := domain.TotalReturn(initialCapital, finalValue)
	maxDD := domain.MaxDrawdown(values)
	sharpe := domain.SharpeRatio(returns, s.cfg.RiskFreeRate)

	hodl := hodlReturn(window, initialCapital)

	return domain.BacktestResult{
		Strategy:        strategy,
		InitialCapital:  initialCapital,
		FinalValue:      finalValue,
		TotalReturn:     totalReturn,
		TotalPnL:        finalValue - initialCapital,
		TotalFeesEarned: fees,
		TotalGasCost:    gas,
		TotalRebalances: rebalances,
		MaxDrawdown:     maxDD,
		SharpeRatio:     sharpe,
		WinRate:         domain.WinRate(values),
		Duration: domain.BacktestDuration{
			Start: start,
			End:   end,
			Days:  durationDays(start, end),
		},
		Steps: steps,
		Metrics: domain.BacktestMetrics{
			AvgDailyReturn: domain.MeanReturn(returns) * 100,
			Volatility:     domain.AnnualizedVolatility(returns),
			TotalFees:      fees,
			TotalGasCost:   gas,
			RebalanceCount: rebalances,
			ProfitFactor:   domain.ProfitFactor(returns),
			RecoveryFactor: domain.RecoveryFactor(totalReturn, maxDD),
			CalmarRatio:    domain.CalmarRatio(returns, maxDD),
		},
		Comparison: domain.BacktestComparison{
			VsHodl: domain.HodlComparison{
				StrategyReturn: totalReturn,
				HodlReturn:     hodl,
				Outperformance: totalReturn - hodl,
			},
			RiskAdjusted: domain.RiskAdjustedComparison{
				StrategySharpe:      sharpe,
				StrategyMaxDrawdown: maxDD,
				HodlMaxDrawdown:     hodlMaxDrawdown(window),
			},
		},
	}
}

// hodlReturn compra capital/2 de cada token en la primera muestra y lo valúa en la última.
func hodlReturn(window []domain.BacktestData, capital float64) float64 {
	if len(window) < 2 {
		return 0
	}
	first, last := window[0], window[len(window)-1]
	x := capital * 0.5 / first.TokenXPrice
	y := capital * 0.5 / first.TokenYPrice
	return domain.TotalReturn(capital, x*last.TokenXPrice+y*last.TokenYPrice)
}

// hodlMaxDrawdown es el drawdown de la suma de precios X+Y en la ventana.
func hodlMaxDrawdown(window []domain.BacktestData) float64 {
	sums := make([]float64, len(window))
	for i, d := range window {
		sums[i] = d.TokenXPrice + d.TokenYPrice
	}
	return domain.MaxDrawdown(sums)
}

func durationDays(start, end time.Time) int {
	if !end.After(start) {
		return 0
	}
	return int(math.Ceil(end.Sub(start).Hours() / 24))
}
