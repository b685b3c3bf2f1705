package domain

// performance.go: estadísticas de trayectoria para corridas de backtest.
//
// Cada ratio define explícitamente su resultado con denominador cero: 0, o +Inf cuando
// un numerador positivo se encuentra con drawdown / pérdida cero. NaN nunca sale de acá.

import (
	"math"

	"github.com/montanaflynn/stats"
)

// DefaultRiskFreeRate es la tasa libre de riesgo anual que usa SharpeRatio.
const DefaultRiskFreeRate = 0.02

// TotalReturn es (final − initial) / initial × 100; 0 si initial no es positivo.
func TotalReturn(initial, final float64) float64 {
	if initial <= 0 {
		return 0
	}
	return (final - initial) / initial * 100
}

// StepValues extrae el valor del portfolio de cada paso.
func StepValues(steps []BacktestStep) []float64 {
	values := make([]float64, len(steps))
	for i, s := range steps {
		values[i] = s.PortfolioValue
	}
	return values
}

// SimpleReturns devuelve (v[i] − v[i−1]) / v[i−1] para valores consecutivos.
// Se saltean los pares con base no positiva.
func SimpleReturns(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	out := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		prev := values[i-1]
		if prev <= 0 {
			continue
		}
		out = append(out, (values[i]-prev)/prev)
	}
	return out
}

// MaxDrawdown sigue el pico acumulado hacia adelante y devuelve el mayor
// (peak − value) / peak, en porcentaje.
func MaxDrawdown(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	maxDD := 0.0
	peak := values[0]
	for _, v := range values {
		if v > peak {
			peak = v
			continue
		}
		if peak <= 0 {
			continue
		}
		maxDD = math.Max(maxDD, (peak-v)/peak)
	}
	return maxDD * 100
}

// SharpeRatio es (mean(returns) − annualRiskFree/365) / populationStdDev(returns).
// Es 0 con menos de dos retornos o varianza cero.
func SharpeRatio(returns []float64, annualRiskFree float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	mean, err := stats.Mean(returns)
	if err != nil {
		return 0
	}
	sd, err := stats.StandardDeviationPopulation(returns)
	if err != nil || sd == 0 || math.IsNaN(sd) {
		return 0
	}
	return (mean - annualRiskFree/365) / sd
}

// WinRate es el porcentaje de cambios consecutivos de valor que son positivos.
func WinRate(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	wins := 0
	for i := 1; i < len(values); i++ {
		if values[i]-values[i-1] > 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(values)-1) * 100
}

// ProfitFactor es Σ retornos positivos / |Σ retornos negativos|.
// Sin pérdidas es +Inf si hubo alguna ganancia, si no 0.
func ProfitFactor(returns []float64) float64 {
	var gains, losses float64
	for _, r := range returns {
		switch {
		case r > 0:
			gains += r
		case r < 0:
			losses += r
		}
	}
	losses = math.Abs(losses)
	if losses == 0 {
		if gains > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return gains / losses
}

// RecoveryFactor es totalReturn% / maxDrawdown%.
func RecoveryFactor(totalReturnPct, maxDrawdownPct float64) float64 {
	return ratioOverDrawdown(totalReturnPct, maxDrawdownPct)
}

// CalmarRatio es el retorno medio anualizado (mean × 365 × 100) sobre maxDrawdown%.
func CalmarRatio(returns []float64, maxDrawdownPct float64) float64 {
	return ratioOverDrawdown(MeanReturn(returns)*365*100, maxDrawdownPct)
}

// MeanReturn es la media aritmética de returns; 0 si está vacío.
func MeanReturn(returns []float64) float64 {
	mean, err := stats.Mean(returns)
	if err != nil {
		return 0
	}
	return mean
}

// AnnualizedVolatility es √mean(r²) · √365 · 100.
func AnnualizedVolatility(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	sumSq := 0.0
	for _, r := range returns {
		sumSq += r * r
	}
	return math.Sqrt(sumSq/float64(len(returns))) * math.Sqrt(365) * 100
}

func ratioOverDrawdown(numerator, drawdownPct float64) float64 {
	if drawdownPct == 0 {
		if numerator > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return numerator / drawdownPct
}
