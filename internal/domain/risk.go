package domain

// risk.go: sub-scores de riesgo y diversificación del portfolio.
//
//	riskScore = min(100, concentration + spread + pnlVolatility)
//	  concentration = maxPositionWeight × 40
//	  spread        = avg over positions of max(0, 30 − 100 × (maxBinPrice − minBinPrice) / minBinPrice)
//	  pnlVolatility = 100 × populationStdDev(pnl / value)
//	diversification = min(uniqueSymbols × 10, 50) + min(positions × 5, 50)

import (
	"math"

	"github.com/montanaflynn/stats"
)

const (
	concentrationWeight = 40.0
	maxSpreadScore      = 30.0
	maxScore            = 100.0
	tokenDiversityStep  = 10.0
	positionStep        = 5.0
	diversityCap        = 50.0
)

// ConcentrationRisk es la parte del valor total de la posición más grande × 40.
// Sin valor total positivo todos los pesos son 0.
func ConcentrationRisk(positions []DLMMPosition) float64 {
	if len(positions) == 0 {
		return 0
	}
	total := AggregatePositions(positions).TotalValue
	maxWeight := math.Inf(-1)
	for _, p := range positions {
		w := 0.0
		if total > 0 {
			w = p.TotalUSDValue / total
		}
		maxWeight = math.Max(maxWeight, w)
	}
	return maxWeight * concentrationWeight
}

// PositionSpreadScore puntúa qué tan angosta es la distribución de una posición.
// Una posición con un bin o menos se trata como sin spread y puntúa 30.
func PositionSpreadScore(p DLMMPosition) float64 {
	if len(p.Bins) <= 1 {
		return maxSpreadScore
	}
	lo, hi, _ := p.PriceRange()
	spread := 0.0
	if lo != 0 {
		spread = (hi - lo) / lo
	}
	return math.Max(0, maxSpreadScore-spread*100)
}

// SpreadScore promedia PositionSpreadScore sobre las posiciones.
func SpreadScore(positions []DLMMPosition) float64 {
	if len(positions) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range positions {
		sum += PositionSpreadScore(p)
	}
	return sum / float64(len(positions))
}

// PnLVolatility es 100 × el desvío estándar poblacional de los ratios pnl/value.
// Posiciones sin valor positivo aportan ratio 0; los ratios no finitos se descartan.
func PnLVolatility(positions []DLMMPosition) float64 {
	ratios := make([]float64, 0, len(positions))
	for _, p := range positions {
		r := 0.0
		if p.TotalUSDValue > 0 {
			r = p.PnL / p.TotalUSDValue
		}
		if math.IsNaN(r) || math.IsInf(r, 0) {
			continue
		}
		ratios = append(ratios, r)
	}
	sd, err := stats.StandardDeviationPopulation(ratios)
	if err != nil || math.IsNaN(sd) {
		return 0
	}
	return sd * 100
}

// RiskScore combina los tres sub-scores, acotado a [0,100].
func RiskScore(positions []DLMMPosition) float64 {
	if len(positions) == 0 {
		return 0
	}
	score := ConcentrationRisk(positions) + SpreadScore(positions) + PnLVolatility(positions)
	return clampScore(score)
}

// DiversificationScore premia símbolos distintos y cantidad de posiciones, acotado a [0,100].
func DiversificationScore(positions []DLMMPosition) float64 {
	if len(positions) == 0 {
		return 0
	}
	symbols := make(map[string]struct{}, len(positions)*2)
	for _, p := range positions {
		symbols[p.TokenX.Symbol] = struct{}{}
		symbols[p.TokenY.Symbol] = struct{}{}
	}
	tokenDiversity := math.Min(float64(len(symbols))*tokenDiversityStep, diversityCap)
	positionDiversity := math.Min(float64(len(positions))*positionStep, diversityCap)
	return clampScore(tokenDiversity + positionDiversity)
}

// ImpermanentLossFactor es el IL de producto constante para un cambio relativo de precio Δ:
// 2·√(1+Δ)/(2+Δ) − 1. Devuelve 0 para Δ < −1, donde el precio sería negativo.
func ImpermanentLossFactor(priceChange float64) float64 {
	if priceChange < -1 {
		return 0
	}
	return 2*math.Sqrt(1+priceChange)/(2+priceChange) - 1
}

func clampScore(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(maxScore, v))
}
