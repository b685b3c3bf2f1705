package domain

import (
	"sort"
	"time"
)

// PortfolioTotals son las sumas simples sobre un conjunto de posiciones.
type PortfolioTotals struct {
	TotalValue      float64
	TotalPnL        float64
	TotalFeesEarned float64
	PositionCount   int
}

// AggregatePositions suma valor, P&L y fees de las posiciones.
func AggregatePositions(positions []DLMMPosition) PortfolioTotals {
	t := PortfolioTotals{PositionCount: len(positions)}
	for _, p := range positions {
		t.TotalValue += p.TotalUSDValue
		t.TotalPnL += p.PnL
		t.TotalFeesEarned += p.FeesEarned
	}
	return t
}

// PnLPercentage es totalPnL / (totalValue − totalPnL) × 100, o 0 si esa base es <= 0.
func (t PortfolioTotals) PnLPercentage() float64 {
	base := t.TotalValue - t.TotalPnL
	if base <= 0 {
		return 0
	}
	return t.TotalPnL / base * 100
}

// AveragePositionSize es totalValue / positionCount; 0 sin posiciones.
func (t PortfolioTotals) AveragePositionSize() float64 {
	if t.PositionCount == 0 {
		return 0
	}
	return t.TotalValue / float64(t.PositionCount)
}

// FeeYield anualiza los fees cobrados como si fueran un día de ingreso (% APR).
func (t PortfolioTotals) FeeYield() float64 {
	if t.TotalValue == 0 {
		return 0
	}
	return t.TotalFeesEarned / t.TotalValue * 365 * 100
}

// RankByPnL devuelve una copia de positions ordenada por P&L descendente.
// Los empates mantienen el orden de entrada.
func RankByPnL(positions []DLMMPosition) []DLMMPosition {
	ranked := make([]DLMMPosition, len(positions))
	copy(ranked, positions)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].PnL > ranked[j].PnL
	})
	return ranked
}

// PortfolioAnalytics es un resumen puntual de las posiciones de una wallet.
type PortfolioAnalytics struct {
	TotalValue           float64
	TotalPnL             float64
	TotalPnLPercentage   float64
	TotalFeesEarned      float64
	PositionCount        int
	TopPerformer         *DLMMPosition
	WorstPerformer       *DLMMPosition
	AveragePositionSize  float64
	RiskScore            float64 // 0..100
	DiversificationScore float64 // 0..100
	FeeYield             float64 // % APR
	ImpermanentLoss      float64 // USD, <= 0
}

// HistoricalData es una muestra del histórico del portfolio de una wallet.
type HistoricalData struct {
	Timestamp      time.Time
	PortfolioValue float64
	PnL            float64
	FeesEarned     float64
	PositionCount  int
}

// Timeframe elige la ventana de un reporte de rendimiento.
type Timeframe string

const (
	TimeframeDay   Timeframe = "day"
	TimeframeWeek  Timeframe = "week"
	TimeframeMonth Timeframe = "month"
	TimeframeYear  Timeframe = "year"
)

// Days devuelve el largo de la ventana. Valores desconocidos caen a una semana.
func (t Timeframe) Days() int {
	switch t {
	case TimeframeDay:
		return 1
	case TimeframeWeek:
		return 7
	case TimeframeMonth:
		return 30
	case TimeframeYear:
		return 365
	default:
		return 7
	}
}

// PerformanceReport junta las métricas, el histórico contra el que se evaluaron y
// los insights y recomendaciones generados.
type PerformanceReport struct {
	Period          Timeframe
	StartDate       time.Time
	EndDate         time.Time
	Analytics       PortfolioAnalytics
	Historical      []HistoricalData
	Insights        []string
	Recommendations []string
}
