package analytics

import (
	"fmt"

	"github.com/alejandrodnm/binscope/internal/domain"
)

// Umbrales de las reglas. Las reglas se evalúan en orden de declaración.
const (
	highRiskInsight        = 70.0
	lowDiversification     = 30.0
	excellentFeeYield      = 20.0
	trendWindow            = 7
	highRiskRecommendation = 60.0
	lowFeeYield            = 5.0
	underperformLoss       = 0.10
	minPositions           = 3
)

// GenerateInsights devuelve observaciones sobre el portfolio y su histórico reciente.
func (c *Calculator) GenerateInsights(a domain.PortfolioAnalytics, historical []domain.HistoricalData) []string {
	var insights []string
	if a.RiskScore > highRiskInsight {
		insights = append(insights, "High portfolio risk detected. Consider diversifying across more token pairs.")
	}
	if a.DiversificationScore < lowDiversification {
		insights = append(insights, "Low diversification score. Add positions in different token pairs to reduce risk.")
	}
	if a.FeeYield > excellentFeeYield {
		insights = append(insights, "Excellent fee yield! Your liquidity positions are performing well.")
	}
	if len(historical) > trendWindow {
		trend := 0.0
		for _, h := range historical[len(historical)-trendWindow:] {
			trend += h.PnL
		}
		if trend > 0 {
			insights = append(insights, "Positive trend over the last week. Portfolio is gaining momentum.")
		} else {
			insights = append(insights, "Negative trend detected. Consider reviewing your strategy.")
		}
	}
	return insights
}

// GenerateRecommendations devuelve acciones sugeridas para el portfolio.
func (c *Calculator) GenerateRecommendations(a domain.PortfolioAnalytics, positions []domain.DLMMPosition) []string {
	var recs []string
	if a.RiskScore > highRiskRecommendation {
		recs = append(recs, "Consider widening liquidity ranges to reduce impermanent loss risk")
	}
	if a.FeeYield < lowFeeYield {
		recs = append(recs, "Look for higher-volume pairs to increase fee earnings")
	}
	if n := countUnderperformers(positions); n > 0 {
		recs = append(recs, fmt.Sprintf("Review %d underperforming positions for rebalancing", n))
	}
	if len(positions) < minPositions {
		recs = append(recs, "Consider adding more positions to improve diversification")
	}
	return recs
}

// countUnderperformers cuenta las posiciones que perdieron más del 10% de su valor.
func countUnderperformers(positions []domain.DLMMPosition) int {
	n := 0
	for _, p := range positions {
		if p.PnL < -p.TotalUSDValue*underperformLoss {
			n++
		}
	}
	return n
}
