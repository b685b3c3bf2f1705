package analytics

import (
	"log/slog"

	"github.com/alejandrodnm/binscope/internal/domain"
)

// Config contiene los supuestos de analytics.
type Config struct {
	// ILPriceChange es el movimiento relativo de precio usado para estimar el
	// impermanent loss. Es una cifra ilustrativa, no la deriva medida de cada posición.
	ILPriceChange float64
}

// DefaultConfig devuelve un supuesto de 10% de cambio de precio para el IL.
func DefaultConfig() Config {
	return Config{ILPriceChange: 0.10}
}

// Calculator calcula las métricas del portfolio. No guarda estado aparte de su config.
type Calculator struct {
	cfg Config
}

// NewCalculator crea un Calculator con la config dada.
func NewCalculator(cfg Config) *Calculator {
	return &Calculator{cfg: cfg}
}

// CalculateMetrics resume las posiciones en un PortfolioAnalytics.
// Nunca falla: los denominadores en cero resuelven a 0.
func (c *Calculator) CalculateMetrics(positions []domain.DLMMPosition) domain.PortfolioAnalytics {
	totals := domain.AggregatePositions(positions)

	a := domain.PortfolioAnalytics{
		TotalValue:           totals.TotalValue,
		TotalPnL:             totals.TotalPnL,
		TotalPnLPercentage:   totals.PnLPercentage(),
		TotalFeesEarned:      totals.TotalFeesEarned,
		PositionCount:        totals.PositionCount,
		AveragePositionSize:  totals.AveragePositionSize(),
		RiskScore:            domain.RiskScore(positions),
		DiversificationScore: domain.DiversificationScore(positions),
		FeeYield:             totals.FeeYield(),
		ImpermanentLoss:      c.impermanentLoss(positions),
	}

	if len(positions) > 0 {
		ranked := domain.RankByPnL(positions)
		top, worst := ranked[0], ranked[len(ranked)-1]
		a.TopPerformer = &top
		a.WorstPerformer = &worst
	}

	slog.Debug("portfolio metrics calculated",
		"positions", a.PositionCount,
		"total_value", a.TotalValue,
		"risk_score", a.RiskScore,
	)
	return a
}

// impermanentLoss escala el factor de IL de producto constante por el valor de cada posición.
func (c *Calculator) impermanentLoss(positions []domain.DLMMPosition) float64 {
	factor := domain.ImpermanentLossFactor(c.cfg.ILPriceChange)
	il := 0.0
	for _, p := range positions {
		il += p.TotalUSDValue * factor
	}
	return il
}
