package analytics

import (
	"time"

	"github.com/alejandrodnm/binscope/internal/domain"
)

// GenerateReport arma el reporte de rendimiento del timeframe que termina en now.
// Las muestras fuera de [now − days, now] se descartan; el resto mantiene su orden.
func (c *Calculator) GenerateReport(
	positions []domain.DLMMPosition,
	historical []domain.HistoricalData,
	timeframe domain.Timeframe,
	now time.Time,
) domain.PerformanceReport {
	start := now.AddDate(0, 0, -timeframe.Days())

	window := make([]domain.HistoricalData, 0, len(historical))
	for _, h := range historical {
		if h.Timestamp.Before(start) || h.Timestamp.After(now) {
			continue
		}
		window = append(window, h)
	}

	a := c.CalculateMetrics(positions)
	return domain.PerformanceReport{
		Period:          timeframe,
		StartDate:       start,
		EndDate:         now,
		Analytics:       a,
		Historical:      window,
		Insights:        c.GenerateInsights(a, window),
		Recommendations: c.GenerateRecommendations(a, positions),
	}
}
