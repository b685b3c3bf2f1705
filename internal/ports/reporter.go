package ports

import "github.com/alejandrodnm/binscope/internal/domain"

// Reporter presenta los resultados al usuario.
type Reporter interface {
	PrintReport(report domain.PerformanceReport) error
	PrintBacktest(result domain.BacktestResult) error
	PrintComparison(result domain.MultiBacktestResult) error
	PrintOpportunity(position domain.DLMMPosition, opp domain.RebalanceOpportunity) error
}

// MetricsRecorder recibe los contadores del engine. Las implementaciones deben ser seguras para uso concurrente.
type MetricsRecorder interface {
	ObserveBacktest(result domain.BacktestResult)
	ObserveComparison(result domain.MultiBacktestResult)
	ObserveAdvisory(opp domain.RebalanceOpportunity)
}
