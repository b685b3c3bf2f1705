package metrics

import (
	"fmt"
	"time"

	"github.com/alejandrodnm/binscope/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder implementa ports.MetricsRecorder sobre un registry Prometheus propio.
// No hay endpoint HTTP: la CLI vuelca el registry a un textfile de node_exporter.
type Recorder struct {
	registry *prometheus.Registry

	Backtests      *prometheus.CounterVec
	Rebalances     *prometheus.CounterVec
	GasSpent       *prometheus.CounterVec
	StrategyReturn *prometheus.GaugeVec
	Comparisons    prometheus.Counter
	Advisories     *prometheus.CounterVec
	CommandTime    *prometheus.HistogramVec
}

// NewRecorder crea un Recorder con todos los collectors registrados.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),

		Backtests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "binscope_backtests_total",
				Help: "Completed backtest runs by strategy",
			},
			[]string{"strategy"},
		),

		Rebalances: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "binscope_backtest_rebalances_total",
				Help: "Simulated rebalances by strategy",
			},
			[]string{"strategy"},
		),

		GasSpent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "binscope_backtest_gas_native_total",
				Help: "Simulated gas spent in native units by strategy",
			},
			[]string{"strategy"},
		),

		StrategyReturn: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "binscope_backtest_return_percent",
				Help: "Total return of the last run per strategy",
			},
			[]string{"strategy"},
		),

		Comparisons: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "binscope_comparisons_total",
				Help: "Multi-strategy comparisons completed",
			},
		),

		Advisories: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "binscope_advisories_total",
				Help: "Rebalance advisories by decision and gas source",
			},
			[]string{"decision", "gas_source"},
		),

		CommandTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "binscope_command_duration_seconds",
				Help:    "Wall time of CLI commands",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
			},
			[]string{"command"},
		),
	}

	r.registry.MustRegister(
		r.Backtests,
		r.Rebalances,
		r.GasSpent,
		r.StrategyReturn,
		r.Comparisons,
		r.Advisories,
		r.CommandTime,
	)
	return r
}

// Registry expone el registry subyacente.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveBacktest registra una corrida.
func (r *Recorder) ObserveBacktest(res domain.BacktestResult) {
	name := res.Strategy.Name
	r.Backtests.WithLabelValues(name).Inc()
	r.Rebalances.WithLabelValues(name).Add(float64(res.TotalRebalances))
	r.GasSpent.WithLabelValues(name).Add(res.TotalGasCost)
	r.StrategyReturn.WithLabelValues(name).Set(res.TotalReturn)
}

// ObserveComparison registra cada corrida de una comparación y la comparación en sí.
func (r *Recorder) ObserveComparison(m domain.MultiBacktestResult) {
	for _, res := range m.Results {
		r.ObserveBacktest(res)
	}
	r.Comparisons.Inc()
}

// ObserveAdvisory registra una decisión de rebalanceo.
func (r *Recorder) ObserveAdvisory(opp domain.RebalanceOpportunity) {
	decision := "hold"
	if opp.ShouldRebalance {
		decision = "rebalance"
	}
	source := "none"
	switch {
	case opp.ShouldRebalance && opp.GasQuoted:
		source = "quoted"
	case opp.ShouldRebalance:
		source = "fallback"
	}
	r.Advisories.WithLabelValues(decision, source).Inc()
}

// ObserveCommand registra cuánto tardó un comando de la CLI.
func (r *Recorder) ObserveCommand(command string, d time.Duration) {
	r.CommandTime.WithLabelValues(command).Observe(d.Seconds())
}

// WriteTextfile escribe el registry en formato de exposición texto, reemplazando path de forma atómica.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("metrics.WriteTextfile: %w", err)
	}
	return nil
}
