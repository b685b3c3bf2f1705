package backtest

// simulator.go: replay en una sola pasada de una estrategia sobre una serie histórica.
//
// Por cada muestra después de la primera:
//  1. revalúa cada pata según el cambio de precio de su token
//  2. rebalancea a 50/50 si pasó el cooldown y el peso de X se desvió más de priceDeviation
//  3. acumula fees: volume × (positionValue / TVL) × feeRate / 365
//  4. registra un paso
//
// Una decisión en el paso i solo usa muestras <= i.

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/alejandrodnm/binscope/internal/domain"
)

const targetXWeight = 0.5

// Config contiene los supuestos de la simulación.
type Config struct {
	RiskFreeRate  float64 // anual, para el Sharpe
	FeeRate       float64 // fee tier del pool
	DefaultVolume float64 // si la muestra no trae volumen (o es <= 0)
	DefaultTVL    float64 // si la muestra no trae TVL (o es <= 0)
	CashReserve   float64 // parte del capital que queda en caja
}

// DefaultConfig devuelve los supuestos estándar: tasa libre de riesgo 2%, fee tier 0.3%,
// volumen 1M / TVL 10M por defecto y 10% de reserva en caja.
func DefaultConfig() Config {
	return Config{
		RiskFreeRate:  domain.DefaultRiskFreeRate,
		FeeRate:       0.003,
		DefaultVolume: 1_000_000,
		DefaultTVL:    10_000_000,
		CashReserve:   0.10,
	}
}

// Simulator reproduce una estrategia sobre muestras históricas. Es seguro para uso concurrente.
type Simulator struct {
	cfg Config
}

// NewSimulator crea un Simulator.
func NewSimulator(cfg Config) *Simulator {
	return &Simulator{cfg: cfg}
}

// Run hace backtest de strategy sobre las muestras de series que caen en [start, end].
func (s *Simulator) Run(
	strategy domain.RebalanceStrategy,
	series []domain.BacktestData,
	initialCapital float64,
	start, end time.Time,
) (domain.BacktestResult, error) {
	if err := strategy.Validate(); err != nil {
		return domain.BacktestResult{}, fmt.Errorf("backtest.Run: %w", err)
	}
	if !(initialCapital > 0) || math.IsInf(initialCapital, 0) {
		return domain.BacktestResult{}, fmt.Errorf("backtest.Run: %w: got %v", domain.ErrInvalidCapital, initialCapital)
	}

	window, err := filterWindow(series, start, end)
	if err != nil {
		return domain.BacktestResult{}, fmt.Errorf("backtest.Run: strategy %q: %w", strategy.Name, err)
	}

	params := strategy.Parameters
	portfolio := s.initPortfolio(initialCapital, window[0].Timestamp)
	steps := make([]domain.BacktestStep, 0, len(window)-1)

	for i := 1; i < len(window); i++ {
		prev, cur := window[i-1], window[i]

		revalue(&portfolio, prev, cur)

		rebalanced, gas := false, 0.0
		if shouldRebalance(portfolio, params, cur.Timestamp) {
			gas = params.SimulatedGasCost()
			rebalanceTo5050(&portfolio, gas, cur.Timestamp)
			rebalanced = true
			slog.Debug("backtest rebalance",
				"strategy", strategy.Name,
				"at", cur.Timestamp,
				"value", portfolio.TotalValue,
				"gas", gas,
			)
		}

		portfolio.FeesEarned += s.stepFees(portfolio, cur)

		steps = append(steps, domain.BacktestStep{
			Timestamp:         cur.Timestamp,
			PortfolioValue:    portfolio.TotalValue,
			PnL:               portfolio.TotalValue - initialCapital,
			FeesEarned:        portfolio.FeesEarned,
			RebalanceExecuted: rebalanced,
			GasCost:           gas,
		})
	}

	return s.buildResult(strategy, initialCapital, start, end, window, steps), nil
}

func (s *Simulator) initPortfolio(capital float64, at time.Time) domain.BacktestPortfolio {
	cash := capital * s.cfg.CashReserve
	leg := (capital - cash) / 2
	p := domain.BacktestPortfolio{
		Cash:          cash,
		Positions:     []domain.BacktestPosition{{TokenXAmount: leg, TokenYAmount: leg}},
		LastRebalance: at,
	}
	p.Recompute()
	return p
}

// revalue aplica el cambio relativo de precio de cada token a su pata.
func revalue(p *domain.BacktestPortfolio, prev, cur domain.BacktestData) {
	dx := (cur.TokenXPrice - prev.TokenXPrice) / prev.TokenXPrice
	dy := (cur.TokenYPrice - prev.TokenYPrice) / prev.TokenYPrice
	for i := range p.Positions {
		p.Positions[i].TokenXAmount *= 1 + dx
		p.Positions[i].TokenYAmount *= 1 + dy
	}
	p.Recompute()
}

// shouldRebalance mira primero el cooldown y después la desviación del peso de X respecto de 50%.
func shouldRebalance(p domain.BacktestPortfolio, params domain.RebalanceParams, now time.Time) bool {
	if !params.CooldownElapsed(p.LastRebalance, now) {
		return false
	}
	if len(p.Positions) == 0 || p.Positions[0].Value <= 0 {
		return false
	}
	drift := (p.Positions[0].XWeight() - targetXWeight) * 100
	return params.DeviationExceeded(drift)
}

// rebalanceTo5050 deja la subposición en 50/50 y paga el gas una sola vez:
// de la caja si la reserva alcanza, si no de la posición.
func rebalanceTo5050(p *domain.BacktestPortfolio, gas float64, now time.Time) {
	pos := &p.Positions[0]
	value := pos.Value
	if p.Cash >= gas {
		p.Cash -= gas
	} else {
		value -= gas
	}
	pos.TokenXAmount = value * targetXWeight
	pos.TokenYAmount = value * (1 - targetXWeight)
	p.LastRebalance = now
	p.Recompute()
}

// stepFees es un día de la parte de fees del pool que le toca a la posición.
func (s *Simulator) stepFees(p domain.BacktestPortfolio, cur domain.BacktestData) float64 {
	if len(p.Positions) == 0 {
		return 0
	}
	volume := orDefault(cur.Volume, s.cfg.DefaultVolume)
	tvl := orDefault(cur.TVL, s.cfg.DefaultTVL)
	share := p.Positions[0].Value / tvl
	return volume * share * s.cfg.FeeRate / 365
}

// filterWindow copia las muestras en [start, end], las ordena por tiempo y las valida.
func filterWindow(series []domain.BacktestData, start, end time.Time) ([]domain.BacktestData, error) {
	window := make([]domain.BacktestData, 0, len(series))
	for _, d := range series {
		if d.Timestamp.Before(start) || d.Timestamp.After(end) {
			continue
		}
		window = append(window, d)
	}
	if len(window) == 0 {
		return nil, domain.ErrNoData
	}
	sort.SliceStable(window, func(i, j int) bool {
		return window[i].Timestamp.Before(window[j].Timestamp)
	})
	for i, d := range window {
		if !validPrice(d.TokenXPrice) || !validPrice(d.TokenYPrice) {
			return nil, fmt.Errorf("%w: non-positive or infinite price at %s", domain.ErrInvalidSeries, d.Timestamp.Format(time.RFC3339))
		}
		if i > 0 && d.Timestamp.Equal(window[i-1].Timestamp) {
			return nil, fmt.Errorf("%w: duplicate timestamp %s", domain.ErrInvalidSeries, d.Timestamp.Format(time.RFC3339))
		}
	}
	return window, nil
}

func validPrice(p float64) bool {
	return p > 0 && !math.IsInf(p, 0)
}

// orDefault trata un valor ausente, cero, negativo o infinito como no informado.
func orDefault(v *float64, def float64) float64 {
	if v == nil || !(*v > 0) || math.IsInf(*v, 0) {
		return def
	}
	return *v
}
