package domain

import "time"

// BacktestData es una muestra histórica del pool. Volume y TVL son opcionales.
type BacktestData struct {
	Timestamp   time.Time
	TokenXPrice float64
	TokenYPrice float64
	Volume      *float64
	TVL         *float64
}

// BacktestPosition es una subposición sintética durante la simulación.
type BacktestPosition struct {
	TokenXAmount float64 // valor de la pata X
	TokenYAmount float64 // valor de la pata Y
	Value        float64
}

// XWeight es la parte del valor de la posición que está en el token X.
func (p BacktestPosition) XWeight() float64 {
	if p.Value <= 0 {
		return 0
	}
	return p.TokenXAmount / p.Value
}

// BacktestPortfolio son las tenencias simuladas en un paso.
// TotalValue es siempre Σ valores de posiciones + Cash.
type BacktestPortfolio struct {
	TotalValue    float64
	Cash          float64
	Positions     []BacktestPosition
	FeesEarned    float64
	LastRebalance time.Time
}

// Recompute recalcula el valor de cada posición a partir de sus patas, y el total.
func (p *BacktestPortfolio) Recompute() {
	total := p.Cash
	for i := range p.Positions {
		p.Positions[i].Value = p.Positions[i].TokenXAmount + p.Positions[i].TokenYAmount
		total += p.Positions[i].Value
	}
	p.TotalValue = total
}

// BacktestStep es la salida de una muestra simulada.
type BacktestStep struct {
	Timestamp         time.Time
	PortfolioValue    float64
	PnL               float64
	FeesEarned        float64 // acumulado
	RebalanceExecuted bool
	GasCost           float64
}

// BacktestMetrics son las estadísticas detalladas de la trayectoria.
type BacktestMetrics struct {
	AvgDailyReturn float64 // %
	Volatility     float64 // % anualizado
	TotalFees      float64
	TotalGasCost   float64
	RebalanceCount int
	ProfitFactor   float64
	RecoveryFactor float64
	CalmarRatio    float64
}

// HodlComparison compara la estrategia con mantener el 50/50 inicial.
type HodlComparison struct {
	StrategyReturn float64
	HodlReturn     float64
	Outperformance float64
}

// RiskAdjustedComparison compara drawdowns y el Sharpe de la estrategia.
type RiskAdjustedComparison struct {
	StrategySharpe      float64
	StrategyMaxDrawdown float64
	HodlMaxDrawdown     float64
}

// BacktestComparison es la comparación de una corrida contra la referencia.
type BacktestComparison struct {
	VsHodl       HodlComparison
	RiskAdjusted RiskAdjustedComparison
}

// BacktestDuration es la ventana pedida para una corrida.
type BacktestDuration struct {
	Start time.Time
	End   time.Time
	Days  int
}

// BacktestResult resume la corrida de una estrategia. Se deriva de Steps y no se modifica.
type BacktestResult struct {
	Strategy        RebalanceStrategy
	InitialCapital  float64
	FinalValue      float64
	TotalReturn     float64 // %
	TotalPnL        float64
	TotalFeesEarned float64
	TotalGasCost    float64
	TotalRebalances int
	MaxDrawdown     float64 // %
	SharpeRatio     float64
	WinRate         float64 // %
	Duration        BacktestDuration
	Steps           []BacktestStep
	Metrics         BacktestMetrics
	Comparison      BacktestComparison
}

// BacktestSummary promedia un conjunto de corridas.
type BacktestSummary struct {
	AverageReturn         float64
	AverageSharpe         float64
	AverageMaxDrawdown    float64
	TotalStrategiesTested int
}

// MultiBacktestResult guarda todas las corridas (en orden de entrada) y las mejores por retorno y Sharpe.
type MultiBacktestResult struct {
	Results      []BacktestResult
	BestByReturn BacktestResult
	BestBySharpe BacktestResult
	Summary      BacktestSummary
}
