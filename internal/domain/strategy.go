package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Estimación fija de gas para backtests, donde no hay cotización.
const (
	simulatedGasBudgetShare = 0.8
	simulatedGasCap         = 0.01 // unidades nativas
)

// DefaultTxFeeLamports es la comisión base de red por transacción cuando la
// cotización no está disponible en el camino de asesoría.
const DefaultTxFeeLamports int64 = 5000

// RebalanceParams configura cuándo rebalancea una estrategia.
type RebalanceParams struct {
	PriceDeviation    float64 // porcentaje, > 0
	TimeInterval      float64 // minutos, > 0
	SlippageTolerance float64 // porcentaje
	MaxGasSpend       float64 // unidades del activo nativo, >= 0
}

// DefaultRebalanceParams devuelve los defaults del constructor de estrategias.
func DefaultRebalanceParams() RebalanceParams {
	return RebalanceParams{
		PriceDeviation:    5,
		TimeInterval:      60,
		SlippageTolerance: 1,
		MaxGasSpend:       0.1,
	}
}

// Validate indica si los parámetros forman una estrategia ejecutable.
func (p RebalanceParams) Validate() error {
	switch {
	case !(p.PriceDeviation > 0):
		return fmt.Errorf("%w: priceDeviation must be > 0, got %v", ErrInvalidStrategy, p.PriceDeviation)
	case !(p.TimeInterval > 0):
		return fmt.Errorf("%w: timeInterval must be > 0, got %v", ErrInvalidStrategy, p.TimeInterval)
	case p.SlippageTolerance < 0 || math.IsNaN(p.SlippageTolerance):
		return fmt.Errorf("%w: slippageTolerance must be >= 0, got %v", ErrInvalidStrategy, p.SlippageTolerance)
	case p.MaxGasSpend < 0 || math.IsNaN(p.MaxGasSpend):
		return fmt.Errorf("%w: maxGasSpend must be >= 0, got %v", ErrInvalidStrategy, p.MaxGasSpend)
	}
	return nil
}

// Interval devuelve TimeInterval como time.Duration.
func (p RebalanceParams) Interval() time.Duration {
	return time.Duration(p.TimeInterval * float64(time.Minute))
}

// DeviationExceeded es la compuerta de desvío: |deviation| estrictamente mayor al umbral.
func (p RebalanceParams) DeviationExceeded(deviationPct float64) bool {
	return math.Abs(deviationPct) > p.PriceDeviation
}

// CooldownElapsed es la compuerta de cooldown: al menos TimeInterval minutos desde last.
func (p RebalanceParams) CooldownElapsed(last, now time.Time) bool {
	return now.Sub(last) >= p.Interval()
}

// SimulatedGasCost es la estimación conservadora de gas del simulador:
// min(maxGasSpend × 0.8, 0.01). Nunca supera el presupuesto; no usar en asesoría.
func (p RebalanceParams) SimulatedGasCost() float64 {
	return math.Min(p.MaxGasSpend*simulatedGasBudgetShare, simulatedGasCap)
}

// RebalanceStrategy es un conjunto de reglas con nombre. Sus parámetros no cambian durante un backtest.
type RebalanceStrategy struct {
	ID           string
	Name         string
	Description  string
	Parameters   RebalanceParams
	IsActive     bool
	LastExecuted *time.Time
}

// NewStrategy arma una estrategia con un ID nuevo.
func NewStrategy(name, description string, params RebalanceParams) RebalanceStrategy {
	return RebalanceStrategy{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Parameters:  params,
	}
}

// Validate verifica que la estrategia sea ejecutable.
func (s RebalanceStrategy) Validate() error {
	if err := s.Parameters.Validate(); err != nil {
		return fmt.Errorf("strategy %q: %w", s.Name, err)
	}
	return nil
}
