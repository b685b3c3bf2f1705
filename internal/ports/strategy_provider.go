package ports

import (
	"context"

	"github.com/alejandrodnm/binscope/internal/domain"
)

// StrategyProvider carga definiciones de estrategias de rebalanceo.
type StrategyProvider interface {
	// LoadStrategies devuelve todas las estrategias en orden de definición.
	LoadStrategies(ctx context.Context) ([]domain.RebalanceStrategy, error)

	// Strategy devuelve una estrategia por ID, o un error que envuelve domain.ErrNotFound.
	Strategy(ctx context.Context, id string) (domain.RebalanceStrategy, error)
}
