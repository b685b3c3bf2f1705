package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/binscope/internal/domain"
)

// SeriesProvider provee muestras históricas de pools para backtests.
type SeriesProvider interface {
	// LoadSeries devuelve las muestras del pool en [from, to] ordenadas por timestamp.
	LoadSeries(ctx context.Context, pool string, from, to time.Time) ([]domain.BacktestData, error)
}

// SeriesStore es un SeriesProvider que además persiste muestras.
type SeriesStore interface {
	SeriesProvider

	// SaveSamples hace upsert de las muestras de pool por timestamp.
	SaveSamples(ctx context.Context, pool string, samples []domain.BacktestData) error

	// Close libera la conexión subyacente.
	Close() error
}
