package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/binscope/internal/domain"
)

// PositionProvider provee las posiciones de liquidez actuales de una wallet.
type PositionProvider interface {
	// FetchPositions devuelve todas las posiciones abiertas de wallet.
	// Una wallet desconocida da un slice vacío, no un error.
	FetchPositions(ctx context.Context, wallet string) ([]domain.DLMMPosition, error)

	// Tokens devuelve el registro contra el que se resolvieron los tokens de las posiciones.
	Tokens() domain.TokenRegistry
}

// HistoryProvider provee muestras del valor del portfolio para los reportes.
type HistoryProvider interface {
	// FetchHistory devuelve las muestras de la wallet en [from, to], de la más vieja a la más nueva.
	FetchHistory(ctx context.Context, wallet string, from, to time.Time) ([]domain.HistoricalData, error)
}
