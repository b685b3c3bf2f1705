package ports

import "github.com/alejandrodnm/binscope/internal/domain"

// FeeQuoter cotiza una transacción planificada en unidades base (lamports) del activo nativo.
// Es síncrono: quien llama resuelve cualquier cotización de red antes de pasarla al engine.
type FeeQuoter interface {
	QuoteFee(tx domain.PlannedTransaction) (int64, error)
}
