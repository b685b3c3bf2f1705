package fees

import (
	"errors"

	"github.com/alejandrodnm/binscope/internal/domain"
)

// ErrNoSchedule se devuelve si no hay tarifa configurada.
var ErrNoSchedule = errors.New("fees: no fee schedule configured")

// Config es una tarifa plana de comisiones.
type Config struct {
	LamportsPerSignature int64
	SignaturesPerTx      int64
}

// DefaultConfig devuelve la comisión base de la red: 5000 lamports, una firma.
func DefaultConfig() Config {
	return Config{LamportsPerSignature: domain.DefaultTxFeeLamports, SignaturesPerTx: 1}
}

// Static implementa ports.FeeQuoter con una comisión fija por firma.
type Static struct {
	cfg Config
}

// NewStatic crea un quoter para la tarifa dada.
func NewStatic(cfg Config) *Static {
	return &Static{cfg: cfg}
}

// QuoteFee devuelve la comisión de tx en lamports.
func (s *Static) QuoteFee(domain.PlannedTransaction) (int64, error) {
	if s.cfg.LamportsPerSignature <= 0 || s.cfg.SignaturesPerTx <= 0 {
		return 0, ErrNoSchedule
	}
	return s.cfg.LamportsPerSignature * s.cfg.SignaturesPerTx, nil
}
