package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// NativeDecimals es la cantidad de decimales del activo nativo (lamports por SOL).
const NativeDecimals = 9

// Token describe un activo fungible. Es inmutable una vez construido.
type Token struct {
	Address     string
	Symbol      string
	Name        string
	Decimals    int32
	LogoURI     string
	CoingeckoID string
}

// UIAmount convierte un monto en unidades base a unidades del token.
func (t Token) UIAmount(raw int64) float64 {
	return FromBaseUnits(raw, t.Decimals)
}

// FromBaseUnits corre un monto entero en unidades base según los decimales dados.
func FromBaseUnits(raw int64, decimals int32) float64 {
	return decimal.NewFromInt(raw).Shift(-decimals).InexactFloat64()
}

// TokenRegistry mapea el símbolo de un token a su descriptor.
// Es del proveedor de datos de posiciones; analytics nunca tiene uno hardcodeado.
type TokenRegistry map[string]Token

// NewTokenRegistry indexa los tokens por símbolo en mayúsculas.
// Un símbolo repetido es error: la búsqueda sería ambigua.
func NewTokenRegistry(tokens ...Token) (TokenRegistry, error) {
	reg := make(TokenRegistry, len(tokens))
	for _, t := range tokens {
		key := strings.ToUpper(t.Symbol)
		if key == "" {
			return nil, fmt.Errorf("domain.NewTokenRegistry: token %q has no symbol", t.Address)
		}
		if _, dup := reg[key]; dup {
			return nil, fmt.Errorf("domain.NewTokenRegistry: duplicate symbol %q", t.Symbol)
		}
		reg[key] = t
	}
	return reg, nil
}

// Lookup devuelve el descriptor registrado para symbol (sin distinguir mayúsculas).
func (r TokenRegistry) Lookup(symbol string) (Token, bool) {
	t, ok := r[strings.ToUpper(symbol)]
	return t, ok
}
