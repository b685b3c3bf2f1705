package domain

import (
	"sort"
	"time"
)

// PositionBin es un tramo discreto de precio de una posición de liquidez.
// Los IDs de bin se ordenan igual que los precios.
type PositionBin struct {
	BinID       int
	Price       float64
	XAmount     float64
	YAmount     float64
	TotalSupply float64
	UserShare   float64 // 0..1
}

// DLMMPosition es la posición de liquidez de un usuario en un pool.
// Los totales son sumas desnormalizadas sobre Bins, tal como las reportó el snapshot.
type DLMMPosition struct {
	ID            string
	PoolAddress   string
	UserAddress   string
	TokenX        Token
	TokenY        Token
	ActiveID      int
	TotalXAmount  float64
	TotalYAmount  float64
	TotalUSDValue float64
	PnL           float64
	FeesEarned    float64
	Bins          []PositionBin
	LastUpdated   time.Time
}

// ActiveBin devuelve el bin cuyo ID coincide con ActiveID.
func (p DLMMPosition) ActiveBin() (PositionBin, bool) {
	for _, b := range p.Bins {
		if b.BinID == p.ActiveID {
			return b, true
		}
	}
	return PositionBin{}, false
}

// PriceRange devuelve el precio de bin más bajo y más alto. ok es false sin bins.
func (p DLMMPosition) PriceRange() (lo, hi float64, ok bool) {
	if len(p.Bins) == 0 {
		return 0, 0, false
	}
	prices := make([]float64, len(p.Bins))
	for i, b := range p.Bins {
		prices[i] = b.Price
	}
	sort.Float64s(prices)
	return prices[0], prices[len(prices)-1], true
}

// TotalLiquidity es la cantidad cruda de tokens de la posición (x + y).
func (p DLMMPosition) TotalLiquidity() float64 {
	return p.TotalXAmount + p.TotalYAmount
}

// PairLabel devuelve "X/Y" con los símbolos de los tokens.
func (p DLMMPosition) PairLabel() string {
	return p.TokenX.Symbol + "/" + p.TokenY.Symbol
}
