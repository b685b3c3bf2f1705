package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func pos(id string, value, pnl float64, x, y string, prices ...float64) DLMMPosition {
	p := DLMMPosition{
		ID:            id,
		TokenX:        Token{Symbol: x},
		TokenY:        Token{Symbol: y},
		TotalUSDValue: value,
		PnL:           pnl,
	}
	for i, price := range prices {
		p.Bins = append(p.Bins, PositionBin{BinID: i, Price: price})
	}
	return p
}

// --- ConcentrationRisk ---

func TestConcentrationRisk_SinglePosition(t *testing.T) {
	assert.InDelta(t, 40.0, ConcentrationRisk([]DLMMPosition{pos("a", 100, 0, "SOL", "USDC")}), 1e-9)
}

func TestConcentrationRisk_Split(t *testing.T) {
	ps := []DLMMPosition{
		pos("a", 750, 0, "SOL", "USDC"),
		pos("b", 250, 0, "JUP", "USDC"),
	}
	assert.InDelta(t, 30.0, ConcentrationRisk(ps), 1e-9)
}

func TestConcentrationRisk_ZeroTotal(t *testing.T) {
	ps := []DLMMPosition{pos("a", 0, 0, "SOL", "USDC"), pos("b", 0, 0, "SOL", "USDC")}
	assert.Equal(t, 0.0, ConcentrationRisk(ps))
}

// --- SpreadScore ---

func TestPositionSpreadScore_SingleBinIsThirty(t *testing.T) {
	for _, price := range []float64{0.0001, 1, 150, 1e9} {
		assert.Equal(t, 30.0, PositionSpreadScore(pos("a", 100, 0, "SOL", "USDC", price)))
	}
	assert.Equal(t, 30.0, PositionSpreadScore(pos("a", 100, 0, "SOL", "USDC")))
}

func TestPositionSpreadScore_Wide(t *testing.T) {
	// (110 − 100) / 100 = 10% → 30 − 10 = 20
	assert.InDelta(t, 20.0, PositionSpreadScore(pos("a", 100, 0, "SOL", "USDC", 110, 100, 105)), 1e-9)
	// con 40% de spread queda en 0
	assert.Equal(t, 0.0, PositionSpreadScore(pos("a", 100, 0, "SOL", "USDC", 100, 140)))
}

func TestPositionSpreadScore_ZeroMinPrice(t *testing.T) {
	assert.Equal(t, 30.0, PositionSpreadScore(pos("a", 100, 0, "SOL", "USDC", 0, 10)))
}

// --- PnLVolatility ---

func TestPnLVolatility(t *testing.T) {
	ps := []DLMMPosition{
		pos("a", 100, 10, "SOL", "USDC"), // 0.10
		pos("b", 100, -10, "SOL", "USDC"), // -0.10
	}
	assert.InDelta(t, 10.0, PnLVolatility(ps), 1e-9)
}

func TestPnLVolatility_Empty(t *testing.T) {
	assert.Equal(t, 0.0, PnLVolatility(nil))
}

// --- RiskScore ---

func TestRiskScore_Bounds(t *testing.T) {
	wild := []DLMMPosition{
		pos("a", 100, 900, "SOL", "USDC", 5),
		pos("b", 1, -50, "SOL", "USDC", 5),
		pos("c", -40, 3, "SOL", "USDC"),
	}
	score := RiskScore(wild)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 100.0)
	assert.Equal(t, 100.0, score)
}

func TestRiskScore_Composition(t *testing.T) {
	ps := []DLMMPosition{
		pos("a", 500, 0, "SOL", "USDC", 100, 110),
		pos("b", 500, 0, "JUP", "USDC", 100, 110),
	}
	// concentración 0.5×40 = 20, spread 20, volatilidad 0
	assert.InDelta(t, 40.0, RiskScore(ps), 1e-9)
}

func TestRiskScore_Empty(t *testing.T) {
	assert.Equal(t, 0.0, RiskScore(nil))
}

// --- DiversificationScore ---

func TestDiversificationScore(t *testing.T) {
	ps := []DLMMPosition{
		pos("a", 1, 0, "SOL", "USDC"),
		pos("b", 1, 0, "JUP", "USDC"),
	}
	// 3 símbolos → 30, 2 posiciones → 10
	assert.Equal(t, 40.0, DiversificationScore(ps))
}

func TestDiversificationScore_Capped(t *testing.T) {
	var ps []DLMMPosition
	for i := 0; i < 20; i++ {
		ps = append(ps, pos("p", 1, 0, string(rune('A'+i)), string(rune('a'+i))))
	}
	assert.Equal(t, 100.0, DiversificationScore(ps))
}

// --- ImpermanentLossFactor ---

func TestImpermanentLossFactor(t *testing.T) {
	assert.InDelta(t, 2*math.Sqrt(1.1)/2.1-1, ImpermanentLossFactor(0.10), 1e-12)
	assert.Equal(t, 0.0, ImpermanentLossFactor(0))
	assert.Less(t, ImpermanentLossFactor(0.10), 0.0)
	assert.Equal(t, 0.0, ImpermanentLossFactor(-2))
}
