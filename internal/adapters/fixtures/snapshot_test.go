package fixtures_test

import (
	"context"
	"testing"
	"time"

	"github.com/alejandrodnm/binscope/internal/adapters/fixtures"
	"github.com/alejandrodnm/binscope/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	wallet  = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"
	solPool = "5rCf1DM8LjKTw4YqhnoLcngyZYeNnQqztScTogYHAS6"
)

func loadSnapshot(t *testing.T) *fixtures.Snapshot {
	t.Helper()
	s, err := fixtures.Load("testdata/snapshot.yaml")
	require.NoError(t, err)
	return s
}

func TestLoad_Positions(t *testing.T) {
	s := loadSnapshot(t)

	positions, err := s.FetchPositions(context.Background(), wallet)
	require.NoError(t, err)
	require.Len(t, positions, 3)

	p := positions[0]
	assert.Equal(t, "pos-sol-usdc", p.ID)
	assert.Equal(t, "SOL", p.TokenX.Symbol)
	assert.Equal(t, int32(9), p.TokenX.Decimals)
	assert.Equal(t, "SOL/USDC", p.PairLabel())
	require.Len(t, p.Bins, 3)
	assert.Equal(t, 8387, p.Bins[0].BinID)

	// montos convertidos desde unidades base, totales derivados de los bins
	assert.InDelta(t, 8.8, p.Bins[1].XAmount, 1e-9)
	assert.InDelta(t, 1300.0, p.Bins[1].YAmount, 1e-9)
	assert.InDelta(t, 17.5, p.TotalXAmount, 1e-9)
	assert.InDelta(t, 2600.0, p.TotalYAmount, 1e-9)

	bin, ok := p.ActiveBin()
	require.True(t, ok)
	assert.InDelta(t, 148.5, bin.Price, 1e-12)

	none, err := s.FetchPositions(context.Background(), "someone-else")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLoad_TokenRegistry(t *testing.T) {
	tok, ok := loadSnapshot(t).Tokens().Lookup("bonk")
	require.True(t, ok)
	assert.Equal(t, int32(5), tok.Decimals)
}

func TestLoad_Strategies(t *testing.T) {
	s := loadSnapshot(t)
	ctx := context.Background()

	strategies, err := s.LoadStrategies(ctx)
	require.NoError(t, err)
	require.Len(t, strategies, 3)

	assert.Equal(t, "tight", strategies[0].ID)
	assert.Equal(t, 2.0, strategies[0].Parameters.PriceDeviation)
	assert.True(t, strategies[0].IsActive)

	// params vacíos toman los defaults
	assert.Equal(t, domain.DefaultRebalanceParams(), strategies[1].Parameters)

	// sin id se genera uno; los campos sin setear quedan en default
	lazy := strategies[2]
	assert.NotEmpty(t, lazy.ID)
	assert.Equal(t, 12.0, lazy.Parameters.PriceDeviation)
	assert.Equal(t, 1440.0, lazy.Parameters.TimeInterval)
	assert.Equal(t, 0.1, lazy.Parameters.MaxGasSpend)

	byName, err := s.Strategy(ctx, "Lazy")
	require.NoError(t, err)
	assert.Equal(t, lazy.ID, byName.ID)

	_, err = s.Strategy(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLoad_HistoryAndSeries(t *testing.T) {
	s := loadSnapshot(t)
	ctx := context.Background()
	from := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 14, 23, 0, 0, 0, time.UTC)

	hist, err := s.FetchHistory(ctx, wallet, from, to)
	require.NoError(t, err)
	assert.Len(t, hist, 5)
	assert.Equal(t, 3, hist[0].PositionCount)

	series, err := s.LoadSeries(ctx, solPool, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, series, 10)
	require.NotNil(t, series[0].Volume)
	assert.Nil(t, series[1].Volume)
	assert.InDelta(t, 150.0, series[0].TokenXPrice, 1e-9)

	all := s.Series()
	assert.Len(t, all[solPool], 30)
}

func TestParse_UnknownToken(t *testing.T) {
	_, err := fixtures.Parse([]byte(`
tokens:
  - {symbol: SOL, decimals: 9}
positions:
  - {id: p1, owner: w, token_x: SOL, token_y: USDC}
`))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestParse_DuplicateToken(t *testing.T) {
	_, err := fixtures.Parse([]byte(`
tokens:
  - {symbol: SOL, decimals: 9}
  - {symbol: sol, decimals: 9}
`))
	assert.Error(t, err)
}

func TestPosition_Lookup(t *testing.T) {
	s := loadSnapshot(t)
	p, err := s.Position("pos-jup-usdc")
	require.NoError(t, err)
	assert.Equal(t, 512, p.ActiveID)

	_, err = s.Position("nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
