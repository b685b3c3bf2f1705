package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/alejandrodnm/binscope/internal/adapters/storage"
	"github.com/alejandrodnm/binscope/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func newStore(t *testing.T) *storage.SeriesStore {
	t.Helper()
	s, err := storage.NewSeriesStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func ptr(v float64) *float64 { return &v }

func TestSeriesStore_SaveAndLoad(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	samples := []domain.BacktestData{
		{Timestamp: t0.AddDate(0, 0, 2), TokenXPrice: 120, TokenYPrice: 1},
		{Timestamp: t0, TokenXPrice: 100, TokenYPrice: 1, Volume: ptr(5e6), TVL: ptr(2e7)},
		{Timestamp: t0.AddDate(0, 0, 1), TokenXPrice: 110, TokenYPrice: 1.01},
	}
	require.NoError(t, s.SaveSamples(ctx, "SOL-USDC", samples))

	got, err := s.LoadSeries(ctx, "SOL-USDC", t0, t0.AddDate(0, 0, 2))
	require.NoError(t, err)
	require.Len(t, got, 3)

	// ordenadas por timestamp
	assert.Equal(t, t0, got[0].Timestamp)
	assert.InDelta(t, 100.0, got[0].TokenXPrice, 1e-12)
	require.NotNil(t, got[0].Volume)
	assert.InDelta(t, 5e6, *got[0].Volume, 1e-6)
	require.NotNil(t, got[0].TVL)
	assert.InDelta(t, 2e7, *got[0].TVL, 1e-6)

	assert.Nil(t, got[1].Volume)
	assert.Nil(t, got[1].TVL)
	assert.InDelta(t, 1.01, got[1].TokenYPrice, 1e-12)
	assert.Equal(t, t0.AddDate(0, 0, 2), got[2].Timestamp)
}

func TestSeriesStore_RangeAndPoolFilter(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	var samples []domain.BacktestData
	for i := 0; i < 10; i++ {
		samples = append(samples, domain.BacktestData{Timestamp: t0.AddDate(0, 0, i), TokenXPrice: float64(100 + i), TokenYPrice: 1})
	}
	require.NoError(t, s.SaveSamples(ctx, "SOL-USDC", samples))
	require.NoError(t, s.SaveSamples(ctx, "JUP-USDC", samples[:3]))

	got, err := s.LoadSeries(ctx, "SOL-USDC", t0.AddDate(0, 0, 3), t0.AddDate(0, 0, 5))
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.InDelta(t, 103.0, got[0].TokenXPrice, 1e-12)
	assert.InDelta(t, 105.0, got[2].TokenXPrice, 1e-12)

	pools, err := s.Pools(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"SOL-USDC": 10, "JUP-USDC": 3}, pools)

	none, err := s.LoadSeries(ctx, "BONK-USDC", t0, t0.AddDate(1, 0, 0))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSeriesStore_UpsertOverwrites(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveSamples(ctx, "p", []domain.BacktestData{{Timestamp: t0, TokenXPrice: 1, TokenYPrice: 1, Volume: ptr(10)}}))
	require.NoError(t, s.SaveSamples(ctx, "p", []domain.BacktestData{{Timestamp: t0, TokenXPrice: 2, TokenYPrice: 3}}))

	got, err := s.LoadSeries(ctx, "p", t0, t0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, 2.0, got[0].TokenXPrice, 1e-12)
	assert.InDelta(t, 3.0, got[0].TokenYPrice, 1e-12)
	assert.Nil(t, got[0].Volume)
}

func TestSeriesStore_SaveEmpty(t *testing.T) {
	s := newStore(t)
	assert.NoError(t, s.SaveSamples(context.Background(), "p", nil))
}
