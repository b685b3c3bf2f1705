package fixtures

// snapshot.go: snapshot YAML con posiciones de wallets, histórico, estrategias y series de pools.
//
// Los montos de los bins vienen en unidades base y se convierten con los decimales del token.
// Los totales de una posición que quedan en 0 se derivan de los bins.

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/alejandrodnm/binscope/internal/domain"
	"gopkg.in/yaml.v3"
)

type fileToken struct {
	Symbol      string `yaml:"symbol"`
	Address     string `yaml:"address"`
	Name        string `yaml:"name"`
	Decimals    int32  `yaml:"decimals"`
	LogoURI     string `yaml:"logo_uri"`
	CoingeckoID string `yaml:"coingecko_id"`
}

type fileBin struct {
	ID     int     `yaml:"id"`
	Price  float64 `yaml:"price"`
	XRaw   int64   `yaml:"x_raw"`
	YRaw   int64   `yaml:"y_raw"`
	Supply float64 `yaml:"supply"`
	Share  float64 `yaml:"share"`
}

type filePosition struct {
	ID          string    `yaml:"id"`
	Pool        string    `yaml:"pool"`
	Owner       string    `yaml:"owner"`
	TokenX      string    `yaml:"token_x"`
	TokenY      string    `yaml:"token_y"`
	ActiveID    int       `yaml:"active_id"`
	TotalX      float64   `yaml:"total_x"`
	TotalY      float64   `yaml:"total_y"`
	ValueUSD    float64   `yaml:"value_usd"`
	PnL         float64   `yaml:"pnl"`
	Fees        float64   `yaml:"fees"`
	LastUpdated time.Time `yaml:"last_updated"`
	Bins        []fileBin `yaml:"bins"`
}

type fileHistory struct {
	Wallet  string `yaml:"wallet"`
	Samples []struct {
		At        time.Time `yaml:"at"`
		Value     float64   `yaml:"value"`
		PnL       float64   `yaml:"pnl"`
		Fees      float64   `yaml:"fees"`
		Positions int       `yaml:"positions"`
	} `yaml:"samples"`
}

type fileStrategy struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Active      bool   `yaml:"active"`
	Params      struct {
		PriceDeviation    *float64 `yaml:"price_deviation"`
		TimeInterval      *float64 `yaml:"time_interval"`
		SlippageTolerance *float64 `yaml:"slippage_tolerance"`
		MaxGasSpend       *float64 `yaml:"max_gas_spend"`
	} `yaml:"params"`
}

type fileSeries struct {
	Pool    string `yaml:"pool"`
	Samples []struct {
		At     time.Time `yaml:"at"`
		X      float64   `yaml:"x"`
		Y      float64   `yaml:"y"`
		Volume *float64  `yaml:"volume"`
		TVL    *float64  `yaml:"tvl"`
	} `yaml:"samples"`
}

type file struct {
	Tokens     []fileToken    `yaml:"tokens"`
	Positions  []filePosition `yaml:"positions"`
	History    []fileHistory  `yaml:"history"`
	Strategies []fileStrategy `yaml:"strategies"`
	Series     []fileSeries   `yaml:"series"`
}

// Snapshot es un set de datos en memoria cargado desde YAML. Implementa
// ports.PositionProvider, ports.HistoryProvider, ports.StrategyProvider y
// ports.SeriesProvider. Es de solo lectura después de Load.
type Snapshot struct {
	tokens     domain.TokenRegistry
	positions  []domain.DLMMPosition
	history    map[string][]domain.HistoricalData
	strategies []domain.RebalanceStrategy
	series     map[string][]domain.BacktestData
}

// Load lee y resuelve un archivo de snapshot.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixtures.Load: read %q: %w", path, err)
	}
	snap, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("fixtures.Load: %q: %w", path, err)
	}
	return snap, nil
}

// Parse resuelve un snapshot a partir de bytes YAML.
func Parse(data []byte) (*Snapshot, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	tokens := make([]domain.Token, len(f.Tokens))
	for i, t := range f.Tokens {
		tokens[i] = domain.Token{
			Address:     t.Address,
			Symbol:      t.Symbol,
			Name:        t.Name,
			Decimals:    t.Decimals,
			LogoURI:     t.LogoURI,
			CoingeckoID: t.CoingeckoID,
		}
	}
	reg, err := domain.NewTokenRegistry(tokens...)
	if err != nil {
		return nil, err
	}

	s := &Snapshot{
		tokens:  reg,
		history: make(map[string][]domain.HistoricalData),
		series:  make(map[string][]domain.BacktestData),
	}

	for _, fp := range f.Positions {
		p, err := resolvePosition(fp, reg)
		if err != nil {
			return nil, err
		}
		s.positions = append(s.positions, p)
	}

	for _, fh := range f.History {
		for _, h := range fh.Samples {
			s.history[fh.Wallet] = append(s.history[fh.Wallet], domain.HistoricalData{
				Timestamp:      h.At.UTC(),
				PortfolioValue: h.Value,
				PnL:            h.PnL,
				FeesEarned:     h.Fees,
				PositionCount:  h.Positions,
			})
		}
	}
	for w := range s.history {
		sortHistory(s.history[w])
	}

	for _, fs := range f.Strategies {
		s.strategies = append(s.strategies, resolveStrategy(fs))
	}

	for _, fs := range f.Series {
		for _, d := range fs.Samples {
			s.series[fs.Pool] = append(s.series[fs.Pool], domain.BacktestData{
				Timestamp:   d.At.UTC(),
				TokenXPrice: d.X,
				TokenYPrice: d.Y,
				Volume:      d.Volume,
				TVL:         d.TVL,
			})
		}
	}
	return s, nil
}

func resolvePosition(fp filePosition, reg domain.TokenRegistry) (domain.DLMMPosition, error) {
	x, ok := reg.Lookup(fp.TokenX)
	if !ok {
		return domain.DLMMPosition{}, fmt.Errorf("position %s: token %q: %w", fp.ID, fp.TokenX, domain.ErrNotFound)
	}
	y, ok := reg.Lookup(fp.TokenY)
	if !ok {
		return domain.DLMMPosition{}, fmt.Errorf("position %s: token %q: %w", fp.ID, fp.TokenY, domain.ErrNotFound)
	}

	p := domain.DLMMPosition{
		ID:            fp.ID,
		PoolAddress:   fp.Pool,
		UserAddress:   fp.Owner,
		TokenX:        x,
		TokenY:        y,
		ActiveID:      fp.ActiveID,
		TotalXAmount:  fp.TotalX,
		TotalYAmount:  fp.TotalY,
		TotalUSDValue: fp.ValueUSD,
		PnL:           fp.PnL,
		FeesEarned:    fp.Fees,
		LastUpdated:   fp.LastUpdated.UTC(),
	}

	var sumX, sumY float64
	for _, b := range fp.Bins {
		bin := domain.PositionBin{
			BinID:       b.ID,
			Price:       b.Price,
			XAmount:     x.UIAmount(b.XRaw),
			YAmount:     y.UIAmount(b.YRaw),
			TotalSupply: b.Supply,
			UserShare:   b.Share,
		}
		sumX += bin.XAmount
		sumY += bin.YAmount
		p.Bins = append(p.Bins, bin)
	}
	sort.SliceStable(p.Bins, func(i, j int) bool { return p.Bins[i].BinID < p.Bins[j].BinID })

	if p.TotalXAmount == 0 {
		p.TotalXAmount = sumX
	}
	if p.TotalYAmount == 0 {
		p.TotalYAmount = sumY
	}
	return p, nil
}

// resolveStrategy completa los parámetros faltantes con los defaults y asigna un ID si no hay.
func resolveStrategy(fs fileStrategy) domain.RebalanceStrategy {
	params := domain.DefaultRebalanceParams()
	if v := fs.Params.PriceDeviation; v != nil {
		params.PriceDeviation = *v
	}
	if v := fs.Params.TimeInterval; v != nil {
		params.TimeInterval = *v
	}
	if v := fs.Params.SlippageTolerance; v != nil {
		params.SlippageTolerance = *v
	}
	if v := fs.Params.MaxGasSpend; v != nil {
		params.MaxGasSpend = *v
	}

	s := domain.NewStrategy(fs.Name, fs.Description, params)
	if fs.ID != "" {
		s.ID = fs.ID
	}
	s.IsActive = fs.Active
	return s
}

func sortHistory(h []domain.HistoricalData) {
	sort.SliceStable(h, func(i, j int) bool { return h[i].Timestamp.Before(h[j].Timestamp) })
}

// Tokens devuelve el registro de tokens del snapshot.
func (s *Snapshot) Tokens() domain.TokenRegistry {
	return s.tokens
}

// FetchPositions devuelve copias de las posiciones de wallet.
func (s *Snapshot) FetchPositions(_ context.Context, wallet string) ([]domain.DLMMPosition, error) {
	var out []domain.DLMMPosition
	for _, p := range s.positions {
		if p.UserAddress == wallet {
			out = append(out, p)
		}
	}
	return out, nil
}

// Position devuelve una posición por ID, sin importar el dueño.
func (s *Snapshot) Position(id string) (domain.DLMMPosition, error) {
	for _, p := range s.positions {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.DLMMPosition{}, fmt.Errorf("fixtures.Position: %q: %w", id, domain.ErrNotFound)
}

// FetchHistory devuelve las muestras de wallet en [from, to].
func (s *Snapshot) FetchHistory(_ context.Context, wallet string, from, to time.Time) ([]domain.HistoricalData, error) {
	var out []domain.HistoricalData
	for _, h := range s.history[wallet] {
		if h.Timestamp.Before(from) || h.Timestamp.After(to) {
			continue
		}
		out = append(out, h)
	}
	return out, nil
}

// LoadStrategies devuelve todas las estrategias en el orden del archivo.
func (s *Snapshot) LoadStrategies(context.Context) ([]domain.RebalanceStrategy, error) {
	out := make([]domain.RebalanceStrategy, len(s.strategies))
	copy(out, s.strategies)
	return out, nil
}

// Strategy busca una estrategia por ID y después por nombre.
func (s *Snapshot) Strategy(_ context.Context, ref string) (domain.RebalanceStrategy, error) {
	for _, st := range s.strategies {
		if st.ID == ref {
			return st, nil
		}
	}
	for _, st := range s.strategies {
		if st.Name == ref {
			return st, nil
		}
	}
	return domain.RebalanceStrategy{}, fmt.Errorf("fixtures.Strategy: %q: %w", ref, domain.ErrNotFound)
}

// LoadSeries devuelve las muestras del pool en [from, to] en el orden del archivo.
func (s *Snapshot) LoadSeries(_ context.Context, pool string, from, to time.Time) ([]domain.BacktestData, error) {
	var out []domain.BacktestData
	for _, d := range s.series[pool] {
		if d.Timestamp.Before(from) || d.Timestamp.After(to) {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

// Series devuelve todas las muestras de cada pool, indexadas por pool.
func (s *Snapshot) Series() map[string][]domain.BacktestData {
	out := make(map[string][]domain.BacktestData, len(s.series))
	for pool, samples := range s.series {
		out[pool] = append([]domain.BacktestData(nil), samples...)
	}
	return out
}
