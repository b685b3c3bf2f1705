package storage

// sqlite.go: almacenamiento local de muestras históricas de pools para backtests.
//
//   - `price_samples`: UNA fila por (pool, timestamp). Reimportar una muestra la sobreescribe.
//   - Timestamps en milisegundos unix: los rangos usan la primary key.
//   - Volume y TVL admiten NULL; NULL significa que el simulador usa sus defaults.

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alejandrodnm/binscope/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS price_samples (
    pool     TEXT    NOT NULL,
    ts_ms    INTEGER NOT NULL,
    x_price  REAL    NOT NULL,
    y_price  REAL    NOT NULL,
    volume   REAL,
    tvl      REAL,
    PRIMARY KEY (pool, ts_ms)
);

CREATE INDEX IF NOT EXISTS idx_samples_ts ON price_samples(ts_ms);
`

// SeriesStore implementa ports.SeriesStore con SQLite (Go puro, sin CGo).
type SeriesStore struct {
	db *sql.DB
}

// NewSeriesStore abre (o crea) la base en path y aplica el schema.
func NewSeriesStore(path string) (*SeriesStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSeriesStore: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite tiene un solo writer; además mantiene :memory: en una conexión
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSeriesStore: apply schema: %w", err)
	}
	return &SeriesStore{db: db}, nil
}

// SaveSamples hace upsert de las muestras de pool en una sola transacción.
func (s *SeriesStore) SaveSamples(ctx context.Context, pool string, samples []domain.BacktestData) error {
	if len(samples) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveSamples: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO price_samples (pool, ts_ms, x_price, y_price, volume, tvl)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(pool, ts_ms) DO UPDATE SET
			x_price = excluded.x_price,
			y_price = excluded.y_price,
			volume  = excluded.volume,
			tvl     = excluded.tvl
	`)
	if err != nil {
		return fmt.Errorf("storage.SaveSamples: prepare: %w", err)
	}
	defer stmt.Close()

	for _, d := range samples {
		if _, err := stmt.ExecContext(ctx,
			pool,
			d.Timestamp.UnixMilli(),
			d.TokenXPrice,
			d.TokenYPrice,
			nullFloat(d.Volume),
			nullFloat(d.TVL),
		); err != nil {
			return fmt.Errorf("storage.SaveSamples: upsert %s@%s: %w", pool, d.Timestamp.Format(time.RFC3339), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveSamples: commit: %w", err)
	}
	return nil
}

// LoadSeries devuelve las muestras de pool en [from, to] ordenadas por timestamp.
func (s *SeriesStore) LoadSeries(ctx context.Context, pool string, from, to time.Time) ([]domain.BacktestData, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ts_ms, x_price, y_price, volume, tvl
		FROM price_samples
		WHERE pool = ? AND ts_ms BETWEEN ? AND ?
		ORDER BY ts_ms ASC
	`, pool, from.UnixMilli(), to.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("storage.LoadSeries: query: %w", err)
	}
	defer rows.Close()

	var out []domain.BacktestData
	for rows.Next() {
		var (
			tsMs        int64
			d           domain.BacktestData
			volume, tvl sql.NullFloat64
		)
		if err := rows.Scan(&tsMs, &d.TokenXPrice, &d.TokenYPrice, &volume, &tvl); err != nil {
			return nil, fmt.Errorf("storage.LoadSeries: scan: %w", err)
		}
		d.Timestamp = time.UnixMilli(tsMs).UTC()
		d.Volume = floatPtr(volume)
		d.TVL = floatPtr(tvl)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage.LoadSeries: rows: %w", err)
	}
	return out, nil
}

// Pools devuelve cada pool con muestras guardadas y cuántas tiene.
func (s *SeriesStore) Pools(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT pool, COUNT(*) FROM price_samples GROUP BY pool`)
	if err != nil {
		return nil, fmt.Errorf("storage.Pools: query: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var pool string
		var n int
		if err := rows.Scan(&pool, &n); err != nil {
			return nil, fmt.Errorf("storage.Pools: scan: %w", err)
		}
		out[pool] = n
	}
	return out, rows.Err()
}

// Close cierra la base.
func (s *SeriesStore) Close() error {
	return s.db.Close()
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
