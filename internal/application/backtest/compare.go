package backtest

// compare.go: corre backtests independientes en paralelo y los rankea.
//
// Cada estrategia es una tarea; los resultados se juntan por índice de entrada, así el
// ranking no depende del orden en que terminan.

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"time"

	"github.com/alejandrodnm/binscope/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Comparator reparte las estrategias sobre un Simulator.
type Comparator struct {
	sim     *Simulator
	workers int
}

// NewComparator crea un Comparator. Con workers <= 0 usa runtime.NumCPU().
func NewComparator(sim *Simulator, workers int) *Comparator {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Comparator{sim: sim, workers: workers}
}

// RunAll hace backtest de cada estrategia sobre la misma ventana. Si una corrida falla, falla todo.
func (c *Comparator) RunAll(
	ctx context.Context,
	strategies []domain.RebalanceStrategy,
	series []domain.BacktestData,
	initialCapital float64,
	start, end time.Time,
) (domain.MultiBacktestResult, error) {
	if len(strategies) == 0 {
		return domain.MultiBacktestResult{}, domain.ErrNoStrategies
	}

	slog.Info("comparing strategies",
		"strategies", len(strategies),
		"samples", len(series),
		"workers", c.workers,
	)
	began := time.Now()

	results := make([]domain.BacktestResult, len(strategies))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for i, strategy := range strategies {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := c.sim.Run(strategy, series, initialCapital, start, end)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.MultiBacktestResult{}, fmt.Errorf("backtest.RunAll: %w", err)
	}

	out := Rank(results)
	slog.Info("comparison complete",
		"best_return", out.BestByReturn.Strategy.Name,
		"best_sharpe", out.BestBySharpe.Strategy.Name,
		"elapsed", time.Since(began),
	)
	return out, nil
}

// Rank elige las mejores corridas por retorno total y por Sharpe y promedia el conjunto.
// Los empates van al resultado anterior. results no puede estar vacío.
func Rank(results []domain.BacktestResult) domain.MultiBacktestResult {
	byReturn := make([]int, len(results))
	bySharpe := make([]int, len(results))
	for i := range results {
		byReturn[i], bySharpe[i] = i, i
	}
	sort.SliceStable(byReturn, func(a, b int) bool {
		return results[byReturn[a]].TotalReturn > results[byReturn[b]].TotalReturn
	})
	sort.SliceStable(bySharpe, func(a, b int) bool {
		return results[bySharpe[a]].SharpeRatio > results[bySharpe[b]].SharpeRatio
	})

	var sumReturn, sumSharpe, sumDD float64
	for _, r := range results {
		sumReturn += r.TotalReturn
		sumSharpe += r.SharpeRatio
		sumDD += r.MaxDrawdown
	}
	n := float64(len(results))

	return domain.MultiBacktestResult{
		Results:      results,
		BestByReturn: results[byReturn[0]],
		BestBySharpe: results[bySharpe[0]],
		Summary: domain.BacktestSummary{
			AverageReturn:         sumReturn / n,
			AverageSharpe:         sumSharpe / n,
			AverageMaxDrawdown:    sumDD / n,
			TotalStrategiesTested: len(results),
		},
	}
}
