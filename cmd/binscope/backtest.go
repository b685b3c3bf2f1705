package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alejandrodnm/binscope/internal/adapters/storage"
	"github.com/alejandrodnm/binscope/internal/application/backtest"
	"github.com/alejandrodnm/binscope/internal/domain"
	"github.com/alejandrodnm/binscope/internal/ports"
	"github.com/spf13/cobra"
)

// windowFlags se comparten entre backtest y compare.
type windowFlags struct {
	fixtures string
	pool     string
	from     string
	to       string
	capital  float64
	source   string
}

func (w *windowFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&w.fixtures, "fixtures", "", "snapshot YAML file (strategies, and series when --source=fixtures)")
	cmd.Flags().StringVar(&w.pool, "pool", "", "pool address")
	cmd.Flags().StringVar(&w.from, "from", "", "window start (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&w.to, "to", "", "window end (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().Float64Var(&w.capital, "capital", 0, "initial capital (default from config)")
	cmd.Flags().StringVar(&w.source, "source", "fixtures", "series source: fixtures|db")
	for _, name := range []string{"pool", "from", "to"} {
		_ = cmd.MarkFlagRequired(name)
	}
}

// resolved es todo lo que un backtest necesita tras parsear los flags.
type resolved struct {
	strategies ports.StrategyProvider
	series     []domain.BacktestData
	capital    float64
	from       time.Time
	to         time.Time
}

func (a *app) resolveWindow(ctx context.Context, w windowFlags) (resolved, error) {
	var r resolved
	var err error

	if r.from, err = parseTime("from", w.from); err != nil {
		return r, err
	}
	if r.to, err = parseTime("to", w.to); err != nil {
		return r, err
	}
	snap, err := loadSnapshot(w.fixtures)
	if err != nil {
		return r, err
	}
	r.strategies = snap

	r.capital = w.capital
	if r.capital == 0 {
		r.capital = a.cfg.Backtest.InitialCapital
	}

	var provider ports.SeriesProvider
	switch w.source {
	case "fixtures":
		provider = snap
	case "db":
		store, err := storage.NewSeriesStore(a.cfg.Storage.DSN)
		if err != nil {
			return r, err
		}
		defer store.Close()
		provider = store
	default:
		return r, fmt.Errorf("--source: want fixtures|db, got %q", w.source)
	}

	if r.series, err = provider.LoadSeries(ctx, w.pool, r.from, r.to); err != nil {
		return r, err
	}
	slog.Debug("series loaded", "pool", w.pool, "source", w.source, "samples", len(r.series))
	return r, nil
}

func (a *app) simulator() *backtest.Simulator {
	return backtest.NewSimulator(backtest.Config{
		RiskFreeRate:  a.cfg.Engine.RiskFreeRate,
		FeeRate:       a.cfg.Engine.FeeRate,
		DefaultVolume: a.cfg.Engine.DefaultVolume,
		DefaultTVL:    a.cfg.Engine.DefaultTVL,
		CashReserve:   a.cfg.Engine.CashReserve,
	})
}

func (a *app) backtestCmd() *cobra.Command {
	var w windowFlags
	var strategyRef string

	cmd := &cobra.Command{
		Use:   "backtest",
		Short: "Replay one rebalance strategy over a pool's price history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			r, err := a.resolveWindow(ctx, w)
			if err != nil {
				return err
			}
			strategy, err := r.strategies.Strategy(ctx, strategyRef)
			if err != nil {
				return err
			}

			res, err := a.simulator().Run(strategy, r.series, r.capital, r.from, r.to)
			if err != nil {
				return err
			}
			a.recorder.ObserveBacktest(res)
			slog.Info("backtest complete",
				"strategy", strategy.Name,
				"steps", len(res.Steps),
				"return_pct", res.TotalReturn,
				"rebalances", res.TotalRebalances,
			)
			return a.reporter.PrintBacktest(res)
		},
	}

	w.register(cmd)
	cmd.Flags().StringVar(&strategyRef, "strategy", "", "strategy id or name")
	_ = cmd.MarkFlagRequired("strategy")
	return cmd
}

func (a *app) compareCmd() *cobra.Command {
	var w windowFlags
	var only string

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Backtest several strategies over the same window and rank them",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			r, err := a.resolveWindow(ctx, w)
			if err != nil {
				return err
			}

			var strategies []domain.RebalanceStrategy
			if only == "" {
				if strategies, err = r.strategies.LoadStrategies(ctx); err != nil {
					return err
				}
			} else {
				for _, ref := range strings.Split(only, ",") {
					s, err := r.strategies.Strategy(ctx, strings.TrimSpace(ref))
					if err != nil {
						return err
					}
					strategies = append(strategies, s)
				}
			}

			cmp := backtest.NewComparator(a.simulator(), a.cfg.Backtest.Workers)
			multi, err := cmp.RunAll(ctx, strategies, r.series, r.capital, r.from, r.to)
			if err != nil {
				return err
			}
			a.recorder.ObserveComparison(multi)
			return a.reporter.PrintComparison(multi)
		},
	}

	w.register(cmd)
	cmd.Flags().StringVar(&only, "strategies", "", "comma-separated strategy ids or names (default: all)")
	return cmd
}
