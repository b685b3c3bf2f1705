package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/alejandrodnm/binscope/internal/application/analytics"
	"github.com/alejandrodnm/binscope/internal/domain"
	"github.com/alejandrodnm/binscope/internal/ports"
	"github.com/spf13/cobra"
)

func (a *app) analyzeCmd() *cobra.Command {
	var fixturesPath, wallet, timeframe, now string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Portfolio analytics and performance report for a wallet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := loadSnapshot(fixturesPath)
			if err != nil {
				return err
			}

			at := time.Now().UTC()
			if now != "" {
				if at, err = parseTime("now", now); err != nil {
					return err
				}
			}
			tf := domain.Timeframe(timeframe)

			calc := analytics.NewCalculator(analytics.Config{ILPriceChange: a.cfg.Engine.ILPriceChange})
			report, err := walletReport(cmd.Context(), calc, snap, snap, wallet, tf, at)
			if err != nil {
				return err
			}
			return a.reporter.PrintReport(report)
		},
	}

	cmd.Flags().StringVar(&fixturesPath, "fixtures", "", "snapshot YAML file")
	cmd.Flags().StringVar(&wallet, "wallet", "", "wallet address")
	cmd.Flags().StringVar(&timeframe, "timeframe", string(domain.TimeframeWeek), "day|week|month|year")
	cmd.Flags().StringVar(&now, "now", "", "report end time (default: current time)")
	_ = cmd.MarkFlagRequired("wallet")
	return cmd
}

// walletReport trae las posiciones de la wallet y el histórico del timeframe que termina en now.
func walletReport(
	ctx context.Context,
	calc *analytics.Calculator,
	positions ports.PositionProvider,
	history ports.HistoryProvider,
	wallet string,
	tf domain.Timeframe,
	now time.Time,
) (domain.PerformanceReport, error) {
	current, err := positions.FetchPositions(ctx, wallet)
	if err != nil {
		return domain.PerformanceReport{}, err
	}
	slog.Debug("positions loaded", "wallet", wallet, "positions", len(current), "tokens", len(positions.Tokens()))

	past, err := history.FetchHistory(ctx, wallet, now.AddDate(0, 0, -tf.Days()), now)
	if err != nil {
		return domain.PerformanceReport{}, err
	}
	return calc.GenerateReport(current, past, tf, now), nil
}
