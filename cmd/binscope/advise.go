package main

import (
	"github.com/alejandrodnm/binscope/internal/adapters/fees"
	"github.com/alejandrodnm/binscope/internal/application/rebalance"
	"github.com/alejandrodnm/binscope/internal/domain"
	"github.com/spf13/cobra"
)

func (a *app) adviseCmd() *cobra.Command {
	var fixturesPath, positionID, strategyRef string
	var price float64
	var prepare bool

	cmd := &cobra.Command{
		Use:   "advise",
		Short: "Evaluate whether a position should be rebalanced at a quoted price",
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := loadSnapshot(fixturesPath)
			if err != nil {
				return err
			}
			position, err := snap.Position(positionID)
			if err != nil {
				return err
			}
			strategy, err := snap.Strategy(cmd.Context(), strategyRef)
			if err != nil {
				return err
			}

			engine := rebalance.NewEngine(
				rebalance.Config{
					BinCount:   a.cfg.Rebalance.BinCount,
					PriceRange: a.cfg.Rebalance.PriceRange,
					Decay:      a.cfg.Rebalance.Decay,
				},
				fees.NewStatic(fees.Config{
					LamportsPerSignature: a.cfg.Rebalance.LamportsPerSignature,
					SignaturesPerTx:      a.cfg.Rebalance.SignaturesPerTx,
				}),
			)

			var opp domain.RebalanceOpportunity
			if prepare {
				opp, err = engine.Prepare(position, strategy, price)
			} else {
				opp, err = engine.Evaluate(position, strategy, price)
			}
			if opp.Reason != "" {
				a.recorder.ObserveAdvisory(opp)
				if perr := a.reporter.PrintOpportunity(position, opp); perr != nil {
					return perr
				}
			}
			return err
		},
	}

	cmd.Flags().StringVar(&fixturesPath, "fixtures", "", "snapshot YAML file")
	cmd.Flags().StringVar(&positionID, "position", "", "position id")
	cmd.Flags().StringVar(&strategyRef, "strategy", "", "strategy id or name")
	cmd.Flags().Float64Var(&price, "price", 0, "current quoted price of token X in token Y")
	cmd.Flags().BoolVar(&prepare, "prepare", false, "fail unless the rebalance fired and fits the gas budget")
	for _, name := range []string{"position", "strategy", "price"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
