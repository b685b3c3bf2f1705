package main

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/alejandrodnm/binscope/internal/adapters/storage"
	"github.com/spf13/cobra"
)

func (a *app) seriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "series",
		Short: "Manage the local price-series store",
	}
	cmd.AddCommand(a.seriesImportCmd(), a.seriesListCmd())
	return cmd
}

func (a *app) seriesImportCmd() *cobra.Command {
	var fixturesPath, pool string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy pool samples from a snapshot into the SQLite store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := loadSnapshot(fixturesPath)
			if err != nil {
				return err
			}
			store, err := storage.NewSeriesStore(a.cfg.Storage.DSN)
			if err != nil {
				return err
			}
			defer store.Close()

			imported := 0
			for p, samples := range snap.Series() {
				if pool != "" && p != pool {
					continue
				}
				if err := store.SaveSamples(cmd.Context(), p, samples); err != nil {
					return err
				}
				slog.Info("series imported", "pool", p, "samples", len(samples), "dsn", a.cfg.Storage.DSN)
				imported++
			}
			if imported == 0 {
				slog.Warn("no series matched", "pool", pool)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fixturesPath, "fixtures", "", "snapshot YAML file")
	cmd.Flags().StringVar(&pool, "pool", "", "import only this pool")
	return cmd
}

func (a *app) seriesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored pools and their sample counts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := storage.NewSeriesStore(a.cfg.Storage.DSN)
			if err != nil {
				return err
			}
			defer store.Close()

			pools, err := store.Pools(cmd.Context())
			if err != nil {
				return err
			}
			names := make([]string, 0, len(pools))
			for p := range pools {
				names = append(names, p)
			}
			sort.Strings(names)
			for _, p := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", p, pools[p])
			}
			return nil
		},
	}
}
