package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alejandrodnm/binscope/config"
	"github.com/alejandrodnm/binscope/internal/adapters/fixtures"
	"github.com/alejandrodnm/binscope/internal/adapters/metrics"
	"github.com/alejandrodnm/binscope/internal/adapters/notify"
	"github.com/alejandrodnm/binscope/internal/ports"
	"github.com/spf13/cobra"
)

// app lleva lo que cada subcomando necesita una vez parseados los flags.
type app struct {
	cfg      *config.Config
	recorder *metrics.Recorder
	reporter ports.Reporter
	started  time.Time

	configPath string
	verbose    bool
	logFormat  string
	metricsOut string
	steps      bool
}

var _ ports.MetricsRecorder = (*metrics.Recorder)(nil)

func main() {
	a := &app{}
	root := a.rootCmd()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := root.ExecuteContext(ctx); err != nil {
		slog.Error("binscope failed", "err", err)
		os.Exit(1)
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "binscope",
		Short:         "Portfolio analytics and rebalance backtesting for DLMM liquidity positions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.finish(cmd.Name())
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.configPath, "config", "", "path to config file (defaults when empty)")
	f.BoolVar(&a.verbose, "verbose", false, "set log level to debug")
	f.StringVar(&a.logFormat, "format", "", "log format: text|json (overrides config)")
	f.StringVar(&a.metricsOut, "metrics-out", "", "write Prometheus metrics to this textfile (overrides config)")
	f.BoolVar(&a.steps, "steps", false, "print every backtest step")

	root.AddCommand(
		a.analyzeCmd(),
		a.backtestCmd(),
		a.compareCmd(),
		a.adviseCmd(),
		a.seriesCmd(),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}
	if a.metricsOut != "" {
		cfg.Metrics.Textfile = a.metricsOut
	}
	setupLogger(cfg.Log)

	a.cfg = cfg
	a.recorder = metrics.NewRecorder()
	a.reporter = notify.NewConsole(a.steps)
	a.started = time.Now()
	return nil
}

// finish registra la duración del comando y vuelca las métricas si está configurado.
func (a *app) finish(command string) error {
	a.recorder.ObserveCommand(command, time.Since(a.started))
	if a.cfg.Metrics.Textfile == "" {
		return nil
	}
	if err := a.recorder.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
		return err
	}
	slog.Debug("metrics written", "path", a.cfg.Metrics.Textfile)
	return nil
}

func loadSnapshot(path string) (*fixtures.Snapshot, error) {
	if path == "" {
		return nil, fmt.Errorf("--fixtures is required")
	}
	return fixtures.Load(path)
}

// parseTime acepta RFC 3339 o una fecha sola (medianoche UTC).
func parseTime(flag, value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: want RFC3339 or YYYY-MM-DD, got %q", flag, value)
	}
	return t, nil
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	// stdout queda para las tablas del reporte
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
