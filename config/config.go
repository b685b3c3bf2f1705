package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa de binscope.
type Config struct {
	Engine    EngineConfig    `yaml:"engine"`
	Rebalance RebalanceConfig `yaml:"rebalance"`
	Backtest  BacktestConfig  `yaml:"backtest"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// EngineConfig contiene los supuestos de analytics y simulación.
type EngineConfig struct {
	RiskFreeRate  float64 `yaml:"risk_free_rate"` // anual
	FeeRate       float64 `yaml:"fee_rate"`       // fee tier del pool que usa el simulador
	DefaultVolume float64 `yaml:"default_volume"` // si la muestra no trae volumen
	DefaultTVL    float64 `yaml:"default_tvl"`    // si la muestra no trae TVL
	CashReserve   float64 `yaml:"cash_reserve"`   // parte del capital del backtest que queda en caja
	ILPriceChange float64 `yaml:"il_price_change"`
}

// RebalanceConfig define la distribución de bins propuesta y la tarifa fija de comisiones.
type RebalanceConfig struct {
	BinCount             int     `yaml:"bin_count"`
	PriceRange           float64 `yaml:"price_range"`
	Decay                float64 `yaml:"decay"`
	LamportsPerSignature int64   `yaml:"lamports_per_signature"`
	SignaturesPerTx      int64   `yaml:"signatures_per_tx"`
}

// BacktestConfig controla las corridas de backtest.
type BacktestConfig struct {
	InitialCapital float64 `yaml:"initial_capital"`
	Workers        int     `yaml:"workers"` // 0 = NumCPU
}

// StorageConfig controla dónde se guardan las series de precios.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // path del archivo SQLite, o ":memory:"
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// MetricsConfig controla el volcado de métricas Prometheus a textfile.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"` // vacío lo desactiva
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Las variables de entorno sobreescriben el YAML para las keys que correspondan.
// Con path vacío no se lee archivo y quedan los defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("BINSCOPE_DB"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("BINSCOPE_METRICS_TEXTFILE"); v != "" {
		cfg.Metrics.Textfile = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos. Una tarifa
// o supuesto de IL en cero cuenta como no configurado; el resto debe ser positivo.
func setDefaults(cfg *Config) {
	if cfg.Engine.RiskFreeRate == 0 {
		cfg.Engine.RiskFreeRate = 0.02
	}
	if cfg.Engine.FeeRate <= 0 {
		cfg.Engine.FeeRate = 0.003
	}
	if cfg.Engine.DefaultVolume <= 0 {
		cfg.Engine.DefaultVolume = 1_000_000
	}
	if cfg.Engine.DefaultTVL <= 0 {
		cfg.Engine.DefaultTVL = 10_000_000
	}
	if cfg.Engine.CashReserve <= 0 || cfg.Engine.CashReserve >= 1 {
		cfg.Engine.CashReserve = 0.10
	}
	if cfg.Engine.ILPriceChange == 0 {
		cfg.Engine.ILPriceChange = 0.10
	}
	if cfg.Rebalance.BinCount <= 0 {
		cfg.Rebalance.BinCount = 10
	}
	if cfg.Rebalance.PriceRange <= 0 {
		cfg.Rebalance.PriceRange = 0.10
	}
	if cfg.Rebalance.Decay <= 0 {
		cfg.Rebalance.Decay = 10
	}
	if cfg.Rebalance.LamportsPerSignature <= 0 {
		cfg.Rebalance.LamportsPerSignature = 5000
	}
	if cfg.Rebalance.SignaturesPerTx <= 0 {
		cfg.Rebalance.SignaturesPerTx = 1
	}
	if cfg.Backtest.InitialCapital <= 0 {
		cfg.Backtest.InitialCapital = 10_000
	}
	if cfg.Backtest.Workers < 0 {
		cfg.Backtest.Workers = 0
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "binscope.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
