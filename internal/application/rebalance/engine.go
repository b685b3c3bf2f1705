package rebalance

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/alejandrodnm/binscope/internal/domain"
	"github.com/alejandrodnm/binscope/internal/ports"
	"github.com/shopspring/decimal"
)

var errNoQuoter = errors.New("no fee quoter configured")

// Config define la forma de la distribución de liquidez propuesta.
type Config struct {
	BinCount   int     // bins de la distribución propuesta
	PriceRange float64 // semiancho alrededor del precio actual, como fracción
	Decay      float64 // decaimiento exponencial del peso con la distancia relativa
}

// DefaultConfig devuelve 10 bins en ±10% con decaimiento 10.
func DefaultConfig() Config {
	return Config{BinCount: 10, PriceRange: 0.10, Decay: 10}
}

// Engine decide si una posición debe rebalancearse y propone la nueva distribución.
// Nunca firma ni envía nada.
type Engine struct {
	cfg    Config
	quoter ports.FeeQuoter
}

// NewEngine crea un Engine. Con quoter nil cada transacción se estima con
// domain.DefaultTxFeeLamports.
func NewEngine(cfg Config, quoter ports.FeeQuoter) *Engine {
	return &Engine{cfg: cfg, quoter: quoter}
}

// PriceDeviation es la distancia porcentual (con signo) de currentPrice al precio del bin activo.
// Devuelve 0 si no hay bin activo o su precio no es usable.
func PriceDeviation(position domain.DLMMPosition, currentPrice float64) float64 {
	bin, ok := position.ActiveBin()
	if !ok || bin.Price <= 0 {
		return 0
	}
	return (currentPrice - bin.Price) / bin.Price * 100
}

// Evaluate construye el resultado de asesoría para una posición al precio cotizado.
func (e *Engine) Evaluate(position domain.DLMMPosition, strategy domain.RebalanceStrategy, currentPrice float64) (domain.RebalanceOpportunity, error) {
	if err := strategy.Validate(); err != nil {
		return domain.RebalanceOpportunity{}, fmt.Errorf("rebalance.Evaluate: %w", err)
	}
	if !(currentPrice > 0) || math.IsInf(currentPrice, 0) {
		return domain.RebalanceOpportunity{}, fmt.Errorf("rebalance.Evaluate: current price must be positive, got %v", currentPrice)
	}

	deviation := PriceDeviation(position, currentPrice)
	if !strategy.Parameters.DeviationExceeded(deviation) {
		return domain.RebalanceOpportunity{
			ShouldRebalance: false,
			Reason:          "Price deviation within tolerance",
			PriceDeviation:  deviation,
		}, nil
	}

	dist := e.OptimalDistribution(currentPrice, position.TotalLiquidity())
	txs := planTransactions(position, strategy.Parameters, dist)
	gas, quoted := e.EstimateGas(txs)

	slog.Debug("rebalance warranted",
		"position", position.ID,
		"deviation_pct", deviation,
		"gas", gas,
		"quoted", quoted,
	)

	return domain.RebalanceOpportunity{
		ShouldRebalance:    true,
		Reason:             fmt.Sprintf("Price deviated by %.2f%%", deviation),
		PriceDeviation:     deviation,
		EstimatedGas:       gas,
		GasQuoted:          quoted,
		Transactions:       txs,
		NewBinDistribution: dist,
	}, nil
}

// OptimalDistribution reparte totalLiquidity en BinCount bins alrededor de currentPrice.
//
// Fórmula:
//
//	precio_i = currentPrice × (1 − range + i × 2·range/BinCount)
//	peso_i   = exp(−decay × |precio_i − currentPrice| / currentPrice), normalizado a suma 1
//
// Cada bin divide su parte 50/50 entre los dos tokens.
func (e *Engine) OptimalDistribution(currentPrice, totalLiquidity float64) []domain.BinDistributionEntry {
	if e.cfg.BinCount <= 0 || !(currentPrice > 0) {
		return nil
	}
	step := e.cfg.PriceRange * 2 / float64(e.cfg.BinCount)

	dist := make([]domain.BinDistributionEntry, e.cfg.BinCount)
	sum := 0.0
	for i := range dist {
		price := currentPrice * (1 - e.cfg.PriceRange + float64(i)*step)
		w := math.Exp(-e.cfg.Decay * math.Abs(price-currentPrice) / currentPrice)
		dist[i] = domain.BinDistributionEntry{Price: price, Weight: w}
		sum += w
	}
	for i := range dist {
		dist[i].Weight /= sum
		dist[i].XAmount = totalLiquidity * dist[i].Weight * 0.5
		dist[i].YAmount = totalLiquidity * dist[i].Weight * 0.5
	}
	return dist
}

// EstimateGas cotiza cada transacción del plan por separado (se envían por separado)
// y convierte la suma de lamports a unidades nativas.
// Si no hay quoter o una cotización falla, esa transacción cuenta
// domain.DefaultTxFeeLamports y quoted queda en false.
func (e *Engine) EstimateGas(txs []domain.PlannedTransaction) (gas float64, quoted bool) {
	quoted = e.quoter != nil
	total := decimal.Zero
	for _, tx := range txs {
		lamports, err := e.quoteFee(tx)
		if err != nil {
			slog.Warn("fee quote unavailable, using default fee",
				"kind", tx.Kind,
				"position", tx.PositionID,
				"lamports", domain.DefaultTxFeeLamports,
				"err", err,
			)
			lamports = domain.DefaultTxFeeLamports
			quoted = false
		}
		total = total.Add(decimal.NewFromInt(lamports))
	}
	return total.Shift(-domain.NativeDecimals).InexactFloat64(), quoted
}

func (e *Engine) quoteFee(tx domain.PlannedTransaction) (int64, error) {
	if e.quoter == nil {
		return 0, errNoQuoter
	}
	lamports, err := e.quoter.QuoteFee(tx)
	if err != nil {
		return 0, err
	}
	if lamports < 0 {
		return 0, fmt.Errorf("negative fee quote %d", lamports)
	}
	return lamports, nil
}

// Guard es la compuerta de ejecución: falla salvo que el trigger haya saltado y el gas
// entre en el presupuesto.
func Guard(opp domain.RebalanceOpportunity, params domain.RebalanceParams) error {
	if !opp.ShouldRebalance || len(opp.Transactions) == 0 {
		return fmt.Errorf("%w: %s", domain.ErrNoRebalanceNeeded, opp.Reason)
	}
	if opp.EstimatedGas > params.MaxGasSpend {
		return fmt.Errorf("%w: gas cost %.6f exceeds maximum %.6f",
			domain.ErrGasExceedsBudget, opp.EstimatedGas, params.MaxGasSpend)
	}
	return nil
}

// Prepare evalúa la posición y aplica Guard. Las transacciones devueltas son solo
// descripciones; construirlas y enviarlas es cosa del ejecutor.
func (e *Engine) Prepare(position domain.DLMMPosition, strategy domain.RebalanceStrategy, currentPrice float64) (domain.RebalanceOpportunity, error) {
	opp, err := e.Evaluate(position, strategy, currentPrice)
	if err != nil {
		return domain.RebalanceOpportunity{}, err
	}
	if err := Guard(opp, strategy.Parameters); err != nil {
		return opp, fmt.Errorf("rebalance.Prepare: position %s: %w", position.ID, err)
	}
	return opp, nil
}

// planTransactions retira de todos los bins actuales y luego deposita en la nueva distribución.
func planTransactions(position domain.DLMMPosition, params domain.RebalanceParams, dist []domain.BinDistributionEntry) []domain.PlannedTransaction {
	binIDs := make([]int, 0, len(position.Bins))
	for _, b := range position.Bins {
		binIDs = append(binIDs, b.BinID)
	}
	sort.Ints(binIDs)

	return []domain.PlannedTransaction{
		{
			Kind:              domain.TxRemoveLiquidity,
			PositionID:        position.ID,
			PoolAddress:       position.PoolAddress,
			BinIDs:            binIDs,
			SlippageTolerance: params.SlippageTolerance,
		},
		{
			Kind:              domain.TxAddLiquidity,
			PositionID:        position.ID,
			PoolAddress:       position.PoolAddress,
			Distribution:      dist,
			SlippageTolerance: params.SlippageTolerance,
		},
	}
}
