package domain

// BinDistributionEntry es un bin propuesto de una nueva distribución de liquidez.
type BinDistributionEntry struct {
	Price   float64
	Weight  float64 // normalizado, las entradas suman 1
	XAmount float64
	YAmount float64
}

// TransactionKind etiqueta un paso planificado del rebalanceo.
type TransactionKind string

const (
	TxRemoveLiquidity TransactionKind = "remove_liquidity"
	TxAddLiquidity    TransactionKind = "add_liquidity"
)

// PlannedTransaction describe una transacción que armaría el ejecutor.
// Acá no se firma ni se envía nada.
type PlannedTransaction struct {
	Kind              TransactionKind
	PositionID        string
	PoolAddress       string
	BinIDs            []int
	Distribution      []BinDistributionEntry
	SlippageTolerance float64 // porcentaje
}

// RebalanceOpportunity es el resultado de asesoría para una posición.
type RebalanceOpportunity struct {
	ShouldRebalance    bool
	Reason             string
	PriceDeviation     float64 // porcentaje, con signo
	EstimatedGas       float64 // unidades nativas
	GasQuoted          bool    // true si EstimatedGas vino del fee quoter
	Transactions       []PlannedTransaction
	NewBinDistribution []BinDistributionEntry
}
