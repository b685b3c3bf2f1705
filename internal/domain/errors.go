package domain

import "errors"

var (
	// ErrNoData: la ventana del backtest no tiene muestras.
	ErrNoData = errors.New("no historical data available for the specified period")
	// ErrInvalidSeries: muestras con precios no positivos o infinitos, o timestamps repetidos.
	ErrInvalidSeries = errors.New("invalid historical series")
	// ErrInvalidStrategy: parámetros de la estrategia faltantes o fuera de rango.
	ErrInvalidStrategy = errors.New("invalid strategy parameters")
	// ErrInvalidCapital: el capital inicial no es positivo.
	ErrInvalidCapital = errors.New("initial capital must be positive")
	// ErrNoStrategies: se pidió una comparación sin estrategias.
	ErrNoStrategies = errors.New("no strategies to compare")
	// ErrNoRebalanceNeeded frena la ejecución si el trigger no saltó.
	ErrNoRebalanceNeeded = errors.New("no rebalance needed")
	// ErrGasExceedsBudget frena la ejecución si el gas estimado supera maxGasSpend.
	ErrGasExceedsBudget = errors.New("estimated gas exceeds budget")
	// ErrNotFound lo devuelven los providers cuando un ID no existe.
	ErrNotFound = errors.New("not found")
)
