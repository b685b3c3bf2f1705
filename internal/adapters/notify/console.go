package notify

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/alejandrodnm/binscope/internal/domain"
	"github.com/olekukonko/tablewriter"
)

const dateLayout = "2006-01-02 15:04"

// Console implementa ports.Reporter con bloques de texto y tablas.
type Console struct {
	out   io.Writer
	steps bool // imprime cada paso del backtest
}

// NewConsole crea un reporter que escribe en stdout.
func NewConsole(steps bool) *Console {
	return &Console{out: os.Stdout, steps: steps}
}

// NewConsoleWriter crea un reporter para tests.
func NewConsoleWriter(w io.Writer, steps bool) *Console {
	return &Console{out: w, steps: steps}
}

// PrintReport imprime las métricas del portfolio, la ventana de histórico y los consejos generados.
func (c *Console) PrintReport(r domain.PerformanceReport) error {
	a := r.Analytics
	fmt.Fprintf(c.out, "\n=== PORTFOLIO REPORT (%s: %s → %s) ===\n",
		r.Period, r.StartDate.Format(dateLayout), r.EndDate.Format(dateLayout))

	fmt.Fprintf(c.out, "  Positions:             %d\n", a.PositionCount)
	fmt.Fprintf(c.out, "  Total value:           $%.2f\n", a.TotalValue)
	fmt.Fprintf(c.out, "  Total P&L:             $%.2f (%.2f%%)\n", a.TotalPnL, a.TotalPnLPercentage)
	fmt.Fprintf(c.out, "  Fees earned:           $%.2f\n", a.TotalFeesEarned)
	fmt.Fprintf(c.out, "  Fee yield:             %.2f%% APR\n", a.FeeYield)
	fmt.Fprintf(c.out, "  Avg position size:     $%.2f\n", a.AveragePositionSize)
	fmt.Fprintf(c.out, "  Risk score:            %.1f / 100\n", a.RiskScore)
	fmt.Fprintf(c.out, "  Diversification:       %.1f / 100\n", a.DiversificationScore)
	fmt.Fprintf(c.out, "  Impermanent loss est.: $%.2f\n", a.ImpermanentLoss)
	if a.TopPerformer != nil {
		fmt.Fprintf(c.out, "  Top performer:         %s %s ($%.2f)\n",
			a.TopPerformer.ID, a.TopPerformer.PairLabel(), a.TopPerformer.PnL)
	}
	if a.WorstPerformer != nil {
		fmt.Fprintf(c.out, "  Worst performer:       %s %s ($%.2f)\n",
			a.WorstPerformer.ID, a.WorstPerformer.PairLabel(), a.WorstPerformer.PnL)
	}

	if len(r.Historical) > 0 {
		fmt.Fprintf(c.out, "\n  --- HISTORY ---\n")
		tbl := tablewriter.NewWriter(c.out)
		tbl.Header("Date", "Value", "P&L", "Fees", "Pos")
		for _, h := range r.Historical {
			tbl.Append(
				h.Timestamp.Format("2006-01-02"),
				fmt.Sprintf("$%.2f", h.PortfolioValue),
				fmt.Sprintf("$%.2f", h.PnL),
				fmt.Sprintf("$%.2f", h.FeesEarned),
				fmt.Sprintf("%d", h.PositionCount),
			)
		}
		tbl.Render()
	}

	c.printList("INSIGHTS", r.Insights)
	c.printList("RECOMMENDATIONS", r.Recommendations)
	fmt.Fprintln(c.out)
	return nil
}

// PrintBacktest imprime el resumen de una corrida, sus métricas detalladas y la comparación con HODL.
func (c *Console) PrintBacktest(r domain.BacktestResult) error {
	fmt.Fprintf(c.out, "\n=== BACKTEST: %s ===\n", r.Strategy.Name)
	fmt.Fprintf(c.out, "  Window:                %s → %s (%d days, %d steps)\n",
		r.Duration.Start.Format(dateLayout), r.Duration.End.Format(dateLayout), r.Duration.Days, len(r.Steps))
	fmt.Fprintf(c.out, "  Initial capital:       $%.2f\n", r.InitialCapital)
	fmt.Fprintf(c.out, "  Final value:           $%.2f\n", r.FinalValue)
	fmt.Fprintf(c.out, "  Total return:          %.2f%%\n", r.TotalReturn)
	fmt.Fprintf(c.out, "  P&L:                   $%.2f\n", r.TotalPnL)
	fmt.Fprintf(c.out, "  Fees earned:           $%.4f\n", r.TotalFeesEarned)
	fmt.Fprintf(c.out, "  Rebalances:            %d (gas %.4f)\n", r.TotalRebalances, r.TotalGasCost)
	fmt.Fprintf(c.out, "  Max drawdown:          %.2f%%\n", r.MaxDrawdown)
	fmt.Fprintf(c.out, "  Sharpe:                %s\n", formatRatio(r.SharpeRatio))
	fmt.Fprintf(c.out, "  Win rate:              %.1f%%\n", r.WinRate)

	m := r.Metrics
	fmt.Fprintf(c.out, "\n  --- METRICS ---\n")
	fmt.Fprintf(c.out, "  Avg daily return:      %.4f%%\n", m.AvgDailyReturn)
	fmt.Fprintf(c.out, "  Volatility (ann.):     %.2f%%\n", m.Volatility)
	fmt.Fprintf(c.out, "  Profit factor:         %s\n", formatRatio(m.ProfitFactor))
	fmt.Fprintf(c.out, "  Recovery factor:       %s\n", formatRatio(m.RecoveryFactor))
	fmt.Fprintf(c.out, "  Calmar ratio:          %s\n", formatRatio(m.CalmarRatio))

	cmp := r.Comparison
	fmt.Fprintf(c.out, "\n  --- VS HODL ---\n")
	fmt.Fprintf(c.out, "  Strategy return:       %.2f%%\n", cmp.VsHodl.StrategyReturn)
	fmt.Fprintf(c.out, "  HODL return:           %.2f%%\n", cmp.VsHodl.HodlReturn)
	fmt.Fprintf(c.out, "  Outperformance:        %+.2f%%\n", cmp.VsHodl.Outperformance)
	fmt.Fprintf(c.out, "  Max drawdown (S/H):    %.2f%% / %.2f%%\n",
		cmp.RiskAdjusted.StrategyMaxDrawdown, cmp.RiskAdjusted.HodlMaxDrawdown)

	if c.steps && len(r.Steps) > 0 {
		fmt.Fprintf(c.out, "\n  --- STEPS ---\n")
		tbl := tablewriter.NewWriter(c.out)
		tbl.Header("Date", "Value", "P&L", "Fees", "Rebal", "Gas")
		for _, s := range r.Steps {
			rebal := ""
			if s.RebalanceExecuted {
				rebal = "yes"
			}
			tbl.Append(
				s.Timestamp.Format(dateLayout),
				fmt.Sprintf("$%.2f", s.PortfolioValue),
				fmt.Sprintf("$%.2f", s.PnL),
				fmt.Sprintf("$%.4f", s.FeesEarned),
				rebal,
				fmt.Sprintf("%.4f", s.GasCost),
			)
		}
		tbl.Render()
	}
	fmt.Fprintln(c.out)
	return nil
}

// PrintComparison imprime todas las corridas lado a lado, luego las ganadoras y los promedios.
func (c *Console) PrintComparison(m domain.MultiBacktestResult) error {
	fmt.Fprintf(c.out, "\n=== STRATEGY COMPARISON (%d strategies) ===\n", m.Summary.TotalStrategiesTested)

	tbl := tablewriter.NewWriter(c.out)
	tbl.Header("#", "Strategy", "Return", "MaxDD", "Sharpe", "Win", "Rebal", "Gas", "Fees", "vs HODL")
	for i, r := range m.Results {
		tbl.Append(
			fmt.Sprintf("%d", i+1),
			r.Strategy.Name,
			fmt.Sprintf("%.2f%%", r.TotalReturn),
			fmt.Sprintf("%.2f%%", r.MaxDrawdown),
			formatRatio(r.SharpeRatio),
			fmt.Sprintf("%.0f%%", r.WinRate),
			fmt.Sprintf("%d", r.TotalRebalances),
			fmt.Sprintf("%.4f", r.TotalGasCost),
			fmt.Sprintf("$%.2f", r.TotalFeesEarned),
			fmt.Sprintf("%+.2f%%", r.Comparison.VsHodl.Outperformance),
		)
	}
	tbl.Render()

	fmt.Fprintf(c.out, "  Best by return:        %s (%.2f%%)\n", m.BestByReturn.Strategy.Name, m.BestByReturn.TotalReturn)
	fmt.Fprintf(c.out, "  Best by Sharpe:        %s (%s)\n", m.BestBySharpe.Strategy.Name, formatRatio(m.BestBySharpe.SharpeRatio))
	fmt.Fprintf(c.out, "  Average return:        %.2f%%\n", m.Summary.AverageReturn)
	fmt.Fprintf(c.out, "  Average Sharpe:        %s\n", formatRatio(m.Summary.AverageSharpe))
	fmt.Fprintf(c.out, "  Average max drawdown:  %.2f%%\n", m.Summary.AverageMaxDrawdown)
	fmt.Fprintln(c.out)
	return nil
}

// PrintOpportunity imprime el consejo de rebalanceo para una posición.
func (c *Console) PrintOpportunity(p domain.DLMMPosition, opp domain.RebalanceOpportunity) error {
	verdict := "HOLD"
	if opp.ShouldRebalance {
		verdict = "REBALANCE"
	}
	fmt.Fprintf(c.out, "\n=== ADVICE: %s %s → %s ===\n", p.ID, p.PairLabel(), verdict)
	fmt.Fprintf(c.out, "  Reason:                %s\n", opp.Reason)
	fmt.Fprintf(c.out, "  Price deviation:       %+.2f%%\n", opp.PriceDeviation)

	if !opp.ShouldRebalance {
		fmt.Fprintln(c.out)
		return nil
	}

	source := "quoted"
	if !opp.GasQuoted {
		source = "default fee"
	}
	fmt.Fprintf(c.out, "  Estimated gas:         %.6f (%s)\n", opp.EstimatedGas, source)

	kinds := make([]string, len(opp.Transactions))
	for i, tx := range opp.Transactions {
		kinds[i] = string(tx.Kind)
	}
	fmt.Fprintf(c.out, "  Transactions:          %s\n", strings.Join(kinds, " → "))

	if len(opp.NewBinDistribution) > 0 {
		tbl := tablewriter.NewWriter(c.out)
		tbl.Header("Bin", "Price", "Weight", "X", "Y")
		for i, d := range opp.NewBinDistribution {
			tbl.Append(
				fmt.Sprintf("%d", i),
				fmt.Sprintf("%.6f", d.Price),
				fmt.Sprintf("%.2f%%", d.Weight*100),
				fmt.Sprintf("%.4f", d.XAmount),
				fmt.Sprintf("%.4f", d.YAmount),
			)
		}
		tbl.Render()
	}
	fmt.Fprintln(c.out)
	return nil
}

func (c *Console) printList(title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(c.out, "\n  --- %s ---\n", title)
	for _, s := range items {
		fmt.Fprintf(c.out, "  - %s\n", s)
	}
}

// formatRatio imprime los infinitos como INF.
func formatRatio(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "INF"
	case math.IsInf(v, -1):
		return "-INF"
	default:
		return fmt.Sprintf("%.3f", v)
	}
}
