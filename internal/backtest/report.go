package backtest

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/lumenworksco/trading-algorithm/internal/marketdata"
)

// Report is the complete output of one replay: the configuration it ran
// with, the derived statistics, and the broker's final portfolio state.
type Report struct {
	Config         Config
	Stats          Stats
	FinalPortfolio marketdata.Portfolio
}

// Summary renders a human-readable box report: performance, risk, trade
// statistics and execution sections.
func (r *Report) Summary() string {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, "Backtest Report")
	fmt.Fprintln(&buf)

	performance := tablewriter.NewWriter(&buf)
	performance.SetHeader([]string{"Performance", "Value"})
	performance.Append([]string{"Initial Capital", r.Stats.InitialCapital.StringFixed(2)})
	performance.Append([]string{"Final Equity", r.Stats.FinalEquity.StringFixed(2)})
	performance.Append([]string{"Total Return", r.Stats.TotalReturnPct.StringFixed(2) + "%"})
	performance.Append([]string{"Annualized Return", r.Stats.AnnualizedReturnPct.StringFixed(2) + "%"})
	performance.Render()

	fmt.Fprintln(&buf)
	risk := tablewriter.NewWriter(&buf)
	risk.SetHeader([]string{"Risk Metrics", "Value"})
	risk.Append([]string{"Max Drawdown", r.Stats.MaxDrawdownPct.StringFixed(2) + "%"})
	risk.Append([]string{"Sharpe Ratio", fmt.Sprintf("%.2f", r.Stats.SharpeRatio)})
	risk.Append([]string{"Sortino Ratio", fmt.Sprintf("%.2f", r.Stats.SortinoRatio)})
	risk.Append([]string{"Calmar Ratio", r.Stats.CalmarRatio.StringFixed(2)})
	risk.Append([]string{"Daily VaR 95%", fmt.Sprintf("%.4f", r.Stats.DailyReturnVarEs.Var95)})
	risk.Append([]string{"Daily VaR 99%", fmt.Sprintf("%.4f", r.Stats.DailyReturnVarEs.Var99)})
	risk.Append([]string{"Daily Expected Shortfall 95%", fmt.Sprintf("%.4f", r.Stats.DailyReturnVarEs.ES95)})
	risk.Append([]string{"EWMA Volatility", fmt.Sprintf("%.4f", r.Stats.DailyReturnVarEs.EWMAVolatility)})
	risk.Render()

	fmt.Fprintln(&buf)
	trades := tablewriter.NewWriter(&buf)
	trades.SetHeader([]string{"Trade Statistics", "Value"})
	trades.Append([]string{"Total Trades", fmt.Sprintf("%d", r.Stats.TotalTrades)})
	trades.Append([]string{"Winning Trades", fmt.Sprintf("%d", r.Stats.WinningTrades)})
	trades.Append([]string{"Losing Trades", fmt.Sprintf("%d", r.Stats.LosingTrades)})
	trades.Append([]string{"Breakeven Trades", fmt.Sprintf("%d", r.Stats.BreakevenTrades)})
	trades.Append([]string{"Win Rate", r.Stats.WinRatePct.StringFixed(2) + "%"})
	trades.Append([]string{"Average Win", r.Stats.AvgWin.StringFixed(2)})
	trades.Append([]string{"Average Loss", r.Stats.AvgLoss.StringFixed(2)})
	trades.Append([]string{"Profit Factor", r.Stats.ProfitFactor.StringFixed(2)})
	trades.Append([]string{"Expectancy Per Trade", r.Stats.ExpectancyPerTrade.StringFixed(2)})
	trades.Render()

	fmt.Fprintln(&buf)
	execution := tablewriter.NewWriter(&buf)
	execution.SetHeader([]string{"Execution", "Value"})
	execution.Append([]string{"Bars Processed", fmt.Sprintf("%d", r.Stats.BarsProcessed)})
	execution.Append([]string{"Open Positions At Close", fmt.Sprintf("%d", r.FinalPortfolio.PositionCount())})
	execution.Render()

	return buf.String()
}

// reportJSON is the wire shape of ToJSON: decimal fields render as plain
// JSON numbers rather than shopspring/decimal's default string encoding, to
// match a conventional reporting-tool consumer's expectations.
type reportJSON struct {
	InitialCapital      float64          `json:"initial_capital"`
	FinalEquity         float64          `json:"final_equity"`
	TotalReturnPct      float64          `json:"total_return_pct"`
	AnnualizedReturnPct float64          `json:"annualized_return_pct"`
	MaxDrawdownPct      float64          `json:"max_drawdown_pct"`
	SharpeRatio         float64          `json:"sharpe_ratio"`
	SortinoRatio        float64          `json:"sortino_ratio"`
	CalmarRatio         float64          `json:"calmar_ratio"`
	TotalTrades         int              `json:"total_trades"`
	WinningTrades       int              `json:"winning_trades"`
	LosingTrades        int              `json:"losing_trades"`
	BreakevenTrades     int              `json:"breakeven_trades"`
	WinRatePct          float64          `json:"win_rate_pct"`
	AvgWin              float64          `json:"avg_win"`
	AvgLoss             float64          `json:"avg_loss"`
	ProfitFactor        float64          `json:"profit_factor"`
	ExpectancyPerTrade  float64          `json:"expectancy_per_trade"`
	DailyVar95          float64          `json:"daily_var_95"`
	DailyVar99          float64          `json:"daily_var_99"`
	DailyVar99Reliable  bool             `json:"daily_var_99_reliable"`
	DailyES95           float64          `json:"daily_es_95"`
	DailyES99           float64          `json:"daily_es_99"`
	EWMAVolatility      float64          `json:"ewma_volatility"`
	BarsProcessed       int              `json:"bars_processed"`
	Trades              []tradeRecordJSON `json:"trades"`
}

type tradeRecordJSON struct {
	Symbol     string  `json:"symbol"`
	Side       string  `json:"side"`
	Quantity   float64 `json:"quantity"`
	Price      float64 `json:"price"`
	Timestamp  string  `json:"timestamp"`
	SignalType string  `json:"signal_type"`
	PnL        *float64 `json:"pnl,omitempty"`
}

// ToJSON renders the report as indented JSON.
func (r *Report) ToJSON() ([]byte, error) {
	trades := make([]tradeRecordJSON, len(r.Stats.Trades))
	for i, t := range r.Stats.Trades {
		tj := tradeRecordJSON{
			Symbol:     t.Symbol,
			Side:       t.Side.String(),
			Quantity:   marketdata.DecimalToFloat(t.Quantity),
			Price:      marketdata.DecimalToFloat(t.Price),
			Timestamp:  t.Timestamp.Format(time.RFC3339),
			SignalType: t.SignalType.String(),
		}
		if t.PnL != nil {
			pnl := marketdata.DecimalToFloat(*t.PnL)
			tj.PnL = &pnl
		}
		trades[i] = tj
	}

	doc := reportJSON{
		InitialCapital:      marketdata.DecimalToFloat(r.Stats.InitialCapital),
		FinalEquity:         marketdata.DecimalToFloat(r.Stats.FinalEquity),
		TotalReturnPct:      marketdata.DecimalToFloat(r.Stats.TotalReturnPct),
		AnnualizedReturnPct: marketdata.DecimalToFloat(r.Stats.AnnualizedReturnPct),
		MaxDrawdownPct:      marketdata.DecimalToFloat(r.Stats.MaxDrawdownPct),
		SharpeRatio:         r.Stats.SharpeRatio,
		SortinoRatio:        r.Stats.SortinoRatio,
		CalmarRatio:         marketdata.DecimalToFloat(r.Stats.CalmarRatio),
		TotalTrades:         r.Stats.TotalTrades,
		WinningTrades:       r.Stats.WinningTrades,
		LosingTrades:        r.Stats.LosingTrades,
		BreakevenTrades:     r.Stats.BreakevenTrades,
		WinRatePct:          marketdata.DecimalToFloat(r.Stats.WinRatePct),
		AvgWin:              marketdata.DecimalToFloat(r.Stats.AvgWin),
		AvgLoss:             marketdata.DecimalToFloat(r.Stats.AvgLoss),
		ProfitFactor:        marketdata.DecimalToFloat(r.Stats.ProfitFactor),
		ExpectancyPerTrade:  marketdata.DecimalToFloat(r.Stats.ExpectancyPerTrade),
		DailyVar95:          r.Stats.DailyReturnVarEs.Var95,
		DailyVar99:          r.Stats.DailyReturnVarEs.Var99,
		DailyVar99Reliable:  r.Stats.DailyReturnVarEs.Var99Reliable,
		DailyES95:           r.Stats.DailyReturnVarEs.ES95,
		DailyES99:           r.Stats.DailyReturnVarEs.ES99,
		EWMAVolatility:      r.Stats.DailyReturnVarEs.EWMAVolatility,
		BarsProcessed:       r.Stats.BarsProcessed,
		Trades:              trades,
	}
	return json.MarshalIndent(doc, "", "  ")
}

// EquityToCSV renders the equity curve as CSV with a timestamp,equity header.
func (r *Report) EquityToCSV() (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"timestamp", "equity"}); err != nil {
		return "", err
	}
	for _, point := range r.Stats.EquityCurve {
		row := []string{
			time.UnixMilli(point.Timestamp).UTC().Format(time.RFC3339),
			point.Equity.StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	return buf.String(), w.Error()
}
