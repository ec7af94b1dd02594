// Package backtest implements the chronological multi-symbol replay
// driver and the performance statistics computed from it.
package backtest

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lumenworksco/trading-algorithm/internal/marketdata"
	"github.com/lumenworksco/trading-algorithm/internal/risk"
)

// EquityPoint is one sample of the equity curve.
type EquityPoint struct {
	Timestamp int64
	Equity    decimal.Decimal
}

// TradeRecord is one executed fill, with realized P&L set for the closing
// side of a round trip.
type TradeRecord struct {
	Symbol     string
	Side       marketdata.Side
	Quantity   decimal.Decimal
	Price      decimal.Decimal
	Timestamp  time.Time
	SignalType marketdata.SignalType
	PnL        *decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// Stats accumulates equity samples and trade records during a replay and
// derives the final performance metrics from them in Finalize.
type Stats struct {
	InitialCapital      decimal.Decimal
	FinalEquity         decimal.Decimal
	TotalReturnPct      decimal.Decimal
	AnnualizedReturnPct decimal.Decimal
	MaxDrawdownPct      decimal.Decimal
	SharpeRatio         float64
	SortinoRatio        float64
	CalmarRatio         decimal.Decimal
	TotalTrades         int
	WinningTrades       int
	LosingTrades        int
	BreakevenTrades     int
	WinRatePct          decimal.Decimal
	AvgWin              decimal.Decimal
	AvgLoss             decimal.Decimal
	ProfitFactor        decimal.Decimal
	ExpectancyPerTrade  decimal.Decimal
	// DailyReturnVarEs is one-day Value-at-Risk/Expected-Shortfall and EWMA
	// volatility over the daily return series, expressed as return
	// fractions (e.g. -0.02 is a 2% daily loss at that confidence level).
	DailyReturnVarEs risk.VarEs
	BarsProcessed    int
	EquityCurve      []EquityPoint
	Trades           []TradeRecord

	peakEquity   decimal.Decimal
	dailyReturns []float64
}

func NewStats(initialCapital decimal.Decimal) *Stats {
	return &Stats{
		InitialCapital: initialCapital,
		FinalEquity:    initialCapital,
		peakEquity:     initialCapital,
	}
}

// RecordEquity appends one equity-curve sample, updates the running daily
// return series, and advances peak-equity/max-drawdown.
func (s *Stats) RecordEquity(timestamp int64, equity decimal.Decimal) {
	if n := len(s.EquityCurve); n > 0 {
		prev := s.EquityCurve[n-1].Equity
		if prev.GreaterThan(decimal.Zero) {
			ret, _ := equity.Sub(prev).Div(prev).Float64()
			s.dailyReturns = append(s.dailyReturns, ret)
		}
	}

	s.EquityCurve = append(s.EquityCurve, EquityPoint{Timestamp: timestamp, Equity: equity})

	if equity.GreaterThan(s.peakEquity) {
		s.peakEquity = equity
	}
	if s.peakEquity.GreaterThan(decimal.Zero) {
		drawdown := s.peakEquity.Sub(equity).Div(s.peakEquity).Mul(hundred)
		if drawdown.GreaterThan(s.MaxDrawdownPct) {
			s.MaxDrawdownPct = drawdown
		}
	}

	s.BarsProcessed++
}

// AddTrade appends a trade record.
func (s *Stats) AddTrade(trade TradeRecord) {
	s.Trades = append(s.Trades, trade)
	s.TotalTrades++
}

// Finalize computes every derived statistic from the accumulated equity
// curve and trade log. Call once, after the replay completes.
func (s *Stats) Finalize(portfolio *marketdata.Portfolio) {
	s.FinalEquity = portfolio.Equity

	if s.InitialCapital.GreaterThan(decimal.Zero) {
		s.TotalReturnPct = s.FinalEquity.Sub(s.InitialCapital).Div(s.InitialCapital).Mul(hundred)
	}

	if len(s.EquityCurve) > 0 {
		days := float64(len(s.EquityCurve))
		totalReturn, _ := s.TotalReturnPct.Div(hundred).Float64()
		annualized := (math.Pow(1+totalReturn, 252.0/days) - 1) * 100
		s.AnnualizedReturnPct = decimal.NewFromFloat(annualized)
	}

	totalProfit := decimal.Zero
	totalLoss := decimal.Zero
	for _, trade := range s.Trades {
		if trade.PnL == nil {
			continue
		}
		switch {
		case trade.PnL.GreaterThan(decimal.Zero):
			s.WinningTrades++
			totalProfit = totalProfit.Add(*trade.PnL)
		case trade.PnL.LessThan(decimal.Zero):
			s.LosingTrades++
			totalLoss = totalLoss.Add(trade.PnL.Abs())
		default:
			s.BreakevenTrades++
		}
	}

	if s.TotalTrades > 0 {
		s.WinRatePct = decimal.NewFromInt(int64(s.WinningTrades * 100)).Div(decimal.NewFromInt(int64(s.TotalTrades)))
	}
	if s.WinningTrades > 0 {
		s.AvgWin = totalProfit.Div(decimal.NewFromInt(int64(s.WinningTrades)))
	}
	if s.LosingTrades > 0 {
		s.AvgLoss = totalLoss.Div(decimal.NewFromInt(int64(s.LosingTrades)))
	}
	if totalLoss.GreaterThan(decimal.Zero) {
		s.ProfitFactor = totalProfit.Div(totalLoss)
	}

	if s.TotalTrades > 0 {
		winRate := decimal.NewFromInt(int64(s.WinningTrades)).Div(decimal.NewFromInt(int64(s.TotalTrades)))
		lossRate := decimal.NewFromInt(int64(s.LosingTrades)).Div(decimal.NewFromInt(int64(s.TotalTrades)))
		s.ExpectancyPerTrade = winRate.Mul(s.AvgWin).Sub(lossRate.Mul(s.AvgLoss))
	}

	if s.MaxDrawdownPct.GreaterThan(decimal.Zero) {
		s.CalmarRatio = s.AnnualizedReturnPct.Div(s.MaxDrawdownPct)
	}

	if len(s.dailyReturns) == 0 {
		return
	}

	s.DailyReturnVarEs = risk.ComputeVarEs(s.dailyReturns)

	mean := average(s.dailyReturns)
	variance := 0.0
	for _, r := range s.dailyReturns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(s.dailyReturns))
	stdDev := math.Sqrt(variance)
	if stdDev > 0 {
		s.SharpeRatio = (mean * math.Sqrt(252)) / stdDev
	}

	var negative []float64
	for _, r := range s.dailyReturns {
		if r < 0 {
			negative = append(negative, r)
		}
	}
	if len(negative) > 0 {
		downsideVariance := 0.0
		for _, r := range negative {
			downsideVariance += r * r
		}
		downsideVariance /= float64(len(negative))
		downsideDev := math.Sqrt(downsideVariance)
		if downsideDev > 0 {
			s.SortinoRatio = (mean * math.Sqrt(252)) / downsideDev
		}
	}
}

func average(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}
