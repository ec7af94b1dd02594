package backtest

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/lumenworksco/trading-algorithm/internal/marketdata"
)

func TestStatsRecordEquityTracksDrawdown(t *testing.T) {
	s := NewStats(decimal.NewFromInt(10000))
	s.RecordEquity(1, decimal.NewFromInt(10000))
	s.RecordEquity(2, decimal.NewFromInt(11000))
	s.RecordEquity(3, decimal.NewFromInt(9900)) // 10% down from the 11000 peak

	want := decimal.NewFromInt(10)
	if !s.MaxDrawdownPct.Equal(want) {
		t.Fatalf("MaxDrawdownPct = %s, want %s", s.MaxDrawdownPct, want)
	}
}

func TestStatsFinalizeComputesWinRateAndProfitFactor(t *testing.T) {
	s := NewStats(decimal.NewFromInt(10000))

	win := decimal.NewFromInt(100)
	loss := decimal.NewFromInt(-50)
	breakeven := decimal.Zero
	s.AddTrade(TradeRecord{Symbol: "AAPL", PnL: &win})
	s.AddTrade(TradeRecord{Symbol: "AAPL", PnL: &loss})
	s.AddTrade(TradeRecord{Symbol: "AAPL", PnL: &breakeven})

	portfolio := marketdata.NewPortfolio(decimal.NewFromInt(10000))
	portfolio.Cash = decimal.NewFromInt(10050)
	portfolio.Equity = decimal.NewFromInt(10050)

	s.Finalize(portfolio)

	if s.WinningTrades != 1 || s.LosingTrades != 1 || s.BreakevenTrades != 1 {
		t.Fatalf("win/loss/breakeven = %d/%d/%d, want 1/1/1", s.WinningTrades, s.LosingTrades, s.BreakevenTrades)
	}
	wantProfitFactor := decimal.NewFromInt(100).Div(decimal.NewFromInt(50))
	if !s.ProfitFactor.Equal(wantProfitFactor) {
		t.Fatalf("ProfitFactor = %s, want %s", s.ProfitFactor, wantProfitFactor)
	}

	// expectancy = winRate*avgWin - lossRate*avgLoss = (1/3)*100 - (1/3)*50
	wantExpectancy := decimal.NewFromInt(100).Div(decimal.NewFromInt(3)).Sub(decimal.NewFromInt(50).Div(decimal.NewFromInt(3)))
	if !s.ExpectancyPerTrade.Round(4).Equal(wantExpectancy.Round(4)) {
		t.Fatalf("ExpectancyPerTrade = %s, want %s", s.ExpectancyPerTrade, wantExpectancy)
	}
}

func TestStatsFinalizeComputesCalmarRatioFromAnnualizedReturnAndDrawdown(t *testing.T) {
	s := NewStats(decimal.NewFromInt(10000))
	s.RecordEquity(0, decimal.NewFromInt(10000))
	s.RecordEquity(1, decimal.NewFromInt(11000))
	s.RecordEquity(2, decimal.NewFromInt(10450)) // 5% drawdown from the 11000 peak

	portfolio := marketdata.NewPortfolio(decimal.NewFromInt(10000))
	portfolio.Cash = decimal.NewFromInt(10450)
	portfolio.Equity = decimal.NewFromInt(10450)
	s.Finalize(portfolio)

	if s.MaxDrawdownPct.IsZero() {
		t.Fatalf("expected a nonzero max drawdown")
	}
	wantCalmar := s.AnnualizedReturnPct.Div(s.MaxDrawdownPct)
	if !s.CalmarRatio.Equal(wantCalmar) {
		t.Fatalf("CalmarRatio = %s, want %s", s.CalmarRatio, wantCalmar)
	}
}

func TestStatsFinalizeComputesDailyReturnVarEs(t *testing.T) {
	s := NewStats(decimal.NewFromInt(10000))
	equities := []int64{10000, 9800, 10100, 9700, 10200, 9600, 10300, 9500}
	for i, e := range equities {
		s.RecordEquity(int64(i), decimal.NewFromInt(e))
	}

	portfolio := marketdata.NewPortfolio(decimal.NewFromInt(10000))
	portfolio.Cash = decimal.NewFromInt(9500)
	portfolio.Equity = decimal.NewFromInt(9500)
	s.Finalize(portfolio)

	if s.DailyReturnVarEs.Var95 >= 0 {
		t.Fatalf("DailyReturnVarEs.Var95 = %v, want a negative loss estimate for a choppy losing series", s.DailyReturnVarEs.Var95)
	}
	if s.DailyReturnVarEs.Var99Reliable {
		t.Fatalf("Var99Reliable = true for a %d-sample series, want false", len(s.dailyReturns))
	}
}
