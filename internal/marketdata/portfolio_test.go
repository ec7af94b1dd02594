package marketdata

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestPortfolioEquityInvariantAfterFill(t *testing.T) {
	pf := NewPortfolio(decimal.NewFromInt(100000))

	pos := NewPosition("AAPL", decimal.NewFromInt(100), decimal.NewFromInt(150))
	pos.CurrentPrice = decimal.NewFromInt(150)
	pf.Positions["AAPL"] = &pos
	pf.Cash = pf.Cash.Sub(decimal.NewFromInt(15000))
	pf.UpdateEquity()

	expected := pf.Cash.Add(pos.MarketValue())
	if !pf.Equity.Equal(expected) {
		t.Fatalf("Equity = %v, want cash+marketValue = %v", pf.Equity, expected)
	}
}

func TestPortfolioPeakEquityNeverDecreases(t *testing.T) {
	pf := NewPortfolio(decimal.NewFromInt(100000))
	pf.Cash = decimal.NewFromInt(120000)
	pf.UpdateEquity()
	if !pf.PeakEquity.Equal(decimal.NewFromInt(120000)) {
		t.Fatalf("PeakEquity = %v, want 120000", pf.PeakEquity)
	}

	pf.Cash = decimal.NewFromInt(90000)
	pf.UpdateEquity()
	if !pf.PeakEquity.Equal(decimal.NewFromInt(120000)) {
		t.Fatalf("PeakEquity decreased to %v after a drawdown, want it to stay at the prior peak", pf.PeakEquity)
	}
	if pf.Equity.GreaterThan(pf.PeakEquity) {
		t.Fatalf("Equity %v exceeds PeakEquity %v", pf.Equity, pf.PeakEquity)
	}
}

func TestPortfolioDrawdownPct(t *testing.T) {
	pf := NewPortfolio(decimal.NewFromInt(100000))
	pf.Cash = decimal.NewFromInt(90000)
	pf.UpdateEquity()

	dd := pf.DrawdownPct()
	if !dd.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("DrawdownPct() = %v, want 10", dd)
	}
}
