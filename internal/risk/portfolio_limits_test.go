package risk

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/lumenworksco/trading-algorithm/internal/marketdata"
)

func portfolioWithPositions(equity, cash decimal.Decimal, positions int) *marketdata.Portfolio {
	p := marketdata.NewPortfolio(equity)
	p.Cash = cash
	p.Equity = equity
	for i := 0; i < positions; i++ {
		pos := marketdata.NewPosition("SYM", decimal.NewFromInt(10), decimal.NewFromInt(100))
		symbol := pos.Symbol + string(rune('0'+i))
		p.Positions[symbol] = &pos
	}
	return p
}

func TestPortfolioLimitsAllowed(t *testing.T) {
	limits := DefaultPortfolioLimits()
	p := portfolioWithPositions(decimal.NewFromInt(100000), decimal.NewFromInt(50000), 2)

	check := limits.CheckNewPosition(p, decimal.NewFromInt(5000), decimal.Zero)
	if !check.IsAllowed() {
		t.Fatalf("expected allowed, got %+v", check)
	}
}

func TestPortfolioLimitsMaxPositionsBlocked(t *testing.T) {
	limits := DefaultPortfolioLimits()
	limits.MaxPositions = 3
	p := portfolioWithPositions(decimal.NewFromInt(100000), decimal.NewFromInt(50000), 3)

	check := limits.CheckNewPosition(p, decimal.NewFromInt(5000), decimal.Zero)
	if !check.IsBlocked() {
		t.Fatalf("expected blocked, got %+v", check)
	}
}

func TestPortfolioLimitsDailyLossBlocked(t *testing.T) {
	limits := DefaultPortfolioLimits()
	p := portfolioWithPositions(decimal.NewFromInt(100000), decimal.NewFromInt(50000), 0)

	// Down 5% today exceeds the default 3% limit.
	check := limits.CheckNewPosition(p, decimal.NewFromInt(5000), decimal.NewFromInt(-5000))
	if !check.IsBlocked() {
		t.Fatalf("expected blocked on daily loss, got %+v", check)
	}
}

func TestPortfolioLimitsPositionSizeReduced(t *testing.T) {
	limits := DefaultPortfolioLimits()
	limits.MaxPositionPct = decimal.NewFromInt(5)
	p := portfolioWithPositions(decimal.NewFromInt(100000), decimal.NewFromInt(100000), 0)

	check := limits.CheckNewPosition(p, decimal.NewFromInt(10000), decimal.Zero)
	if check.Outcome != Reduced {
		t.Fatalf("expected Reduced, got %+v", check)
	}
	if !check.MaxSize.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("MaxSize = %s, want 5000", check.MaxSize)
	}
}
