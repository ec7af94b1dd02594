package marketdata

import "github.com/shopspring/decimal"

// Portfolio holds cash, buying power and the set of open positions for one
// simulated or live account. Flat positions are never kept in Positions.
// PeakEquity is monotonically non-decreasing over the life of the
// portfolio; Drawdown is derived from it.
type Portfolio struct {
	Cash           decimal.Decimal
	BuyingPower    decimal.Decimal
	Equity         decimal.Decimal
	Positions      map[string]*Position
	InitialCapital decimal.Decimal
	PeakEquity     decimal.Decimal
	RealizedPnL    decimal.Decimal
}

// NewPortfolio creates a portfolio fully funded in cash with no positions.
func NewPortfolio(initialCapital decimal.Decimal) *Portfolio {
	return &Portfolio{
		Cash:           initialCapital,
		BuyingPower:    initialCapital,
		Equity:         initialCapital,
		Positions:      make(map[string]*Position),
		InitialCapital: initialCapital,
		PeakEquity:     initialCapital,
	}
}

// UnrealizedPnL sums UnrealizedPnL across all open positions.
func (p *Portfolio) UnrealizedPnL() decimal.Decimal {
	total := decimal.Zero
	for _, pos := range p.Positions {
		total = total.Add(pos.UnrealizedPnL())
	}
	return total
}

// UpdateEquity recomputes Equity as cash plus the market value of every open
// position, then advances PeakEquity if a new high was reached.
func (p *Portfolio) UpdateEquity() {
	total := p.Cash
	for _, pos := range p.Positions {
		total = total.Add(pos.MarketValue())
	}
	p.Equity = total
	if p.Equity.GreaterThan(p.PeakEquity) {
		p.PeakEquity = p.Equity
	}
}

// UpdatePrices marks every held position to the supplied price map and
// recomputes equity. Symbols absent from prices are left unmarked.
func (p *Portfolio) UpdatePrices(prices map[string]decimal.Decimal) {
	for symbol, pos := range p.Positions {
		if price, ok := prices[symbol]; ok {
			pos.CurrentPrice = price
		}
	}
	p.UpdateEquity()
}

// TotalMarketValue sums the market value of every open position.
func (p *Portfolio) TotalMarketValue() decimal.Decimal {
	total := decimal.Zero
	for _, pos := range p.Positions {
		total = total.Add(pos.MarketValue())
	}
	return total
}

// PositionCount returns the number of open (non-flat) positions.
func (p *Portfolio) PositionCount() int {
	return len(p.Positions)
}

// DrawdownPct is (peak-equity)/peak * 100.
func (p *Portfolio) DrawdownPct() decimal.Decimal {
	if p.PeakEquity.IsZero() {
		return decimal.Zero
	}
	return p.PeakEquity.Sub(p.Equity).Div(p.PeakEquity).Mul(decimal.NewFromInt(100))
}

// Clone returns a deep copy safe for a caller to inspect without racing a
// concurrent mutation of the original (positions are value-copied).
func (p *Portfolio) Clone() Portfolio {
	positions := make(map[string]*Position, len(p.Positions))
	for symbol, pos := range p.Positions {
		cp := *pos
		positions[symbol] = &cp
	}
	return Portfolio{
		Cash:           p.Cash,
		BuyingPower:    p.BuyingPower,
		Equity:         p.Equity,
		Positions:      positions,
		InitialCapital: p.InitialCapital,
		PeakEquity:     p.PeakEquity,
		RealizedPnL:    p.RealizedPnL,
	}
}
