package marketdata

import "github.com/shopspring/decimal"

// Position is a per-symbol holding. Quantity is signed: positive is long,
// negative is short. A position with zero quantity is "flat" and is removed
// from its owning Portfolio rather than kept around with zero size.
type Position struct {
	Symbol       string
	Quantity     decimal.Decimal
	AvgEntry     decimal.Decimal
	CurrentPrice decimal.Decimal
	RealizedPnL  decimal.Decimal
}

// NewPosition creates a position with the given quantity and entry price.
func NewPosition(symbol string, quantity, avgEntry decimal.Decimal) Position {
	return Position{Symbol: symbol, Quantity: quantity, AvgEntry: avgEntry, CurrentPrice: avgEntry}
}

// IsFlat reports whether the position carries zero quantity.
func (p Position) IsFlat() bool {
	return p.Quantity.IsZero()
}

// IsLong reports whether the position is net long.
func (p Position) IsLong() bool {
	return p.Quantity.GreaterThan(decimal.Zero)
}

// IsShort reports whether the position is net short.
func (p Position) IsShort() bool {
	return p.Quantity.LessThan(decimal.Zero)
}

// MarketValue is quantity * currentPrice.
func (p Position) MarketValue() decimal.Decimal {
	return p.Quantity.Mul(p.CurrentPrice)
}

// CostBasis is quantity * avgEntry.
func (p Position) CostBasis() decimal.Decimal {
	return p.Quantity.Mul(p.AvgEntry)
}

// UnrealizedPnL is MarketValue - CostBasis.
func (p Position) UnrealizedPnL() decimal.Decimal {
	return p.MarketValue().Sub(p.CostBasis())
}

// ApplyFill mutates the position in place to reflect one fill: same-direction
// adds average the entry price by quantity weight; opposite-direction fills
// reduce (realizing P&L on the closed portion) and, if the fill's quantity
// exceeds the open quantity, reverse the position into the other direction
// at the fill price.
func (p *Position) ApplyFill(side Side, quantity, price decimal.Decimal) {
	signedQty := quantity
	if side == Sell {
		signedQty = quantity.Neg()
	}

	switch {
	case p.Quantity.IsZero():
		p.Quantity = signedQty
		p.AvgEntry = price
	case sameSign(p.Quantity, signedQty):
		// Adding to an existing position in the same direction: weighted-average the entry price.
		oldQty := p.Quantity.Abs()
		addQty := signedQty.Abs()
		totalQty := oldQty.Add(addQty)
		if totalQty.GreaterThan(decimal.Zero) {
			p.AvgEntry = p.AvgEntry.Mul(oldQty).Add(price.Mul(addQty)).Div(totalQty)
		}
		p.Quantity = p.Quantity.Add(signedQty)
	default:
		// Reducing (or reversing) the existing position.
		openQty := p.Quantity.Abs()
		closeQty := signedQty.Abs()
		if closeQty.GreaterThan(openQty) {
			closeQty = openQty
		}
		var pnlPerUnit decimal.Decimal
		wasLong := p.IsLong()
		if wasLong {
			pnlPerUnit = price.Sub(p.AvgEntry)
		} else {
			pnlPerUnit = p.AvgEntry.Sub(price)
		}
		p.RealizedPnL = p.RealizedPnL.Add(pnlPerUnit.Mul(closeQty))

		p.Quantity = p.Quantity.Add(signedQty)
		switch {
		case p.Quantity.IsZero():
			p.AvgEntry = decimal.Zero
		case wasLong && p.Quantity.IsNegative(), !wasLong && p.Quantity.IsPositive():
			// Reversed through zero: the residual opens a fresh position at the fill price.
			p.AvgEntry = price
		}
	}
}

func sameSign(a, b decimal.Decimal) bool {
	return (a.GreaterThan(decimal.Zero) && b.GreaterThan(decimal.Zero)) ||
		(a.LessThan(decimal.Zero) && b.LessThan(decimal.Zero))
}
