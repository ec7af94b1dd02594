package risk

import (
	"github.com/shopspring/decimal"

	"github.com/lumenworksco/trading-algorithm/internal/marketdata"
)

// StopMethod selects how StopLossManager computes and ratchets a stop
// price. Exactly one field group is meaningful per Kind.
type StopMethod struct {
	Kind       StopKind
	Percent    decimal.Decimal
	Multiplier decimal.Decimal
	Amount     decimal.Decimal
}

type StopKind int

const (
	FixedPercent StopKind = iota
	AtrStop
	FixedDollar
	TrailingPercent
	TrailingAtr
)

func DefaultStopMethod() StopMethod {
	return StopMethod{Kind: FixedPercent, Percent: decimal.NewFromInt(2)}
}

// StopOrder is a stop-loss to be placed alongside a new position.
type StopOrder struct {
	Symbol      string
	StopPrice   decimal.Decimal
	Quantity    decimal.Decimal
	IsTrailing  bool
	TrailAmount *decimal.Decimal
}

// StopLossManager computes and maintains a stop price for a position under
// one stop method. ATR-dependent methods require UpdateATR to have been
// called at least once; until then they report no stop.
type StopLossManager struct {
	method     StopMethod
	currentATR *decimal.Decimal
}

func NewStopLossManager(method StopMethod) *StopLossManager {
	return &StopLossManager{method: method}
}

func (m *StopLossManager) UpdateATR(atr decimal.Decimal) {
	m.currentATR = &atr
}

// CalculateStopPrice returns the stop price for a new position entered at
// entryPrice in the given direction, or nil if the method needs an ATR that
// hasn't been supplied yet.
func (m *StopLossManager) CalculateStopPrice(entryPrice decimal.Decimal, side marketdata.Side) *decimal.Decimal {
	switch m.method.Kind {
	case FixedPercent, TrailingPercent:
		offset := entryPrice.Mul(m.method.Percent.Div(hundred))
		return offsetStop(entryPrice, offset, side)

	case AtrStop, TrailingAtr:
		if m.currentATR == nil {
			return nil
		}
		offset := m.currentATR.Mul(m.method.Multiplier)
		return offsetStop(entryPrice, offset, side)

	case FixedDollar:
		return offsetStop(entryPrice, m.method.Amount, side)

	default:
		return nil
	}
}

func offsetStop(entryPrice, offset decimal.Decimal, side marketdata.Side) *decimal.Decimal {
	var stop decimal.Decimal
	if side == marketdata.Buy {
		stop = entryPrice.Sub(offset)
	} else {
		stop = entryPrice.Add(offset)
	}
	return &stop
}

// UpdateTrailingStop ratchets a trailing stop toward the current price:
// for a long, the stop only ever moves up; for a short, only ever down.
// Non-trailing methods return currentStop unchanged.
func (m *StopLossManager) UpdateTrailingStop(currentStop, currentPrice decimal.Decimal, side marketdata.Side) decimal.Decimal {
	var offset decimal.Decimal
	switch m.method.Kind {
	case TrailingPercent:
		offset = currentPrice.Mul(m.method.Percent.Div(hundred))
	case TrailingAtr:
		if m.currentATR == nil {
			return currentStop
		}
		offset = m.currentATR.Mul(m.method.Multiplier)
	default:
		return currentStop
	}

	if side == marketdata.Buy {
		newStop := currentPrice.Sub(offset)
		if newStop.GreaterThan(currentStop) {
			return newStop
		}
		return currentStop
	}
	newStop := currentPrice.Add(offset)
	if newStop.LessThan(currentStop) {
		return newStop
	}
	return currentStop
}

// IsTriggered reports whether currentPrice has reached stopPrice for the
// position's direction.
func (m *StopLossManager) IsTriggered(stopPrice, currentPrice decimal.Decimal, side marketdata.Side) bool {
	if side == marketdata.Buy {
		return currentPrice.LessThanOrEqual(stopPrice)
	}
	return currentPrice.GreaterThanOrEqual(stopPrice)
}

// CreateStopOrder builds the stop-loss order to accompany an open position,
// or nil if the method can't yet produce a stop price (ATR not seeded).
func (m *StopLossManager) CreateStopOrder(position *marketdata.Position) *StopOrder {
	side := marketdata.Sell
	if position.IsLong() {
		side = marketdata.Buy
	}
	stopPrice := m.CalculateStopPrice(position.AvgEntry, side)
	if stopPrice == nil {
		return nil
	}

	isTrailing := m.method.Kind == TrailingPercent || m.method.Kind == TrailingAtr
	var trailAmount *decimal.Decimal
	switch m.method.Kind {
	case TrailingPercent:
		amt := position.AvgEntry.Mul(m.method.Percent.Div(hundred))
		trailAmount = &amt
	case TrailingAtr:
		if m.currentATR != nil {
			amt := m.currentATR.Mul(m.method.Multiplier)
			trailAmount = &amt
		}
	}

	return &StopOrder{
		Symbol:      position.Symbol,
		StopPrice:   *stopPrice,
		Quantity:    position.Quantity.Abs(),
		IsTrailing:  isTrailing,
		TrailAmount: trailAmount,
	}
}
