package marketdata

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Side is the direction of an order.
type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "buy"
	}
	return "sell"
}

// OrderType is the execution style of an order.
type OrderType int

const (
	Market OrderType = iota
	Limit
	Stop
	StopLimit
	TrailingStop
)

// TimeInForce controls how long an unfilled order remains active.
type TimeInForce int

const (
	Day TimeInForce = iota
	GTC
	IOC
	FOK
	OPG
	CLS
)

// OrderStatus is the lifecycle state of an order. Transitions are monotone
// into the terminal set {Filled, Canceled, Rejected, Expired}; once
// terminal, an order is immutable.
type OrderStatus int

const (
	Pending OrderStatus = iota
	Submitted
	Accepted
	PartiallyFilled
	Filled
	Canceled
	Rejected
	Expired
)

// IsTerminal reports whether the status is one from which no further
// transition is possible.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case Filled, Canceled, Rejected, Expired:
		return true
	default:
		return false
	}
}

// IsActive reports whether the status is one that still competes for a fill.
func (s OrderStatus) IsActive() bool {
	switch s {
	case Pending, Submitted, Accepted, PartiallyFilled:
		return true
	default:
		return false
	}
}

// OrderRequest is the caller-constructed intent to place an order; the
// broker assigns identity and a lifecycle when it is submitted.
type OrderRequest struct {
	Symbol      string
	Side        Side
	Type        OrderType
	Quantity    decimal.Decimal
	LimitPrice  *decimal.Decimal
	StopPrice   *decimal.Decimal
	TrailAmount *decimal.Decimal
	TimeInForce TimeInForce
	ClientID    string
}

// MarketOrder builds a market OrderRequest, the only shape the risk manager
// and backtest driver construct.
func MarketOrder(symbol string, side Side, quantity decimal.Decimal) OrderRequest {
	return OrderRequest{Symbol: symbol, Side: side, Type: Market, Quantity: quantity, TimeInForce: Day}
}

// Fill is an atomic partial or complete execution of an order.
type Fill struct {
	ID         string
	OrderID    uuid.UUID
	Quantity   decimal.Decimal
	Price      decimal.Decimal
	Commission decimal.Decimal
	Timestamp  time.Time
}

// Order is a system-assigned order with its full fill history.
type Order struct {
	ID              uuid.UUID
	ClientID        string
	Symbol          string
	Side            Side
	Type            OrderType
	Quantity        decimal.Decimal
	LimitPrice      *decimal.Decimal
	StopPrice       *decimal.Decimal
	TrailAmount     *decimal.Decimal
	TimeInForce     TimeInForce
	Status          OrderStatus
	FilledQuantity  decimal.Decimal
	FilledAvgPrice  *decimal.Decimal
	Fills           []Fill
	CreatedAt       time.Time
	SubmittedAt     *time.Time
	FilledAt        *time.Time
	CanceledAt      *time.Time
}

// NewOrderFromRequest assigns identity and an initial Pending status to a
// caller-constructed request.
func NewOrderFromRequest(req OrderRequest) Order {
	return Order{
		ID:          uuid.New(),
		ClientID:    req.ClientID,
		Symbol:      req.Symbol,
		Side:        req.Side,
		Type:        req.Type,
		Quantity:    req.Quantity,
		LimitPrice:  req.LimitPrice,
		StopPrice:   req.StopPrice,
		TrailAmount: req.TrailAmount,
		TimeInForce: req.TimeInForce,
		Status:      Pending,
		CreatedAt:   time.Now().UTC(),
	}
}

// AddFill appends a fill and recomputes FilledQuantity/FilledAvgPrice as the
// quantity-weighted mean of all constituent fills.
func (o *Order) AddFill(f Fill) {
	o.Fills = append(o.Fills, f)

	totalQty := decimal.Zero
	weightedSum := decimal.Zero
	for _, existing := range o.Fills {
		totalQty = totalQty.Add(existing.Quantity)
		weightedSum = weightedSum.Add(existing.Quantity.Mul(existing.Price))
	}
	o.FilledQuantity = totalQty
	if totalQty.GreaterThan(decimal.Zero) {
		avg := weightedSum.Div(totalQty)
		o.FilledAvgPrice = &avg
	}
}
