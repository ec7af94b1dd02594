package broker

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lumenworksco/trading-algorithm/internal/errs"
	"github.com/lumenworksco/trading-algorithm/internal/marketdata"
)

var _ Broker = (*SimulatedBroker)(nil)

// SimulatedBroker fills orders against externally supplied prices rather
// than a live venue. ExecuteAtPrice drives the replay: the backtest driver
// calls it once per pending order per bar.
type SimulatedBroker struct {
	mu                 sync.Mutex
	portfolio          marketdata.Portfolio
	orders             map[uuid.UUID]*marketdata.Order
	slippagePct        decimal.Decimal
	commissionPerShare decimal.Decimal
}

func NewSimulatedBroker(initialCapital decimal.Decimal) *SimulatedBroker {
	return &SimulatedBroker{
		portfolio:   *marketdata.NewPortfolio(initialCapital),
		orders:      make(map[uuid.UUID]*marketdata.Order),
		slippagePct: decimal.NewFromFloat(0.05),
	}
}

func (b *SimulatedBroker) WithSlippage(slippagePct decimal.Decimal) *SimulatedBroker {
	b.slippagePct = slippagePct
	return b
}

func (b *SimulatedBroker) WithCommission(commissionPerShare decimal.Decimal) *SimulatedBroker {
	b.commissionPerShare = commissionPerShare
	return b
}

// ExecuteAtPrice fills the named order against marketPrice, applying
// slippage, limit-price feasibility, and a buying-power check for buys. A
// terminal order is returned unchanged. It is not part of the Broker
// interface (nor are UpdatePrices and PortfolioSnapshot): the driver calls
// it directly since a simulated venue has no independent price feed of its
// own.
func (b *SimulatedBroker) ExecuteAtPrice(orderID uuid.UUID, marketPrice decimal.Decimal) (marketdata.Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	order, ok := b.orders[orderID]
	if !ok {
		return marketdata.Order{}, &errs.OrderNotFoundError{OrderID: orderID.String()}
	}
	if order.Status.IsTerminal() {
		return *order, nil
	}

	fillPrice := marketPrice
	hundred := decimal.NewFromInt(100)
	if order.Side == marketdata.Buy {
		fillPrice = marketPrice.Mul(decimal.NewFromInt(1).Add(b.slippagePct.Div(hundred)))
	} else {
		fillPrice = marketPrice.Mul(decimal.NewFromInt(1).Sub(b.slippagePct.Div(hundred)))
	}

	if order.Type == marketdata.Limit && order.LimitPrice != nil {
		limit := *order.LimitPrice
		if order.Side == marketdata.Buy && fillPrice.GreaterThan(limit) {
			return *order, nil
		}
		if order.Side == marketdata.Sell && fillPrice.LessThan(limit) {
			return *order, nil
		}
	}

	if order.Side == marketdata.Buy {
		cost := fillPrice.Mul(order.Quantity)
		if cost.GreaterThan(b.portfolio.Cash) {
			return marketdata.Order{}, &errs.InsufficientFundsError{Required: cost, Available: b.portfolio.Cash}
		}
	}

	commission := b.commissionPerShare.Mul(order.Quantity)

	fill := marketdata.Fill{
		ID:         uuid.NewString(),
		OrderID:    orderID,
		Quantity:   order.Quantity,
		Price:      fillPrice,
		Commission: commission,
		Timestamp:  time.Now().UTC(),
	}
	order.AddFill(fill)
	order.Status = marketdata.Filled
	filledAt := fill.Timestamp
	order.FilledAt = &filledAt

	fillValue := fillPrice.Mul(order.Quantity)
	if order.Side == marketdata.Buy {
		b.portfolio.Cash = b.portfolio.Cash.Sub(fillValue).Sub(commission)
	} else {
		b.portfolio.Cash = b.portfolio.Cash.Add(fillValue).Sub(commission)
	}

	position, ok := b.portfolio.Positions[order.Symbol]
	if !ok {
		p := marketdata.NewPosition(order.Symbol, decimal.Zero, decimal.Zero)
		position = &p
		b.portfolio.Positions[order.Symbol] = position
	}
	position.ApplyFill(order.Side, order.Quantity, fillPrice)
	if position.IsFlat() {
		delete(b.portfolio.Positions, order.Symbol)
	}

	b.portfolio.UpdateEquity()
	b.portfolio.BuyingPower = b.portfolio.Cash

	return *order, nil
}

// UpdatePrices marks every held position to the supplied price map.
func (b *SimulatedBroker) UpdatePrices(prices map[string]decimal.Decimal) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.portfolio.UpdatePrices(prices)
}

// PortfolioSnapshot returns a deep copy of the current portfolio.
func (b *SimulatedBroker) PortfolioSnapshot() marketdata.Portfolio {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.portfolio.Clone()
}

func (b *SimulatedBroker) GetAccount(ctx context.Context) (marketdata.Portfolio, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.portfolio.Clone(), nil
}

// SubmitOrder assigns identity and a Pending status; filling happens later
// via ExecuteAtPrice, since the simulated broker has no price feed of its
// own to fill a market order immediately against.
func (b *SimulatedBroker) SubmitOrder(ctx context.Context, request marketdata.OrderRequest) (marketdata.Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	order := marketdata.NewOrderFromRequest(request)
	b.orders[order.ID] = &order
	return order, nil
}

func (b *SimulatedBroker) CancelOrder(ctx context.Context, orderID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	id, err := uuid.Parse(orderID)
	if err != nil {
		return &errs.OrderNotFoundError{OrderID: orderID}
	}
	order, ok := b.orders[id]
	if !ok {
		return &errs.OrderNotFoundError{OrderID: orderID}
	}
	if order.Status.IsTerminal() {
		return &errs.OrderRejectedError{Reason: "order already terminal"}
	}

	order.Status = marketdata.Canceled
	now := time.Now().UTC()
	order.CanceledAt = &now
	return nil
}

func (b *SimulatedBroker) GetOrder(ctx context.Context, orderID string) (marketdata.Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id, err := uuid.Parse(orderID)
	if err != nil {
		return marketdata.Order{}, &errs.OrderNotFoundError{OrderID: orderID}
	}
	order, ok := b.orders[id]
	if !ok {
		return marketdata.Order{}, &errs.OrderNotFoundError{OrderID: orderID}
	}
	return *order, nil
}

func (b *SimulatedBroker) GetOpenOrders(ctx context.Context) ([]marketdata.Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	open := make([]marketdata.Order, 0)
	for _, order := range b.orders {
		if order.Status.IsActive() {
			open = append(open, *order)
		}
	}
	return open, nil
}

func (b *SimulatedBroker) GetPositions(ctx context.Context) ([]marketdata.Position, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	positions := make([]marketdata.Position, 0, len(b.portfolio.Positions))
	for _, pos := range b.portfolio.Positions {
		positions = append(positions, *pos)
	}
	return positions, nil
}

func (b *SimulatedBroker) GetPosition(ctx context.Context, symbol string) (*marketdata.Position, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	pos, ok := b.portfolio.Positions[symbol]
	if !ok {
		return nil, nil
	}
	cp := *pos
	return &cp, nil
}

// ClosePosition submits a market order for the full opposite-side quantity
// of an open position. Filling happens on a subsequent ExecuteAtPrice call,
// same as any other submitted order.
func (b *SimulatedBroker) ClosePosition(ctx context.Context, symbol string) (marketdata.Order, error) {
	b.mu.Lock()
	pos, ok := b.portfolio.Positions[symbol]
	if !ok {
		b.mu.Unlock()
		return marketdata.Order{}, &errs.PositionNotFoundError{Symbol: symbol}
	}
	side := marketdata.Sell
	if !pos.IsLong() {
		side = marketdata.Buy
	}
	quantity := pos.Quantity.Abs()
	b.mu.Unlock()

	return b.SubmitOrder(ctx, marketdata.MarketOrder(symbol, side, quantity))
}

func (b *SimulatedBroker) CloseAllPositions(ctx context.Context) ([]marketdata.Order, error) {
	b.mu.Lock()
	symbols := make([]string, 0, len(b.portfolio.Positions))
	for symbol := range b.portfolio.Positions {
		symbols = append(symbols, symbol)
	}
	b.mu.Unlock()

	orders := make([]marketdata.Order, 0, len(symbols))
	for _, symbol := range symbols {
		order, err := b.ClosePosition(ctx, symbol)
		if err != nil {
			return orders, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (b *SimulatedBroker) CancelAllOrders(ctx context.Context) error {
	b.mu.Lock()
	ids := make([]string, 0)
	for id, order := range b.orders {
		if order.Status.IsActive() {
			ids = append(ids, id.String())
		}
	}
	b.mu.Unlock()

	for _, id := range ids {
		if err := b.CancelOrder(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// IsMarketOpen always reports true: a simulated venue has no trading
// calendar of its own, and the backtest driver only advances on bars that
// already exist.
func (b *SimulatedBroker) IsMarketOpen(ctx context.Context) (bool, error) { return true, nil }

func (b *SimulatedBroker) GetBuyingPower(ctx context.Context) (decimal.Decimal, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.portfolio.BuyingPower, nil
}

func (b *SimulatedBroker) Name() string { return "Simulated Broker" }
