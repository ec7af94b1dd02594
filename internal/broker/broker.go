// Package broker defines the Broker contract and a simulated broker used
// by the backtest driver and paper-trading mode.
package broker

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/lumenworksco/trading-algorithm/internal/marketdata"
)

// Broker handles order execution, position management and account
// information. Every method is fallible and context-bearing except Name.
type Broker interface {
	GetAccount(ctx context.Context) (marketdata.Portfolio, error)
	SubmitOrder(ctx context.Context, request marketdata.OrderRequest) (marketdata.Order, error)
	CancelOrder(ctx context.Context, orderID string) error
	GetOrder(ctx context.Context, orderID string) (marketdata.Order, error)
	GetOpenOrders(ctx context.Context) ([]marketdata.Order, error)
	GetPositions(ctx context.Context) ([]marketdata.Position, error)
	GetPosition(ctx context.Context, symbol string) (*marketdata.Position, error)
	ClosePosition(ctx context.Context, symbol string) (marketdata.Order, error)
	CloseAllPositions(ctx context.Context) ([]marketdata.Order, error)
	CancelAllOrders(ctx context.Context) error
	IsMarketOpen(ctx context.Context) (bool, error)
	GetBuyingPower(ctx context.Context) (decimal.Decimal, error)
	Name() string
}
