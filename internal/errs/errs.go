// Package errs defines the closed error taxonomy used across the trading
// core: Config, Strategy, Broker, Data, Indicator, RiskBlocked and
// Validation. Every kind is a typed struct satisfying error, matched with
// errors.As/errors.Is rather than a bespoke error-code enum.
package errs

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ConfigError signals invalid or missing configuration; fatal at startup.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return fmt.Sprintf("config: %s", e.Reason) }

// StrategyError covers invalid strategy config, insufficient warmup data,
// or an unknown strategy name.
type StrategyError struct {
	Reason string
}

func (e *StrategyError) Error() string { return fmt.Sprintf("strategy: %s", e.Reason) }

// StrategyNotFoundError is returned by the registry for an unknown strategy key.
type StrategyNotFoundError struct {
	Name string
}

func (e *StrategyNotFoundError) Error() string { return fmt.Sprintf("strategy: not found: %s", e.Name) }

// BrokerError is the base broker failure; prefer the specific variants below
// where one fits.
type BrokerError struct {
	Reason string
}

func (e *BrokerError) Error() string { return fmt.Sprintf("broker: %s", e.Reason) }

// InsufficientFundsError is returned when an order's fill cost exceeds
// available cash.
type InsufficientFundsError struct {
	Required  decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("broker: insufficient funds: required %s, available %s", e.Required, e.Available)
}

// OrderNotFoundError is returned when an order id does not resolve.
type OrderNotFoundError struct {
	OrderID string
}

func (e *OrderNotFoundError) Error() string { return fmt.Sprintf("broker: order not found: %s", e.OrderID) }

// PositionNotFoundError is returned when a symbol has no open position.
type PositionNotFoundError struct {
	Symbol string
}

func (e *PositionNotFoundError) Error() string {
	return fmt.Sprintf("broker: position not found: %s", e.Symbol)
}

// OrderRejectedError is returned when a broker declines to act on an order
// (e.g. canceling an already-terminal order).
type OrderRejectedError struct {
	Reason string
}

func (e *OrderRejectedError) Error() string { return fmt.Sprintf("broker: order rejected: %s", e.Reason) }

// RateLimitedError carries how long the caller should wait before retrying.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("broker: rate limited, retry after %s", e.RetryAfter)
}

// MarketClosedError is returned when an order is submitted outside market hours.
type MarketClosedError struct{}

func (e *MarketClosedError) Error() string { return "broker: market closed" }

// NetworkError wraps a transport-level failure.
type NetworkError struct {
	Reason string
}

func (e *NetworkError) Error() string { return fmt.Sprintf("broker: network error: %s", e.Reason) }

// DataError covers historical/quote data source failures.
type DataError struct {
	Kind   string // symbol_not_found | no_data | invalid_timeframe | connection | parse | cache | internal
	Reason string
}

func (e *DataError) Error() string { return fmt.Sprintf("data: %s: %s", e.Kind, e.Reason) }

// IndicatorError is returned by the rare validator that demands a minimum
// data length rather than degrading to an empty output.
type IndicatorError struct {
	Required  int
	Available int
}

func (e *IndicatorError) Error() string {
	return fmt.Sprintf("indicator: insufficient data: required %d, available %d", e.Required, e.Available)
}

// RiskBlockedError is a user-level outcome (not a system fault): a
// portfolio limit blocked a new position.
type RiskBlockedError struct {
	Reason string
}

func (e *RiskBlockedError) Error() string { return fmt.Sprintf("risk blocked: %s", e.Reason) }

// ValidationError covers any total contract check that fails: numeric
// ranges, sort order, terminal-state mutation attempts.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return fmt.Sprintf("validation: %s", e.Reason) }
