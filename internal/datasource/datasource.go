// Package datasource defines the contracts historical and live bar
// providers implement, plus a CSV-backed DataSource.
package datasource

import (
	"context"

	"github.com/lumenworksco/trading-algorithm/internal/marketdata"
)

// DataSource supplies historical bars for a symbol/timeframe/range.
type DataSource interface {
	GetBars(ctx context.Context, symbol string, timeframe marketdata.Timeframe, start, end int64) ([]marketdata.Bar, error)
	Name() string
}

// QuoteSource supplies a single latest quote, used by paper/live trading to
// synthesize a bar per tick rather than waiting on a full bar to close.
type QuoteSource interface {
	GetQuote(ctx context.Context, symbol string) (Quote, error)
	Name() string
}

// Quote is the latest traded price for a symbol.
type Quote struct {
	Symbol    string
	Price     float64
	Timestamp int64
}

// SynthesizeBar builds a degenerate single-tick bar from a quote: OHLC all
// equal the quote price, volume zero. This is a documented approximation,
// not a substitute for a real bar — paper/live strategies warm up on bars
// this thin only because no real bar has closed yet.
func SynthesizeBar(q Quote) marketdata.Bar {
	return marketdata.NewBar(q.Timestamp, q.Price, q.Price, q.Price, q.Price, 0)
}
