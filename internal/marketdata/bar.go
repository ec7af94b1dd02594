// Package marketdata defines the value model shared by every other layer:
// bars, bar series, timeframes, orders, fills, positions, portfolios and
// signals. Money and quantity fields use exact decimal arithmetic; indicator
// inputs and outputs stay IEEE-754 float64.
package marketdata

import (
	"math"

	"github.com/shopspring/decimal"
)

// Bar is an immutable OHLCV sample for one (symbol, timeframe) bucket.
// Bars are compared and sorted by Timestamp only.
type Bar struct {
	Timestamp int64 // millisecond epoch
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	VWAP      *float64 // optional
}

// NewBar builds a Bar with no VWAP.
func NewBar(timestamp int64, open, high, low, close, volume float64) Bar {
	return Bar{Timestamp: timestamp, Open: open, High: high, Low: low, Close: close, Volume: volume}
}

// TypicalPrice is (high+low+close)/3.
func (b Bar) TypicalPrice() float64 {
	return (b.High + b.Low + b.Close) / 3
}

// Range is high-low, always non-negative for a well-formed bar.
func (b Bar) Range() float64 {
	return b.High - b.Low
}

// IsBullish reports whether the bar closed above where it opened.
func (b Bar) IsBullish() bool {
	return b.Close > b.Open
}

// TrueRange is max(high-low, |high-prevClose|, |low-prevClose|).
func (b Bar) TrueRange(prevClose float64) float64 {
	hl := b.High - b.Low
	hc := absFloat(b.High - prevClose)
	lc := absFloat(b.Low - prevClose)
	tr := hl
	if hc > tr {
		tr = hc
	}
	if lc > tr {
		tr = lc
	}
	return tr
}

func absFloat(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// PreciseBar mirrors Bar with decimal-exact OHLCV fields. Conversion from Bar
// uses FloatToDecimal at every field and is lossless within decimal's
// representable range; a conversion that cannot represent the float value
// (e.g. NaN or Inf) falls back to decimal.Zero for that field rather than
// erroring or panicking. This fallback is a documented policy, not a silent
// discard — see DecimalToFloat/FloatToDecimal and their tests.
type PreciseBar struct {
	Timestamp int64
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Close     decimal.Decimal
	Volume    decimal.Decimal
}

// ToPrecise converts a Bar to its decimal-exact representation.
func (b Bar) ToPrecise() PreciseBar {
	return PreciseBar{
		Timestamp: b.Timestamp,
		Open:      FloatToDecimal(b.Open),
		High:      FloatToDecimal(b.High),
		Low:       FloatToDecimal(b.Low),
		Close:     FloatToDecimal(b.Close),
		Volume:    FloatToDecimal(b.Volume),
	}
}

// FloatToDecimal converts a float64 to decimal.Decimal. NaN and +/-Inf are
// not representable as a decimal, so they fall back to decimal.Zero — the
// documented lossy-conversion policy used throughout this codebase whenever
// indicator-space float64 crosses into money/quantity-space decimal.
func FloatToDecimal(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// DecimalToFloat converts a decimal.Decimal to float64. The conversion is
// lossless within float64's representable range; a magnitude too large to
// represent produces +/-Inf from the underlying big.Float conversion, which
// falls back to zero per the same documented policy as FloatToDecimal.
func DecimalToFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
