// Package indicators implements the technical indicator engine: batch
// functions over a contiguous price slice, and stateful streaming objects
// fed one value at a time. Both shapes return less than the full period
// rather than erroring on short input — insufficient data is never an
// error for these functions, by design (see the Indicator contract in
// SPEC_FULL.md §4.1).
package indicators

// Indicator is a pure batch calculator producing one output per valid
// window position.
type Indicator interface {
	Calculate(data []float64) []float64
	Period() int
	Name() string
}

// MultiOutputIndicator is a batch calculator producing a structured output
// (e.g. Bollinger Bands, MACD) per valid window position.
type MultiOutputIndicator[T any] interface {
	Calculate(data []float64) []T
	Period() int
	Name() string
}

// StreamingIndicator accepts one value at a time and reports readiness once
// its warmup count is reached.
type StreamingIndicator interface {
	Update(value float64) (float64, bool)
	Current() (float64, bool)
	Reset()
	IsReady() bool
	Period() int
	Name() string
}
