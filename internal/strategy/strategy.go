// Package strategy defines the Strategy contract and its four concrete
// implementations: MA crossover, mean reversion (Bollinger), momentum, and
// RSI. Each carries an internal {Flat, Long, Short} position-state machine
// and a validated configuration.
package strategy

import "github.com/lumenworksco/trading-algorithm/internal/marketdata"

// Config is the validation contract every strategy's configuration type
// must satisfy. Validation is a separate, total function: invalid config is
// a construction-time error, never surfaced from OnBar.
type Config interface {
	Validate() error
}

// State is a serializable snapshot of a strategy's internal state, used for
// monitoring.
type State struct {
	Name             string
	IsWarmedUp       bool
	BarsProcessed    int
	SignalsGenerated int
	Indicators       map[string]float64
	Custom           map[string]any
}

// Strategy is a stateful per-symbol analyzer. OnBar is pure with respect to
// everything except the strategy's own private state, and must return nil
// until series.Len() >= WarmupPeriod().
type Strategy interface {
	Name() string
	Description() string
	OnBar(series *marketdata.BarSeries) *marketdata.Signal
	OnFill(order *marketdata.Order)
	Reset()
	State() State
	WarmupPeriod() int
	Symbols() []string
}

// positionState is the internal {Flat, Long, Short} machine shared by every
// concrete strategy below.
type positionState int

const (
	flat positionState = iota
	long
	short
)

func (p positionState) String() string {
	switch p {
	case long:
		return "long"
	case short:
		return "short"
	default:
		return "flat"
	}
}
