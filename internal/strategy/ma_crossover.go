package strategy

import (
	"fmt"
	"math"

	"github.com/lumenworksco/trading-algorithm/internal/errs"
	"github.com/lumenworksco/trading-algorithm/internal/indicators"
	"github.com/lumenworksco/trading-algorithm/internal/marketdata"
)

// MACrossoverConfig configures the MA crossover strategy.
type MACrossoverConfig struct {
	Symbols         []string `json:"symbols"`
	FastPeriod      int      `json:"fast_period"`
	SlowPeriod      int      `json:"slow_period"`
	UseEMA          bool     `json:"use_ema"`
	SignalThreshold float64  `json:"signal_threshold"`
}

// DefaultMACrossoverConfig mirrors the strategy's defaults: 12/26 EMA
// crossover with a 0.1% minimum magnitude to suppress chop.
func DefaultMACrossoverConfig() MACrossoverConfig {
	return MACrossoverConfig{FastPeriod: 12, SlowPeriod: 26, UseEMA: true, SignalThreshold: 0.001}
}

func (c MACrossoverConfig) Validate() error {
	if c.FastPeriod >= c.SlowPeriod {
		return &errs.StrategyError{Reason: "fast period must be less than slow period"}
	}
	if c.FastPeriod == 0 {
		return &errs.StrategyError{Reason: "fast period must be greater than 0"}
	}
	return nil
}

// MACrossoverStrategy buys when the fast MA crosses above the slow MA and
// sells when it crosses below, suppressing crossovers below SignalThreshold.
type MACrossoverStrategy struct {
	config      MACrossoverConfig
	prevFast    float64
	prevSlow    float64
	hasPrev     bool
	barsSeen    int
	signalsSeen int
}

func NewMACrossoverStrategy(config MACrossoverConfig) *MACrossoverStrategy {
	return &MACrossoverStrategy{config: config}
}

func (s *MACrossoverStrategy) Name() string        { return "MA Crossover" }
func (s *MACrossoverStrategy) Description() string {
	return "Generates signals based on fast/slow moving average crossovers"
}
func (s *MACrossoverStrategy) WarmupPeriod() int { return s.config.SlowPeriod + 1 }
func (s *MACrossoverStrategy) Symbols() []string { return s.config.Symbols }
func (s *MACrossoverStrategy) OnFill(*marketdata.Order) {}

func (s *MACrossoverStrategy) classifyStrength(magnitude float64) marketdata.SignalStrength {
	switch {
	case magnitude > 0.02:
		return marketdata.Strong
	case magnitude > 0.01:
		return marketdata.Moderate
	default:
		return marketdata.Weak
	}
}

func (s *MACrossoverStrategy) movingAverage(closes []float64, period int) []float64 {
	if s.config.UseEMA {
		return indicators.NewEma(period).Calculate(closes)
	}
	return indicators.NewSma(period).Calculate(closes)
}

func (s *MACrossoverStrategy) OnBar(series *marketdata.BarSeries) *marketdata.Signal {
	s.barsSeen++
	if series.Len() < s.WarmupPeriod() {
		return nil
	}

	closes := series.Closes()
	fast := s.movingAverage(closes, s.config.FastPeriod)
	slow := s.movingAverage(closes, s.config.SlowPeriod)
	if len(fast) == 0 || len(slow) == 0 {
		return nil
	}

	currentFast := fast[len(fast)-1]
	currentSlow := slow[len(slow)-1]

	var signal *marketdata.Signal
	if s.hasPrev {
		magnitude := 0.0
		if currentSlow != 0 {
			magnitude = math.Abs((currentFast - currentSlow) / currentSlow)
		}
		bar, _ := series.Last()

		switch {
		case s.prevFast <= s.prevSlow && currentFast > currentSlow && magnitude >= s.config.SignalThreshold:
			s.signalsSeen++
			signal = s.buildSignal(series.Symbol, marketdata.SignalBuy, bar, currentFast, currentSlow, magnitude,
				fmt.Sprintf("Bullish crossover: fast MA (%.2f) crossed above slow MA (%.2f)", currentFast, currentSlow))
		case s.prevFast >= s.prevSlow && currentFast < currentSlow && magnitude >= s.config.SignalThreshold:
			s.signalsSeen++
			signal = s.buildSignal(series.Symbol, marketdata.SignalSell, bar, currentFast, currentSlow, magnitude,
				fmt.Sprintf("Bearish crossover: fast MA (%.2f) crossed below slow MA (%.2f)", currentFast, currentSlow))
		}
	}

	s.prevFast = currentFast
	s.prevSlow = currentSlow
	s.hasPrev = true
	return signal
}

func (s *MACrossoverStrategy) buildSignal(symbol string, signalType marketdata.SignalType, bar marketdata.Bar, fast, slow, magnitude float64, reason string) *marketdata.Signal {
	confidence := magnitude
	if confidence > 1 {
		confidence = 1
	}
	return &marketdata.Signal{
		Symbol:     symbol,
		Type:       signalType,
		Strength:   s.classifyStrength(magnitude),
		Price:      bar.Close,
		Timestamp:  bar.Timestamp,
		Confidence: confidence,
		Metadata: marketdata.SignalMetadata{
			StrategyName: s.Name(),
			Indicators:   map[string]float64{"fast_ma": fast, "slow_ma": slow, "crossover_magnitude": magnitude},
			Reason:       reason,
		},
	}
}

func (s *MACrossoverStrategy) Reset() {
	s.prevFast, s.prevSlow = 0, 0
	s.hasPrev = false
	s.barsSeen = 0
	s.signalsSeen = 0
}

func (s *MACrossoverStrategy) State() State {
	return State{
		Name:             s.Name(),
		IsWarmedUp:       s.barsSeen >= s.WarmupPeriod(),
		BarsProcessed:    s.barsSeen,
		SignalsGenerated: s.signalsSeen,
		Indicators:       map[string]float64{"fast_ma": s.prevFast, "slow_ma": s.prevSlow},
		Custom: map[string]any{
			"fast_period": s.config.FastPeriod,
			"slow_period": s.config.SlowPeriod,
			"use_ema":     s.config.UseEMA,
		},
	}
}
