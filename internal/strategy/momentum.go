package strategy

import (
	"fmt"

	"github.com/lumenworksco/trading-algorithm/internal/errs"
	"github.com/lumenworksco/trading-algorithm/internal/indicators"
	"github.com/lumenworksco/trading-algorithm/internal/marketdata"
)

// MomentumConfig configures the momentum/trend-following strategy.
type MomentumConfig struct {
	Symbols           []string `json:"symbols"`
	MomentumPeriod    int      `json:"momentum_period"`
	FastEMAPeriod     int      `json:"fast_ema_period"`
	SlowEMAPeriod     int      `json:"slow_ema_period"`
	RSIPeriod         int      `json:"rsi_period"`
	RSILongThreshold  float64  `json:"rsi_long_threshold"`
	RSIShortThreshold float64  `json:"rsi_short_threshold"`
	MinMomentum       float64  `json:"min_momentum"`
	AllowShort        bool     `json:"allow_short"`
}

func DefaultMomentumConfig() MomentumConfig {
	return MomentumConfig{
		MomentumPeriod:    10,
		FastEMAPeriod:     12,
		SlowEMAPeriod:     26,
		RSIPeriod:         14,
		RSILongThreshold:  50,
		RSIShortThreshold: 50,
		MinMomentum:       0.02,
	}
}

func (c MomentumConfig) Validate() error {
	if c.MomentumPeriod < 1 {
		return &errs.StrategyError{Reason: "momentum period must be greater than 0"}
	}
	if c.FastEMAPeriod >= c.SlowEMAPeriod {
		return &errs.StrategyError{Reason: "fast EMA period must be less than slow EMA period"}
	}
	if c.RSIPeriod < 1 {
		return &errs.StrategyError{Reason: "RSI period must be greater than 0"}
	}
	return nil
}

// MomentumStrategy follows strong trends: it combines rate-of-change
// momentum, an EMA-spread trend filter, and RSI confirmation. Long entry
// requires momentum >= min_momentum, an uptrend, and RSI at or above
// RSILongThreshold; short entry mirrors it. A position exits as soon as
// either momentum or trend flips sign.
type MomentumStrategy struct {
	config       MomentumConfig
	rsi          indicators.Rsi
	position     positionState
	barsSeen     int
	signalsSeen  int
	lastMomentum float64
	lastTrend    float64
	lastRSI      float64
}

func NewMomentumStrategy(config MomentumConfig) *MomentumStrategy {
	return &MomentumStrategy{config: config, rsi: indicators.NewRsi(config.RSIPeriod)}
}

func (s *MomentumStrategy) Name() string        { return "Momentum" }
func (s *MomentumStrategy) Description() string { return "Follows strong trends using momentum and RSI confirmation" }
func (s *MomentumStrategy) WarmupPeriod() int {
	warmup := s.config.SlowEMAPeriod
	if s.config.MomentumPeriod+1 > warmup {
		warmup = s.config.MomentumPeriod + 1
	}
	if s.config.RSIPeriod+1 > warmup {
		warmup = s.config.RSIPeriod + 1
	}
	return warmup
}
func (s *MomentumStrategy) Symbols() []string { return s.config.Symbols }
func (s *MomentumStrategy) OnFill(*marketdata.Order) {}

// classifyStrength buckets on the joint magnitude of momentum and how far
// RSI sits from the neutral 50 midpoint, not on either alone.
func (s *MomentumStrategy) classifyStrength(momentum, rsi float64) marketdata.SignalStrength {
	momentumAbs := momentum
	if momentumAbs < 0 {
		momentumAbs = -momentumAbs
	}
	rsiExtreme := rsi - 50
	if rsiExtreme < 0 {
		rsiExtreme = -rsiExtreme
	}

	switch {
	case momentumAbs > 0.05 && rsiExtreme > 20:
		return marketdata.Strong
	case momentumAbs > 0.03 && rsiExtreme > 10:
		return marketdata.Moderate
	default:
		return marketdata.Weak
	}
}

// momentum returns (close - close[-p])/close[-p] over MomentumPeriod bars.
func (s *MomentumStrategy) momentum(closes []float64) (float64, bool) {
	if len(closes) < s.config.MomentumPeriod+1 {
		return 0, false
	}
	current := closes[len(closes)-1]
	past := closes[len(closes)-1-s.config.MomentumPeriod]
	if past == 0 {
		return 0, false
	}
	return (current - past) / past, true
}

// trend returns (fastEMA-slowEMA)/slowEMA, the EMA-spread direction filter.
func (s *MomentumStrategy) trend(closes []float64) (float64, bool) {
	fast := indicators.NewEma(s.config.FastEMAPeriod).Calculate(closes)
	slow := indicators.NewEma(s.config.SlowEMAPeriod).Calculate(closes)
	if len(fast) == 0 || len(slow) == 0 {
		return 0, false
	}
	slowVal := slow[len(slow)-1]
	if slowVal == 0 {
		return 0, false
	}
	return (fast[len(fast)-1] - slowVal) / slowVal, true
}

func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}

func (s *MomentumStrategy) OnBar(series *marketdata.BarSeries) *marketdata.Signal {
	s.barsSeen++
	if series.Len() < s.WarmupPeriod() {
		return nil
	}

	closes := series.Closes()
	momentum, ok := s.momentum(closes)
	if !ok {
		return nil
	}
	trend, ok := s.trend(closes)
	if !ok {
		return nil
	}

	rsiValues := s.rsi.Calculate(closes)
	if len(rsiValues) == 0 {
		return nil
	}
	rsiValue := rsiValues[len(rsiValues)-1]

	s.lastMomentum = momentum
	s.lastTrend = trend
	s.lastRSI = rsiValue
	bar, _ := series.Last()

	var signal *marketdata.Signal
	switch s.position {
	case flat:
		switch {
		case momentum >= s.config.MinMomentum && trend > 0 && rsiValue >= s.config.RSILongThreshold:
			s.position = long
			s.signalsSeen++
			signal = &marketdata.Signal{
				Symbol: series.Symbol, Type: marketdata.SignalBuy, Strength: s.classifyStrength(momentum, rsiValue),
				Price: bar.Close, Timestamp: bar.Timestamp, Confidence: clampUnit(momentum / 0.1),
				Metadata: marketdata.SignalMetadata{
					StrategyName: s.Name(),
					Indicators:   map[string]float64{"momentum": momentum, "trend": trend, "rsi": rsiValue},
					Reason:       fmt.Sprintf("Strong upward momentum (%.2f%%) with RSI at %.1f", momentum*100, rsiValue),
				},
			}
		case s.config.AllowShort && momentum <= -s.config.MinMomentum && trend < 0 && rsiValue <= s.config.RSIShortThreshold:
			s.position = short
			s.signalsSeen++
			signal = &marketdata.Signal{
				Symbol: series.Symbol, Type: marketdata.SignalSell, Strength: s.classifyStrength(momentum, rsiValue),
				Price: bar.Close, Timestamp: bar.Timestamp, Confidence: clampUnit(-momentum / 0.1),
				Metadata: marketdata.SignalMetadata{
					StrategyName: s.Name(),
					Indicators:   map[string]float64{"momentum": momentum, "trend": trend, "rsi": rsiValue},
					Reason:       fmt.Sprintf("Strong downward momentum (%.2f%%) with RSI at %.1f", momentum*100, rsiValue),
				},
			}
		}
	case long:
		if momentum < 0 || trend < 0 {
			s.position = flat
			s.signalsSeen++
			signal = &marketdata.Signal{
				Symbol: series.Symbol, Type: marketdata.SignalCloseLong, Strength: marketdata.Moderate,
				Price: bar.Close, Timestamp: bar.Timestamp, Confidence: 0.8,
				Metadata: marketdata.SignalMetadata{
					StrategyName: s.Name(),
					Indicators:   map[string]float64{"momentum": momentum, "trend": trend},
					Reason:       "Momentum or trend reversed",
				},
			}
		}
	case short:
		if momentum > 0 || trend > 0 {
			s.position = flat
			s.signalsSeen++
			signal = &marketdata.Signal{
				Symbol: series.Symbol, Type: marketdata.SignalCloseShort, Strength: marketdata.Moderate,
				Price: bar.Close, Timestamp: bar.Timestamp, Confidence: 0.8,
				Metadata: marketdata.SignalMetadata{
					StrategyName: s.Name(),
					Indicators:   map[string]float64{"momentum": momentum, "trend": trend},
					Reason:       "Momentum or trend reversed",
				},
			}
		}
	}

	return signal
}

func (s *MomentumStrategy) Reset() {
	s.position = flat
	s.barsSeen = 0
	s.signalsSeen = 0
	s.lastMomentum = 0
	s.lastTrend = 0
	s.lastRSI = 0
}

func (s *MomentumStrategy) State() State {
	return State{
		Name:             s.Name(),
		IsWarmedUp:       s.barsSeen >= s.WarmupPeriod(),
		BarsProcessed:    s.barsSeen,
		SignalsGenerated: s.signalsSeen,
		Indicators:       map[string]float64{"momentum": s.lastMomentum, "trend": s.lastTrend, "rsi": s.lastRSI},
		Custom: map[string]any{
			"position":        s.position.String(),
			"momentum_period": s.config.MomentumPeriod,
			"min_momentum":    s.config.MinMomentum,
		},
	}
}
