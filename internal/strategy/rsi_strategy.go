package strategy

import (
	"fmt"

	"github.com/lumenworksco/trading-algorithm/internal/errs"
	"github.com/lumenworksco/trading-algorithm/internal/indicators"
	"github.com/lumenworksco/trading-algorithm/internal/marketdata"
)

// RSIConfig configures the RSI overbought/oversold strategy.
type RSIConfig struct {
	Symbols        []string `json:"symbols"`
	Period         int      `json:"period"`
	OversoldLevel  float64  `json:"oversold_level"`
	OverboughtLevel float64 `json:"overbought_level"`
	ExitLevel      float64  `json:"exit_level"`
}

func DefaultRSIConfig() RSIConfig {
	return RSIConfig{Period: 14, OversoldLevel: 30, OverboughtLevel: 70, ExitLevel: 50}
}

func (c RSIConfig) Validate() error {
	if c.Period < 2 {
		return &errs.StrategyError{Reason: "period must be at least 2"}
	}
	if c.OversoldLevel >= c.OverboughtLevel {
		return &errs.StrategyError{Reason: "oversold level must be less than overbought level"}
	}
	return nil
}

// RSIStrategy buys when RSI crosses up out of oversold territory and sells
// when it crosses down out of overbought territory, exiting when RSI
// recrosses the neutral exit level.
type RSIStrategy struct {
	config      RSIConfig
	rsi         indicators.Rsi
	position    positionState
	prevRSI     float64
	hasPrev     bool
	barsSeen    int
	signalsSeen int
}

func NewRSIStrategy(config RSIConfig) *RSIStrategy {
	return &RSIStrategy{config: config, rsi: indicators.NewRsi(config.Period)}
}

func (s *RSIStrategy) Name() string        { return "RSI" }
func (s *RSIStrategy) Description() string { return "Trades overbought/oversold reversals using RSI" }
func (s *RSIStrategy) WarmupPeriod() int   { return s.config.Period + 1 }
func (s *RSIStrategy) Symbols() []string   { return s.config.Symbols }
func (s *RSIStrategy) OnFill(*marketdata.Order) {}

func (s *RSIStrategy) classifyStrength(rsiValue float64) marketdata.SignalStrength {
	switch {
	case rsiValue <= 20 || rsiValue >= 80:
		return marketdata.Strong
	case rsiValue <= 30 || rsiValue >= 70:
		return marketdata.Moderate
	default:
		return marketdata.Weak
	}
}

func (s *RSIStrategy) calculateConfidence(rsiValue float64) float64 {
	switch {
	case rsiValue <= 20 || rsiValue >= 80:
		return 0.9
	case rsiValue <= 30 || rsiValue >= 70:
		return 0.7
	default:
		return 0.5
	}
}

func (s *RSIStrategy) OnBar(series *marketdata.BarSeries) *marketdata.Signal {
	s.barsSeen++
	if series.Len() < s.WarmupPeriod() {
		return nil
	}

	rsiValues := s.rsi.Calculate(series.Closes())
	if len(rsiValues) == 0 {
		return nil
	}
	rsiValue := rsiValues[len(rsiValues)-1]
	bar, _ := series.Last()

	var signal *marketdata.Signal
	if s.hasPrev {
		switch s.position {
		case flat:
			switch {
			case s.prevRSI <= s.config.OversoldLevel && rsiValue > s.config.OversoldLevel:
				s.position = long
				s.signalsSeen++
				signal = s.createSignal(series.Symbol, marketdata.SignalBuy, bar, rsiValue,
					fmt.Sprintf("RSI (%.1f) crossed up out of oversold territory", rsiValue))
			case s.prevRSI >= s.config.OverboughtLevel && rsiValue < s.config.OverboughtLevel:
				s.position = short
				s.signalsSeen++
				signal = s.createSignal(series.Symbol, marketdata.SignalSell, bar, rsiValue,
					fmt.Sprintf("RSI (%.1f) crossed down out of overbought territory", rsiValue))
			}
		case long:
			if s.prevRSI < s.config.ExitLevel && rsiValue >= s.config.ExitLevel || rsiValue >= s.config.OverboughtLevel {
				s.position = flat
				s.signalsSeen++
				signal = &marketdata.Signal{
					Symbol: series.Symbol, Type: marketdata.SignalCloseLong, Strength: marketdata.Moderate,
					Price: bar.Close, Timestamp: bar.Timestamp, Confidence: 0.7,
					Metadata: marketdata.SignalMetadata{
						StrategyName: s.Name(),
						Indicators:   map[string]float64{"rsi": rsiValue},
						Reason:       fmt.Sprintf("RSI (%.1f) reached exit level", rsiValue),
					},
				}
			}
		case short:
			if s.prevRSI > s.config.ExitLevel && rsiValue <= s.config.ExitLevel || rsiValue <= s.config.OversoldLevel {
				s.position = flat
				s.signalsSeen++
				signal = &marketdata.Signal{
					Symbol: series.Symbol, Type: marketdata.SignalCloseShort, Strength: marketdata.Moderate,
					Price: bar.Close, Timestamp: bar.Timestamp, Confidence: 0.7,
					Metadata: marketdata.SignalMetadata{
						StrategyName: s.Name(),
						Indicators:   map[string]float64{"rsi": rsiValue},
						Reason:       fmt.Sprintf("RSI (%.1f) reached exit level", rsiValue),
					},
				}
			}
		}
	}

	s.prevRSI = rsiValue
	s.hasPrev = true
	return signal
}

func (s *RSIStrategy) createSignal(symbol string, signalType marketdata.SignalType, bar marketdata.Bar, rsiValue float64, reason string) *marketdata.Signal {
	return &marketdata.Signal{
		Symbol: symbol, Type: signalType, Strength: s.classifyStrength(rsiValue),
		Price: bar.Close, Timestamp: bar.Timestamp, Confidence: s.calculateConfidence(rsiValue),
		Metadata: marketdata.SignalMetadata{
			StrategyName: s.Name(),
			Indicators:   map[string]float64{"rsi": rsiValue},
			Reason:       reason,
		},
	}
}

func (s *RSIStrategy) Reset() {
	s.position = flat
	s.prevRSI = 0
	s.hasPrev = false
	s.barsSeen = 0
	s.signalsSeen = 0
}

func (s *RSIStrategy) State() State {
	return State{
		Name:             s.Name(),
		IsWarmedUp:       s.barsSeen >= s.WarmupPeriod(),
		BarsProcessed:    s.barsSeen,
		SignalsGenerated: s.signalsSeen,
		Indicators:       map[string]float64{"rsi": s.prevRSI},
		Custom: map[string]any{
			"position": s.position.String(),
			"period":   s.config.Period,
		},
	}
}
