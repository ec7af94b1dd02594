package strategy

import (
	"fmt"

	"github.com/lumenworksco/trading-algorithm/internal/errs"
	"github.com/lumenworksco/trading-algorithm/internal/indicators"
	"github.com/lumenworksco/trading-algorithm/internal/marketdata"
)

// MeanReversionConfig configures the Bollinger Bands mean-reversion strategy.
type MeanReversionConfig struct {
	Symbols        []string `json:"symbols"`
	BBPeriod       int      `json:"bb_period"`
	BBStdDev       float64  `json:"bb_std_dev"`
	EntryThreshold float64  `json:"entry_threshold"`
	ExitThreshold  float64  `json:"exit_threshold"`
	AllowShort     bool     `json:"allow_short"`
}

func DefaultMeanReversionConfig() MeanReversionConfig {
	return MeanReversionConfig{BBPeriod: 20, BBStdDev: 2.0, EntryThreshold: 0.05, ExitThreshold: 0.5}
}

func (c MeanReversionConfig) Validate() error {
	if c.BBPeriod < 2 {
		return &errs.StrategyError{Reason: "BB period must be at least 2"}
	}
	if c.BBStdDev <= 0 {
		return &errs.StrategyError{Reason: "BB std dev must be positive"}
	}
	if c.EntryThreshold < 0 || c.EntryThreshold > 0.5 {
		return &errs.StrategyError{Reason: "entry threshold must be between 0 and 0.5"}
	}
	return nil
}

// MeanReversionStrategy buys when price touches the lower Bollinger band
// (oversold) and sells when it touches the upper band (overbought if shorts
// are allowed), exiting on a reversion back through the exit threshold.
type MeanReversionStrategy struct {
	config        MeanReversionConfig
	bb            indicators.BollingerBands
	position      positionState
	barsSeen      int
	signalsSeen   int
	lastPercentB  float64
	lastBandwidth float64
}

func NewMeanReversionStrategy(config MeanReversionConfig) *MeanReversionStrategy {
	return &MeanReversionStrategy{
		config: config,
		bb:     indicators.NewBollingerBands(config.BBPeriod, config.BBStdDev),
	}
}

func (s *MeanReversionStrategy) Name() string { return "Mean Reversion" }
func (s *MeanReversionStrategy) Description() string {
	return "Trades reversions to the mean using Bollinger Bands"
}
func (s *MeanReversionStrategy) WarmupPeriod() int { return s.config.BBPeriod }
func (s *MeanReversionStrategy) Symbols() []string { return s.config.Symbols }
func (s *MeanReversionStrategy) OnFill(*marketdata.Order) {}

func (s *MeanReversionStrategy) classifyStrength(percentB float64) marketdata.SignalStrength {
	distance := percentB
	if percentB >= 0.5 {
		distance = 1 - percentB
	}
	switch {
	case distance < 0.05:
		return marketdata.Strong
	case distance < 0.15:
		return marketdata.Moderate
	default:
		return marketdata.Weak
	}
}

func (s *MeanReversionStrategy) OnBar(series *marketdata.BarSeries) *marketdata.Signal {
	s.barsSeen++
	if series.Len() < s.WarmupPeriod() {
		return nil
	}

	bbValues := s.bb.Calculate(series.Closes())
	if len(bbValues) == 0 {
		return nil
	}

	bb := bbValues[len(bbValues)-1]
	bar, _ := series.Last()
	s.lastPercentB = bb.PercentB
	s.lastBandwidth = bb.Bandwidth

	var signal *marketdata.Signal
	switch s.position {
	case flat:
		switch {
		case bb.PercentB <= s.config.EntryThreshold:
			s.position = long
			s.signalsSeen++
			stopLoss := bb.Lower - (bb.Upper-bb.Lower)*0.1
			takeProfit := bb.Middle
			signal = &marketdata.Signal{
				Symbol: series.Symbol, Type: marketdata.SignalBuy, Strength: s.classifyStrength(bb.PercentB),
				Price: bar.Close, Timestamp: bar.Timestamp, Confidence: 1 - bb.PercentB,
				Metadata: marketdata.SignalMetadata{
					StrategyName: s.Name(),
					Indicators:   map[string]float64{"percent_b": bb.PercentB, "upper_band": bb.Upper, "middle_band": bb.Middle, "lower_band": bb.Lower, "bandwidth": bb.Bandwidth},
					Reason:       fmt.Sprintf("Price near lower band (%%B: %.2f%%), expecting reversion to mean", bb.PercentB*100),
					StopLoss:     &stopLoss,
					TakeProfit:   &takeProfit,
				},
			}
		case s.config.AllowShort && bb.PercentB >= 1-s.config.EntryThreshold:
			s.position = short
			s.signalsSeen++
			stopLoss := bb.Upper + (bb.Upper-bb.Lower)*0.1
			takeProfit := bb.Middle
			signal = &marketdata.Signal{
				Symbol: series.Symbol, Type: marketdata.SignalSell, Strength: s.classifyStrength(bb.PercentB),
				Price: bar.Close, Timestamp: bar.Timestamp, Confidence: bb.PercentB,
				Metadata: marketdata.SignalMetadata{
					StrategyName: s.Name(),
					Indicators:   map[string]float64{"percent_b": bb.PercentB, "upper_band": bb.Upper, "middle_band": bb.Middle, "lower_band": bb.Lower, "bandwidth": bb.Bandwidth},
					Reason:       fmt.Sprintf("Price near upper band (%%B: %.2f%%), expecting reversion to mean", bb.PercentB*100),
					StopLoss:     &stopLoss,
					TakeProfit:   &takeProfit,
				},
			}
		}
	case long:
		if bb.PercentB >= s.config.ExitThreshold {
			s.position = flat
			s.signalsSeen++
			signal = &marketdata.Signal{
				Symbol: series.Symbol, Type: marketdata.SignalCloseLong, Strength: marketdata.Moderate,
				Price: bar.Close, Timestamp: bar.Timestamp, Confidence: 0.8,
				Metadata: marketdata.SignalMetadata{
					StrategyName: s.Name(),
					Indicators:   map[string]float64{"percent_b": bb.PercentB},
					Reason:       fmt.Sprintf("Price returned to mean (%%B: %.2f%%)", bb.PercentB*100),
				},
			}
		}
	case short:
		if bb.PercentB <= s.config.ExitThreshold {
			s.position = flat
			s.signalsSeen++
			signal = &marketdata.Signal{
				Symbol: series.Symbol, Type: marketdata.SignalCloseShort, Strength: marketdata.Moderate,
				Price: bar.Close, Timestamp: bar.Timestamp, Confidence: 0.8,
				Metadata: marketdata.SignalMetadata{
					StrategyName: s.Name(),
					Indicators:   map[string]float64{"percent_b": bb.PercentB},
					Reason:       fmt.Sprintf("Price returned to mean (%%B: %.2f%%)", bb.PercentB*100),
				},
			}
		}
	}

	return signal
}

func (s *MeanReversionStrategy) Reset() {
	s.position = flat
	s.barsSeen = 0
	s.signalsSeen = 0
	s.lastPercentB = 0
	s.lastBandwidth = 0
}

func (s *MeanReversionStrategy) State() State {
	return State{
		Name:             s.Name(),
		IsWarmedUp:       s.barsSeen >= s.WarmupPeriod(),
		BarsProcessed:    s.barsSeen,
		SignalsGenerated: s.signalsSeen,
		Indicators:       map[string]float64{"percent_b": s.lastPercentB, "bandwidth": s.lastBandwidth},
		Custom: map[string]any{
			"position":   s.position.String(),
			"bb_period":  s.config.BBPeriod,
			"bb_std_dev": s.config.BBStdDev,
		},
	}
}
