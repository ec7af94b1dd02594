package strategy

import (
	"testing"

	"github.com/lumenworksco/trading-algorithm/internal/marketdata"
)

func TestRSIStrategyEntersLongOnOversoldCross(t *testing.T) {
	cfg := DefaultRSIConfig()
	cfg.Symbols = []string{"AAPL"}
	cfg.Period = 5
	s := NewRSIStrategy(cfg)
	series := marketdata.NewSeries("AAPL", marketdata.Minute1)

	// Sustained decline drives RSI into oversold, then a bounce should cross
	// it back up through the oversold level.
	closes := []float64{100, 95, 90, 85, 80, 75, 78, 82, 86}
	var gotBuy bool
	for i, c := range closes {
		series.Push(marketdata.NewBar(int64(i), c, c, c, c, 1000))
		if sig := s.OnBar(series); sig != nil && sig.Type == marketdata.SignalBuy {
			gotBuy = true
		}
	}
	if !gotBuy {
		t.Fatalf("expected a long entry on oversold cross")
	}
}

func TestRSIStrategyValidateRejectsInvertedLevels(t *testing.T) {
	cfg := RSIConfig{Symbols: []string{"AAPL"}, Period: 14, OversoldLevel: 80, OverboughtLevel: 20}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error when oversold >= overbought")
	}
}

func TestRSIStrategyClassifyStrength(t *testing.T) {
	cfg := DefaultRSIConfig()
	cfg.Symbols = []string{"AAPL"}
	s := NewRSIStrategy(cfg)
	if got := s.classifyStrength(15); got != 2 { // Strong
		t.Fatalf("classifyStrength(15) = %v, want Strong", got)
	}
	if got := s.classifyStrength(50); got != 0 { // Weak
		t.Fatalf("classifyStrength(50) = %v, want Weak", got)
	}
}
