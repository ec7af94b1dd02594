package strategy

import (
	"testing"

	"github.com/lumenworksco/trading-algorithm/internal/marketdata"
)

func pushCloses(series *marketdata.BarSeries, closes []float64) {
	for i, c := range closes {
		series.Push(marketdata.NewBar(int64(i), c, c, c, c, 1000))
	}
}

func TestMACrossoverNilBeforeWarmup(t *testing.T) {
	cfg := DefaultMACrossoverConfig()
	cfg.Symbols = []string{"AAPL"}
	s := NewMACrossoverStrategy(cfg)
	series := marketdata.NewSeries("AAPL", marketdata.Minute1)
	pushCloses(series, []float64{100, 101, 102})
	if sig := s.OnBar(series); sig != nil {
		t.Fatalf("expected nil signal before warmup, got %+v", sig)
	}
}

func TestMACrossoverDetectsBullishCrossover(t *testing.T) {
	cfg := MACrossoverConfig{Symbols: []string{"AAPL"}, FastPeriod: 2, SlowPeriod: 4, UseEMA: false, SignalThreshold: 0}
	s := NewMACrossoverStrategy(cfg)
	series := marketdata.NewSeries("AAPL", marketdata.Minute1)

	// Descending then sharply ascending prices should eventually produce a
	// bullish crossover once the fast SMA overtakes the slow SMA.
	closes := []float64{10, 9, 8, 7, 6, 20, 21, 22}
	var gotBuy bool
	for i, c := range closes {
		series.Push(marketdata.NewBar(int64(i), c, c, c, c, 1000))
		if sig := s.OnBar(series); sig != nil && sig.Type == marketdata.SignalBuy {
			gotBuy = true
		}
	}
	if !gotBuy {
		t.Fatalf("expected a bullish crossover signal")
	}
}

func TestMACrossoverValidate(t *testing.T) {
	cfg := MACrossoverConfig{Symbols: []string{"AAPL"}, FastPeriod: 10, SlowPeriod: 5}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error when fast >= slow")
	}
}

func TestMACrossoverResetClearsState(t *testing.T) {
	cfg := DefaultMACrossoverConfig()
	cfg.Symbols = []string{"AAPL"}
	s := NewMACrossoverStrategy(cfg)
	series := marketdata.NewSeries("AAPL", marketdata.Minute1)
	pushCloses(series, []float64{100, 101, 102, 103})
	s.OnBar(series)
	s.Reset()
	state := s.State()
	if state.BarsProcessed != 0 || state.IsWarmedUp {
		t.Fatalf("Reset() did not clear state: %+v", state)
	}
}
