package backtest

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/lumenworksco/trading-algorithm/internal/marketdata"
	"github.com/lumenworksco/trading-algorithm/internal/strategy"
)

func syntheticBars(closes []float64) []marketdata.Bar {
	bars := make([]marketdata.Bar, len(closes))
	for i, c := range closes {
		bars[i] = marketdata.NewBar(int64(i)*86_400_000, c, c, c, c, 1000)
	}
	return bars
}

func TestEngineRunsMeanReversionRoundTrip(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100
	}
	closes = append(closes, 80) // dip triggers a long entry
	for i := 0; i < 10; i++ {
		closes = append(closes, 100) // reversion triggers the exit
	}

	cfg := strategy.DefaultMeanReversionConfig()
	cfg.Symbols = []string{"AAPL"}
	strategies := map[string]strategy.Strategy{
		"AAPL": strategy.NewMeanReversionStrategy(cfg),
	}
	bars := map[string][]marketdata.Bar{"AAPL": syntheticBars(closes)}

	engine := NewEngine(DefaultConfig())
	report, err := engine.Run(context.Background(), strategies, bars)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if report.Stats.TotalTrades == 0 {
		t.Fatalf("expected at least one recorded trade")
	}
	if len(report.Stats.EquityCurve) != len(closes) {
		t.Fatalf("len(EquityCurve) = %d, want %d", len(report.Stats.EquityCurve), len(closes))
	}
	if report.FinalPortfolio.PositionCount() != 0 {
		t.Fatalf("expected no open positions at close, got %d", report.FinalPortfolio.PositionCount())
	}
}

func TestEngineClosesDanglingPositionAtEndOfReplay(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100
	}
	closes = append(closes, 80) // entry, never reverts before the replay ends

	cfg := strategy.DefaultMeanReversionConfig()
	cfg.Symbols = []string{"AAPL"}
	strategies := map[string]strategy.Strategy{
		"AAPL": strategy.NewMeanReversionStrategy(cfg),
	}
	bars := map[string][]marketdata.Bar{"AAPL": syntheticBars(closes)}

	engine := NewEngine(DefaultConfig())
	report, err := engine.Run(context.Background(), strategies, bars)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if report.FinalPortfolio.PositionCount() != 0 {
		t.Fatalf("expected the dangling long to be liquidated, got %d open positions", report.FinalPortfolio.PositionCount())
	}
	last := report.Stats.Trades[len(report.Stats.Trades)-1]
	if last.PnL == nil {
		t.Fatalf("expected the forced liquidation to carry a realized PnL")
	}
}

func TestEngineSkipsSymbolsWithoutAStrategy(t *testing.T) {
	bars := map[string][]marketdata.Bar{"AAPL": syntheticBars([]float64{100, 101, 102})}

	engine := NewEngine(DefaultConfig())
	report, err := engine.Run(context.Background(), map[string]strategy.Strategy{}, bars)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if report.Stats.TotalTrades != 0 {
		t.Fatalf("expected no trades without a strategy assigned")
	}
	if !report.FinalPortfolio.Equity.Equal(decimal.NewFromInt(100000)) {
		t.Fatalf("Equity = %s, want unchanged initial capital", report.FinalPortfolio.Equity)
	}
}
