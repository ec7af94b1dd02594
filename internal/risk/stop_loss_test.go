package risk

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/lumenworksco/trading-algorithm/internal/marketdata"
)

func TestStopLossFixedPercent(t *testing.T) {
	m := NewStopLossManager(StopMethod{Kind: FixedPercent, Percent: decimal.NewFromInt(5)})

	long := m.CalculateStopPrice(decimal.NewFromInt(100), marketdata.Buy)
	if long == nil || !long.Equal(decimal.NewFromInt(95)) {
		t.Fatalf("long stop = %v, want 95", long)
	}

	short := m.CalculateStopPrice(decimal.NewFromInt(100), marketdata.Sell)
	if short == nil || !short.Equal(decimal.NewFromInt(105)) {
		t.Fatalf("short stop = %v, want 105", short)
	}
}

func TestStopLossAtrRequiresSeed(t *testing.T) {
	m := NewStopLossManager(StopMethod{Kind: AtrStop, Multiplier: decimal.NewFromInt(2)})
	if stop := m.CalculateStopPrice(decimal.NewFromInt(100), marketdata.Buy); stop != nil {
		t.Fatalf("expected nil stop before ATR seeded, got %v", stop)
	}

	m.UpdateATR(decimal.NewFromInt(5))
	stop := m.CalculateStopPrice(decimal.NewFromInt(100), marketdata.Buy)
	if stop == nil || !stop.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("stop = %v, want 90", stop)
	}
}

func TestStopLossTrailingRatchetsOneWay(t *testing.T) {
	m := NewStopLossManager(StopMethod{Kind: TrailingPercent, Percent: decimal.NewFromInt(5)})

	currentStop := decimal.NewFromInt(95)
	newStop := m.UpdateTrailingStop(currentStop, decimal.NewFromInt(110), marketdata.Buy)
	want := decimal.NewFromFloat(104.5)
	if !newStop.Equal(want) {
		t.Fatalf("newStop = %s, want %s", newStop, want)
	}

	// Price falls back: the trailing stop must not retreat.
	retreated := m.UpdateTrailingStop(newStop, decimal.NewFromInt(105), marketdata.Buy)
	if !retreated.Equal(newStop) {
		t.Fatalf("trailing stop retreated: %s, want unchanged %s", retreated, newStop)
	}
}

func TestStopLossIsTriggered(t *testing.T) {
	m := NewStopLossManager(StopMethod{Kind: FixedPercent, Percent: decimal.NewFromInt(5)})

	if !m.IsTriggered(decimal.NewFromInt(95), decimal.NewFromInt(94), marketdata.Buy) {
		t.Fatalf("expected long stop triggered below stop price")
	}
	if !m.IsTriggered(decimal.NewFromInt(95), decimal.NewFromInt(95), marketdata.Buy) {
		t.Fatalf("expected long stop triggered at stop price")
	}
	if m.IsTriggered(decimal.NewFromInt(95), decimal.NewFromInt(96), marketdata.Buy) {
		t.Fatalf("expected long stop not triggered above stop price")
	}
	if !m.IsTriggered(decimal.NewFromInt(105), decimal.NewFromInt(106), marketdata.Sell) {
		t.Fatalf("expected short stop triggered above stop price")
	}
}
