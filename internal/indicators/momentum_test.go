package indicators

import "testing"

// Boundary behavior: RSI of a strictly increasing sequence converges to 100;
// of a strictly decreasing sequence to 0.
func TestRsiConvergesOnMonotonicSequences(t *testing.T) {
	increasing := make([]float64, 30)
	for i := range increasing {
		increasing[i] = float64(i)
	}
	up := NewRsi(14).Calculate(increasing)
	if len(up) == 0 {
		t.Fatalf("expected non-empty RSI output")
	}
	if last := up[len(up)-1]; !approxEqual(last, 100) {
		t.Fatalf("RSI of increasing sequence = %v, want 100", last)
	}

	decreasing := make([]float64, 30)
	for i := range decreasing {
		decreasing[i] = float64(len(decreasing) - i)
	}
	down := NewRsi(14).Calculate(decreasing)
	if len(down) == 0 {
		t.Fatalf("expected non-empty RSI output")
	}
	if last := down[len(down)-1]; !approxEqual(last, 0) {
		t.Fatalf("RSI of decreasing sequence = %v, want 0", last)
	}
}

func TestRsiOutputLengthConsumesOneExtraBar(t *testing.T) {
	data := make([]float64, 20)
	for i := range data {
		data[i] = float64(i)
	}
	out := NewRsi(14).Calculate(data)
	if want := len(data) - 14; len(out) != want {
		t.Fatalf("len(out) = %d, want %d", len(out), want)
	}
}

func TestStreamingRsiMatchesBatch(t *testing.T) {
	data := []float64{44, 44.34, 44.09, 44.15, 43.61, 44.33, 44.83, 45.85, 46.08, 45.89, 46.03, 45.61, 46.28, 46.28, 46.0, 46.03, 46.41, 46.22, 45.64}
	batch := NewRsi(14).Calculate(data)

	stream := NewStreamingRsi(14)
	var streamed []float64
	for _, v := range data {
		if out, ok := stream.Update(v); ok {
			streamed = append(streamed, out)
		}
	}

	if len(streamed) != len(batch) {
		t.Fatalf("streamed len = %d, batch len = %d", len(streamed), len(batch))
	}
	for i := range batch {
		if !approxEqual(streamed[i], batch[i]) {
			t.Fatalf("streamed[%d] = %v, batch[%d] = %v", i, streamed[i], i, batch[i])
		}
	}
}

// Boundary behavior: Stochastic %K when close equals the window high is
// 100; when equals the window low is 0; when range is zero is 50.
func TestStochasticBoundaryBehavior(t *testing.T) {
	highs := []float64{10, 10, 10}
	lows := []float64{5, 5, 5}
	closesAtHigh := []float64{7, 8, 10}
	out := NewStochastic(3, 1).Calculate(highs, lows, closesAtHigh)
	if len(out) == 0 || !approxEqual(out[len(out)-1].K, 100) {
		t.Fatalf("K at window high = %v, want 100", out)
	}

	closesAtLow := []float64{8, 7, 5}
	out = NewStochastic(3, 1).Calculate(highs, lows, closesAtLow)
	if len(out) == 0 || !approxEqual(out[len(out)-1].K, 0) {
		t.Fatalf("K at window low = %v, want 0", out)
	}

	flatHighsLows := []float64{7, 7, 7}
	out = NewStochastic(3, 1).Calculate(flatHighsLows, flatHighsLows, flatHighsLows)
	if len(out) == 0 || !approxEqual(out[len(out)-1].K, 50) {
		t.Fatalf("K with zero range = %v, want 50", out)
	}
}

func TestMacdHistogramIsMacdMinusSignal(t *testing.T) {
	data := make([]float64, 60)
	for i := range data {
		data[i] = float64(i) + 100
	}
	out := NewMacd(12, 26, 9).Calculate(data)
	if len(out) == 0 {
		t.Fatalf("expected non-empty MACD output")
	}
	for _, row := range out {
		if !approxEqual(row.Histogram, row.Macd-row.Signal) {
			t.Fatalf("Histogram %v != Macd-Signal %v", row.Histogram, row.Macd-row.Signal)
		}
	}
}
