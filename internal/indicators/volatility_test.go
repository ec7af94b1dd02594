package indicators

import "testing"

// Boundary behavior: Bollinger %B on a constant sequence is 0.5.
func TestBollingerPercentBOnConstantSequence(t *testing.T) {
	data := make([]float64, 25)
	for i := range data {
		data[i] = 100
	}
	out := NewBollingerBands(20, 2).Calculate(data)
	if len(out) == 0 {
		t.Fatalf("expected non-empty output")
	}
	for _, row := range out {
		if !approxEqual(row.PercentB, 0.5) {
			t.Fatalf("PercentB = %v, want 0.5 on constant input", row.PercentB)
		}
		if !approxEqual(row.Upper, row.Lower) {
			t.Fatalf("expected collapsed band on zero-variance input: upper=%v lower=%v", row.Upper, row.Lower)
		}
	}
}

func TestStdDevIsPopulationNotSample(t *testing.T) {
	// [2,4,4,4,5,5,7,9] has population variance 4, stdev 2 (textbook example).
	data := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	out := NewStdDev(len(data)).Calculate(data)
	if len(out) != 1 {
		t.Fatalf("Calculate() = %v, want 1 value", out)
	}
	if !approxEqual(out[0], 2) {
		t.Fatalf("StdDev = %v, want 2 (population)", out[0])
	}
}

func TestAtrWilderSmoothing(t *testing.T) {
	highs := []float64{10, 11, 12, 11, 13, 14}
	lows := []float64{8, 9, 10, 9, 11, 12}
	closes := []float64{9, 10, 11, 10, 12, 13}

	out := NewAtr(3).Calculate(highs, lows, closes)
	if len(out) == 0 {
		t.Fatalf("expected non-empty ATR output")
	}
	for _, v := range out {
		if v < 0 {
			t.Fatalf("ATR = %v, want non-negative", v)
		}
	}
}

func TestKeltnerChannelsSameShapeAsBollinger(t *testing.T) {
	n := 40
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i := 0; i < n; i++ {
		closes[i] = 100 + float64(i%5)
		highs[i] = closes[i] + 1
		lows[i] = closes[i] - 1
	}

	out := NewKeltnerChannels(20, 10, 2).Calculate(highs, lows, closes)
	if len(out) == 0 {
		t.Fatalf("expected non-empty Keltner output")
	}
	for _, row := range out {
		if row.Upper < row.Middle || row.Middle < row.Lower {
			t.Fatalf("band ordering violated: %+v", row)
		}
	}
}
