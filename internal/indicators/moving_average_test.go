package indicators

import (
	"math"
	"testing"
)

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// Scenario 1: SMA. Input [1,2,3,4,5], period 3 -> [2, 3, 4].
func TestSmaConcreteScenario(t *testing.T) {
	got := NewSma(3).Calculate([]float64{1, 2, 3, 4, 5})
	want := []float64{2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("Calculate() = %v, want %v", got, want)
	}
	for i := range want {
		if !approxEqual(got[i], want[i]) {
			t.Fatalf("Calculate()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSmaInsufficientDataReturnsEmptyNeverErrors(t *testing.T) {
	got := NewSma(10).Calculate([]float64{1, 2, 3})
	if len(got) != 0 {
		t.Fatalf("Calculate() = %v, want empty", got)
	}
}

// Scenario 2: EMA. Input [1,2,3,4,5], period 3, alpha=0.5 -> [2.0, 3.0, 4.0].
func TestEmaConcreteScenario(t *testing.T) {
	got := NewEma(3).Calculate([]float64{1, 2, 3, 4, 5})
	want := []float64{2.0, 3.0, 4.0}
	if len(got) != len(want) {
		t.Fatalf("Calculate() = %v, want %v", got, want)
	}
	for i := range want {
		if !approxEqual(got[i], want[i]) {
			t.Fatalf("Calculate()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestWmaWeightsMostRecentHeaviest(t *testing.T) {
	// period 2: weight 1 for older, 2 for newer. [1,3] -> (1*1+3*2)/3 = 7/3
	got := NewWma(2).Calculate([]float64{1, 3})
	if len(got) != 1 || !approxEqual(got[0], 7.0/3.0) {
		t.Fatalf("Calculate() = %v, want [%v]", got, 7.0/3.0)
	}
}

func TestStreamingSmaMatchesBatch(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6, 7}
	batch := NewSma(3).Calculate(data)

	stream := NewStreamingSma(3)
	var streamed []float64
	for _, v := range data {
		if out, ok := stream.Update(v); ok {
			streamed = append(streamed, out)
		}
	}

	if len(streamed) != len(batch) {
		t.Fatalf("streamed = %v, batch = %v", streamed, batch)
	}
	for i := range batch {
		if !approxEqual(streamed[i], batch[i]) {
			t.Fatalf("streamed[%d] = %v, batch[%d] = %v", i, streamed[i], i, batch[i])
		}
	}
}

func TestStreamingSmaNoneUntilWarmup(t *testing.T) {
	s := NewStreamingSma(3)
	if _, ok := s.Update(1); ok {
		t.Fatalf("expected not ready after 1 update")
	}
	if _, ok := s.Update(2); ok {
		t.Fatalf("expected not ready after 2 updates")
	}
	if _, ok := s.Update(3); !ok {
		t.Fatalf("expected ready after 3 updates (period)")
	}
}

func TestStreamingEmaResetRestoresPrewarmupState(t *testing.T) {
	e := NewStreamingEma(3)
	e.Update(1)
	e.Update(2)
	e.Update(3)
	if !e.IsReady() {
		t.Fatalf("expected ready after warmup")
	}

	e.Reset()
	if e.IsReady() {
		t.Fatalf("expected not ready immediately after reset")
	}
	if _, ok := e.Current(); ok {
		t.Fatalf("expected no current value after reset")
	}
}
