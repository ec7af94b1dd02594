package marketdata

import "testing"

func TestSeriesCapacityEvictsOldest(t *testing.T) {
	s := NewSeriesWithCapacity("AAPL", Daily, 3)
	for i := 0; i < 5; i++ {
		s.Push(NewBar(int64(i), float64(i), float64(i), float64(i), float64(i), 0))
	}

	if got, want := s.Len(), 3; got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}

	last, ok := s.Last()
	if !ok || last.Timestamp != 4 {
		t.Fatalf("Last() = %+v, want timestamp 4", last)
	}

	closes := s.Closes()
	if len(closes) != 3 || closes[0] != 2 || closes[2] != 4 {
		t.Fatalf("Closes() = %v, want [2 3 4]", closes)
	}
}

func TestSeriesUnboundedNeverEvicts(t *testing.T) {
	s := NewSeries("AAPL", Daily)
	for i := 0; i < 1000; i++ {
		s.Push(NewBar(int64(i), 1, 1, 1, 1, 1))
	}
	if got := s.Len(); got != 1000 {
		t.Fatalf("Len() = %d, want 1000", got)
	}
}

func TestSeriesColumnExtractorsAligned(t *testing.T) {
	s := NewSeries("T", Daily)
	s.Push(NewBar(0, 10, 20, 5, 15, 100))
	s.Push(NewBar(1, 15, 25, 10, 20, 200))

	if got := s.Highs(); got[0] != 20 || got[1] != 25 {
		t.Fatalf("Highs() = %v", got)
	}
	if got := s.Lows(); got[0] != 5 || got[1] != 10 {
		t.Fatalf("Lows() = %v", got)
	}
	if got := s.Volumes(); got[0] != 100 || got[1] != 200 {
		t.Fatalf("Volumes() = %v", got)
	}
	tp := s.TypicalPrices()
	if want := (20.0 + 5.0 + 15.0) / 3; tp[0] != want {
		t.Fatalf("TypicalPrices()[0] = %v, want %v", tp[0], want)
	}
}
