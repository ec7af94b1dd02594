package logger

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestSetLevelParsesKnownNames(t *testing.T) {
	SetLevel("warn")
	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Fatalf("GlobalLevel() = %v, want WarnLevel", zerolog.GlobalLevel())
	}
}

func TestSetLevelFallsBackToInfoOnUnknownName(t *testing.T) {
	SetLevel("deafening")
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Fatalf("GlobalLevel() = %v, want InfoLevel fallback", zerolog.GlobalLevel())
	}
}
