package datasource

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/lumenworksco/trading-algorithm/internal/marketdata"
)

func writeCSV(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "bars.csv")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

func TestCSVSourceParsesAliasedHeaderAndISODates(t *testing.T) {
	path := writeCSV(t, "Date,Open,High,Low,Close,Volume\n2024-01-01,100,105,99,102,1000\n2024-01-02,102,108,101,107,1200\n")
	src := NewCSVSource(path)

	bars, err := src.GetBars(context.Background(), "AAPL", marketdata.Daily, 0, 1<<62)
	if err != nil {
		t.Fatalf("GetBars() error: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("len(bars) = %d, want 2", len(bars))
	}
	if bars[0].Close != 102 || bars[1].Close != 107 {
		t.Fatalf("unexpected close prices: %+v", bars)
	}
	if bars[0].Timestamp >= bars[1].Timestamp {
		t.Fatalf("bars not sorted ascending by timestamp")
	}
}

func TestCSVSourceAcceptsAdjCloseAndMissingVolume(t *testing.T) {
	path := writeCSV(t, "timestamp,open,high,low,Adj Close\n1704067200,100,105,99,102\n")
	src := NewCSVSource(path)

	bars, err := src.GetBars(context.Background(), "AAPL", marketdata.Daily, 0, 1<<62)
	if err != nil {
		t.Fatalf("GetBars() error: %v", err)
	}
	if len(bars) != 1 {
		t.Fatalf("len(bars) = %d, want 1", len(bars))
	}
	if bars[0].Volume != 0 {
		t.Fatalf("Volume = %v, want 0 (absent column default)", bars[0].Volume)
	}
	if bars[0].Timestamp != 1704067200*1000 {
		t.Fatalf("Timestamp = %d, want seconds-epoch converted to ms", bars[0].Timestamp)
	}
}

func TestCSVSourceRejectsMissingRequiredColumn(t *testing.T) {
	path := writeCSV(t, "Date,Open,High,Low\n2024-01-01,100,105,99\n")
	src := NewCSVSource(path)

	if _, err := src.GetBars(context.Background(), "AAPL", marketdata.Daily, 0, 1<<62); err == nil {
		t.Fatalf("expected an error for a header missing the close column")
	}
}

func TestCSVSourceFiltersByRange(t *testing.T) {
	path := writeCSV(t, "Date,Open,High,Low,Close,Volume\n2024-01-01,100,105,99,102,1000\n2024-01-05,102,108,101,107,1200\n")
	src := NewCSVSource(path)

	start := int64(1704153600000) // 2024-01-02 UTC
	bars, err := src.GetBars(context.Background(), "AAPL", marketdata.Daily, start, 1<<62)
	if err != nil {
		t.Fatalf("GetBars() error: %v", err)
	}
	if len(bars) != 1 {
		t.Fatalf("len(bars) = %d, want 1 after filtering out the earlier bar", len(bars))
	}
}
