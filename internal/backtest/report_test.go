package backtest

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/lumenworksco/trading-algorithm/internal/marketdata"
)

func sampleReport() *Report {
	s := NewStats(decimal.NewFromInt(10000))
	s.RecordEquity(0, decimal.NewFromInt(10000))
	s.RecordEquity(86_400_000, decimal.NewFromInt(10500))
	pnl := decimal.NewFromInt(500)
	s.AddTrade(TradeRecord{Symbol: "AAPL", Side: marketdata.Buy, Quantity: decimal.NewFromInt(10), Price: decimal.NewFromInt(100), PnL: &pnl})

	portfolio := marketdata.NewPortfolio(decimal.NewFromInt(10000))
	portfolio.Cash = decimal.NewFromInt(10500)
	portfolio.Equity = decimal.NewFromInt(10500)
	s.Finalize(portfolio)

	return &Report{Config: DefaultConfig(), Stats: *s, FinalPortfolio: *portfolio}
}

func TestReportSummaryContainsSections(t *testing.T) {
	summary := sampleReport().Summary()
	for _, want := range []string{"Performance", "Risk Metrics", "Trade Statistics", "Execution"} {
		if !strings.Contains(summary, want) {
			t.Fatalf("summary missing section %q", want)
		}
	}
}

func TestReportToJSONRoundTrips(t *testing.T) {
	raw, err := sampleReport().ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if decoded["total_trades"].(float64) != 1 {
		t.Fatalf("total_trades = %v, want 1", decoded["total_trades"])
	}
}

func TestReportEquityToCSVHasHeader(t *testing.T) {
	csv, err := sampleReport().EquityToCSV()
	if err != nil {
		t.Fatalf("EquityToCSV() error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(csv), "\n")
	if lines[0] != "timestamp,equity" {
		t.Fatalf("header = %q, want timestamp,equity", lines[0])
	}
	if len(lines) != 3 {
		t.Fatalf("len(lines) = %d, want 3 (header + 2 points)", len(lines))
	}
}
