package archive

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/lumenworksco/trading-algorithm/internal/backtest"
	"github.com/lumenworksco/trading-algorithm/internal/marketdata"
)

func sampleReport() *backtest.Report {
	s := backtest.NewStats(decimal.NewFromInt(10000))
	s.RecordEquity(0, decimal.NewFromInt(10000))
	s.RecordEquity(86_400_000, decimal.NewFromInt(10500))
	pnl := decimal.NewFromInt(500)
	s.AddTrade(backtest.TradeRecord{
		Symbol: "AAPL", Side: marketdata.Buy,
		Quantity: decimal.NewFromInt(10), Price: decimal.NewFromInt(100),
		PnL: &pnl,
	})

	portfolio := marketdata.NewPortfolio(decimal.NewFromInt(10000))
	portfolio.Cash = decimal.NewFromInt(10500)
	portfolio.Equity = decimal.NewFromInt(10500)
	s.Finalize(portfolio)

	return &backtest.Report{Config: backtest.DefaultConfig(), Stats: *s, FinalPortfolio: *portfolio}
}

func TestSaveReportThenListRunsRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.db")
	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	runID, err := store.SaveReport("2026-01-01T00:00:00Z", "ma_crossover", "AAPL", sampleReport())
	require.NoError(t, err)
	require.NotZero(t, runID)

	runs, err := store.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, "ma_crossover", runs[0].Strategy)
	require.Equal(t, "AAPL", runs[0].Symbols)
	require.Equal(t, 1, runs[0].TotalTrades)
}

func TestOpenIsIdempotentOnExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.db")
	first, err := Open(path)
	require.NoError(t, err)
	first.Close()

	second, err := Open(path)
	require.NoError(t, err)
	defer second.Close()

	runs, err := second.ListRuns(10)
	require.NoError(t, err)
	require.Empty(t, runs)
}
