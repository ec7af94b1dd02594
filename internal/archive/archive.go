// Package archive is an optional, opt-in persistence sink for backtest
// reports: a SQLite-backed ledger of past runs and their trades, for a user
// who wants to compare runs later. Nothing in the backtest driver depends on
// it; a run with no --archive flag never touches a database.
package archive

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/lumenworksco/trading-algorithm/internal/backtest"
	"github.com/lumenworksco/trading-algorithm/internal/errs"
	"github.com/lumenworksco/trading-algorithm/internal/logger"
	"github.com/lumenworksco/trading-algorithm/internal/marketdata"
)

// Store wraps a SQLite connection holding the run/trade ledger.
type Store struct {
	sql *sql.DB
}

// Open opens (or creates) the archive database at path and runs migrations.
func Open(path string) (*Store, error) {
	sqlDB, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, &errs.DataError{Kind: "connection", Reason: "open archive: " + err.Error()}
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, &errs.DataError{Kind: "connection", Reason: "ping archive: " + err.Error()}
	}
	s := &Store{sql: sqlDB}
	if err := s.migrate(); err != nil {
		sqlDB.Close()
		return nil, &errs.DataError{Kind: "connection", Reason: "migrate archive: " + err.Error()}
	}
	logger.Success("archive", fmt.Sprintf("opened %s", path))
	return s, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.sql.Close()
}

func (s *Store) migrate() error {
	_, err := s.sql.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY);

		CREATE TABLE IF NOT EXISTS backtest_runs (
			id                    INTEGER PRIMARY KEY AUTOINCREMENT,
			label                 TEXT NOT NULL,
			strategy              TEXT NOT NULL,
			symbols               TEXT NOT NULL,
			initial_capital       REAL NOT NULL,
			final_equity          REAL NOT NULL,
			total_return_pct      REAL NOT NULL,
			annualized_return_pct REAL NOT NULL,
			max_drawdown_pct      REAL NOT NULL,
			sharpe_ratio          REAL NOT NULL,
			sortino_ratio         REAL NOT NULL,
			total_trades          INTEGER NOT NULL,
			created_at            TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS archived_trades (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      INTEGER NOT NULL REFERENCES backtest_runs(id),
			symbol      TEXT NOT NULL,
			side        TEXT NOT NULL,
			quantity    REAL NOT NULL,
			price       REAL NOT NULL,
			timestamp   INTEGER NOT NULL,
			signal_type TEXT NOT NULL,
			pnl         REAL,
			has_pnl     INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_archived_trades_run ON archived_trades(run_id);
	`)
	return err
}

// SaveReport records one backtest run and its trades, returning the new
// run's id. label is a caller-chosen free-text tag (e.g. a timestamp) used
// only for display.
func (s *Store) SaveReport(label, strategyName, symbols string, report *backtest.Report) (int64, error) {
	tx, err := s.sql.Begin()
	if err != nil {
		return 0, &errs.DataError{Kind: "internal", Reason: "begin archive tx: " + err.Error()}
	}

	res, err := tx.Exec(`INSERT INTO backtest_runs (
		label, strategy, symbols, initial_capital, final_equity,
		total_return_pct, annualized_return_pct, max_drawdown_pct,
		sharpe_ratio, sortino_ratio, total_trades, created_at
	) VALUES (?,?,?,?,?,?,?,?,?,?,?,datetime('now'))`,
		label, strategyName, symbols,
		marketdata.DecimalToFloat(report.Stats.InitialCapital),
		marketdata.DecimalToFloat(report.Stats.FinalEquity),
		marketdata.DecimalToFloat(report.Stats.TotalReturnPct),
		marketdata.DecimalToFloat(report.Stats.AnnualizedReturnPct),
		marketdata.DecimalToFloat(report.Stats.MaxDrawdownPct),
		report.Stats.SharpeRatio, report.Stats.SortinoRatio,
		report.Stats.TotalTrades,
	)
	if err != nil {
		tx.Rollback()
		return 0, &errs.DataError{Kind: "internal", Reason: "insert run: " + err.Error()}
	}
	runID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return 0, &errs.DataError{Kind: "internal", Reason: "run id: " + err.Error()}
	}

	stmt, err := tx.Prepare(`INSERT INTO archived_trades (
		run_id, symbol, side, quantity, price, timestamp, signal_type, pnl, has_pnl
	) VALUES (?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		tx.Rollback()
		return 0, &errs.DataError{Kind: "internal", Reason: "prepare trade insert: " + err.Error()}
	}
	defer stmt.Close()

	for _, trade := range report.Stats.Trades {
		var pnl any
		hasPnL := 0
		if trade.PnL != nil {
			pnl = marketdata.DecimalToFloat(*trade.PnL)
			hasPnL = 1
		}
		if _, err := stmt.Exec(runID, trade.Symbol, trade.Side.String(),
			marketdata.DecimalToFloat(trade.Quantity), marketdata.DecimalToFloat(trade.Price),
			trade.Timestamp.UnixMilli(), trade.SignalType.String(), pnl, hasPnL); err != nil {
			tx.Rollback()
			return 0, &errs.DataError{Kind: "internal", Reason: "insert trade: " + err.Error()}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, &errs.DataError{Kind: "internal", Reason: "commit archive tx: " + err.Error()}
	}
	return runID, nil
}

// RunSummary is one row of a ListRuns result.
type RunSummary struct {
	ID             int64
	Label          string
	Strategy       string
	Symbols        string
	TotalReturnPct float64
	TotalTrades    int
	CreatedAt      string
}

// ListRuns returns archived runs, most recent first.
func (s *Store) ListRuns(limit int) ([]RunSummary, error) {
	rows, err := s.sql.Query(`SELECT id, label, strategy, symbols, total_return_pct, total_trades, created_at
		FROM backtest_runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, &errs.DataError{Kind: "internal", Reason: "list runs: " + err.Error()}
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.Label, &r.Strategy, &r.Symbols, &r.TotalReturnPct, &r.TotalTrades, &r.CreatedAt); err != nil {
			return nil, &errs.DataError{Kind: "internal", Reason: "scan run: " + err.Error()}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
