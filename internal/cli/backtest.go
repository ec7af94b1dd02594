package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/lumenworksco/trading-algorithm/internal/archive"
	"github.com/lumenworksco/trading-algorithm/internal/backtest"
	"github.com/lumenworksco/trading-algorithm/internal/config"
	"github.com/lumenworksco/trading-algorithm/internal/datasource"
	"github.com/lumenworksco/trading-algorithm/internal/errs"
	"github.com/lumenworksco/trading-algorithm/internal/logger"
	"github.com/lumenworksco/trading-algorithm/internal/marketdata"
	"github.com/lumenworksco/trading-algorithm/internal/strategy"
)

func newBacktestCommand() *cobra.Command {
	var (
		symbolsArg   string
		strategyName string
		startArg     string
		endArg       string
		jsonOut      string
		equityOut    string
		archivePath  string
	)

	cmd := &cobra.Command{
		Use:   "backtest",
		Short: "Replay a CSV-sourced symbol set through a strategy and report the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if strategyName != "" {
				cfg.Backtest.Strategy = strategyName
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			symbols := splitSymbols(symbolsArg, cfg.Data.Symbol)
			if len(symbols) == 0 {
				return &errs.ValidationError{Reason: "at least one symbol is required (--symbols or data.symbol)"}
			}

			start, end, err := parseRange(startArg, endArg)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			src := datasource.NewCSVSource(cfg.Data.CSVPath)
			logger.Section("Fetching historical bars")
			bars, err := fetchAll(ctx, src, symbols, start, end)
			if err != nil {
				return err
			}

			strategies, err := buildStrategies(cfg.Backtest.Strategy, symbols)
			if err != nil {
				return err
			}

			riskCfg, err := cfg.Risk.ToRiskConfig()
			if err != nil {
				return err
			}
			engine := backtest.NewEngine(backtest.Config{
				InitialCapital:     decimal.NewFromFloat(cfg.Backtest.InitialCapital),
				CommissionPerShare: decimal.NewFromFloat(cfg.Backtest.CommissionPerShare),
				SlippagePct:        decimal.NewFromFloat(cfg.Backtest.SlippagePct),
				Risk:               riskCfg,
			})

			logger.Section("Running backtest")
			report, err := engine.Run(ctx, strategies, bars)
			if err != nil {
				return err
			}

			fmt.Println(report.Summary())

			if jsonOut != "" {
				data, err := report.ToJSON()
				if err != nil {
					return err
				}
				if err := os.WriteFile(jsonOut, data, 0o644); err != nil {
					return &errs.DataError{Kind: "internal", Reason: err.Error()}
				}
				logger.Success("backtest", "wrote report JSON to "+jsonOut)
			}
			if equityOut != "" {
				csvData, err := report.EquityToCSV()
				if err != nil {
					return err
				}
				if err := os.WriteFile(equityOut, []byte(csvData), 0o644); err != nil {
					return &errs.DataError{Kind: "internal", Reason: err.Error()}
				}
				logger.Success("backtest", "wrote equity curve to "+equityOut)
			}

			if archivePath != "" {
				store, err := archive.Open(archivePath)
				if err != nil {
					return err
				}
				defer store.Close()
				runID, err := store.SaveReport(time.Now().Format(time.RFC3339), cfg.Backtest.Strategy, strings.Join(symbols, ","), report)
				if err != nil {
					return err
				}
				logger.Success("backtest", fmt.Sprintf("archived run %d to %s", runID, archivePath))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&symbolsArg, "symbols", "", "comma-separated symbol list (overrides data.symbol)")
	cmd.Flags().StringVar(&strategyName, "strategy", "", "strategy name (overrides backtest.strategy)")
	cmd.Flags().StringVar(&startArg, "start", "", "range start, RFC3339 (default: the earliest available bar)")
	cmd.Flags().StringVar(&endArg, "end", "", "range end, RFC3339 (default: the latest available bar)")
	cmd.Flags().StringVar(&jsonOut, "json-out", "", "write the report as JSON to this path")
	cmd.Flags().StringVar(&equityOut, "equity-out", "", "write the equity curve as CSV to this path")
	cmd.Flags().StringVar(&archivePath, "archive", "", "append this run's report and trades to a SQLite ledger at this path")
	return cmd
}

func parseRange(startArg, endArg string) (start, end int64, err error) {
	start = 0
	end = time.Now().UnixMilli()
	if startArg != "" {
		t, parseErr := time.Parse(time.RFC3339, startArg)
		if parseErr != nil {
			return 0, 0, &errs.ValidationError{Reason: "start must be RFC3339"}
		}
		start = t.UnixMilli()
	}
	if endArg != "" {
		t, parseErr := time.Parse(time.RFC3339, endArg)
		if parseErr != nil {
			return 0, 0, &errs.ValidationError{Reason: "end must be RFC3339"}
		}
		end = t.UnixMilli()
	}
	return start, end, nil
}

// fetchAll fans out one goroutine per symbol over the data source's
// GetBars, bounded by ctx, and joins before the caller begins its strictly
// sequential replay. Concurrency is confined to this fetch stage only.
func fetchAll(ctx context.Context, src datasource.DataSource, symbols []string, start, end int64) (map[string][]marketdata.Bar, error) {
	results := make([][]marketdata.Bar, len(symbols))
	g, gctx := errgroup.WithContext(ctx)
	for i, symbol := range symbols {
		i, symbol := i, symbol
		g.Go(func() error {
			bars, err := src.GetBars(gctx, symbol, marketdata.Daily, start, end)
			if err != nil {
				return err
			}
			results[i] = bars
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string][]marketdata.Bar, len(symbols))
	for i, symbol := range symbols {
		out[symbol] = results[i]
	}
	return out, nil
}

func buildStrategies(name string, symbols []string) (map[string]strategy.Strategy, error) {
	registry := strategy.NewRegistry()
	strategies := make(map[string]strategy.Strategy, len(symbols))
	for _, symbol := range symbols {
		s, err := registry.CreateDefault(name)
		if err != nil {
			return nil, err
		}
		strategies[symbol] = s
	}
	return strategies, nil
}
