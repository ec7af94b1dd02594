// Package cli wires spf13/cobra subcommands around the config, data source,
// strategy, risk, broker and backtest layers: backtest, paper, live,
// strategies, validate-config.
package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/lumenworksco/trading-algorithm/internal/logger"
)

var (
	cfgPath  string
	logLevel string
)

// NewRootCommand builds the top-level command tree. version is stamped into
// the startup banner.
func NewRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:           "trading-algorithm",
		Short:         "Backtest, paper-trade and live-trade rule-based strategies",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetLevel(logLevel)
			logger.Banner(version)
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a config file (default: searches ./trading.{yaml,json,toml})")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")

	root.AddCommand(
		newBacktestCommand(),
		newPaperCommand(),
		newLiveCommand(),
		newStrategiesCommand(),
		newValidateConfigCommand(),
	)
	return root
}

func splitSymbols(arg, fallback string) []string {
	if arg == "" {
		if fallback == "" {
			return nil
		}
		return []string{fallback}
	}
	parts := strings.Split(arg, ",")
	symbols := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			symbols = append(symbols, strings.ToUpper(p))
		}
	}
	return symbols
}
