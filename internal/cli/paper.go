package cli

import (
	"github.com/spf13/cobra"

	"github.com/lumenworksco/trading-algorithm/internal/config"
	"github.com/lumenworksco/trading-algorithm/internal/errs"
)

// newPaperCommand builds the paper-trading command. It runs the simulated
// broker against a QuoteSource, synthesizing one bar per tick via
// datasource.SynthesizeBar; no concrete QuoteSource ships in this build (a
// live feed is out of scope), so this loads and validates configuration and
// reports that clearly rather than pretending to trade.
func newPaperCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "paper",
		Short: "Run the simulated broker against a live quote feed (requires a configured QuoteSource)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return &errs.BrokerError{Reason: "paper trading needs a QuoteSource implementation (e.g. a streaming market-data client); none ships in this build"}
		},
	}
}
