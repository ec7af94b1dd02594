package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lumenworksco/trading-algorithm/internal/config"
	"github.com/lumenworksco/trading-algorithm/internal/logger"
)

func newValidateConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-config",
		Short: "Load and validate the effective configuration without running anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger.Success("config", "configuration is valid")
			fmt.Printf("backtest.strategy: %s\n", cfg.Backtest.Strategy)
			fmt.Printf("broker.type:       %s\n", cfg.Broker.Type)
			fmt.Printf("data.symbol:       %s\n", cfg.Data.Symbol)
			fmt.Printf("log.level:         %s\n", cfg.Log.Level)
			return nil
		},
	}
}
