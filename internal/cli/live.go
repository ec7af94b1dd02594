package cli

import (
	"github.com/spf13/cobra"

	"github.com/lumenworksco/trading-algorithm/internal/config"
	"github.com/lumenworksco/trading-algorithm/internal/errs"
)

// newLiveCommand builds the live-trading command. It is wired to the Broker
// contract only: broker.type=alpaca is accepted by configuration, but a real
// Alpaca client is out of scope, so this validates configuration and fails
// loudly rather than silently trading against the simulated broker.
func newLiveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "live",
		Short: "Run against a real brokerage account (Broker contract only; no live client ships in this build)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return &errs.BrokerError{Reason: "no live Broker implementation ships in this build; broker.type=" + cfg.Broker.Type + " is accepted by config but not backed by a client"}
		},
	}
}
