package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lumenworksco/trading-algorithm/internal/strategy"
)

func newStrategiesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List the registered strategies and their default configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := strategy.NewRegistry()
			for _, name := range registry.Names() {
				s, err := registry.CreateDefault(name)
				if err != nil {
					return err
				}
				fmt.Printf("%-16s %-24s warmup=%d\n", name, s.Name(), s.WarmupPeriod())
				fmt.Printf("%18s%s\n", "", s.Description())
			}
			return nil
		},
	}
}
