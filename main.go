package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lumenworksco/trading-algorithm/internal/cli"
	"github.com/lumenworksco/trading-algorithm/internal/logger"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(version)
	root.SetContext(ctx)

	if err := root.Execute(); err != nil {
		logger.Error("main", err.Error())
		os.Exit(1)
	}
}
