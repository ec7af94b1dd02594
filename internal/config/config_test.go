package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("Default().Validate() error: %v", err)
	}
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	c := Default()
	c.Log.Level = "verbose"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected an error for an unrecognized log level")
	}
}

func TestValidateRejectsAlpacaWithoutCredentials(t *testing.T) {
	c := Default()
	c.Broker.Type = "alpaca"
	if err := c.Validate(); err == nil {
		t.Fatalf("expected an error for alpaca broker without api credentials")
	}
}

func TestLoadAppliesConfigFileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trading.yaml")
	contents := "backtest:\n  initial_capital: 50000\ndata:\n  symbol: AAPL\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Backtest.InitialCapital != 50000 {
		t.Fatalf("Backtest.InitialCapital = %v, want 50000", cfg.Backtest.InitialCapital)
	}
	if cfg.Data.Symbol != "AAPL" {
		t.Fatalf("Data.Symbol = %q, want AAPL", cfg.Data.Symbol)
	}
	if cfg.Risk.MaxPositions != DefaultRiskConfig().MaxPositions {
		t.Fatalf("Risk.MaxPositions = %d, want the untouched default %d", cfg.Risk.MaxPositions, DefaultRiskConfig().MaxPositions)
	}
}

func TestLoadWithoutAFileFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() error: %v", err)
	}
	defer os.Chdir(cwd)
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir() error: %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Backtest.InitialCapital != DefaultBacktestConfig().InitialCapital {
		t.Fatalf("InitialCapital = %v, want default %v", cfg.Backtest.InitialCapital, DefaultBacktestConfig().InitialCapital)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trading.yaml")
	if err := os.WriteFile(path, []byte("data:\n  symbol: AAPL\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	os.Setenv("TRADING__DATA__SYMBOL", "MSFT")
	defer os.Unsetenv("TRADING__DATA__SYMBOL")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Data.Symbol != "MSFT" {
		t.Fatalf("Data.Symbol = %q, want env override MSFT", cfg.Data.Symbol)
	}
}
