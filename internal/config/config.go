// Package config defines the layered application configuration: compiled
// defaults, an optional config file, then TRADING__-prefixed environment
// variables, in that order (later layers win).
package config

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/lumenworksco/trading-algorithm/internal/errs"
	"github.com/lumenworksco/trading-algorithm/internal/risk"
)

// BacktestConfig controls one backtest run's cost model and capital.
type BacktestConfig struct {
	InitialCapital     float64 `mapstructure:"initial_capital"`
	CommissionPerShare float64 `mapstructure:"commission_per_share"`
	SlippagePct        float64 `mapstructure:"slippage_pct"`
	Strategy           string  `mapstructure:"strategy"`
}

func DefaultBacktestConfig() BacktestConfig {
	return BacktestConfig{InitialCapital: 100000, CommissionPerShare: 0.005, SlippagePct: 0.05, Strategy: "ma_crossover"}
}

func (c BacktestConfig) Validate() error {
	if c.InitialCapital <= 0 {
		return &errs.ConfigError{Reason: "backtest.initial_capital must be > 0"}
	}
	if c.Strategy == "" {
		return &errs.ConfigError{Reason: "backtest.strategy is required"}
	}
	return nil
}

// RiskConfig mirrors risk.Config's shape in flat, file/env-friendly form.
type RiskConfig struct {
	PositionSizingMethod string  `mapstructure:"position_sizing_method"`
	PositionSizingValue  float64 `mapstructure:"position_sizing_value"`
	MaxShares            float64 `mapstructure:"max_shares"`
	StopLossMethod       string  `mapstructure:"stop_loss_method"`
	StopLossValue        float64 `mapstructure:"stop_loss_value"`
	MaxPositions         int     `mapstructure:"max_positions"`
	MaxPositionPct       float64 `mapstructure:"max_position_pct"`
	MaxExposurePct       float64 `mapstructure:"max_exposure_pct"`
	DailyLossLimitPct    float64 `mapstructure:"daily_loss_limit_pct"`
	MaxDrawdownPct       float64 `mapstructure:"max_drawdown_pct"`
	MinCash              float64 `mapstructure:"min_cash"`
	MaxConcentrationPct  float64 `mapstructure:"max_concentration_pct"`
	UseSignalStrength    bool    `mapstructure:"use_signal_strength"`
}

func DefaultRiskConfig() RiskConfig {
	return RiskConfig{
		PositionSizingMethod: "percent_equity",
		PositionSizingValue:  2,
		MaxShares:            1000,
		StopLossMethod:       "fixed_percent",
		StopLossValue:        2,
		MaxPositions:         10,
		MaxPositionPct:       10,
		MaxExposurePct:       80,
		DailyLossLimitPct:    3,
		MaxDrawdownPct:       20,
		MinCash:              1000,
		MaxConcentrationPct:  25,
		UseSignalStrength:    true,
	}
}

func (c RiskConfig) Validate() error {
	if c.MaxPositions <= 0 {
		return &errs.ConfigError{Reason: "risk.max_positions must be > 0"}
	}
	if c.MaxPositionPct <= 0 || c.MaxPositionPct > 100 {
		return &errs.ConfigError{Reason: "risk.max_position_pct must be in (0, 100]"}
	}
	if _, err := sizingMethod(c.PositionSizingMethod, c.PositionSizingValue); err != nil {
		return err
	}
	if _, err := stopMethod(c.StopLossMethod, c.StopLossValue); err != nil {
		return err
	}
	return nil
}

// ToRiskConfig translates the flat, file/env-friendly shape into risk.Config.
// PositionSizingValue and StopLossValue are interpreted according to their
// paired method string.
func (c RiskConfig) ToRiskConfig() (risk.Config, error) {
	sizing, err := sizingMethod(c.PositionSizingMethod, c.PositionSizingValue)
	if err != nil {
		return risk.Config{}, err
	}
	stop, err := stopMethod(c.StopLossMethod, c.StopLossValue)
	if err != nil {
		return risk.Config{}, err
	}
	maxShares := decimal.NewFromFloat(c.MaxShares)
	return risk.Config{
		PositionSizing: sizing,
		StopLoss:       stop,
		Limits: risk.PortfolioLimits{
			MaxPositionPct:      decimal.NewFromFloat(c.MaxPositionPct),
			MaxExposurePct:      decimal.NewFromFloat(c.MaxExposurePct),
			MaxPositions:        c.MaxPositions,
			DailyLossLimitPct:   decimal.NewFromFloat(c.DailyLossLimitPct),
			MaxDrawdownPct:      decimal.NewFromFloat(c.MaxDrawdownPct),
			MinCash:             decimal.NewFromFloat(c.MinCash),
			MaxConcentrationPct: decimal.NewFromFloat(c.MaxConcentrationPct),
		},
		MaxShares:         &maxShares,
		UseSignalStrength: c.UseSignalStrength,
	}, nil
}

func sizingMethod(name string, value float64) (risk.SizingMethod, error) {
	v := decimal.NewFromFloat(value)
	switch name {
	case "fixed":
		return risk.SizingMethod{Kind: risk.Fixed, Shares: v}, nil
	case "fixed_dollar":
		return risk.SizingMethod{Kind: risk.FixedDollar, Amount: v}, nil
	case "percent_equity":
		return risk.SizingMethod{Kind: risk.PercentEquity, Percent: v}, nil
	case "risk_based":
		return risk.SizingMethod{Kind: risk.RiskBased, RiskPercent: v}, nil
	case "kelly":
		return risk.SizingMethod{Kind: risk.Kelly}, nil
	default:
		return risk.SizingMethod{}, &errs.ConfigError{Reason: "risk.position_sizing_method must be one of fixed, fixed_dollar, percent_equity, risk_based, kelly"}
	}
}

func stopMethod(name string, value float64) (risk.StopMethod, error) {
	v := decimal.NewFromFloat(value)
	switch name {
	case "fixed_percent":
		return risk.StopMethod{Kind: risk.FixedPercent, Percent: v}, nil
	case "atr":
		return risk.StopMethod{Kind: risk.AtrStop, Multiplier: v}, nil
	case "fixed_dollar":
		return risk.StopMethod{Kind: risk.FixedDollar, Amount: v}, nil
	case "trailing_percent":
		return risk.StopMethod{Kind: risk.TrailingPercent, Percent: v}, nil
	case "trailing_atr":
		return risk.StopMethod{Kind: risk.TrailingAtr, Multiplier: v}, nil
	default:
		return risk.StopMethod{}, &errs.ConfigError{Reason: "risk.stop_loss_method must be one of fixed_percent, atr, fixed_dollar, trailing_percent, trailing_atr"}
	}
}

// BrokerConfig selects and parameterizes the execution venue. Only
// "simulated" is implemented; "alpaca" is a named placeholder for the live
// subcommand's Broker contract, concretely unimplemented.
type BrokerConfig struct {
	Type      string `mapstructure:"type"`
	APIKey    string `mapstructure:"api_key"`
	APISecret string `mapstructure:"api_secret"`
	BaseURL   string `mapstructure:"base_url"`
}

func DefaultBrokerConfig() BrokerConfig {
	return BrokerConfig{Type: "simulated"}
}

func (c BrokerConfig) Validate() error {
	switch c.Type {
	case "simulated", "alpaca":
	default:
		return &errs.ConfigError{Reason: "broker.type must be simulated or alpaca"}
	}
	if c.Type == "alpaca" && (c.APIKey == "" || c.APISecret == "") {
		return &errs.ConfigError{Reason: "broker.api_key and broker.api_secret are required when broker.type is alpaca"}
	}
	return nil
}

// LogConfig controls the logging layer installed at process start.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func DefaultLogConfig() LogConfig {
	return LogConfig{Level: "info", Format: "console"}
}

func (c LogConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		return &errs.ConfigError{Reason: "log.level must be one of debug, info, warn, error"}
	}
	return nil
}

// DataConfig points the backtest/paper subcommands at a historical source.
type DataConfig struct {
	CSVPath string `mapstructure:"csv_path"`
	Symbol  string `mapstructure:"symbol"`
}

func DefaultDataConfig() DataConfig {
	return DataConfig{}
}

func (c DataConfig) Validate() error {
	if c.Symbol == "" {
		return &errs.ConfigError{Reason: "data.symbol is required"}
	}
	return nil
}

// AppConfig is the full, validated configuration tree for every subcommand.
type AppConfig struct {
	Backtest BacktestConfig `mapstructure:"backtest"`
	Risk     RiskConfig     `mapstructure:"risk"`
	Broker   BrokerConfig   `mapstructure:"broker"`
	Log      LogConfig      `mapstructure:"log"`
	Data     DataConfig     `mapstructure:"data"`
}

// Default returns an AppConfig with every sub-config at its own default.
func Default() *AppConfig {
	return &AppConfig{
		Backtest: DefaultBacktestConfig(),
		Risk:     DefaultRiskConfig(),
		Broker:   DefaultBrokerConfig(),
		Log:      DefaultLogConfig(),
		Data:     DefaultDataConfig(),
	}
}

type validatable interface{ Validate() error }

// Validate runs every sub-config's Validate in turn, returning the first failure.
func (c *AppConfig) Validate() error {
	for _, v := range []validatable{c.Backtest, c.Risk, c.Broker, c.Log, c.Data} {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Load builds an AppConfig from compiled defaults, an optional config file
// (path may be empty, in which case trading.{yaml,json,toml} is searched for
// in the current directory), and environment variables prefixed TRADING__
// with __ as the nested-key separator (e.g. TRADING__RISK__MAX_POSITIONS).
func Load(path string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v, Default())

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("trading")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound && path != "" {
			return nil, &errs.ConfigError{Reason: "read config file: " + err.Error()}
		}
	}

	// A trailing underscore on the prefix plus viper's own separating
	// underscore together produce the TRADING__ two-underscore prefix; __
	// also replaces the "." viper uses between nested mapstructure keys.
	v.SetEnvPrefix("TRADING_")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	v.AutomaticEnv()

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, &errs.ConfigError{Reason: "unmarshal config: " + err.Error()}
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, defaults *AppConfig) {
	v.SetDefault("backtest", defaults.Backtest)
	v.SetDefault("risk", defaults.Risk)
	v.SetDefault("broker", defaults.Broker)
	v.SetDefault("log", defaults.Log)
	v.SetDefault("data", defaults.Data)
}
