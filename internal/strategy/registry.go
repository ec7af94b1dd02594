package strategy

import (
	"sort"
	"sync"

	"github.com/lumenworksco/trading-algorithm/internal/errs"
)

// Factory builds a Strategy from a raw config value. Each concrete strategy
// registers a factory that type-asserts (or re-decodes) the config to its
// own Config type.
type Factory func(config any) (Strategy, error)

// Registry is a string-keyed catalog of known strategy factories, mirroring
// the set a CLI's `strategies` subcommand or a config-driven runner picks
// from by name.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	defaults  map[string]func() any
}

func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory), defaults: make(map[string]func() any)}
	r.register("ma_crossover", func(config any) (Strategy, error) {
		cfg, err := asConfig(config, DefaultMACrossoverConfig())
		if err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return NewMACrossoverStrategy(cfg), nil
	}, func() any { return DefaultMACrossoverConfig() })

	r.register("mean_reversion", func(config any) (Strategy, error) {
		cfg, err := asConfig(config, DefaultMeanReversionConfig())
		if err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return NewMeanReversionStrategy(cfg), nil
	}, func() any { return DefaultMeanReversionConfig() })

	r.register("momentum", func(config any) (Strategy, error) {
		cfg, err := asConfig(config, DefaultMomentumConfig())
		if err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return NewMomentumStrategy(cfg), nil
	}, func() any { return DefaultMomentumConfig() })

	r.register("rsi", func(config any) (Strategy, error) {
		cfg, err := asConfig(config, DefaultRSIConfig())
		if err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return NewRSIStrategy(cfg), nil
	}, func() any { return DefaultRSIConfig() })

	return r
}

func (r *Registry) register(name string, factory Factory, defaultConfig func() any) {
	r.factories[name] = factory
	r.defaults[name] = defaultConfig
}

// asConfig accepts either the strategy's own concrete config type or falls
// back to the supplied default, so callers that only want defaults can pass
// nil.
func asConfig[T any](config any, fallback T) (T, error) {
	if config == nil {
		return fallback, nil
	}
	cfg, ok := config.(T)
	if !ok {
		var zero T
		return zero, &errs.StrategyError{Reason: "config type mismatch for strategy"}
	}
	return cfg, nil
}

// Exists reports whether name is registered.
func (r *Registry) Exists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[name]
	return ok
}

// Names returns the registered strategy keys in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// List is an alias for Names, matching the vocabulary of a `strategies`
// listing command.
func (r *Registry) List() []string { return r.Names() }

// Create builds a Strategy by name with the supplied config. Passing nil
// uses the strategy's own default config.
func (r *Registry) Create(name string, config any) (Strategy, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, &errs.StrategyNotFoundError{Name: name}
	}
	return factory(config)
}

// CreateDefault builds a Strategy by name using its default config.
func (r *Registry) CreateDefault(name string) (Strategy, error) {
	return r.Create(name, nil)
}

// Get returns the default config value registered for name, for display in
// a `strategies` listing.
func (r *Registry) Get(name string) (any, error) {
	r.mu.RLock()
	defaultConfig, ok := r.defaults[name]
	r.mu.RUnlock()
	if !ok {
		return nil, &errs.StrategyNotFoundError{Name: name}
	}
	return defaultConfig(), nil
}
