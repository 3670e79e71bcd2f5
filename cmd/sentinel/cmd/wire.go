package cmd

import (
	"fmt"

	"BreakoutSentinel/internal/collector"
	"BreakoutSentinel/internal/config"
	"BreakoutSentinel/internal/strategy"

	"github.com/rs/zerolog"
)

func newProvider(c *config.Config, log zerolog.Logger) (collector.Provider, error) {
	switch c.DataSource.Provider {
	case "yahoo":
		return collector.NewYahooProvider(c.Proxy, log), nil
	case "vstrader":
		return collector.NewVsTraderProvider(c.DataSource.BaseURL, c.DataSource.APIKey, c.Proxy, log), nil
	case "mock":
		return &collector.MockProvider{Price: 100}, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", c.DataSource.Provider)
	}
}

// newCache returns the configured cache and a release func; a nil cache disables caching.
func newCache(c *config.Config) (collector.Cache, func(), error) {
	switch c.Cache.Type {
	case "file":
		return collector.NewFileCache(c.Cache.Path), func() {}, nil
	case "redis":
		rc, err := collector.NewRedisCache(collector.RedisConfig{
			Addr:     c.Cache.RedisAddr,
			Password: c.Cache.RedisPassword,
			DB:       c.Cache.RedisDB,
			TTL:      c.Cache.TTL,
		})
		if err != nil {
			return nil, nil, err
		}
		return rc, func() { rc.Close() }, nil
	default:
		return nil, func() {}, nil
	}
}

func newLoader(c *config.Config, log zerolog.Logger) (*collector.Loader, func(), error) {
	provider, err := newProvider(c, log)
	if err != nil {
		return nil, nil, err
	}
	cache, release, err := newCache(c)
	if err != nil {
		return nil, nil, fmt.Errorf("init cache: %w", err)
	}
	l := collector.NewLoader(provider, cache, log)
	l.Period = c.DataSource.Period
	l.Interval = c.DataSource.Interval
	return l, release, nil
}

func newPipeline(c *config.Config, log zerolog.Logger) *strategy.Pipeline {
	p := strategy.NewPipeline(log)
	p.Screener = strategy.ScreenerRules{
		MinPrice:     c.Rules.MinPrice,
		MinAvgVolume: c.Rules.MinAvgVolume,
	}
	p.Signaller = strategy.SignalRules{
		MinRise:        c.Rules.MinRise,
		MinTreadDays:   c.Rules.MinTreadDays,
		MaxTreadDays:   c.Rules.MaxTreadDays,
		MaxRetracement: c.Rules.MaxRetracement,
	}
	p.Sizing = strategy.Sizing{
		AccountEquity: c.Sizing.AccountEquity,
		RiskPct:       c.Sizing.RiskPct,
	}
	p.Workers = c.Pipeline.Workers
	return p
}

// loadInputs reads the universe and builds the loader that serves its OHLCV table.
func loadInputs(c *config.Config, log zerolog.Logger) ([]string, *collector.Loader, func(), error) {
	universe, err := collector.LoadUniverse(c.DataSource.UniverseFile)
	if err != nil {
		return nil, nil, nil, err
	}
	loader, release, err := newLoader(c, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return universe, loader, release, nil
}
