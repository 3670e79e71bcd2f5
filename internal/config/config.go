package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider     string `yaml:"provider"` // yahoo | vstrader | mock
		BaseURL      string `yaml:"base_url"`
		APIKey       string `yaml:"api_key"`
		Period       string `yaml:"period"`
		Interval     string `yaml:"interval"`
		UniverseFile string `yaml:"universe_file"`
	} `yaml:"data_source"`
	Cache struct {
		Type          string        `yaml:"type"` // file | redis | none
		Path          string        `yaml:"path"`
		RedisAddr     string        `yaml:"redis_addr"`
		RedisPassword string        `yaml:"redis_password"`
		RedisDB       int           `yaml:"redis_db"`
		TTL           time.Duration `yaml:"ttl"`
	} `yaml:"cache"`
	Rules struct {
		MinPrice       float64 `yaml:"min_price"`
		MinAvgVolume   float64 `yaml:"min_avg_volume"`
		MinRise        float64 `yaml:"min_rise"`
		MinTreadDays   int     `yaml:"min_tread_days"`
		MaxTreadDays   int     `yaml:"max_tread_days"`
		MaxRetracement float64 `yaml:"max_retracement"`
	} `yaml:"rules"`
	Sizing struct {
		AccountEquity float64 `yaml:"account_equity"`
		RiskPct       float64 `yaml:"risk_pct"`
	} `yaml:"sizing"`
	Pipeline struct {
		Workers int `yaml:"workers"`
	} `yaml:"pipeline"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		DailyCron string `yaml:"daily_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`
	LogLevel string `yaml:"log_level"`
	Proxy    string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies .env and environment
// variable overrides, then fills defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	_ = godotenv.Load() // best-effort
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	str := map[string]*string{
		"DATA_PROVIDER":      &c.DataSource.Provider,
		"VSTRADER_BASE_URL":  &c.DataSource.BaseURL,
		"VSTRADER_API_KEY":   &c.DataSource.APIKey,
		"UNIVERSE_FILE":      &c.DataSource.UniverseFile,
		"CACHE_TYPE":         &c.Cache.Type,
		"CACHE_PATH":         &c.Cache.Path,
		"REDIS_ADDR":         &c.Cache.RedisAddr,
		"REDIS_PASSWORD":     &c.Cache.RedisPassword,
		"TELEGRAM_BOT_TOKEN": &c.Telegram.BotToken,
		"TELEGRAM_CHAT_ID":   &c.Telegram.ChatID,
		"CRON_DAILY":         &c.Schedule.DailyCron,
		"SQLITE_PATH":        &c.Database.SQLitePath,
		"METRICS_ADDR":       &c.Metrics.Addr,
		"LOG_LEVEL":          &c.LogLevel,
		"HTTPS_PROXY":        &c.Proxy,
	}
	for key, dst := range str {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("ACCOUNT_EQUITY"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("ACCOUNT_EQUITY: %w", err)
		}
		c.Sizing.AccountEquity = f
	}
	if v := os.Getenv("RISK_PCT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("RISK_PCT: %w", err)
		}
		c.Sizing.RiskPct = f
	}
	if v := os.Getenv("PIPELINE_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PIPELINE_WORKERS: %w", err)
		}
		c.Pipeline.Workers = n
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = "yahoo"
	}
	if c.DataSource.Period == "" {
		c.DataSource.Period = "1y"
	}
	if c.DataSource.Interval == "" {
		c.DataSource.Interval = "1d"
	}
	if c.DataSource.UniverseFile == "" {
		c.DataSource.UniverseFile = "data/universe.txt"
	}
	if c.Cache.Type == "" {
		c.Cache.Type = "file"
	}
	if c.Cache.Path == "" {
		c.Cache.Path = "data/ohlcv.csv"
	}
	if c.Cache.RedisAddr == "" {
		c.Cache.RedisAddr = "localhost:6379"
	}
	if c.Rules.MinPrice == 0 {
		c.Rules.MinPrice = 3.0
	}
	if c.Rules.MinAvgVolume == 0 {
		c.Rules.MinAvgVolume = 300_000
	}
	if c.Rules.MinRise == 0 {
		c.Rules.MinRise = 0.30
	}
	if c.Rules.MinTreadDays == 0 {
		c.Rules.MinTreadDays = 4
	}
	if c.Rules.MaxTreadDays == 0 {
		c.Rules.MaxTreadDays = 40
	}
	if c.Rules.MaxRetracement == 0 {
		c.Rules.MaxRetracement = 0.25
	}
	if c.Sizing.AccountEquity == 0 {
		c.Sizing.AccountEquity = 100_000
	}
	if c.Sizing.RiskPct == 0 {
		c.Sizing.RiskPct = 0.02
	}
	if c.Pipeline.Workers == 0 {
		c.Pipeline.Workers = 1
	}
	if c.Schedule.DailyCron == "" {
		c.Schedule.DailyCron = "0 0 22 * * 1-5"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/breakout_sentinel.db"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "yahoo", "mock":
	case "vstrader":
		if c.DataSource.BaseURL == "" {
			return errors.New("data_source.base_url is required for vstrader")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	switch c.Cache.Type {
	case "file", "redis", "none":
	default:
		return fmt.Errorf("cache.type %q is not supported", c.Cache.Type)
	}
	if c.Sizing.AccountEquity <= 0 {
		return errors.New("sizing.account_equity must be positive")
	}
	if c.Sizing.RiskPct <= 0 || c.Sizing.RiskPct >= 1 {
		return errors.New("sizing.risk_pct must be in (0, 1)")
	}
	if c.Rules.MinTreadDays > c.Rules.MaxTreadDays {
		return errors.New("rules.min_tread_days must not exceed rules.max_tread_days")
	}
	if c.Pipeline.Workers < 1 {
		return errors.New("pipeline.workers must be at least 1")
	}
	return nil
}

// ValidateDaemon additionally checks the notifier settings the daemon needs.
func (c *Config) ValidateDaemon() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Telegram.BotToken == "" {
		return errors.New("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return errors.New("telegram.chat_id is required")
	}
	return nil
}
