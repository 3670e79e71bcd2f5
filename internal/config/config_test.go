package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "yahoo", cfg.DataSource.Provider)
	assert.Equal(t, "1y", cfg.DataSource.Period)
	assert.Equal(t, "1d", cfg.DataSource.Interval)
	assert.Equal(t, "file", cfg.Cache.Type)
	assert.Equal(t, 3.0, cfg.Rules.MinPrice)
	assert.Equal(t, 300_000.0, cfg.Rules.MinAvgVolume)
	assert.Equal(t, 0.30, cfg.Rules.MinRise)
	assert.Equal(t, 4, cfg.Rules.MinTreadDays)
	assert.Equal(t, 40, cfg.Rules.MaxTreadDays)
	assert.Equal(t, 0.25, cfg.Rules.MaxRetracement)
	assert.Equal(t, 100_000.0, cfg.Sizing.AccountEquity)
	assert.Equal(t, 0.02, cfg.Sizing.RiskPct)
	assert.Equal(t, 1, cfg.Pipeline.Workers)
	assert.Equal(t, "0 0 22 * * 1-5", cfg.Schedule.DailyCron)
	assert.NoError(t, cfg.Validate())
	assert.Error(t, cfg.ValidateDaemon())
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	path := writeConfig(t, `
data_source:
  provider: vstrader
  base_url: http://file
  period: 2y
cache:
  type: redis
  ttl: 6h
sizing:
  account_equity: 50000
pipeline:
  workers: 8
telegram:
  bot_token: file-token
  chat_id: "42"
`)
	t.Setenv("VSTRADER_BASE_URL", "http://env")
	t.Setenv("RISK_PCT", "0.01")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "vstrader", cfg.DataSource.Provider)
	assert.Equal(t, "http://env", cfg.DataSource.BaseURL)
	assert.Equal(t, "2y", cfg.DataSource.Period)
	assert.Equal(t, "redis", cfg.Cache.Type)
	assert.Equal(t, 6*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 50_000.0, cfg.Sizing.AccountEquity)
	assert.Equal(t, 0.01, cfg.Sizing.RiskPct)
	assert.Equal(t, 8, cfg.Pipeline.Workers)
	assert.NoError(t, cfg.ValidateDaemon())
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TELEGRAM_CHAT_ID=from-dotenv\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("TELEGRAM_CHAT_ID") })

	cfg, err := Load("missing.yaml")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Telegram.ChatID)
}

func TestLoad_Errors(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := Load(writeConfig(t, "data_source: [unclosed"))
	assert.Error(t, err)

	t.Setenv("PIPELINE_WORKERS", "many")
	_, err = Load("missing.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown provider", func(c *Config) { c.DataSource.Provider = "bloomberg" }},
		{"vstrader without url", func(c *Config) { c.DataSource.Provider = "vstrader" }},
		{"unknown cache", func(c *Config) { c.Cache.Type = "memcached" }},
		{"risk pct too large", func(c *Config) { c.Sizing.RiskPct = 1.5 }},
		{"negative equity", func(c *Config) { c.Sizing.AccountEquity = -1 }},
		{"tread range inverted", func(c *Config) { c.Rules.MinTreadDays = 50 }},
		{"no workers", func(c *Config) { c.Pipeline.Workers = -2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.applyDefaults()
			require.NoError(t, cfg.Validate())
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (stand-in for testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
