package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"BreakoutSentinel/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	universe := filepath.Join(dir, "universe.txt")
	require.NoError(t, os.WriteFile(universe, []byte("AAA\nBBB\n"), 0o644))

	body := "data_source:\n" +
		"  provider: mock\n" +
		"  universe_file: " + universe + "\n" +
		"cache:\n" +
		"  type: file\n" +
		"  path: " + filepath.Join(dir, "ohlcv.csv") + "\n" +
		"database:\n" +
		"  sqlite_path: " + filepath.Join(dir, "runs.db") + "\n"
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// resetFlags restores every flag variable so commands do not see values
// parsed by an earlier test.
func resetFlags() {
	cfgPath, logLevel = "", ""
	runAsOf, runRefresh, runHTML, runRecord = "", false, "", false
	scanLookback, scanRefresh = 30, false
	daemonRunNow = false
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	t.Cleanup(resetFlags)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRunCommand(t *testing.T) {
	chdir(t, t.TempDir())
	cfgFile := writeTestConfig(t)

	out, err := execute(t, "--config", cfgFile, "run", "--html", "--record")
	require.NoError(t, err)

	assert.Contains(t, out, "Screener Results")
	assert.Contains(t, out, "Signaller Results")
	assert.Contains(t, out, "AAA")
	assert.FileExists(t, defaultHTMLPath)
	assert.FileExists(t, cfg.Cache.Path)
	assert.FileExists(t, cfg.Database.SQLitePath)
}

func TestRunCommand_FlagsDoNotCarryOver(t *testing.T) {
	t.Run("with outputs", func(t *testing.T) {
		chdir(t, t.TempDir())
		_, err := execute(t, "--config", writeTestConfig(t), "run", "--html", "--record")
		require.NoError(t, err)
		assert.FileExists(t, defaultHTMLPath)
	})
	t.Run("plain", func(t *testing.T) {
		chdir(t, t.TempDir())
		_, err := execute(t, "--config", writeTestConfig(t), "run")
		require.NoError(t, err)
		assert.NoFileExists(t, defaultHTMLPath)
		assert.NoFileExists(t, cfg.Database.SQLitePath)
	})
}

func TestRunCommand_BadAsOf(t *testing.T) {
	chdir(t, t.TempDir())
	cfgFile := writeTestConfig(t)

	_, err := execute(t, "--config", cfgFile, "run", "--asof", "01/03/2024")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --asof")
	assert.NoFileExists(t, defaultHTMLPath)
}

func TestScanCommand(t *testing.T) {
	chdir(t, t.TempDir())
	cfgFile := writeTestConfig(t)

	out, err := execute(t, "--config", cfgFile, "scan", "--lookback", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "No signals found")
}

func TestDaemonRequiresTelegram(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	cfgFile := writeTestConfig(t)

	_, err := execute(t, "--config", cfgFile, "daemon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram")
}

func TestNewPipelineFromConfig(t *testing.T) {
	c := &config.Config{}
	c.Rules.MinPrice = 5
	c.Rules.MinAvgVolume = 1e6
	c.Rules.MinRise = 0.5
	c.Rules.MinTreadDays = 3
	c.Rules.MaxTreadDays = 20
	c.Rules.MaxRetracement = 0.1
	c.Sizing.AccountEquity = 50_000
	c.Sizing.RiskPct = 0.01
	c.Pipeline.Workers = 4

	p := newPipeline(c, zerolog.Nop())
	assert.Equal(t, 5.0, p.Screener.MinPrice)
	assert.Equal(t, 20, p.Signaller.MaxTreadDays)
	assert.Equal(t, 500.0, p.Sizing.RiskDollars())
	assert.Equal(t, 4, p.Workers)
}

func TestNewCache(t *testing.T) {
	c := &config.Config{}
	c.Cache.Type = "none"
	cache, release, err := newCache(c)
	require.NoError(t, err)
	assert.Nil(t, cache)
	release()

	c.Cache.Type = "redis"
	c.Cache.RedisAddr = "127.0.0.1:1"
	_, _, err = newCache(c)
	assert.Error(t, err)
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
