package cmd

import (
	"os"

	"BreakoutSentinel/internal/config"
	"BreakoutSentinel/internal/logger"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgPath  string
	logLevel string

	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "sentinel",
	Short: "Momentum breakout screener for daily equity data",
	Long: `BreakoutSentinel screens a universe of tickers for the momentum breakout
pattern: a 30%+ run-up over 63 sessions, a 4 to 40 day consolidation that
gives back less than 25% of the peak, and a close above the prior high.

Signalled names are sized from the signal bar's low as the stop and a fixed
fraction of account equity at risk, then tracked until they close under
their 10-day moving average.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		log = logger.NewWithWriter(cmd.ErrOrStderr(), cfg.LogLevel)
		return cfg.Validate()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	defaultCfg := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultCfg = v
	}
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", defaultCfg, "path to YAML config")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
}
