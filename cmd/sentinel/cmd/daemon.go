package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"BreakoutSentinel/internal/metrics"
	"BreakoutSentinel/internal/notifier"
	"BreakoutSentinel/internal/recorder"
	"BreakoutSentinel/internal/scheduler"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var daemonRunNow bool

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the pipeline every trading day and report to Telegram",
	Long: `Daemon runs the pipeline on the configured cron schedule, stores every run
in SQLite, sends a summary to Telegram and answers the /run, /signals, /last
and /help commands. Prometheus metrics are served when metrics.addr is set.`,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(daemonCmd)

	daemonCmd.Flags().BoolVar(&daemonRunNow, "run-now", os.Getenv("RUN_ON_START") == "true", "run the pipeline once at startup")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	if err := cfg.ValidateDaemon(); err != nil {
		return err
	}
	log.Info().Msg("BreakoutSentinel starting")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loader, release, err := newLoader(cfg, log)
	if err != nil {
		return err
	}
	defer release()
	log.Info().Str("provider", loader.Provider.Name()).Str("cache", cfg.Cache.Type).Msg("data source ready")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg)

	pipeline := newPipeline(cfg, log)
	pipeline.Observer = m

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}
	defer rec.Close()

	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, log)

	sched := scheduler.NewScheduler(ctx, cfg.DataSource.UniverseFile, loader, pipeline, tn, rec, log)
	sched.Failures = m
	if err := sched.RegisterDaily(cfg.Schedule.DailyCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if cfg.Metrics.Addr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.Metrics.Addr, reg, log); err != nil {
				log.Error().Err(err).Msg("metrics server")
			}
		}()
	}

	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Info().Msg("telegram polling started")

	if daemonRunNow {
		log.Info().Msg("run-now enabled, executing pipeline")
		go func() {
			if _, err := sched.RunNow(ctx, false); err != nil {
				log.Error().Err(err).Msg("startup run")
			}
		}()
	}

	log.Info().Str("cron", cfg.Schedule.DailyCron).Msg("BreakoutSentinel is running, press Ctrl+C to stop")
	<-ctx.Done()
	log.Info().Msg("shutdown signal received, stopping")
	return nil
}
