package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"BreakoutSentinel/internal/model"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Metrics holds the Prometheus metrics for pipeline runs.
type Metrics struct {
	RunsTotal     prometheus.Counter
	RunFailures   prometheus.Counter
	RunDuration   prometheus.Histogram
	LastRunTime   prometheus.Gauge
	UniverseSize  prometheus.Gauge
	Screened      prometheus.Gauge
	Passed        prometheus.Gauge
	Signals       prometheus.Gauge
	ValidSetups   prometheus.Gauge
	ExitTriggers  prometheus.Gauge
	ReasonsTotal  *prometheus.CounterVec // labels: stage, reason
	NotifyFailure prometheus.Counter
}

// NewMetrics creates the metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sentinel_runs_total",
			Help: "Completed pipeline runs",
		}),
		RunFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sentinel_run_failures_total",
			Help: "Pipeline runs that failed before producing results",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sentinel_run_duration_seconds",
			Help:    "Wall time of screen, signal and execute stages",
			Buckets: prometheus.DefBuckets,
		}),
		LastRunTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sentinel_last_run_timestamp_seconds",
			Help: "Unix time the last run finished",
		}),
		UniverseSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sentinel_universe_size",
			Help: "Symbols requested in the last run",
		}),
		Screened: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sentinel_screened_symbols",
			Help: "Symbols with data in the last run",
		}),
		Passed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sentinel_screen_passed_symbols",
			Help: "Symbols that cleared the screener in the last run",
		}),
		Signals: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sentinel_signals",
			Help: "Breakout signals fired in the last run",
		}),
		ValidSetups: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sentinel_valid_setups",
			Help: "Signalled symbols with a valid stop and size in the last run",
		}),
		ExitTriggers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sentinel_exit_triggers",
			Help: "Signalled symbols that have since closed under the 10-day SMA",
		}),
		ReasonsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_reasons_total",
			Help: "Rule failures by stage and reason code",
		}, []string{"stage", "reason"}),
		NotifyFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sentinel_notify_failures_total",
			Help: "Telegram messages that could not be delivered",
		}),
	}

	reg.MustRegister(
		m.RunsTotal,
		m.RunFailures,
		m.RunDuration,
		m.LastRunTime,
		m.UniverseSize,
		m.Screened,
		m.Passed,
		m.Signals,
		m.ValidSetups,
		m.ExitTriggers,
		m.ReasonsTotal,
		m.NotifyFailure,
	)
	return m
}

// ObserveRun records a completed run.
func (m *Metrics) ObserveRun(res *model.RunResult) {
	m.RunsTotal.Inc()
	m.RunDuration.Observe(res.FinishedAt.Sub(res.StartedAt).Seconds())
	m.LastRunTime.Set(float64(res.FinishedAt.Unix()))
	m.UniverseSize.Set(float64(len(res.Universe)))
	m.Screened.Set(float64(len(res.Screens)))
	m.Passed.Set(float64(len(res.Passed())))
	m.Signals.Set(float64(len(res.Fired())))

	var valid, exits int
	for _, e := range res.Executions {
		if e.Valid {
			valid++
		}
		if e.ExitTrigger {
			exits++
		}
		m.countReasons("execute", e.Reasons)
	}
	m.ValidSetups.Set(float64(valid))
	m.ExitTriggers.Set(float64(exits))

	for _, s := range res.Screens {
		m.countReasons("screen", s.Reasons)
	}
	for _, s := range res.Signals {
		m.countReasons("signal", s.Reasons)
	}
}

// ObserveFailure records a run that errored out.
func (m *Metrics) ObserveFailure() {
	m.RunFailures.Inc()
}

// ObserveNotifyFailure records an undelivered notification.
func (m *Metrics) ObserveNotifyFailure() {
	m.NotifyFailure.Inc()
}

func (m *Metrics) countReasons(stage string, reasons model.Reasons) {
	for _, r := range reasons {
		m.ReasonsTotal.WithLabelValues(stage, r).Inc()
	}
}

// Handler serves /metrics for g and a plain /health probe.
func Handler(g prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// Serve runs the metrics endpoint on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, g prometheus.Gatherer, log zerolog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           Handler(g),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", addr).Msg("metrics listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
