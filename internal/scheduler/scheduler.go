package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"BreakoutSentinel/internal/collector"
	"BreakoutSentinel/internal/model"
	"BreakoutSentinel/internal/notifier"
	"BreakoutSentinel/internal/recorder"
	"BreakoutSentinel/internal/strategy"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// ErrRunInProgress is returned when a run is requested while another is active.
var ErrRunInProgress = errors.New("a pipeline run is already in progress")

// Sender delivers a notification.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// TableLoader supplies the OHLCV table for a universe.
type TableLoader interface {
	Load(ctx context.Context, universe []string, refresh bool) (*model.Table, error)
}

// FailureObserver counts failed runs and notifications.
type FailureObserver interface {
	ObserveFailure()
	ObserveNotifyFailure()
}

// Scheduler runs the pipeline on a cron schedule and on demand.
type Scheduler struct {
	Cron         *cron.Cron
	UniverseFile string
	Loader       TableLoader
	Pipeline     *strategy.Pipeline
	Notifier     Sender
	Recorder     recorder.Recorder
	Failures     FailureObserver // optional
	Log          zerolog.Logger
	Ctx          context.Context

	running sync.Mutex
	mu      sync.Mutex
	last    *model.RunResult
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, universeFile string, loader TableLoader, p *strategy.Pipeline,
	tn Sender, rec recorder.Recorder, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:         cron.New(cron.WithSeconds()),
		UniverseFile: universeFile,
		Loader:       loader,
		Pipeline:     p,
		Notifier:     tn,
		Recorder:     rec,
		Log:          log,
		Ctx:          ctx,
	}
}

// RegisterDaily registers the end-of-day pipeline run.
func (s *Scheduler) RegisterDaily(dailyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Log.Info().Msg("scheduler stopped")
}

// LastRun returns the most recent successful run, or nil.
func (s *Scheduler) LastRun() *model.RunResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func (s *Scheduler) dailyTask() {
	s.Log.Info().Msg("running daily task")
	// Refetch so the run sees the final close, not an intraday cache.
	if _, err := s.RunNow(s.Ctx, true); err != nil {
		s.Log.Error().Err(err).Msg("daily run")
	}
}

// RunNow loads data, runs the pipeline as of the latest bar, records the
// result and sends the summary. Failures are reported to the chat.
func (s *Scheduler) RunNow(ctx context.Context, refresh bool) (*model.RunResult, error) {
	if !s.running.TryLock() {
		return nil, ErrRunInProgress
	}
	defer s.running.Unlock()

	res, err := s.run(ctx, refresh)
	if err != nil {
		if s.Failures != nil {
			s.Failures.ObserveFailure()
		}
		s.trySend(ctx, fmt.Sprintf("❌ pipeline run failed: %v", err))
		return nil, err
	}

	if err := s.Recorder.RecordRun(ctx, res); err != nil {
		s.Log.Error().Err(err).Str("run_id", res.RunID).Msg("record run")
	}
	s.trySend(ctx, notifier.FormatRunSummary(res))

	s.mu.Lock()
	s.last = res
	s.mu.Unlock()
	return res, nil
}

func (s *Scheduler) run(ctx context.Context, refresh bool) (*model.RunResult, error) {
	universe, err := collector.LoadUniverse(s.UniverseFile)
	if err != nil {
		return nil, err
	}
	table, err := s.Loader.Load(ctx, universe, refresh)
	if err != nil {
		return nil, fmt.Errorf("load ohlcv: %w", err)
	}
	res, err := s.Pipeline.Run(ctx, table, universe, time.Time{})
	if err != nil {
		return nil, err
	}
	res.RunID = recorder.NewRunID()
	return res, nil
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.FormatHelp()
	}
	cmd := strings.ToLower(fields[0])
	if i := strings.Index(cmd, "@"); i > 0 {
		cmd = cmd[:i] // "/run@SentinelBot" in group chats
	}

	switch cmd {
	case "/run":
		if _, err := s.RunNow(ctx, false); errors.Is(err, ErrRunInProgress) {
			return "⏳ " + err.Error()
		}
		// RunNow already sent the summary or the failure.
		return ""
	case "/signals":
		records, err := s.Recorder.RecentSignals(ctx, 10)
		if err != nil {
			s.Log.Error().Err(err).Msg("query recent signals")
			return fmt.Sprintf("❌ could not load signals: %v", err)
		}
		return notifier.FormatRecentSignals(records)
	case "/last":
		if last := s.LastRun(); last != nil {
			return notifier.FormatRunSummary(last)
		}
		return "No run since start."
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) trySend(ctx context.Context, text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(ctx, text, 3); err != nil {
		s.Log.Error().Err(err).Msg("send notification")
		if s.Failures != nil {
			s.Failures.ObserveNotifyFailure()
		}
	}
}
