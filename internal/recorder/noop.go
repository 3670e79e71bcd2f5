package recorder

import (
	"context"

	"BreakoutSentinel/internal/model"
)

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ context.Context, _ *model.RunResult) error { return nil }
func (n *NoopRecorder) RecentSignals(_ context.Context, _ int) ([]SignalRecord, error) {
	return nil, nil
}
func (n *NoopRecorder) Close() error { return nil }
