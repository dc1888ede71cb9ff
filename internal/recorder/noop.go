package recorder

import (
	"time"

	"MarketArchiver/internal/model"
)

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ *model.BatchReport) error { return nil }
func (n *NoopRecorder) LastRunEnd() (time.Time, error)       { return time.Time{}, nil }
func (n *NoopRecorder) Close() error                         { return nil }
