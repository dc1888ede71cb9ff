// Package recorder persists a manifest of batch runs and their per-symbol
// outcomes, so operators can audit past runs and the refresh scheduler can
// see where the last completed run left off.
package recorder

import (
	"time"

	"MarketArchiver/internal/model"
)

// Recorder persists batch history.
type Recorder interface {
	// RecordRun stores one completed batch report with all its outcomes.
	RecordRun(report *model.BatchReport) error
	// LastRunEnd returns the end date of the most recently recorded run,
	// or the zero time when no run has been recorded yet.
	LastRunEnd() (time.Time, error)
	Close() error
}
