package model

import "time"

// SeriesResult is the terminal outcome of one symbol's fetch: either a
// non-empty reconciled bar series or a failure reason. It is never partially
// valid; chunk-level recovery happens before one is produced.
type SeriesResult struct {
	Symbol Symbol
	Bars   []Bar
	Err    error

	// DataQualityWarning is set when reconciliation detected duplicate or
	// out-of-order dates that it had to resolve. It does not fail the symbol.
	DataQualityWarning bool
}

// OK reports whether the fetch produced a usable series.
func (r *SeriesResult) OK() bool { return r.Err == nil && len(r.Bars) > 0 }

// SymbolOutcome is one row of the batch report.
type SymbolOutcome struct {
	Symbol      Symbol
	Success     bool
	Records     int
	Reason      string
	Warning     bool
	FirstDate   time.Time
	LastDate    time.Time
	TotalReturn float64 // percent, close-to-close over the series
	Elapsed     time.Duration
}

// BatchReport accounts for every cleaned input symbol exactly once. It is
// built incrementally by the orchestrator and read-only afterwards.
type BatchReport struct {
	RunID      string
	StartDate  time.Time
	EndDate    time.Time
	OutputDir  string
	Outcomes   []SymbolOutcome
	StartedAt  time.Time
	FinishedAt time.Time
}

// Success returns the number of symbols that reconciled.
func (b *BatchReport) Success() int {
	n := 0
	for _, o := range b.Outcomes {
		if o.Success {
			n++
		}
	}
	return n
}

// Failed returns the number of symbols that did not reconcile.
func (b *BatchReport) Failed() int { return len(b.Outcomes) - b.Success() }

// Elapsed is the wall-clock duration of the whole batch.
func (b *BatchReport) Elapsed() time.Duration { return b.FinishedAt.Sub(b.StartedAt) }
