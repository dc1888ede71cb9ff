// Package events defines the structured events the fetch core emits and the
// sink interface it emits them through. The core never logs directly; sinks
// decide formatting and storage.
package events

import "time"

// Event is a marker for the closed set of event types below.
type Event interface{ isEvent() }

// Sink receives core events. Implementations must be cheap and must not
// block the batch loop.
type Sink interface {
	Emit(e Event)
}

// FetchStarted marks the beginning of one symbol's fetch.
type FetchStarted struct {
	Ticker    string
	StartDate time.Time
}

// ChunkResult reports the terminal outcome of one chunk request.
type ChunkResult struct {
	Ticker     string
	ChunkIndex int
	Bars       int
	Err        error
}

// RetryScheduled reports that a transient chunk failure will be retried.
type RetryScheduled struct {
	Ticker     string
	ChunkIndex int
	Attempt    int
	Delay      time.Duration
	Err        error
}

// DataQuality reports a reconciliation anomaly that was resolved without
// failing the symbol (duplicate or out-of-order dates).
type DataQuality struct {
	Ticker string
	Detail string
}

// SymbolResult reports the terminal outcome of one symbol.
type SymbolResult struct {
	Ticker  string
	Success bool
	Records int
	Reason  string
	Warning bool
	Elapsed time.Duration
}

// BatchSummary reports the completed batch.
type BatchSummary struct {
	Total   int
	Success int
	Failed  int
	Elapsed time.Duration
}

func (FetchStarted) isEvent()   {}
func (ChunkResult) isEvent()    {}
func (RetryScheduled) isEvent() {}
func (DataQuality) isEvent()    {}
func (SymbolResult) isEvent()   {}
func (BatchSummary) isEvent()   {}

// NoopSink discards all events. Used when no observer is configured and in
// tests that do not assert on events.
type NoopSink struct{}

func (NoopSink) Emit(Event) {}
