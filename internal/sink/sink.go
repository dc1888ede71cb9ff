// Package sink persists reconciled series. The orchestrator writes each
// symbol as soon as it reconciles, so a crash mid-batch keeps everything
// already completed.
package sink

import "MarketArchiver/internal/model"

// Sink persists one symbol's reconciled series to a destination directory.
type Sink interface {
	Write(sym model.Symbol, bars []model.Bar, dir string) error
	Name() string
}

// NoopSink is used when persistence is disabled (dry runs, report-only
// batches).
type NoopSink struct{}

func NewNoopSink() *NoopSink { return &NoopSink{} }

func (n *NoopSink) Write(_ model.Symbol, _ []model.Bar, _ string) error { return nil }
func (n *NoopSink) Name() string                                       { return "noop" }
