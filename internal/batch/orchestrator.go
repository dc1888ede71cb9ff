// Package batch drives the whole fetch run: it owns the provider session
// for the run's lifetime, serializes symbol fetches, isolates per-symbol
// faults, streams reconciled series to the output sink, and builds the
// final report.
package batch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"MarketArchiver/internal/events"
	"MarketArchiver/internal/fetch"
	"MarketArchiver/internal/model"
	"MarketArchiver/internal/provider"
	"MarketArchiver/internal/sink"
	"MarketArchiver/internal/summary"
)

// Orchestrator runs one batch over a symbol list. The session and the
// fetcher's throttle are shared across all symbols; fetches are strictly
// sequential because the provider supports a single session per process.
type Orchestrator struct {
	Session   provider.Session
	Fetcher   *fetch.SymbolFetcher
	Sink      sink.Sink
	Events    events.Sink
	OutputDir string
	Persist   bool

	// now is swapped in tests to pin the batch end date.
	now func() time.Time
}

// NewOrchestrator wires an orchestrator. A nil event sink is replaced with
// a noop; a nil output sink disables persistence.
func NewOrchestrator(session provider.Session, fetcher *fetch.SymbolFetcher, out sink.Sink, evs events.Sink, outputDir string, persist bool) *Orchestrator {
	if evs == nil {
		evs = events.NoopSink{}
	}
	if out == nil {
		out = sink.NewNoopSink()
		persist = false
	}
	return &Orchestrator{
		Session:   session,
		Fetcher:   fetcher,
		Sink:      out,
		Events:    evs,
		OutputDir: outputDir,
		Persist:   persist,
		now:       time.Now,
	}
}

// CleanSymbols normalizes the raw input list: blank entries and
// delisting-marked entries are dropped, duplicates collapse to their first
// occurrence, and relative order is preserved.
func CleanSymbols(raw []string) []model.Symbol {
	seen := make(map[string]bool, len(raw))
	out := make([]model.Symbol, 0, len(raw))
	for _, entry := range raw {
		if strings.TrimSpace(entry) == "" || model.IsDelisted(entry) {
			continue
		}
		sym := model.NewSymbol(entry)
		if seen[sym.Ticker] {
			continue
		}
		seen[sym.Ticker] = true
		out = append(out, sym)
	}
	return out
}

// Run executes the batch: acquire the session once, fetch every cleaned
// symbol sequentially, persist each reconciled series before moving on, and
// account for every symbol exactly once in the returned report. A failed
// symbol never aborts the batch; only a failed session acquisition does.
// Cancellation takes effect between symbols, never mid-request.
func (o *Orchestrator) Run(ctx context.Context, rawSymbols []string, startDate time.Time) (*model.BatchReport, error) {
	// End date is fixed at orchestration start for the whole run.
	r, err := model.NewDateRange(startDate, o.now())
	if err != nil {
		return nil, err
	}

	if err := o.Session.Connect(ctx); err != nil {
		return nil, fmt.Errorf("establish provider session: %w", err)
	}
	defer o.Session.Disconnect()

	symbols := CleanSymbols(rawSymbols)
	report := &model.BatchReport{
		RunID:     uuid.NewString(),
		StartDate: r.Start,
		EndDate:   r.End,
		OutputDir: o.OutputDir,
		StartedAt: o.now(),
	}

	for _, sym := range symbols {
		if err := ctx.Err(); err != nil {
			// Remaining symbols are accounted for as not attempted.
			report.Outcomes = append(report.Outcomes, model.SymbolOutcome{
				Symbol: sym, Success: false, Reason: "batch cancelled",
			})
			continue
		}
		report.Outcomes = append(report.Outcomes, o.runSymbol(ctx, sym, r))
	}

	report.FinishedAt = o.now()
	o.Events.Emit(events.BatchSummary{
		Total:   len(report.Outcomes),
		Success: report.Success(),
		Failed:  report.Failed(),
		Elapsed: report.Elapsed(),
	})
	return report, nil
}

func (o *Orchestrator) runSymbol(ctx context.Context, sym model.Symbol, r model.DateRange) model.SymbolOutcome {
	started := o.now()
	result := o.Fetcher.Fetch(ctx, sym, r)
	outcome := model.SymbolOutcome{
		Symbol:  sym,
		Warning: result.DataQualityWarning,
		Elapsed: o.now().Sub(started),
	}
	if !result.OK() {
		outcome.Reason = provider.Reason(result.Err)
		return outcome
	}

	// Streaming persistence: write before moving to the next symbol so a
	// crash mid-batch keeps every completed series on disk.
	if o.Persist {
		if err := o.Sink.Write(sym, result.Bars, o.OutputDir); err != nil {
			outcome.Reason = fmt.Sprintf("persist series: %v", err)
			return outcome
		}
	}

	stats := summary.Compute(result.Bars)
	outcome.Success = true
	outcome.Records = stats.Records
	outcome.FirstDate = stats.FirstDate
	outcome.LastDate = stats.LastDate
	outcome.TotalReturn = stats.TotalReturnPct
	return outcome
}
