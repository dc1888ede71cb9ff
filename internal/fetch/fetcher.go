package fetch

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"MarketArchiver/internal/events"
	"MarketArchiver/internal/model"
	"MarketArchiver/internal/provider"
)

// State is a SymbolFetcher phase. Transitions are driven explicitly by the
// fetch loop rather than by error unwinding, so retry counts and backoff
// stay observable through the emitted events.
type State string

const (
	StatePlanning      State = "PLANNING"
	StateFetchingChunk State = "FETCHING_CHUNK"
	StateRetrying      State = "RETRYING"
	StateReconciled    State = "RECONCILED"
	StateFailed        State = "FAILED"
)

// ErrNoData marks a symbol whose requests all succeeded but returned zero
// bars. It is a per-symbol failure, never an empty success.
var ErrNoData = errors.New("no data")

// SymbolFetcher drives the chunk plan, throttle, retry policy and provider
// session for one symbol at a time and produces a single reconciled series
// or a definitive failure. The session and throttle are shared across the
// batch; the fetcher itself holds no per-symbol state between calls.
type SymbolFetcher struct {
	Session       provider.Session
	Throttle      *Throttle
	Policy        RetryPolicy
	MaxWindowDays int
	BarSize       string
	Events        events.Sink
}

// NewSymbolFetcher wires a fetcher with defaults filled in.
func NewSymbolFetcher(session provider.Session, throttle *Throttle, policy RetryPolicy, maxWindowDays int, barSize string, sink events.Sink) *SymbolFetcher {
	if maxWindowDays < 1 {
		maxWindowDays = 365
	}
	if barSize == "" {
		barSize = model.DefaultBarSize
	}
	if sink == nil {
		sink = events.NoopSink{}
	}
	return &SymbolFetcher{
		Session:       session,
		Throttle:      throttle,
		Policy:        policy,
		MaxWindowDays: maxWindowDays,
		BarSize:       barSize,
		Events:        sink,
	}
}

// Fetch runs the per-symbol state machine to a terminal state. The returned
// result is always terminal: a non-empty ordered series or a failure with a
// human-readable reason. Cancellation is honored between chunks only; an
// in-flight request is bounded by the session's own timeout.
func (f *SymbolFetcher) Fetch(ctx context.Context, sym model.Symbol, r model.DateRange) *model.SeriesResult {
	started := time.Now()
	f.Events.Emit(events.FetchStarted{Ticker: sym.Ticker, StartDate: r.Start})

	var (
		state     = StatePlanning
		chunks    []model.Chunk
		collected [][]model.Bar
		current   int
		failures  int
		lastErr   error
	)

	for state != StateReconciled && state != StateFailed {
		switch state {
		case StatePlanning:
			if sym.Kind == model.KindUnknown {
				lastErr = fmt.Errorf("cannot resolve security kind for %q", sym.Ticker)
				state = StateFailed
				break
			}
			chunks = PlanChunks(r, f.MaxWindowDays)
			collected = make([][]model.Bar, len(chunks))
			state = StateFetchingChunk

		case StateFetchingChunk:
			if current >= len(chunks) {
				state = StateReconciled
				break
			}
			if err := ctx.Err(); err != nil {
				lastErr = fmt.Errorf("batch cancelled: %w", err)
				state = StateFailed
				break
			}
			chunk := chunks[current]
			if err := f.Throttle.Acquire(ctx); err != nil {
				lastErr = fmt.Errorf("batch cancelled: %w", err)
				state = StateFailed
				break
			}
			bars, err := f.Session.RequestBars(ctx, sym, chunk, f.BarSize)
			if err == nil {
				f.Events.Emit(events.ChunkResult{Ticker: sym.Ticker, ChunkIndex: chunk.Index, Bars: len(bars)})
				collected[current] = bars
				current++
				failures = 0
				break
			}
			failures++
			lastErr = err
			if _, retry := f.Policy.Decide(failures, err); retry {
				state = StateRetrying
				break
			}
			f.Events.Emit(events.ChunkResult{Ticker: sym.Ticker, ChunkIndex: chunk.Index, Err: err})
			state = StateFailed

		case StateRetrying:
			delay, _ := f.Policy.Decide(failures, lastErr)
			f.Events.Emit(events.RetryScheduled{
				Ticker:     sym.Ticker,
				ChunkIndex: chunks[current].Index,
				Attempt:    failures,
				Delay:      delay,
				Err:        lastErr,
			})
			if err := sleep(ctx, delay); err != nil {
				lastErr = fmt.Errorf("batch cancelled: %w", err)
				state = StateFailed
				break
			}
			state = StateFetchingChunk
		}
	}

	if state == StateFailed {
		return f.fail(sym, started, lastErr)
	}

	bars, warning := reconcile(collected)
	if len(bars) == 0 {
		return f.fail(sym, started, ErrNoData)
	}
	if warning {
		f.Events.Emit(events.DataQuality{
			Ticker: sym.Ticker,
			Detail: "duplicate or out-of-order dates resolved during reconciliation",
		})
	}
	f.Events.Emit(events.SymbolResult{
		Ticker:  sym.Ticker,
		Success: true,
		Records: len(bars),
		Warning: warning,
		Elapsed: time.Since(started),
	})
	return &model.SeriesResult{Symbol: sym, Bars: bars, DataQualityWarning: warning}
}

func (f *SymbolFetcher) fail(sym model.Symbol, started time.Time, err error) *model.SeriesResult {
	f.Events.Emit(events.SymbolResult{
		Ticker:  sym.Ticker,
		Success: false,
		Reason:  provider.Reason(err),
		Elapsed: time.Since(started),
	})
	return &model.SeriesResult{Symbol: sym, Err: err}
}

// reconcile merges the per-chunk series into one ascending, duplicate-free
// sequence. Chunks are applied oldest-first, so on a duplicate date the bar
// from the later-sequenced chunk wins (the most recent re-fetch of that
// date). The warning flag is set when any duplicate or ordering anomaly had
// to be resolved.
func reconcile(collected [][]model.Bar) ([]model.Bar, bool) {
	byDate := make(map[time.Time]model.Bar)
	warning := false
	var prev time.Time
	first := true
	for _, chunk := range collected {
		for _, bar := range chunk {
			d := model.Day(bar.Date)
			if _, dup := byDate[d]; dup {
				warning = true
			}
			if !first && !d.After(prev) {
				warning = true
			}
			byDate[d] = bar
			prev, first = d, false
		}
	}
	if len(byDate) == 0 {
		return nil, warning
	}
	dates := make([]time.Time, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	bars := make([]model.Bar, len(dates))
	for i, d := range dates {
		bars[i] = byDate[d]
	}
	return bars, warning
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
