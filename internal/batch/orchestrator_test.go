package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"MarketArchiver/internal/fetch"
	"MarketArchiver/internal/model"
	"MarketArchiver/internal/provider"
	"MarketArchiver/internal/sink"
)

func TestCleanSymbols(t *testing.T) {
	got := CleanSymbols([]string{"AAPL", "aapl", "", "  ", "$SIVB$", "msft", "AAPL"})
	want := []string{"AAPL", "MSFT"}
	if len(got) != len(want) {
		t.Fatalf("got %d symbols, want %d: %v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].Ticker != w {
			t.Errorf("symbol %d = %q, want %q", i, got[i].Ticker, w)
		}
	}
}

func newTestOrchestrator(mock *provider.MockSession, dir string) *Orchestrator {
	fetcher := fetch.NewSymbolFetcher(mock, fetch.NewThrottle(0), fetch.RetryPolicy{MaxRetries: 2}, 365, model.DefaultBarSize, nil)
	return NewOrchestrator(mock, fetcher, sink.NewCSVSink(), nil, dir, true)
}

func TestRun_PerSymbolFaultIsolation(t *testing.T) {
	mock := provider.NewMockSession()
	mock.Enqueue("BAD", provider.MockResponse{Err: provider.NewError(provider.CodeUnresolvableSecurity, "no contract")})

	dir := t.TempDir()
	orch := newTestOrchestrator(mock, dir)
	start := time.Now().AddDate(0, 0, -30)

	report, err := orch.Run(context.Background(), []string{"AAPL", "BAD", "MSFT"}, start)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(report.Outcomes) != 3 {
		t.Fatalf("got %d outcomes, want 3", len(report.Outcomes))
	}
	if report.Success() != 2 || report.Failed() != 1 {
		t.Errorf("success=%d failed=%d, want 2/1", report.Success(), report.Failed())
	}

	byTicker := make(map[string]model.SymbolOutcome)
	for _, o := range report.Outcomes {
		byTicker[o.Symbol.Ticker] = o
	}
	if !byTicker["AAPL"].Success || !byTicker["MSFT"].Success {
		t.Error("healthy symbols should succeed despite the failed one")
	}
	if byTicker["BAD"].Success {
		t.Error("BAD should have failed")
	}
	if byTicker["BAD"].Reason != "unresolvable security" {
		t.Errorf("BAD reason = %q", byTicker["BAD"].Reason)
	}

	// Successful series are on disk, the failed one is not.
	if _, err := os.Stat(filepath.Join(dir, "AAPL.csv")); err != nil {
		t.Errorf("AAPL.csv missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "BAD.csv")); !errors.Is(err, os.ErrNotExist) {
		t.Error("BAD.csv should not exist")
	}
}

func TestRun_SessionFailureIsFatal(t *testing.T) {
	mock := provider.NewMockSession()
	mock.ConnectErr = errors.New("gateway unreachable")

	orch := newTestOrchestrator(mock, t.TempDir())
	_, err := orch.Run(context.Background(), []string{"AAPL"}, time.Now().AddDate(0, 0, -5))
	if err == nil {
		t.Fatal("expected fatal error when the session cannot be established")
	}
}

func TestRun_SuccessfulOutcomeCarriesStats(t *testing.T) {
	mock := provider.NewMockSession()
	orch := newTestOrchestrator(mock, t.TempDir())

	report, err := orch.Run(context.Background(), []string{"AAPL"}, time.Now().AddDate(0, 0, -9))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	o := report.Outcomes[0]
	if !o.Success {
		t.Fatalf("expected success, reason %q", o.Reason)
	}
	if o.Records != 10 {
		t.Errorf("records = %d, want 10", o.Records)
	}
	if o.FirstDate.IsZero() || o.LastDate.IsZero() {
		t.Error("date span missing from outcome")
	}
	if o.TotalReturn == 0 {
		t.Error("expected a non-zero return from the drifting mock series")
	}
	if report.RunID == "" {
		t.Error("report has no run id")
	}
}

func TestRun_CancelledContextAccountsForEverySymbol(t *testing.T) {
	mock := provider.NewMockSession()
	orch := newTestOrchestrator(mock, t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report, err := orch.Run(ctx, []string{"AAPL", "MSFT"}, time.Now().AddDate(0, 0, -5))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(report.Outcomes) != 2 {
		t.Fatalf("got %d outcomes, want 2", len(report.Outcomes))
	}
	for _, o := range report.Outcomes {
		if o.Success {
			t.Errorf("%s succeeded under a cancelled context", o.Symbol.Ticker)
		}
		if o.Reason != "batch cancelled" {
			t.Errorf("%s reason = %q", o.Symbol.Ticker, o.Reason)
		}
	}
}
