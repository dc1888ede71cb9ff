package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"MarketArchiver/internal/model"
)

func testReport(finished time.Time) *model.BatchReport {
	return &model.BatchReport{
		RunID:      "run-1",
		StartDate:  time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		OutputDir:  "data/bars",
		StartedAt:  finished.Add(-time.Minute),
		FinishedAt: finished,
		Outcomes: []model.SymbolOutcome{
			{
				Symbol:      model.NewSymbol("AAPL"),
				Success:     true,
				Records:     1100,
				FirstDate:   time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC),
				LastDate:    time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC),
				TotalReturn: 142.5,
				Elapsed:     9 * time.Second,
			},
			{
				Symbol:  model.NewSymbol("BAD"),
				Success: false,
				Reason:  "unresolvable security",
			},
		},
	}
}

func TestSQLiteRecorder_RoundTrip(t *testing.T) {
	rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("open recorder: %v", err)
	}
	defer rec.Close()

	if last, err := rec.LastRunEnd(); err != nil || !last.IsZero() {
		t.Fatalf("empty manifest: got (%s, %v), want zero time", last, err)
	}

	finished := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	if err := rec.RecordRun(testReport(finished)); err != nil {
		t.Fatalf("record run: %v", err)
	}

	last, err := rec.LastRunEnd()
	if err != nil {
		t.Fatalf("last run end: %v", err)
	}
	want := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	if !last.Equal(want) {
		t.Errorf("last run end = %s, want %s", last, want)
	}
}

func TestSQLiteRecorder_DuplicateRunIDRejected(t *testing.T) {
	rec, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("open recorder: %v", err)
	}
	defer rec.Close()

	finished := time.Now().UTC()
	if err := rec.RecordRun(testReport(finished)); err != nil {
		t.Fatalf("first record: %v", err)
	}
	if err := rec.RecordRun(testReport(finished)); err == nil {
		t.Fatal("expected primary key violation for a repeated run id")
	}
}
