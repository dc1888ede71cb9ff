package fetch

import (
	"testing"
	"time"

	"MarketArchiver/internal/model"
)

func mustRange(t *testing.T, start, end time.Time) model.DateRange {
	t.Helper()
	r, err := model.NewDateRange(start, end)
	if err != nil {
		t.Fatalf("build range: %v", err)
	}
	return r
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPlanChunks_PartitionsWithoutGapsOrOverlaps(t *testing.T) {
	r := mustRange(t, date(2020, 1, 1), date(2022, 9, 27)) // exactly 1001 days
	chunks := PlanChunks(r, 365)

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks for 1001 days at 365/window, got %d", len(chunks))
	}
	if !chunks[0].Range.Start.Equal(r.Start) {
		t.Errorf("first chunk starts at %s, want %s", chunks[0].Range.Start, r.Start)
	}
	if !chunks[len(chunks)-1].Range.End.Equal(r.End) {
		t.Errorf("last chunk ends at %s, want %s", chunks[len(chunks)-1].Range.End, r.End)
	}

	total := 0
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk %d has index %d", i, c.Index)
		}
		if c.Range.Days() > 365 {
			t.Errorf("chunk %d spans %d days, exceeds window", i, c.Range.Days())
		}
		if i > 0 {
			wantStart := chunks[i-1].Range.End.AddDate(0, 0, 1)
			if !c.Range.Start.Equal(wantStart) {
				t.Errorf("chunk %d starts at %s, want %s (contiguous)", i, c.Range.Start, wantStart)
			}
		}
		total += c.Range.Days()
	}
	if total != r.Days() {
		t.Errorf("chunks cover %d days, range has %d", total, r.Days())
	}
}

func TestPlanChunks_SmallRangeIsOneChunk(t *testing.T) {
	r := mustRange(t, date(2024, 1, 1), date(2024, 2, 1))
	chunks := PlanChunks(r, 365)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if !chunks[0].Range.Start.Equal(r.Start) || !chunks[0].Range.End.Equal(r.End) {
		t.Errorf("chunk %s does not match range %s", chunks[0].Range, r)
	}
}

func TestPlanChunks_DegenerateRangeStillFetched(t *testing.T) {
	r := mustRange(t, date(2024, 5, 10), date(2024, 5, 10))
	chunks := PlanChunks(r, 365)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk for a single-day range, got %d", len(chunks))
	}
	if chunks[0].Range.Days() != 1 {
		t.Errorf("chunk spans %d days, want 1", chunks[0].Range.Days())
	}
}
