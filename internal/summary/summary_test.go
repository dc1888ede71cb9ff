package summary

import (
	"math"
	"testing"
	"time"

	"MarketArchiver/internal/model"
)

func bar(y int, m time.Month, d int, close float64) model.Bar {
	return model.Bar{Date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Close: close}
}

func TestCompute_EmptySeries(t *testing.T) {
	stats := Compute(nil)
	if stats.Records != 0 || stats.TotalReturnPct != 0 {
		t.Errorf("empty series should yield zero stats, got %+v", stats)
	}
}

func TestCompute_SingleBarHasZeroReturn(t *testing.T) {
	stats := Compute([]model.Bar{bar(2024, 1, 2, 150)})
	if stats.Records != 1 {
		t.Errorf("records = %d, want 1", stats.Records)
	}
	if stats.TotalReturnPct != 0 {
		t.Errorf("return = %f, want 0 for a single bar", stats.TotalReturnPct)
	}
}

func TestCompute_TotalReturn(t *testing.T) {
	stats := Compute([]model.Bar{
		bar(2024, 1, 2, 100),
		bar(2024, 1, 3, 110),
		bar(2024, 1, 4, 125),
	})
	if stats.Records != 3 {
		t.Errorf("records = %d, want 3", stats.Records)
	}
	if math.Abs(stats.TotalReturnPct-25) > 1e-9 {
		t.Errorf("return = %f, want 25", stats.TotalReturnPct)
	}
	if stats.FirstDate.Day() != 2 || stats.LastDate.Day() != 4 {
		t.Errorf("date span %s..%s wrong", stats.FirstDate, stats.LastDate)
	}
}

func TestCompute_ZeroFirstCloseGuarded(t *testing.T) {
	stats := Compute([]model.Bar{bar(2024, 1, 2, 0), bar(2024, 1, 3, 10)})
	if stats.TotalReturnPct != 0 {
		t.Errorf("return = %f, want 0 when the first close is zero", stats.TotalReturnPct)
	}
}
