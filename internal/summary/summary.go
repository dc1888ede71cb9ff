// Package summary computes per-series statistics carried in batch reports.
package summary

import (
	"time"

	"MarketArchiver/internal/model"
)

// SeriesStats summarizes one reconciled series for reporting.
type SeriesStats struct {
	Records        int
	FirstDate      time.Time
	LastDate       time.Time
	TotalReturnPct float64
}

// Compute derives stats from an ascending series. An empty series yields
// zero stats; a single bar yields a zero return.
func Compute(bars []model.Bar) SeriesStats {
	if len(bars) == 0 {
		return SeriesStats{}
	}
	stats := SeriesStats{
		Records:   len(bars),
		FirstDate: model.Day(bars[0].Date),
		LastDate:  model.Day(bars[len(bars)-1].Date),
	}
	first := bars[0].Close
	last := bars[len(bars)-1].Close
	if len(bars) > 1 && first != 0 {
		stats.TotalReturnPct = (last - first) / first * 100
	}
	return stats
}
