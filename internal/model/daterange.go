package model

import (
	"fmt"
	"time"
)

// DateRange is an inclusive pair of calendar dates with Start <= End.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange builds a day-truncated range and enforces the ordering
// invariant.
func NewDateRange(start, end time.Time) (DateRange, error) {
	s, e := Day(start), Day(end)
	if s.After(e) {
		return DateRange{}, fmt.Errorf("invalid date range: start %s after end %s",
			s.Format("2006-01-02"), e.Format("2006-01-02"))
	}
	return DateRange{Start: s, End: e}, nil
}

// Days returns the inclusive width of the range in calendar days. A
// degenerate range (Start == End) has width 1.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start)/(24*time.Hour)) + 1
}

// Contains reports whether a date falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

func (r DateRange) String() string {
	return r.Start.Format("2006-01-02") + ".." + r.End.Format("2006-01-02")
}

// Chunk is one provider-sized slice of a parent DateRange. Index is the
// position in the oldest-first plan and drives reconciliation tie-breaks.
type Chunk struct {
	Index int
	Range DateRange
}
