package model

import "time"

// Bar represents a single daily (or intraday) OHLCV record. Close is the
// adjusted close as returned by the provider.
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Day truncates a timestamp to its calendar date in UTC. All bar dates and
// range endpoints are compared at day granularity.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
