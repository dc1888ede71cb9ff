package fetch

import (
	"MarketArchiver/internal/model"
)

// PlanChunks splits a date range into provider-sized chunks, oldest first.
// The chunks partition the range contiguously with no gaps or overlaps, and
// no chunk is wider than maxWindowDays. A degenerate range (start == end)
// yields exactly one single-day chunk so that a symbol whose start date is
// "today" is still fetched.
func PlanChunks(r model.DateRange, maxWindowDays int) []model.Chunk {
	if maxWindowDays < 1 {
		maxWindowDays = 1
	}
	var chunks []model.Chunk
	start := r.Start
	for !start.After(r.End) {
		end := start.AddDate(0, 0, maxWindowDays-1)
		if end.After(r.End) {
			end = r.End
		}
		chunks = append(chunks, model.Chunk{
			Index: len(chunks),
			Range: model.DateRange{Start: start, End: end},
		})
		start = end.AddDate(0, 0, 1)
	}
	return chunks
}
