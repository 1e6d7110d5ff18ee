package fetch

import (
	"time"

	"tradingStrategyBot/internal/domain"
)

// DateChunk is one sub-range of a fetch request, sized to fit within
// the upstream per-call span limit. Start and End are inclusive dates.
type DateChunk struct {
	Start time.Time
	End   time.Time
}

// FetchEstimate reports, without fetching, how a date range will be
// split for the given interval.
type FetchEstimate struct {
	TotalDays        int
	ChunksNeeded     int
	WithinSingleCall bool
}

// Plan splits [from, to] into ordered, contiguous, non-overlapping
// date chunks, each spanning at most the interval's per-call limit.
// Produces at least one chunk for any from <= to.
func Plan(from, to time.Time, interval domain.Interval) []DateChunk {
	from = truncateToDate(from)
	to = truncateToDate(to)
	limit := interval.MaxSpanDays()

	if daysBetween(from, to) <= limit {
		return []DateChunk{{Start: from, End: to}}
	}

	var chunks []DateChunk
	cursor := from
	for !cursor.After(to) {
		end := cursor.AddDate(0, 0, limit)
		if end.After(to) {
			end = to
		}
		chunks = append(chunks, DateChunk{Start: cursor, End: end})
		cursor = end.AddDate(0, 0, 1)
	}
	return chunks
}

// Estimate reports the chunking a fetch would require. It delegates to
// Plan so the preview can never drift from the actual chunk count.
func Estimate(from, to time.Time, interval domain.Interval) FetchEstimate {
	totalDays := daysBetween(truncateToDate(from), truncateToDate(to))
	return FetchEstimate{
		TotalDays:        totalDays,
		ChunksNeeded:     len(Plan(from, to, interval)),
		WithinSingleCall: totalDays <= interval.MaxSpanDays(),
	}
}

// daysBetween returns the number of calendar days from a to b, counted
// by date rather than elapsed hours so DST-shortened days still count
// as full days. Assumes both are date-truncated and a <= b.
func daysBetween(a, b time.Time) int {
	days := 0
	for cursor := a; cursor.Before(b); cursor = cursor.AddDate(0, 0, 1) {
		days++
	}
	return days
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
