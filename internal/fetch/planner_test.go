package fetch

import (
	"testing"
	"time"

	"tradingStrategyBot/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPlan(t *testing.T) {
	tests := []struct {
		name     string
		from     time.Time
		to       time.Time
		interval domain.Interval
		want     []DateChunk
	}{
		{
			name:     "single day",
			from:     date(2024, 1, 15),
			to:       date(2024, 1, 15),
			interval: domain.IntervalMinute,
			want: []DateChunk{
				{Start: date(2024, 1, 15), End: date(2024, 1, 15)},
			},
		},
		{
			name:     "within limit single chunk",
			from:     date(2024, 1, 1),
			to:       date(2024, 2, 29),
			interval: domain.IntervalMinute,
			want: []DateChunk{
				{Start: date(2024, 1, 1), End: date(2024, 2, 29)},
			},
		},
		{
			name:     "minute interval three months splits in two",
			from:     date(2024, 1, 1),
			to:       date(2024, 4, 1),
			interval: domain.IntervalMinute,
			want: []DateChunk{
				{Start: date(2024, 1, 1), End: date(2024, 3, 1)},
				{Start: date(2024, 3, 2), End: date(2024, 4, 1)},
			},
		},
		{
			name:     "day interval long range single chunk",
			from:     date(2020, 1, 1),
			to:       date(2024, 1, 1),
			interval: domain.IntervalDay,
			want: []DateChunk{
				{Start: date(2020, 1, 1), End: date(2024, 1, 1)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Plan(tt.from, tt.to, tt.interval)
			if len(got) != len(tt.want) {
				t.Fatalf("Plan() returned %d chunks, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if !got[i].Start.Equal(tt.want[i].Start) || !got[i].End.Equal(tt.want[i].End) {
					t.Errorf("chunk %d = [%s, %s], want [%s, %s]", i,
						got[i].Start.Format("2006-01-02"), got[i].End.Format("2006-01-02"),
						tt.want[i].Start.Format("2006-01-02"), tt.want[i].End.Format("2006-01-02"))
				}
			}
		})
	}
}

// Chunks must tile the requested range exactly: contiguous, ordered,
// and each within the interval's span limit.
func TestPlan_Contiguity(t *testing.T) {
	intervals := []domain.Interval{
		domain.IntervalMinute,
		domain.Interval5Minute,
		domain.Interval15Minute,
		domain.Interval60Minute,
		domain.IntervalDay,
	}
	from := date(2023, 1, 1)
	to := date(2024, 12, 31)

	for _, interval := range intervals {
		t.Run(string(interval), func(t *testing.T) {
			chunks := Plan(from, to, interval)
			if len(chunks) == 0 {
				t.Fatal("expected at least one chunk")
			}
			if !chunks[0].Start.Equal(from) {
				t.Errorf("first chunk starts at %s, want %s", chunks[0].Start, from)
			}
			if !chunks[len(chunks)-1].End.Equal(to) {
				t.Errorf("last chunk ends at %s, want %s", chunks[len(chunks)-1].End, to)
			}
			limit := interval.MaxSpanDays()
			for i, c := range chunks {
				if c.End.Before(c.Start) {
					t.Errorf("chunk %d end before start", i)
				}
				if daysBetween(c.Start, c.End) > limit {
					t.Errorf("chunk %d spans %d days, limit %d", i, daysBetween(c.Start, c.End), limit)
				}
				if i > 0 && !chunks[i-1].End.AddDate(0, 0, 1).Equal(c.Start) {
					t.Errorf("gap between chunk %d and %d", i-1, i)
				}
			}
		})
	}
}

func TestPlan_TwoYearsMinute(t *testing.T) {
	chunks := Plan(date(2023, 1, 1), date(2024, 12, 31), domain.IntervalMinute)
	if len(chunks) != 12 {
		t.Errorf("two years of minute data planned as %d chunks, want 12", len(chunks))
	}
}

func TestPlan_SplitsAcrossDSTTransition(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	}

	// The range spans the 2024-03-10 spring-forward, so it covers 61
	// calendar days but only 60.96 elapsed 24-hour periods. Elapsed-hour
	// arithmetic would undercount and plan a single over-limit chunk.
	from, to := day(2024, 2, 1), day(2024, 4, 2)
	if got := daysBetween(from, to); got != 61 {
		t.Errorf("daysBetween = %d, want 61", got)
	}

	chunks := Plan(from, to, domain.IntervalMinute)
	if len(chunks) != 2 {
		t.Fatalf("Plan() returned %d chunks, want 2", len(chunks))
	}
	if !chunks[0].End.Equal(day(2024, 4, 1)) || !chunks[1].Start.Equal(day(2024, 4, 2)) {
		t.Errorf("chunk boundary = [%s | %s], want [2024-04-01 | 2024-04-02]",
			chunks[0].End.Format("2006-01-02"), chunks[1].Start.Format("2006-01-02"))
	}
}

func TestEstimate(t *testing.T) {
	tests := []struct {
		name       string
		from       time.Time
		to         time.Time
		interval   domain.Interval
		wantDays   int
		wantChunks int
		wantSingle bool
	}{
		{
			name:       "minute within limit",
			from:       date(2024, 1, 1),
			to:         date(2024, 2, 15),
			interval:   domain.IntervalMinute,
			wantDays:   45,
			wantChunks: 1,
			wantSingle: true,
		},
		{
			name:       "minute over limit",
			from:       date(2024, 1, 1),
			to:         date(2024, 4, 1),
			interval:   domain.IntervalMinute,
			wantDays:   91,
			wantChunks: 2,
			wantSingle: false,
		},
		{
			name:       "hourly interval",
			from:       date(2023, 1, 1),
			to:         date(2024, 12, 31),
			interval:   domain.Interval60Minute,
			wantDays:   730,
			wantChunks: 2,
			wantSingle: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Estimate(tt.from, tt.to, tt.interval)
			if got.TotalDays != tt.wantDays {
				t.Errorf("TotalDays = %d, want %d", got.TotalDays, tt.wantDays)
			}
			if got.ChunksNeeded != tt.wantChunks {
				t.Errorf("ChunksNeeded = %d, want %d", got.ChunksNeeded, tt.wantChunks)
			}
			if got.WithinSingleCall != tt.wantSingle {
				t.Errorf("WithinSingleCall = %t, want %t", got.WithinSingleCall, tt.wantSingle)
			}
		})
	}
}
