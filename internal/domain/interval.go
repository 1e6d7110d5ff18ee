package domain

import "time"

// Interval identifies a sampling interval accepted by the Kite
// historical data API.
type Interval string

const (
	IntervalMinute   Interval = "minute"
	Interval3Minute  Interval = "3minute"
	Interval5Minute  Interval = "5minute"
	Interval10Minute Interval = "10minute"
	Interval15Minute Interval = "15minute"
	Interval30Minute Interval = "30minute"
	Interval60Minute Interval = "60minute"
	IntervalDay      Interval = "day"
)

// defaultMaxSpanDays is the most conservative per-call limit, used for
// intervals missing from the table so planning never fails outright.
const defaultMaxSpanDays = 60

// intervalMaxSpanDays maps each interval to the maximum date span (in
// days) the upstream API accepts per historical data call.
var intervalMaxSpanDays = map[Interval]int{
	IntervalMinute:   60,
	Interval3Minute:  100,
	Interval5Minute:  100,
	Interval10Minute: 100,
	Interval15Minute: 200,
	Interval30Minute: 200,
	Interval60Minute: 400,
	IntervalDay:      2000,
}

// intervalDurations gives the bar width of each interval. The daily
// interval is handled separately by callers that care about calendar
// days rather than a fixed duration.
var intervalDurations = map[Interval]time.Duration{
	IntervalMinute:   time.Minute,
	Interval3Minute:  3 * time.Minute,
	Interval5Minute:  5 * time.Minute,
	Interval10Minute: 10 * time.Minute,
	Interval15Minute: 15 * time.Minute,
	Interval30Minute: 30 * time.Minute,
	Interval60Minute: time.Hour,
	IntervalDay:      24 * time.Hour,
}

// ParseInterval normalizes a user-supplied interval string. The API
// aliases "hour" and "daily" map onto 60minute and day.
func ParseInterval(s string) (Interval, bool) {
	switch Interval(s) {
	case IntervalMinute, Interval3Minute, Interval5Minute, Interval10Minute,
		Interval15Minute, Interval30Minute, Interval60Minute, IntervalDay:
		return Interval(s), true
	}
	switch s {
	case "hour":
		return Interval60Minute, true
	case "daily":
		return IntervalDay, true
	}
	return "", false
}

// MaxSpanDays returns the maximum number of days the upstream API
// serves for this interval in a single call. Unknown intervals fall
// back to the most conservative limit.
func (i Interval) MaxSpanDays() int {
	if limit, ok := intervalMaxSpanDays[i]; ok {
		return limit
	}
	return defaultMaxSpanDays
}

// Duration returns the bar width of the interval.
func (i Interval) Duration() time.Duration {
	if d, ok := intervalDurations[i]; ok {
		return d
	}
	return time.Minute
}

// IsIntraday reports whether the interval is finer than one day.
func (i Interval) IsIntraday() bool {
	return i != IntervalDay
}

func (i Interval) String() string {
	return string(i)
}
