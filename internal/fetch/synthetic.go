package fetch

import (
	"math/rand"
	"time"

	"tradingStrategyBot/internal/domain"
)

// NSE trading session for intraday synthetic bars.
const (
	sessionOpenHour    = 9
	sessionOpenMinute  = 15
	sessionCloseHour   = 15
	sessionCloseMinute = 30
)

// Generator fabricates a plausible OHLCV random walk. It exists so the
// rest of the pipeline stays exercisable without live credentials. It
// is only ever invoked explicitly by a caller that has observed a
// fetch failure; it never silently replaces a partially successful
// real fetch.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a generator with a time-derived seed.
func NewGenerator() *Generator {
	return NewSeededGenerator(time.Now().UnixNano())
}

// NewSeededGenerator returns a generator with a fixed seed, giving
// reproducible series in tests.
func NewSeededGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Generate produces a synthetic candle series over [from, to] at the
// given interval. Intraday intervals emit bars on weekdays within the
// 09:15-15:30 session only; the daily interval emits one bar per
// weekday. Closes chain into the next open so the walk looks like a
// real price path.
func (g *Generator) Generate(from, to time.Time, interval domain.Interval) []domain.Candle {
	from = truncateToDate(from)
	to = truncateToDate(to)
	if from.After(to) {
		return nil
	}

	var candles []domain.Candle
	base := 100.0

	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}

		if interval == domain.IntervalDay {
			c := g.nextCandle(day, base)
			candles = append(candles, c)
			base = c.Close
			continue
		}

		open := time.Date(day.Year(), day.Month(), day.Day(), sessionOpenHour, sessionOpenMinute, 0, 0, day.Location())
		close := time.Date(day.Year(), day.Month(), day.Day(), sessionCloseHour, sessionCloseMinute, 0, 0, day.Location())
		for ts := open; ts.Before(close); ts = ts.Add(interval.Duration()) {
			c := g.nextCandle(ts, base)
			candles = append(candles, c)
			base = c.Close
		}
	}

	return candles
}

// nextCandle builds one bar around the given base price.
func (g *Generator) nextCandle(ts time.Time, base float64) domain.Candle {
	open := base + g.rng.Float64()*4 - 2
	if open < 1 {
		open = 1
	}
	high := open + g.rng.Float64()*2
	low := open - g.rng.Float64()*2
	if low < 0.5 {
		low = 0.5
	}
	close := low + g.rng.Float64()*(high-low)

	return domain.Candle{
		Timestamp: ts,
		Open:      round2(open),
		High:      round2(high),
		Low:       round2(low),
		Close:     round2(close),
		Volume:    int64(1000 + g.rng.Intn(99001)),
	}
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
