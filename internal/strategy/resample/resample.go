// Package resample aggregates candle series into coarser timeframes
// using standard OHLCV rules: first open, max high, min low, last
// close, summed volume. Buckets with no source candles are dropped.
package resample

import (
	"sort"
	"time"

	"tradingStrategyBot/internal/domain"
)

// Common aggregation timeframes.
const (
	FifteenMinutes = 15 * time.Minute
	OneHour        = time.Hour
	OneDay         = 24 * time.Hour
)

// Aggregate resamples candles into buckets of the given width. The
// input is sorted by timestamp first; each output candle carries the
// bucket start as its timestamp.
func Aggregate(candles []domain.Candle, bucket time.Duration) []domain.Candle {
	if len(candles) == 0 || bucket <= 0 {
		return nil
	}

	sorted := make([]domain.Candle, len(candles))
	copy(sorted, candles)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var out []domain.Candle
	var cur domain.Candle
	var open bool
	for _, c := range sorted {
		start := bucketStart(c.Timestamp, bucket)
		if !open || !start.Equal(cur.Timestamp) {
			if open {
				out = append(out, cur)
			}
			cur = domain.Candle{
				Timestamp: start,
				Open:      c.Open,
				High:      c.High,
				Low:       c.Low,
				Close:     c.Close,
				Volume:    c.Volume,
			}
			open = true
			continue
		}
		if c.High > cur.High {
			cur.High = c.High
		}
		if c.Low < cur.Low {
			cur.Low = c.Low
		}
		cur.Close = c.Close
		cur.Volume += c.Volume
	}
	if open {
		out = append(out, cur)
	}
	return out
}

// bucketStart truncates a timestamp to its bucket boundary. Daily
// buckets align to local midnight rather than a fixed epoch offset so
// that session candles on the same calendar day share a bucket.
func bucketStart(ts time.Time, bucket time.Duration) time.Time {
	if bucket >= OneDay {
		return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())
	}
	return ts.Truncate(bucket)
}

// LatestAtOrBefore returns the newest candle whose bucket timestamp is
// not after ts, or false when every candle is newer.
func LatestAtOrBefore(candles []domain.Candle, ts time.Time) (domain.Candle, bool) {
	var best domain.Candle
	var found bool
	for _, c := range candles {
		if c.Timestamp.After(ts) {
			continue
		}
		if !found || c.Timestamp.After(best.Timestamp) {
			best = c
			found = true
		}
	}
	return best, found
}
