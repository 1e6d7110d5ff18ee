package domain

import "time"

// Candle represents a single OHLCV data point.
type Candle struct {
	Timestamp time.Time // Start time of the bar
	Open      float64   // Opening price
	High      float64   // Highest price
	Low       float64   // Lowest price
	Close     float64   // Closing price
	Volume    int64     // Traded volume
}

// IsBullish reports whether the candle closed above its open.
func (c Candle) IsBullish() bool {
	return c.Close > c.Open
}

// DataStats summarises a candle series for display purposes.
type DataStats struct {
	TotalRecords int
	Start        time.Time
	End          time.Time
	MaxHigh      float64
	MinLow       float64
	AvgClose     float64
	TotalVolume  int64
}

// Stats computes summary statistics for a candle series.
// Returns the zero value for an empty series.
func Stats(candles []Candle) DataStats {
	if len(candles) == 0 {
		return DataStats{}
	}

	stats := DataStats{
		TotalRecords: len(candles),
		Start:        candles[0].Timestamp,
		End:          candles[len(candles)-1].Timestamp,
		MaxHigh:      candles[0].High,
		MinLow:       candles[0].Low,
	}

	var closeSum float64
	for _, c := range candles {
		if c.High > stats.MaxHigh {
			stats.MaxHigh = c.High
		}
		if c.Low < stats.MinLow {
			stats.MinLow = c.Low
		}
		closeSum += c.Close
		stats.TotalVolume += c.Volume
	}
	stats.AvgClose = closeSum / float64(len(candles))

	return stats
}
