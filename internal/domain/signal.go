package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SignalType represents the direction of a trading signal.
type SignalType string

const (
	SignalBuy  SignalType = "BUY"
	SignalSell SignalType = "SELL"
)

// IndicatorSnapshot captures the indicator values present at the
// moment a signal fired. Stored alongside the signal for later review.
type IndicatorSnapshot struct {
	MA5           float64 `json:"ma_5"`
	MACD          float64 `json:"macd"`
	MACDSignal    float64 `json:"macd_signal"`
	MACDHistogram float64 `json:"macd_histogram"`
	Close         float64 `json:"close"`
	Volume        int64   `json:"volume"`
}

// Signal represents a trading signal emitted by a strategy.
type Signal struct {
	ID         int64
	Symbol     string
	Strategy   string
	Type       SignalType
	Timestamp  time.Time
	Price      decimal.Decimal // signal price, rounded to 2 places
	Confidence float64         // 0.0 to 1.0
	Indicators IndicatorSnapshot
}
