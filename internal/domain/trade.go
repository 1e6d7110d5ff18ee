package domain

import "time"

// Trade represents a completed round trip: the i-th BUY signal paired
// with the i-th SELL signal in chronological order.
type Trade struct {
	Symbol    string    // Trading symbol
	BuyTime   time.Time // Timestamp of the BUY signal
	SellTime  time.Time // Timestamp of the SELL signal
	BuyPrice  float64   // Close price at the BUY signal
	SellPrice float64   // Close price at the SELL signal
	Profit    float64   // SellPrice - BuyPrice
	Return    float64   // Profit / BuyPrice
}
