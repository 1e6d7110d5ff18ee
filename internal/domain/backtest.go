package domain

import "time"

// BacktestResult holds the outcome of evaluating a strategy's signals
// over a candle series. One result exists per (strategy, symbol,
// from, to); reruns replace the prior result for that key.
type BacktestResult struct {
	ID       int64
	Strategy string
	Symbol   string
	FromDate time.Time
	ToDate   time.Time

	TotalTrades   int
	WinningTrades int
	LosingTrades  int

	// Returns are percentages (e.g. 12.5 means +12.5%).
	TotalReturn    float64
	MarketReturn   float64
	StrategyReturn float64

	BuySignals  int
	SellSignals int
	WinRate     float64 // percentage of winning trades

	Trades []Trade // per-trade breakdown, not persisted
}
