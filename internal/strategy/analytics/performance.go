package analytics

import (
	"sort"
	"time"

	"tradingStrategyBot/internal/domain"
)

// TradeStats holds summary statistics over a completed trade list.
type TradeStats struct {
	TotalTrades          int
	WinningTrades        int
	LosingTrades         int
	WinRate              float64
	AverageWin           float64 // mean return of winning trades
	AverageLoss          float64 // mean return of losing trades, negative or zero
	ProfitFactor         float64 // AverageWin / -AverageLoss
	BestTrade            float64
	WorstTrade           float64
	MaxConsecutiveWins   int
	MaxConsecutiveLosses int
	AverageHoldingTime   time.Duration
	MonthlyReturns       map[string]float64 // "2006-01" -> summed trade returns
}

// AnalyzeTrades calculates summary statistics from completed trades.
func AnalyzeTrades(trades []domain.Trade) *TradeStats {
	stats := &TradeStats{
		MonthlyReturns: make(map[string]float64),
	}
	if len(trades) == 0 {
		return stats
	}

	sorted := make([]domain.Trade, len(trades))
	copy(sorted, trades)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].BuyTime.Before(sorted[j].BuyTime)
	})

	var consecutiveWins, consecutiveLosses int
	var totalHolding time.Duration
	stats.BestTrade = sorted[0].Return
	stats.WorstTrade = sorted[0].Return

	for _, trade := range sorted {
		stats.TotalTrades++
		if trade.Profit > 0 {
			stats.WinningTrades++
			consecutiveWins++
			consecutiveLosses = 0
			stats.AverageWin = (stats.AverageWin*float64(stats.WinningTrades-1) + trade.Return) / float64(stats.WinningTrades)
		} else {
			stats.LosingTrades++
			consecutiveLosses++
			consecutiveWins = 0
			stats.AverageLoss = (stats.AverageLoss*float64(stats.LosingTrades-1) + trade.Return) / float64(stats.LosingTrades)
		}
		if consecutiveWins > stats.MaxConsecutiveWins {
			stats.MaxConsecutiveWins = consecutiveWins
		}
		if consecutiveLosses > stats.MaxConsecutiveLosses {
			stats.MaxConsecutiveLosses = consecutiveLosses
		}

		if trade.Return > stats.BestTrade {
			stats.BestTrade = trade.Return
		}
		if trade.Return < stats.WorstTrade {
			stats.WorstTrade = trade.Return
		}

		totalHolding += trade.SellTime.Sub(trade.BuyTime)
		stats.MonthlyReturns[trade.SellTime.Format("2006-01")] += trade.Return
	}

	stats.WinRate = float64(stats.WinningTrades) / float64(stats.TotalTrades)
	if stats.AverageLoss != 0 {
		stats.ProfitFactor = stats.AverageWin / -stats.AverageLoss
	}
	stats.AverageHoldingTime = totalHolding / time.Duration(stats.TotalTrades)

	return stats
}

// MonthlyReturn represents a single month's summed trade return.
type MonthlyReturn struct {
	Month  time.Time
	Return float64
}

// GetMonthlyReturns returns the monthly returns as a sorted slice.
func (s *TradeStats) GetMonthlyReturns() []MonthlyReturn {
	returns := make([]MonthlyReturn, 0, len(s.MonthlyReturns))
	for month, ret := range s.MonthlyReturns {
		date, _ := time.Parse("2006-01", month)
		returns = append(returns, MonthlyReturn{Month: date, Return: ret})
	}
	sort.Slice(returns, func(i, j int) bool {
		return returns[i].Month.Before(returns[j].Month)
	})
	return returns
}
