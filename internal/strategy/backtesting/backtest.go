package backtesting

import (
	"context"
	"time"

	"tradingStrategyBot/internal/domain"
	"tradingStrategyBot/internal/strategy/resample"
)

// Config holds inputs for a backtest run over an already-evaluated
// signal sequence.
type Config struct {
	Strategy string
	Symbol   string
	FromDate time.Time
	ToDate   time.Time
}

// Run replays the signal sequence against the 15 minute frame of the
// candle series and computes trade and return metrics. Buys and sells
// are paired in order; an unmatched trailing buy is ignored. Per-bar
// strategy returns compound only on bars that close a trade, while
// market returns compound close-over-close on every bar.
func Run(ctx context.Context, candles []domain.Candle, signals []domain.Signal, cfg Config) (*domain.BacktestResult, error) {
	bars := resample.Aggregate(candles, resample.FifteenMinutes)

	result := &domain.BacktestResult{
		Strategy: cfg.Strategy,
		Symbol:   cfg.Symbol,
		FromDate: cfg.FromDate,
		ToDate:   cfg.ToDate,
	}

	var buys, sells []domain.Signal
	for _, sig := range signals {
		switch sig.Type {
		case domain.SignalBuy:
			buys = append(buys, sig)
		case domain.SignalSell:
			sells = append(sells, sig)
		}
	}
	result.BuySignals = len(buys)
	result.SellSignals = len(sells)

	n := len(buys)
	if len(sells) < n {
		n = len(sells)
	}
	if n == 0 {
		return result, nil
	}

	// Per-bar strategy returns keyed by the closing sell's timestamp.
	tradeReturns := make(map[int64]float64, n)
	for k := 0; k < n; k++ {
		buyPrice := buys[k].Indicators.Close
		sellPrice := sells[k].Indicators.Close
		profit := sellPrice - buyPrice
		ret := profit / buyPrice
		tradeReturns[sells[k].Timestamp.Unix()] = ret

		trade := domain.Trade{
			Symbol:    cfg.Symbol,
			BuyTime:   buys[k].Timestamp,
			SellTime:  sells[k].Timestamp,
			BuyPrice:  buyPrice,
			SellPrice: sellPrice,
			Profit:    profit,
			Return:    ret,
		}
		result.Trades = append(result.Trades, trade)
		if profit > 0 {
			result.WinningTrades++
		} else {
			result.LosingTrades++
		}
	}
	result.TotalTrades = n
	result.WinRate = float64(result.WinningTrades) / float64(n) * 100

	cumMarket := 1.0
	cumStrategy := 1.0
	for i, bar := range bars {
		if i > 0 && bars[i-1].Close != 0 {
			cumMarket *= 1 + (bar.Close-bars[i-1].Close)/bars[i-1].Close
		}
		if ret, ok := tradeReturns[bar.Timestamp.Unix()]; ok {
			cumStrategy *= 1 + ret
		}
	}
	result.MarketReturn = (cumMarket - 1) * 100
	result.StrategyReturn = (cumStrategy - 1) * 100
	result.TotalReturn = result.StrategyReturn

	return result, nil
}
