package strategies

import (
	"context"
	"fmt"
	"math"

	"tradingStrategyBot/internal/domain"
	"tradingStrategyBot/internal/ports"
	"tradingStrategyBot/internal/strategy/indicators"
	"tradingStrategyBot/internal/strategy/resample"

	"github.com/shopspring/decimal"
)

// MACDMACrossoverConfig holds configuration for the MACD + MA
// crossover strategy.
type MACDMACrossoverConfig struct {
	Name       string  // Strategy name stored with every signal
	MAPeriod   int     // Rolling mean window (e.g. 5)
	Confidence float64 // Confidence attached to buy signals (e.g. 0.8)
	MACD       indicators.MACDConfig
}

// MACDMACrossover implements a long-only strategy that enters when a
// short moving average crosses above the prior close while the 15
// minute, hourly and daily timeframes are all bullish, and exits when
// the MACD histogram turns negative just as the moving average rolls
// over from a local peak.
type MACDMACrossover struct {
	*BaseStrategy
	config MACDMACrossoverConfig
}

// NewMACDMACrossover creates a new MACD + MA crossover strategy
// instance.
func NewMACDMACrossover(config MACDMACrossoverConfig, logger ports.Logger) (*MACDMACrossover, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required for strategy")
	}
	if config.Name == "" {
		config.Name = "MACD_MA_CrossOver_Strategy"
	}
	if config.MAPeriod <= 0 {
		config.MAPeriod = 5
	}
	if config.Confidence == 0 {
		config.Confidence = 0.8
	}
	if config.MACD.FastSpan <= 0 || config.MACD.SlowSpan <= 0 || config.MACD.SignalSpan <= 0 {
		config.MACD = indicators.DefaultMACDConfig()
	}
	if config.MACD.FastSpan >= config.MACD.SlowSpan {
		return nil, fmt.Errorf("MACD fast span must be less than slow span")
	}

	return &MACDMACrossover{
		BaseStrategy: NewBaseStrategy(logger),
		config:       config,
	}, nil
}

// Name returns the name of the strategy.
func (m *MACDMACrossover) Name() string {
	return m.config.Name
}

// RequiredDataPoints returns the minimum number of candles needed
// before the strategy can emit anything.
func (m *MACDMACrossover) RequiredDataPoints() int {
	return m.config.MAPeriod + 1
}

// Evaluate resamples the series to 15 minute, hourly and daily
// frames, computes indicators on the 15 minute frame and walks it
// chronologically, alternating between flat and long. Bars whose
// indicator values are still NaN never trigger a signal.
func (m *MACDMACrossover) Evaluate(ctx context.Context, symbol string, candles []domain.Candle) ([]domain.Signal, error) {
	primary := resample.Aggregate(candles, resample.FifteenMinutes)
	hourly := resample.Aggregate(candles, resample.OneHour)
	daily := resample.Aggregate(candles, resample.OneDay)

	if len(primary) < m.RequiredDataPoints() {
		m.logger.Debug(ctx, "Not enough candle data for strategy evaluation",
			map[string]interface{}{"available": len(primary), "required": m.RequiredDataPoints()})
		return nil, nil
	}

	closes := make([]float64, len(primary))
	for i, c := range primary {
		closes[i] = c.Close
	}

	ma := indicators.RollingMean(closes, m.config.MAPeriod)
	macd := indicators.MACD(closes, m.config.MACD)

	var signals []domain.Signal
	inPosition := false
	for i := m.config.MAPeriod; i < len(primary); i++ {
		bar := primary[i]

		// Every bar needs an aligned hourly and daily candle.
		hourBar, ok := resample.LatestAtOrBefore(hourly, bar.Timestamp)
		if !ok {
			continue
		}
		dayBar, ok := resample.LatestAtOrBefore(daily, bar.Timestamp)
		if !ok {
			continue
		}

		if !inPosition {
			maCrossUp := crossedAbovePriorClose(ma[i], closes[i-1])
			allGreen := bar.IsBullish() && hourBar.IsBullish() && dayBar.IsBullish()
			if maCrossUp && allGreen {
				signals = append(signals, m.newSignal(symbol, domain.SignalBuy, bar, ma[i], macd, i))
				inPosition = true
			}
			continue
		}

		if macd.Histogram[i] < 0 && maRollingOver(ma, i) {
			signals = append(signals, m.newSignal(symbol, domain.SignalSell, bar, ma[i], macd, i))
			inPosition = false
		}
	}

	m.logger.Info(ctx, "Strategy evaluation complete", map[string]interface{}{
		"symbol":  symbol,
		"bars":    len(primary),
		"signals": len(signals),
	})
	return signals, nil
}

func (m *MACDMACrossover) newSignal(symbol string, sigType domain.SignalType, bar domain.Candle, maValue float64, macd indicators.MACDResult, i int) domain.Signal {
	return domain.Signal{
		Symbol:     symbol,
		Strategy:   m.config.Name,
		Type:       sigType,
		Timestamp:  bar.Timestamp,
		Price:      decimal.NewFromFloat(bar.Close).Round(2),
		Confidence: m.config.Confidence,
		Indicators: domain.IndicatorSnapshot{
			MA5:           maValue,
			MACD:          macd.Line[i],
			MACDSignal:    macd.Signal[i],
			MACDHistogram: macd.Histogram[i],
			Close:         bar.Close,
			Volume:        bar.Volume,
		},
	}
}

// crossedAbovePriorClose is the entry trigger. NaN comparisons are
// always false, so unfilled MA windows can never enter.
func crossedAbovePriorClose(maValue, priorClose float64) bool {
	return !math.IsNaN(maValue) && maValue > priorClose
}

// maRollingOver reports whether the moving average just turned down
// after rising or holding: ma[i] < ma[i-1] while ma[i-1] >= ma[i-2].
func maRollingOver(ma []float64, i int) bool {
	if i < 2 {
		return false
	}
	if math.IsNaN(ma[i]) || math.IsNaN(ma[i-1]) || math.IsNaN(ma[i-2]) {
		return false
	}
	return ma[i] < ma[i-1] && ma[i-1] >= ma[i-2]
}
