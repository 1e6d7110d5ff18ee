package optimization

import (
	"context"
	"sort"
	"sync"
	"time"

	"tradingStrategyBot/internal/domain"
	"tradingStrategyBot/internal/ports"
	"tradingStrategyBot/internal/strategy/analytics"
	"tradingStrategyBot/internal/strategy/backtesting"
	"tradingStrategyBot/internal/strategy/indicators"
	"tradingStrategyBot/internal/strategy/strategies"
)

// Candidate is one parameter combination to evaluate.
type Candidate struct {
	MAPeriod   int
	FastSpan   int
	SlowSpan   int
	SignalSpan int
}

// Result holds the outcome of evaluating one candidate.
type Result struct {
	Candidate Candidate
	Backtest  *domain.BacktestResult
	Stats     *analytics.TradeStats
	Score     float64
}

// Config holds configuration for the optimizer.
type Config struct {
	Symbol        string
	FromDate      time.Time
	ToDate        time.Time
	Confidence    float64
	Logger        ports.Logger
	ScoreFunction func(*domain.BacktestResult, *analytics.TradeStats) float64
}

// Optimizer evaluates strategy parameter combinations against one
// candle series and ranks them.
type Optimizer struct {
	config Config
}

// NewOptimizer creates a new optimizer instance.
func NewOptimizer(config Config) *Optimizer {
	if config.ScoreFunction == nil {
		config.ScoreFunction = DefaultScoreFunction
	}
	return &Optimizer{config: config}
}

// Optimize backtests every candidate concurrently and returns results
// sorted by score, best first. Candidates whose strategy construction
// or evaluation fails are dropped.
func (o *Optimizer) Optimize(ctx context.Context, candidates []Candidate, candles []domain.Candle) ([]Result, error) {
	resultChan := make(chan Result, len(candidates))
	var wg sync.WaitGroup

	for _, cand := range candidates {
		wg.Add(1)
		go func(cand Candidate) {
			defer wg.Done()

			strat, err := strategies.NewMACDMACrossover(strategies.MACDMACrossoverConfig{
				MAPeriod:   cand.MAPeriod,
				Confidence: o.config.Confidence,
				MACD: indicators.MACDConfig{
					FastSpan:   cand.FastSpan,
					SlowSpan:   cand.SlowSpan,
					SignalSpan: cand.SignalSpan,
				},
			}, o.config.Logger)
			if err != nil {
				return
			}

			signals, err := strat.Evaluate(ctx, o.config.Symbol, candles)
			if err != nil {
				return
			}

			backtest, err := backtesting.Run(ctx, candles, signals, backtesting.Config{
				Strategy: strat.Name(),
				Symbol:   o.config.Symbol,
				FromDate: o.config.FromDate,
				ToDate:   o.config.ToDate,
			})
			if err != nil {
				return
			}

			stats := analytics.AnalyzeTrades(backtest.Trades)
			resultChan <- Result{
				Candidate: cand,
				Backtest:  backtest,
				Stats:     stats,
				Score:     o.config.ScoreFunction(backtest, stats),
			}
		}(cand)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]Result, 0, len(candidates))
	for result := range resultChan {
		results = append(results, result)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return results, nil
}

// Grid expands parameter ranges into the full candidate set. Invalid
// combinations (fast span not below slow span) are skipped.
func Grid(maPeriods, fastSpans, slowSpans, signalSpans []int) []Candidate {
	var out []Candidate
	for _, ma := range maPeriods {
		for _, fast := range fastSpans {
			for _, slow := range slowSpans {
				if fast >= slow {
					continue
				}
				for _, sig := range signalSpans {
					out = append(out, Candidate{
						MAPeriod:   ma,
						FastSpan:   fast,
						SlowSpan:   slow,
						SignalSpan: sig,
					})
				}
			}
		}
	}
	return out
}

// DefaultScoreFunction weighs return against trade quality.
func DefaultScoreFunction(backtest *domain.BacktestResult, stats *analytics.TradeStats) float64 {
	score := backtest.StrategyReturn
	score += stats.WinRate * 10
	score += float64(backtest.TotalTrades) * 0.1
	return score
}
