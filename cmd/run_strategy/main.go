package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"tradingStrategyBot/config"
	"tradingStrategyBot/internal/adapters/jsonstore"
	"tradingStrategyBot/internal/adapters/kiteclient"
	"tradingStrategyBot/internal/adapters/logger"
	"tradingStrategyBot/internal/adapters/sqlite"
	"tradingStrategyBot/internal/app"
	"tradingStrategyBot/internal/auth"
	"tradingStrategyBot/internal/fetch"
	"tradingStrategyBot/internal/strategy/analytics"
	"tradingStrategyBot/internal/strategy/indicators"
	"tradingStrategyBot/internal/strategy/optimization"
	"tradingStrategyBot/internal/strategy/strategies"
)

func main() {
	fileFlag := flag.String("file", "", "artifact filename to run the strategy on")
	optimizeFlag := flag.Bool("optimize", false, "sweep strategy parameters over the artifact instead of a single run")
	flag.Parse()

	if *fileFlag == "" {
		log.Fatalf("FATAL: -file is required")
	}

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	// 2. Initialize Logger
	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	appLogger.Info(context.Background(), "Logger initialized", map[string]interface{}{"level": cfg.LogLevel})

	// 3. Initialize Repository (Database Adapter)
	repo, err := sqlite.NewRepository(sqlite.Config{
		DBPath: cfg.DBPath,
		Logger: appLogger,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database repository: %v", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			appLogger.Error(context.Background(), err, "Error closing database repository")
		}
	}()

	// 4. Initialize Market Data Client and Token Manager. A strategy
	// run never calls upstream, but the service wiring is uniform.
	kite, err := kiteclient.New(kiteclient.Config{
		APIKey:    cfg.APIKey,
		APISecret: cfg.APISecret,
		Logger:    appLogger,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Kite client: %v", err)
	}
	tokens, err := auth.NewManager(auth.Config{
		Client: kite,
		Store:  repo,
		Logger: appLogger,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize token manager: %v", err)
	}
	reconciler, err := fetch.NewReconciler(fetch.Config{
		Client:     kite,
		Tokens:     tokens,
		Logger:     appLogger,
		ChunkDelay: cfg.ChunkDelay,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize reconciler: %v", err)
	}

	// 5. Initialize Artifact Store
	store, err := jsonstore.New(jsonstore.Config{
		DataDir: cfg.DataDir,
		Logger:  appLogger,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize artifact store: %v", err)
	}

	// 6. Initialize Strategy and Application Service
	strat, err := strategies.NewMACDMACrossover(strategies.MACDMACrossoverConfig{
		Name:       cfg.StrategyName,
		MAPeriod:   cfg.MAPeriod,
		Confidence: cfg.SignalConfidence,
		MACD: indicators.MACDConfig{
			FastSpan:   cfg.MACDFastSpan,
			SlowSpan:   cfg.MACDSlowSpan,
			SignalSpan: cfg.MACDSignalSpan,
		},
	}, appLogger)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize strategy: %v", err)
	}
	service, err := app.NewDataService(cfg, appLogger, reconciler, fetch.NewGenerator(), store, repo, repo, strat)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize data service: %v", err)
	}

	ctx := context.Background()

	if *optimizeFlag {
		runOptimization(ctx, cfg, appLogger, store, *fileFlag)
		return
	}

	// 7. Run the Strategy
	result, err := service.RunStrategy(ctx, *fileFlag)
	if err != nil {
		log.Fatalf("FATAL: Strategy run failed: %v", err)
	}

	bt := result.Backtest
	fmt.Printf("Strategy %s on %s\n", result.Strategy, result.Symbol)
	fmt.Printf("  signals created: %d (buy %d / sell %d)\n", result.SignalsCreated, bt.BuySignals, bt.SellSignals)
	fmt.Printf("  trades: %d (won %d / lost %d, win rate %.2f%%)\n",
		bt.TotalTrades, bt.WinningTrades, bt.LosingTrades, bt.WinRate)
	fmt.Printf("  strategy return: %.2f%%, market return: %.2f%%\n", bt.StrategyReturn, bt.MarketReturn)

	stats := analytics.AnalyzeTrades(bt.Trades)
	if stats.TotalTrades > 0 {
		fmt.Printf("  best trade: %.2f%%, worst trade: %.2f%%, avg holding: %s\n",
			stats.BestTrade*100, stats.WorstTrade*100, stats.AverageHoldingTime)
		fmt.Printf("  max consecutive wins/losses: %d/%d\n",
			stats.MaxConsecutiveWins, stats.MaxConsecutiveLosses)
	}
}

// runOptimization sweeps a small parameter grid over the artifact and
// prints the top results. Nothing is persisted.
func runOptimization(ctx context.Context, cfg *config.Config, appLogger *logger.ZeroLogger, store *jsonstore.Store, filename string) {
	artifact, err := store.LoadFile(filename)
	if err != nil {
		log.Fatalf("FATAL: Failed to load artifact %q: %v", filename, err)
	}

	opt := optimization.NewOptimizer(optimization.Config{
		Symbol:     artifact.Meta.Symbol,
		FromDate:   artifact.Meta.FromDate,
		ToDate:     artifact.Meta.ToDate,
		Confidence: cfg.SignalConfidence,
		Logger:     appLogger,
	})
	candidates := optimization.Grid(
		[]int{3, 5, 8},
		[]int{8, 12},
		[]int{21, 26},
		[]int{7, 9},
	)
	results, err := opt.Optimize(ctx, candidates, artifact.Data)
	if err != nil {
		log.Fatalf("FATAL: Optimization failed: %v", err)
	}

	top := len(results)
	if top > 5 {
		top = 5
	}
	fmt.Printf("Top %d of %d parameter sets for %s:\n", top, len(results), artifact.Meta.Symbol)
	for _, r := range results[:top] {
		fmt.Printf("  MA=%d MACD=%d/%d/%d  return=%.2f%% trades=%d winRate=%.1f%% score=%.2f\n",
			r.Candidate.MAPeriod, r.Candidate.FastSpan, r.Candidate.SlowSpan, r.Candidate.SignalSpan,
			r.Backtest.StrategyReturn, r.Backtest.TotalTrades, r.Backtest.WinRate, r.Score)
	}
}
