package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"tradingStrategyBot/config"
	"tradingStrategyBot/internal/adapters/jsonstore"
	"tradingStrategyBot/internal/adapters/kiteclient"
	"tradingStrategyBot/internal/adapters/logger"
	"tradingStrategyBot/internal/adapters/sqlite"
	"tradingStrategyBot/internal/app"
	"tradingStrategyBot/internal/auth"
	"tradingStrategyBot/internal/domain"
	"tradingStrategyBot/internal/fetch"
	"tradingStrategyBot/internal/strategy/indicators"
	"tradingStrategyBot/internal/strategy/strategies"
	"tradingStrategyBot/internal/utils"
)

const dateLayout = "2006-01-02"

func main() {
	symbolFlag := flag.String("symbol", "", "instrument symbol, e.g. RELIANCE")
	fromFlag := flag.String("from", "", "start date (YYYY-MM-DD)")
	toFlag := flag.String("to", "", "end date (YYYY-MM-DD)")
	intervalFlag := flag.String("interval", "minute", "candle interval (minute, 5minute, 60minute, day, ...)")
	estimateFlag := flag.Bool("estimate", false, "print the chunk plan without fetching")
	csvFlag := flag.String("csv", "", "also export the fetched series to this CSV file")
	requestTokenFlag := flag.String("request-token", "", "one-time Kite request token to establish a session")
	flag.Parse()

	if *symbolFlag == "" || *fromFlag == "" || *toFlag == "" {
		log.Fatalf("FATAL: -symbol, -from and -to are required")
	}
	from, err := time.Parse(dateLayout, *fromFlag)
	if err != nil {
		log.Fatalf("FATAL: invalid -from date %q: %v", *fromFlag, err)
	}
	to, err := time.Parse(dateLayout, *toFlag)
	if err != nil {
		log.Fatalf("FATAL: invalid -to date %q: %v", *toFlag, err)
	}
	interval, ok := domain.ParseInterval(*intervalFlag)
	if !ok {
		log.Fatalf("FATAL: unknown interval %q", *intervalFlag)
	}

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
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

	// 4. Initialize Market Data Client (Kite Adapter)
	kite, err := kiteclient.New(kiteclient.Config{
		APIKey:    cfg.APIKey,
		APISecret: cfg.APISecret,
		Logger:    appLogger,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Kite client: %v", err)
	}

	// 5. Initialize Token Manager
	tokens, err := auth.NewManager(auth.Config{
		Client: kite,
		Store:  repo,
		Logger: appLogger,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize token manager: %v", err)
	}
	if *requestTokenFlag != "" {
		if err := tokens.Authenticate(context.Background(), *requestTokenFlag); err != nil {
			log.Fatalf("FATAL: Failed to establish session: %v", err)
		}
		appLogger.Info(context.Background(), "Session established from request token")
	}

	// 6. Initialize Reconciler and Artifact Store
	reconciler, err := fetch.NewReconciler(fetch.Config{
		Client:     kite,
		Tokens:     tokens,
		Logger:     appLogger,
		ChunkDelay: cfg.ChunkDelay,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize reconciler: %v", err)
	}
	store, err := jsonstore.New(jsonstore.Config{
		DataDir: cfg.DataDir,
		Logger:  appLogger,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize artifact store: %v", err)
	}

	// 7. Initialize Strategy and Application Service
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

	if *estimateFlag {
		est, err := service.Estimate(*symbolFlag, from, to, interval)
		if err != nil {
			log.Fatalf("FATAL: Estimate failed: %v", err)
		}
		fmt.Printf("Span: %d days, chunks needed: %d, single call: %t\n",
			est.TotalDays, est.ChunksNeeded, est.WithinSingleCall)
		return
	}

	result, err := service.FetchData(ctx, *symbolFlag, from, to, interval)
	if err != nil {
		log.Fatalf("FATAL: Fetch failed: %v", err)
	}

	fmt.Printf("Saved %d candles to %s", result.Meta.RecordsCount, result.Meta.Filename)
	if result.FromCache {
		fmt.Print(" (existing artifact)")
	}
	if result.Synthetic {
		fmt.Print(" (synthetic data)")
	}
	if len(result.Failures) > 0 {
		fmt.Printf(" with %d failed chunks", len(result.Failures))
	}
	fmt.Println()

	stats := domain.Stats(result.Candles)
	if stats.TotalRecords > 0 {
		fmt.Printf("  range: %s to %s\n",
			stats.Start.Format("2006-01-02 15:04"), stats.End.Format("2006-01-02 15:04"))
		fmt.Printf("  high: %.2f, low: %.2f, avg close: %.2f, volume: %d\n",
			stats.MaxHigh, stats.MinLow, stats.AvgClose, stats.TotalVolume)
	}

	if *csvFlag != "" {
		if err := utils.WriteCandlesToCSV(result.Candles, *symbolFlag, interval, *csvFlag); err != nil {
			log.Fatalf("FATAL: CSV export failed: %v", err)
		}
		fmt.Printf("Exported CSV to %s\n", *csvFlag)
	}
}
