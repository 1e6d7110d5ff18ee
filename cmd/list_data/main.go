package main

import (
	"context"
	"fmt"
	"log"

	"tradingStrategyBot/config"
	"tradingStrategyBot/internal/adapters/jsonstore"
	"tradingStrategyBot/internal/adapters/logger"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	// 2. Initialize Logger
	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	// 3. Initialize Artifact Store and list everything it holds
	store, err := jsonstore.New(jsonstore.Config{
		DataDir: cfg.DataDir,
		Logger:  appLogger,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize artifact store: %v", err)
	}

	metas, err := store.List()
	if err != nil {
		appLogger.Error(context.Background(), err, "Failed to list artifacts")
		log.Fatalf("FATAL: Failed to list artifacts: %v", err)
	}

	if len(metas) == 0 {
		fmt.Println("No persisted series found.")
		return
	}

	fmt.Printf("%-12s %-10s %-12s %-12s %8s %8s  %s\n",
		"SYMBOL", "INTERVAL", "FROM", "TO", "RECORDS", "SIZE(MB)", "FILE")
	for _, m := range metas {
		fmt.Printf("%-12s %-10s %-12s %-12s %8d %8.2f  %s\n",
			m.Symbol, m.Interval,
			m.FromDate.Format("2006-01-02"), m.ToDate.Format("2006-01-02"),
			m.RecordsCount, m.FileSizeMB, m.Filename)
	}
}
