package ports

import (
	"context"
	"time"

	"tradingStrategyBot/internal/domain"
)

// SignalRepository defines the interface for storing and retrieving
// trading signals.
type SignalRepository interface {
	// ReplaceForStrategy deletes all prior signals for (symbol,
	// strategy) and inserts the given set in one transaction.
	// Returns the number of signals inserted.
	ReplaceForStrategy(ctx context.Context, symbol, strategy string, signals []domain.Signal) (int, error)
	// FindBySymbol retrieves the most recent signals for a symbol,
	// newest first, up to a limit.
	FindBySymbol(ctx context.Context, symbol string, limit int) ([]domain.Signal, error)
}

// BacktestRepository defines the interface for storing backtest
// results.
type BacktestRepository interface {
	// Replace removes any prior result for (strategy, symbol, from,
	// to) and stores the new one. Returns its assigned ID.
	Replace(ctx context.Context, result *domain.BacktestResult) (int64, error)
	// FindBySymbolBacktests retrieves results for a symbol, newest
	// first.
	FindBySymbolBacktests(ctx context.Context, symbol string) ([]domain.BacktestResult, error)
}

// ArtifactMeta describes a persisted series artifact.
type ArtifactMeta struct {
	Filename     string
	Symbol       string
	Interval     domain.Interval
	FromDate     time.Time
	ToDate       time.Time
	RecordsCount int
	GeneratedAt  time.Time
	FileSizeMB   float64
}

// Artifact is a persisted candle series plus its metadata.
type Artifact struct {
	Meta ArtifactMeta
	Data []domain.Candle
}

// ArtifactStore defines the interface for persisting reconciled candle
// series.
type ArtifactStore interface {
	// Save writes a new artifact and returns its metadata.
	Save(candles []domain.Candle, symbol string, interval domain.Interval, from, to time.Time) (*ArtifactMeta, error)
	// Load retrieves the newest artifact matching (symbol, interval,
	// from, to). Returns nil, nil if none exists.
	Load(symbol string, interval domain.Interval, from, to time.Time) (*Artifact, error)
	// LoadFile retrieves an artifact by its exact filename.
	LoadFile(filename string) (*Artifact, error)
	// List returns all artifact metadata sorted by generation time
	// descending. Unreadable files are skipped, not fatal.
	List() ([]ArtifactMeta, error)
}
