package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tradingStrategyBot/config"
	"tradingStrategyBot/internal/domain"
	"tradingStrategyBot/internal/fetch"
	"tradingStrategyBot/internal/ports"
	"tradingStrategyBot/internal/strategy/backtesting"
	"tradingStrategyBot/internal/strategy/strategies"
)

// Fetcher reconciles a chunked upstream fetch into a single series.
type Fetcher interface {
	ValidateRequest(symbol string, from, to time.Time, interval domain.Interval) (domain.Instrument, error)
	Reconcile(ctx context.Context, symbol string, from, to time.Time, interval domain.Interval) ([]domain.Candle, []fetch.ChunkFailure, error)
}

// SyntheticSource generates placeholder series when the upstream is
// unreachable.
type SyntheticSource interface {
	Generate(from, to time.Time, interval domain.Interval) []domain.Candle
}

// DataService orchestrates retrieval, persistence and strategy runs.
type DataService struct {
	cfg       *config.Config
	logger    ports.Logger
	fetcher   Fetcher
	synthetic SyntheticSource
	store     ports.ArtifactStore
	signals   ports.SignalRepository
	backtests ports.BacktestRepository
	strategy  strategies.Strategy
}

// NewDataService creates a new application service instance.
func NewDataService(
	cfg *config.Config,
	logger ports.Logger,
	fetcher Fetcher,
	synthetic SyntheticSource,
	store ports.ArtifactStore,
	signals ports.SignalRepository,
	backtests ports.BacktestRepository,
	strat strategies.Strategy,
) (*DataService, error) {

	if cfg == nil || logger == nil || fetcher == nil || store == nil || signals == nil || backtests == nil || strat == nil {
		return nil, fmt.Errorf("missing required dependencies for DataService")
	}
	if cfg.SyntheticOnError && synthetic == nil {
		return nil, fmt.Errorf("synthetic source is required when SYNTHETIC_ON_ERROR is enabled")
	}

	return &DataService{
		cfg:       cfg,
		logger:    logger,
		fetcher:   fetcher,
		synthetic: synthetic,
		store:     store,
		signals:   signals,
		backtests: backtests,
		strategy:  strat,
	}, nil
}

// FetchResult describes the outcome of a data retrieval run. A
// non-empty Failures slice with data present means partial success.
type FetchResult struct {
	Meta      *ports.ArtifactMeta
	Candles   []domain.Candle
	Failures  []fetch.ChunkFailure
	Synthetic bool
	FromCache bool
}

// FetchData retrieves a historical series for the symbol and window,
// persisting the outcome as a new artifact. A previously persisted
// artifact covering the same request is returned as-is instead of
// refetching. When every chunk fails and synthetic fallback is
// enabled, a generated series is persisted in place of real data.
func (s *DataService) FetchData(ctx context.Context, symbol string, from, to time.Time, interval domain.Interval) (*FetchResult, error) {
	op := "FetchData"

	if _, err := s.fetcher.ValidateRequest(symbol, from, to, interval); err != nil {
		return nil, err
	}

	existing, err := s.store.Load(symbol, interval, from, to)
	if err != nil {
		s.logger.Warn(ctx, op+": existing artifact lookup failed, refetching", map[string]interface{}{"error": err.Error()})
	}
	if existing != nil {
		s.logger.Info(ctx, op+": serving existing artifact", map[string]interface{}{
			"filename": existing.Meta.Filename,
			"records":  existing.Meta.RecordsCount,
		})
		meta := existing.Meta
		return &FetchResult{Meta: &meta, Candles: existing.Data, FromCache: true}, nil
	}

	candles, failures, err := s.fetcher.Reconcile(ctx, symbol, from, to, interval)
	synthetic := false
	if err != nil {
		// A canceled run propagates as-is; synthetic fallback covers
		// upstream failure only.
		if errors.Is(err, ports.ErrContextCanceled) || !s.cfg.SyntheticOnError {
			return nil, err
		}
		s.logger.Warn(ctx, op+": upstream fetch failed entirely, generating synthetic series", map[string]interface{}{
			"symbol": symbol,
			"error":  err.Error(),
		})
		candles = s.synthetic.Generate(from, to, interval)
		synthetic = true
		if len(candles) == 0 {
			return nil, fmt.Errorf("%w: no data and synthetic generation produced nothing", ports.ErrEmptyResponse)
		}
	}

	meta, err := s.store.Save(candles, symbol, interval, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to persist fetched series: %w", err)
	}

	s.logger.Info(ctx, op+": series persisted", map[string]interface{}{
		"filename":  meta.Filename,
		"records":   meta.RecordsCount,
		"failures":  len(failures),
		"synthetic": synthetic,
	})
	return &FetchResult{Meta: meta, Candles: candles, Failures: failures, Synthetic: synthetic}, nil
}

// Estimate previews how many upstream calls a fetch would need.
func (s *DataService) Estimate(symbol string, from, to time.Time, interval domain.Interval) (fetch.FetchEstimate, error) {
	if _, err := s.fetcher.ValidateRequest(symbol, from, to, interval); err != nil {
		return fetch.FetchEstimate{}, err
	}
	return fetch.Estimate(from, to, interval), nil
}

// StrategyRunResult summarizes a strategy run over one artifact.
type StrategyRunResult struct {
	Symbol         string
	Strategy       string
	SignalsCreated int
	Backtest       *domain.BacktestResult
}

// RunStrategy evaluates the configured strategy against a persisted
// artifact, replaces the stored signal set for (symbol, strategy) and
// stores a fresh backtest result.
func (s *DataService) RunStrategy(ctx context.Context, filename string) (*StrategyRunResult, error) {
	op := "RunStrategy"

	artifact, err := s.store.LoadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to load artifact %q: %w", filename, err)
	}
	if len(artifact.Data) == 0 {
		return nil, fmt.Errorf("%w: artifact %q contains no data records", ports.ErrCorruptArtifact, filename)
	}
	symbol := artifact.Meta.Symbol

	signals, err := s.strategy.Evaluate(ctx, symbol, artifact.Data)
	if err != nil {
		return nil, fmt.Errorf("strategy evaluation failed for %s: %w", symbol, err)
	}

	created, err := s.signals.ReplaceForStrategy(ctx, symbol, s.strategy.Name(), signals)
	if err != nil {
		return nil, fmt.Errorf("failed to store signals for %s: %w", symbol, err)
	}

	result, err := backtesting.Run(ctx, artifact.Data, signals, backtesting.Config{
		Strategy: s.strategy.Name(),
		Symbol:   symbol,
		FromDate: artifact.Meta.FromDate,
		ToDate:   artifact.Meta.ToDate,
	})
	if err != nil {
		return nil, fmt.Errorf("backtest failed for %s: %w", symbol, err)
	}
	if _, err := s.backtests.Replace(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to store backtest for %s: %w", symbol, err)
	}

	s.logger.Info(ctx, op+": strategy run complete", map[string]interface{}{
		"symbol":         symbol,
		"strategy":       s.strategy.Name(),
		"signalsCreated": created,
		"totalTrades":    result.TotalTrades,
		"strategyReturn": result.StrategyReturn,
	})
	return &StrategyRunResult{
		Symbol:         symbol,
		Strategy:       s.strategy.Name(),
		SignalsCreated: created,
		Backtest:       result,
	}, nil
}

// ListArtifacts returns metadata for every persisted series, newest
// first.
func (s *DataService) ListArtifacts(ctx context.Context) ([]ports.ArtifactMeta, error) {
	metas, err := s.store.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	return metas, nil
}
