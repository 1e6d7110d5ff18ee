package fetch

import (
	"context"
	"fmt"
	"sort"
	"time"

	"tradingStrategyBot/internal/domain"
	"tradingStrategyBot/internal/ports"
)

// TokenSource supplies a valid access token, refreshing at most once
// if the stored token has expired.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// ChunkFailure records one sub-range that failed to fetch during a
// reconciliation pass.
type ChunkFailure struct {
	Chunk DateChunk
	Err   error
}

// Reconciler drives the chunk planner and the upstream client across a
// full date range, merging per-chunk results into one clean series.
type Reconciler struct {
	client     ports.MarketDataClient
	tokens     TokenSource
	logger     ports.Logger
	chunkDelay time.Duration
	now        func() time.Time
}

// Config holds configuration for the Reconciler.
type Config struct {
	Client     ports.MarketDataClient
	Tokens     TokenSource
	Logger     ports.Logger
	ChunkDelay time.Duration // pause between chunk fetches; default 1s
}

// NewReconciler creates a new Reconciler instance.
func NewReconciler(cfg Config) (*Reconciler, error) {
	if cfg.Client == nil || cfg.Tokens == nil || cfg.Logger == nil {
		return nil, fmt.Errorf("client, token source and logger are required for reconciler")
	}
	delay := cfg.ChunkDelay
	if delay <= 0 {
		delay = time.Second
	}
	return &Reconciler{
		client:     cfg.Client,
		tokens:     cfg.Tokens,
		logger:     cfg.Logger,
		chunkDelay: delay,
		now:        time.Now,
	}, nil
}

// ValidateRequest rejects bad input before any upstream call is made.
func (r *Reconciler) ValidateRequest(symbol string, from, to time.Time, interval domain.Interval) (domain.Instrument, error) {
	inst, ok := domain.LookupInstrument(symbol)
	if !ok {
		return domain.Instrument{}, fmt.Errorf("%w: %s", ports.ErrUnknownSymbol, symbol)
	}
	if _, ok := domain.ParseInterval(interval.String()); !ok {
		return domain.Instrument{}, fmt.Errorf("%w: %s", ports.ErrUnknownInterval, interval)
	}
	if from.After(to) {
		return domain.Instrument{}, fmt.Errorf("%w: from date %s is after to date %s", ports.ErrInvalidDates, from.Format("2006-01-02"), to.Format("2006-01-02"))
	}
	if truncateToDate(to).After(truncateToDate(r.now())) {
		return domain.Instrument{}, fmt.Errorf("%w: to date %s is in the future", ports.ErrInvalidDates, to.Format("2006-01-02"))
	}
	return inst, nil
}

// Reconcile fetches the full series for symbol over [from, to] at the
// given interval. Chunks are fetched strictly in order with a fixed
// inter-chunk delay. A failing chunk is recorded and skipped; the
// operation errors only when no chunk yields any data. The returned
// series is deduplicated by timestamp (first seen wins, covering
// inclusive-endpoint overlap at chunk boundaries) and sorted
// ascending.
func (r *Reconciler) Reconcile(ctx context.Context, symbol string, from, to time.Time, interval domain.Interval) ([]domain.Candle, []ChunkFailure, error) {
	inst, err := r.ValidateRequest(symbol, from, to, interval)
	if err != nil {
		return nil, nil, err
	}

	// A single token fetch (and at most one refresh) covers the whole
	// reconciliation, never one refresh per chunk.
	accessToken, err := r.tokens.Token(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("authentication failed before fetch: %w", err)
	}

	chunks := Plan(from, to, interval)
	r.logger.Info(ctx, "Starting chunked fetch", map[string]interface{}{
		"symbol":   inst.Symbol,
		"interval": interval.String(),
		"chunks":   len(chunks),
	})

	var all []domain.Candle
	var failures []ChunkFailure

	for i, chunk := range chunks {
		if i > 0 {
			// Fixed pacing between upstream calls to respect request-rate limits.
			select {
			case <-time.After(r.chunkDelay):
			case <-ctx.Done():
				return nil, failures, fmt.Errorf("%w: %v", ports.ErrContextCanceled, ctx.Err())
			}
		}

		candles, err := r.client.HistoricalData(ctx, accessToken, inst.Token, chunk.Start, chunk.End, interval)
		if err != nil {
			r.logger.Warn(ctx, "Chunk fetch failed, continuing with remaining chunks", map[string]interface{}{
				"symbol": inst.Symbol,
				"start":  chunk.Start.Format("2006-01-02"),
				"end":    chunk.End.Format("2006-01-02"),
				"error":  err.Error(),
			})
			failures = append(failures, ChunkFailure{Chunk: chunk, Err: err})
			continue
		}
		all = append(all, candles...)
	}

	if len(all) == 0 {
		return nil, failures, fmt.Errorf("%w: %d of %d chunks failed", ports.ErrAllChunksFailed, len(failures), len(chunks))
	}

	series := dedupeAndSort(all)
	r.logger.Info(ctx, "Reconciliation complete", map[string]interface{}{
		"symbol":        inst.Symbol,
		"records":       len(series),
		"failedChunks":  len(failures),
		"plannedChunks": len(chunks),
	})
	return series, failures, nil
}

// dedupeAndSort removes duplicate timestamps (first seen wins) and
// orders the series chronologically.
func dedupeAndSort(candles []domain.Candle) []domain.Candle {
	seen := make(map[int64]struct{}, len(candles))
	out := make([]domain.Candle, 0, len(candles))
	for _, c := range candles {
		key := c.Timestamp.Unix()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}
