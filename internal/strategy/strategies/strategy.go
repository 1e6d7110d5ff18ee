package strategies

import (
	"context"

	"tradingStrategyBot/internal/domain"
	"tradingStrategyBot/internal/ports"
)

// Strategy defines the interface for signal-generating strategies.
type Strategy interface {
	// Evaluate walks a candle series and produces the ordered signal
	// sequence the strategy would have emitted.
	Evaluate(ctx context.Context, symbol string, candles []domain.Candle) ([]domain.Signal, error)

	// RequiredDataPoints returns the minimum number of candles needed
	// before the strategy can emit anything.
	RequiredDataPoints() int

	// Name returns the name of the strategy.
	Name() string
}

// BaseStrategy provides common functionality for strategies.
type BaseStrategy struct {
	logger ports.Logger
}

// NewBaseStrategy creates a new base strategy instance.
func NewBaseStrategy(logger ports.Logger) *BaseStrategy {
	return &BaseStrategy{
		logger: logger,
	}
}
