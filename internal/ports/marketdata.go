package ports

import (
	"context"
	"time"

	"tradingStrategyBot/internal/domain"
)

// Session holds the tokens returned by the upstream authentication
// endpoints.
type Session struct {
	AccessToken  string
	RefreshToken string
	UserID       string
}

// MarketDataClient defines the interface for the upstream brokerage
// historical data API. This abstraction decouples the reconciliation
// engine from the concrete HTTP client.
type MarketDataClient interface {
	// HistoricalData retrieves OHLCV candles for an instrument token
	// over an inclusive date range at the given interval. The access
	// token authenticates the call.
	HistoricalData(ctx context.Context, accessToken string, instrumentToken int, from, to time.Time, interval domain.Interval) ([]domain.Candle, error)

	// LoginURL returns the URL a user must visit to obtain a request token.
	LoginURL() string

	// GenerateSession exchanges a request token for access/refresh tokens.
	GenerateSession(ctx context.Context, requestToken string) (*Session, error)

	// RenewAccessToken exchanges a refresh token for a new access token.
	RenewAccessToken(ctx context.Context, refreshToken string) (*Session, error)
}
