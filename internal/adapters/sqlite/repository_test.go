package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradingStrategyBot/internal/domain"
	"tradingStrategyBot/internal/ports"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

func setupTestDB(t *testing.T) (*Repository, func()) {
	t.Helper()
	repo, err := NewRepository(Config{
		DBPath: filepath.Join(t.TempDir(), "test.db"),
		Logger: &mockLogger{},
	})
	require.NoError(t, err)
	return repo, func() { repo.Close() }
}

func testSignal(sigType domain.SignalType, ts time.Time, price float64) domain.Signal {
	return domain.Signal{
		Symbol:     "RELIANCE",
		Strategy:   "MACD_MA_CrossOver_Strategy",
		Type:       sigType,
		Timestamp:  ts,
		Price:      decimal.NewFromFloat(price),
		Confidence: 0.8,
		Indicators: domain.IndicatorSnapshot{
			MA5:           price - 0.5,
			MACD:          0.12,
			MACDSignal:    0.10,
			MACDHistogram: 0.02,
			Close:         price,
			Volume:        5000,
		},
	}
}

func TestNewRepository_RequiresLogger(t *testing.T) {
	_, err := NewRepository(Config{DBPath: filepath.Join(t.TempDir(), "test.db")})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "logger is required")
}

func TestRepository_ReplaceForStrategy(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()
	base := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)

	first := []domain.Signal{
		testSignal(domain.SignalBuy, base, 2500.10),
		testSignal(domain.SignalSell, base.Add(time.Hour), 2520.55),
		testSignal(domain.SignalBuy, base.Add(2*time.Hour), 2510.00),
	}
	count, err := repo.ReplaceForStrategy(ctx, "RELIANCE", "MACD_MA_CrossOver_Strategy", first)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// A rerun replaces the prior set rather than appending to it.
	second := []domain.Signal{
		testSignal(domain.SignalBuy, base, 2500.10),
		testSignal(domain.SignalSell, base.Add(time.Hour), 2520.55),
	}
	count, err = repo.ReplaceForStrategy(ctx, "RELIANCE", "MACD_MA_CrossOver_Strategy", second)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	stored, err := repo.FindBySymbol(ctx, "RELIANCE", 100)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestRepository_FindBySymbol(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()
	base := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)

	signals := []domain.Signal{
		testSignal(domain.SignalBuy, base, 2500.10),
		testSignal(domain.SignalSell, base.Add(time.Hour), 2520.556),
		testSignal(domain.SignalBuy, base.Add(2*time.Hour), 2510.00),
	}
	_, err := repo.ReplaceForStrategy(ctx, "RELIANCE", "MACD_MA_CrossOver_Strategy", signals)
	require.NoError(t, err)

	stored, err := repo.FindBySymbol(ctx, "RELIANCE", 2)
	require.NoError(t, err)
	require.Len(t, stored, 2, "limit should cap the result set")

	// Newest first.
	assert.True(t, stored[0].Timestamp.After(stored[1].Timestamp))
	assert.Equal(t, domain.SignalBuy, stored[0].Type)

	// Prices are persisted rounded to 2 places.
	assert.Equal(t, "2520.56", stored[1].Price.String())
	assert.Equal(t, domain.SignalSell, stored[1].Type)
	assert.InDelta(t, 0.8, stored[1].Confidence, 1e-9)
	assert.InDelta(t, 2520.556, stored[1].Indicators.Close, 1e-9)
	assert.Equal(t, int64(5000), stored[1].Indicators.Volume)

	none, err := repo.FindBySymbol(ctx, "NIFTY50", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRepository_ReplaceBacktest(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	result := &domain.BacktestResult{
		Strategy:       "MACD_MA_CrossOver_Strategy",
		Symbol:         "RELIANCE",
		FromDate:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ToDate:         time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		TotalTrades:    4,
		WinningTrades:  3,
		LosingTrades:   1,
		TotalReturn:    12.4,
		MarketReturn:   5.1,
		StrategyReturn: 12.4,
		BuySignals:     5,
		SellSignals:    4,
		WinRate:        75,
	}
	id, err := repo.Replace(ctx, result)
	require.NoError(t, err)
	assert.Greater(t, id, int64(0))
	assert.Equal(t, id, result.ID)

	// Rerun for the same window replaces the stored row.
	result.TotalReturn = 8.2
	result.StrategyReturn = 8.2
	_, err = repo.Replace(ctx, result)
	require.NoError(t, err)

	stored, err := repo.FindBySymbolBacktests(ctx, "RELIANCE")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.InDelta(t, 8.2, stored[0].TotalReturn, 1e-9)
	assert.Equal(t, 4, stored[0].TotalTrades)
	assert.InDelta(t, 75, stored[0].WinRate, 1e-9)

	// A different window is a separate result.
	other := *result
	other.ID = 0
	other.ToDate = time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	_, err = repo.Replace(ctx, &other)
	require.NoError(t, err)

	stored, err = repo.FindBySymbolBacktests(ctx, "RELIANCE")
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestRepository_Credentials(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	creds, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, creds, "empty store should yield nil, nil")

	stored := &ports.Credentials{
		APIKey:      "key123",
		APISecret:   "secret456",
		AccessToken: "token789",
		UserID:      "AB1234",
		ExpiresAt:   time.Date(2025, 6, 2, 6, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Put(ctx, stored))
	assert.Equal(t, int64(1), stored.ID)

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "key123", got.APIKey)
	assert.Equal(t, "token789", got.AccessToken)
	assert.Equal(t, "AB1234", got.UserID)
	assert.True(t, got.ExpiresAt.Equal(stored.ExpiresAt))

	// Put is an upsert on the single row.
	stored.AccessToken = "newtoken"
	stored.ExpiresAt = time.Time{}
	require.NoError(t, repo.Put(ctx, stored))

	got, err = repo.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "newtoken", got.AccessToken)
	assert.True(t, got.ExpiresAt.IsZero())
}
