package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradingStrategyBot/config"
	"tradingStrategyBot/internal/domain"
	"tradingStrategyBot/internal/fetch"
	"tradingStrategyBot/internal/ports"
)

type mockLogger struct{}

func (mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

type mockFetcher struct {
	validateErr    error
	candles        []domain.Candle
	failures       []fetch.ChunkFailure
	reconcileErr   error
	reconcileCalls int
}

func (m *mockFetcher) ValidateRequest(symbol string, from, to time.Time, interval domain.Interval) (domain.Instrument, error) {
	if m.validateErr != nil {
		return domain.Instrument{}, m.validateErr
	}
	return domain.Instrument{Symbol: symbol}, nil
}

func (m *mockFetcher) Reconcile(ctx context.Context, symbol string, from, to time.Time, interval domain.Interval) ([]domain.Candle, []fetch.ChunkFailure, error) {
	m.reconcileCalls++
	return m.candles, m.failures, m.reconcileErr
}

type mockSynthetic struct {
	candles []domain.Candle
	calls   int
}

func (m *mockSynthetic) Generate(from, to time.Time, interval domain.Interval) []domain.Candle {
	m.calls++
	return m.candles
}

type mockStore struct {
	existing  *ports.Artifact
	loadErr   error
	saved     []domain.Candle
	saveCalls int
	artifact  *ports.Artifact
	metas     []ports.ArtifactMeta
}

func (m *mockStore) Save(candles []domain.Candle, symbol string, interval domain.Interval, from, to time.Time) (*ports.ArtifactMeta, error) {
	m.saveCalls++
	m.saved = candles
	return &ports.ArtifactMeta{
		Filename:     "saved.json",
		Symbol:       symbol,
		Interval:     interval,
		RecordsCount: len(candles),
	}, nil
}

func (m *mockStore) Load(symbol string, interval domain.Interval, from, to time.Time) (*ports.Artifact, error) {
	return m.existing, m.loadErr
}

func (m *mockStore) LoadFile(filename string) (*ports.Artifact, error) {
	if m.artifact == nil {
		return nil, ports.ErrNotFound
	}
	return m.artifact, nil
}

func (m *mockStore) List() ([]ports.ArtifactMeta, error) { return m.metas, nil }

type mockSignalRepo struct {
	replaced     []domain.Signal
	count        int
	replaceCalls int
}

func (m *mockSignalRepo) ReplaceForStrategy(ctx context.Context, symbol, strategy string, signals []domain.Signal) (int, error) {
	m.replaceCalls++
	m.replaced = signals
	m.count = len(signals)
	return len(signals), nil
}

func (m *mockSignalRepo) FindBySymbol(ctx context.Context, symbol string, limit int) ([]domain.Signal, error) {
	return nil, nil
}

type mockBacktestRepo struct {
	stored *domain.BacktestResult
}

func (m *mockBacktestRepo) Replace(ctx context.Context, result *domain.BacktestResult) (int64, error) {
	m.stored = result
	result.ID = 1
	return 1, nil
}

func (m *mockBacktestRepo) FindBySymbolBacktests(ctx context.Context, symbol string) ([]domain.BacktestResult, error) {
	return nil, nil
}

type mockStrategy struct {
	signals []domain.Signal
	evalErr error
}

func (m *mockStrategy) Evaluate(ctx context.Context, symbol string, candles []domain.Candle) ([]domain.Signal, error) {
	return m.signals, m.evalErr
}

func (m *mockStrategy) RequiredDataPoints() int { return 6 }
func (m *mockStrategy) Name() string            { return "MACD_MA_CrossOver_Strategy" }

type serviceDeps struct {
	cfg       *config.Config
	fetcher   *mockFetcher
	synthetic *mockSynthetic
	store     *mockStore
	signals   *mockSignalRepo
	backtests *mockBacktestRepo
	strategy  *mockStrategy
}

func newServiceDeps() *serviceDeps {
	return &serviceDeps{
		cfg:       &config.Config{SyntheticOnError: true},
		fetcher:   &mockFetcher{},
		synthetic: &mockSynthetic{},
		store:     &mockStore{},
		signals:   &mockSignalRepo{},
		backtests: &mockBacktestRepo{},
		strategy:  &mockStrategy{},
	}
}

func newTestService(t *testing.T, d *serviceDeps) *DataService {
	t.Helper()
	svc, err := NewDataService(d.cfg, mockLogger{}, d.fetcher, d.synthetic, d.store, d.signals, d.backtests, d.strategy)
	require.NoError(t, err)
	return svc
}

func testWindow() (time.Time, time.Time) {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
}

func testCandles(n int) []domain.Candle {
	candles := make([]domain.Candle, 0, n)
	base := time.Date(2024, 1, 2, 9, 15, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		candles = append(candles, domain.Candle{
			Timestamp: base.Add(time.Duration(i) * 15 * time.Minute),
			Open:      100, High: 101, Low: 99, Close: 100.5, Volume: 1000,
		})
	}
	return candles
}

func TestNewDataService_Validation(t *testing.T) {
	d := newServiceDeps()
	_, err := NewDataService(nil, mockLogger{}, d.fetcher, d.synthetic, d.store, d.signals, d.backtests, d.strategy)
	assert.Error(t, err)

	_, err = NewDataService(d.cfg, mockLogger{}, nil, d.synthetic, d.store, d.signals, d.backtests, d.strategy)
	assert.Error(t, err)

	// Synthetic fallback enabled without a generator is a wiring bug.
	_, err = NewDataService(d.cfg, mockLogger{}, d.fetcher, nil, d.store, d.signals, d.backtests, d.strategy)
	assert.Error(t, err)

	d.cfg.SyntheticOnError = false
	_, err = NewDataService(d.cfg, mockLogger{}, d.fetcher, nil, d.store, d.signals, d.backtests, d.strategy)
	assert.NoError(t, err)
}

func TestFetchData_Success(t *testing.T) {
	d := newServiceDeps()
	d.fetcher.candles = testCandles(10)
	svc := newTestService(t, d)
	from, to := testWindow()

	result, err := svc.FetchData(context.Background(), "RELIANCE", from, to, domain.Interval15Minute)
	require.NoError(t, err)
	assert.Len(t, result.Candles, 10)
	assert.False(t, result.FromCache)
	assert.False(t, result.Synthetic)
	assert.Empty(t, result.Failures)
	assert.Equal(t, 1, d.store.saveCalls)
	assert.Equal(t, 10, result.Meta.RecordsCount)
}

func TestFetchData_ServesExistingArtifact(t *testing.T) {
	d := newServiceDeps()
	d.store.existing = &ports.Artifact{
		Meta: ports.ArtifactMeta{Filename: "existing.json", RecordsCount: 7},
		Data: testCandles(7),
	}
	svc := newTestService(t, d)
	from, to := testWindow()

	result, err := svc.FetchData(context.Background(), "RELIANCE", from, to, domain.Interval15Minute)
	require.NoError(t, err)
	assert.True(t, result.FromCache)
	assert.Equal(t, "existing.json", result.Meta.Filename)
	assert.Len(t, result.Candles, 7)
	assert.Equal(t, 0, d.fetcher.reconcileCalls, "cached request must not refetch")
	assert.Equal(t, 0, d.store.saveCalls)
}

func TestFetchData_PartialFailurePropagated(t *testing.T) {
	d := newServiceDeps()
	d.fetcher.candles = testCandles(5)
	d.fetcher.failures = []fetch.ChunkFailure{{Err: ports.ErrRateLimited}}
	svc := newTestService(t, d)
	from, to := testWindow()

	result, err := svc.FetchData(context.Background(), "RELIANCE", from, to, domain.Interval15Minute)
	require.NoError(t, err)
	assert.Len(t, result.Failures, 1)
	assert.False(t, result.Synthetic)
	// Partial data is still persisted.
	assert.Equal(t, 1, d.store.saveCalls)
	assert.Len(t, d.store.saved, 5)
}

func TestFetchData_SyntheticFallback(t *testing.T) {
	d := newServiceDeps()
	d.fetcher.reconcileErr = ports.ErrAllChunksFailed
	d.synthetic.candles = testCandles(12)
	svc := newTestService(t, d)
	from, to := testWindow()

	result, err := svc.FetchData(context.Background(), "RELIANCE", from, to, domain.Interval15Minute)
	require.NoError(t, err)
	assert.True(t, result.Synthetic)
	assert.Len(t, result.Candles, 12)
	assert.Equal(t, 1, d.synthetic.calls)
	assert.Equal(t, 1, d.store.saveCalls, "synthetic series is persisted like real data")
}

func TestFetchData_TotalFailureWithoutFallback(t *testing.T) {
	d := newServiceDeps()
	d.cfg.SyntheticOnError = false
	d.fetcher.reconcileErr = ports.ErrAllChunksFailed
	svc := newTestService(t, d)
	from, to := testWindow()

	_, err := svc.FetchData(context.Background(), "RELIANCE", from, to, domain.Interval15Minute)
	assert.True(t, errors.Is(err, ports.ErrAllChunksFailed))
	assert.Equal(t, 0, d.synthetic.calls)
	assert.Equal(t, 0, d.store.saveCalls)
}

func TestFetchData_SyntheticProducesNothing(t *testing.T) {
	d := newServiceDeps()
	d.fetcher.reconcileErr = ports.ErrAllChunksFailed
	d.synthetic.candles = nil
	svc := newTestService(t, d)
	from, to := testWindow()

	_, err := svc.FetchData(context.Background(), "RELIANCE", from, to, domain.Interval15Minute)
	assert.True(t, errors.Is(err, ports.ErrEmptyResponse))
}

func TestFetchData_CanceledRunSkipsSynthetic(t *testing.T) {
	d := newServiceDeps()
	d.fetcher.reconcileErr = ports.ErrContextCanceled
	d.synthetic.candles = testCandles(12)
	svc := newTestService(t, d)
	from, to := testWindow()

	_, err := svc.FetchData(context.Background(), "RELIANCE", from, to, domain.Interval15Minute)
	assert.True(t, errors.Is(err, ports.ErrContextCanceled))
	assert.Equal(t, 0, d.synthetic.calls, "aborted run must not be backfilled with synthetic data")
	assert.Equal(t, 0, d.store.saveCalls)
}

func TestFetchData_ValidationError(t *testing.T) {
	d := newServiceDeps()
	d.fetcher.validateErr = ports.ErrUnknownSymbol
	svc := newTestService(t, d)
	from, to := testWindow()

	_, err := svc.FetchData(context.Background(), "NOPE", from, to, domain.Interval15Minute)
	assert.True(t, errors.Is(err, ports.ErrUnknownSymbol))
	assert.Equal(t, 0, d.fetcher.reconcileCalls)
}

func TestRunStrategy_Pipeline(t *testing.T) {
	d := newServiceDeps()
	candles := testCandles(20)
	d.store.artifact = &ports.Artifact{
		Meta: ports.ArtifactMeta{
			Filename: "RELIANCE_15minute.json",
			Symbol:   "RELIANCE",
			FromDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			ToDate:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		},
		Data: candles,
	}
	d.strategy.signals = []domain.Signal{
		{Type: domain.SignalBuy, Timestamp: candles[2].Timestamp, Indicators: domain.IndicatorSnapshot{Close: 100}},
		{Type: domain.SignalSell, Timestamp: candles[6].Timestamp, Indicators: domain.IndicatorSnapshot{Close: 110}},
	}
	svc := newTestService(t, d)

	result, err := svc.RunStrategy(context.Background(), "RELIANCE_15minute.json")
	require.NoError(t, err)
	assert.Equal(t, "RELIANCE", result.Symbol)
	assert.Equal(t, "MACD_MA_CrossOver_Strategy", result.Strategy)
	assert.Equal(t, 2, result.SignalsCreated)

	require.Len(t, d.signals.replaced, 2)
	require.NotNil(t, d.backtests.stored)
	assert.Equal(t, 1, d.backtests.stored.TotalTrades)
	assert.Equal(t, "RELIANCE", d.backtests.stored.Symbol)
	assert.Equal(t, result.Backtest, d.backtests.stored)
}

func TestRunStrategy_EmptyArtifact(t *testing.T) {
	d := newServiceDeps()
	d.store.artifact = &ports.Artifact{
		Meta: ports.ArtifactMeta{Filename: "RELIANCE_empty.json", Symbol: "RELIANCE"},
		Data: nil,
	}
	svc := newTestService(t, d)

	_, err := svc.RunStrategy(context.Background(), "RELIANCE_empty.json")
	assert.True(t, errors.Is(err, ports.ErrCorruptArtifact))
	// An empty artifact must not wipe previously stored results.
	assert.Equal(t, 0, d.signals.replaceCalls)
	assert.Nil(t, d.backtests.stored)
}

func TestRunStrategy_MissingArtifact(t *testing.T) {
	d := newServiceDeps()
	svc := newTestService(t, d)

	_, err := svc.RunStrategy(context.Background(), "missing.json")
	assert.True(t, errors.Is(err, ports.ErrNotFound))
	assert.Nil(t, d.signals.replaced)
}

func TestListArtifacts(t *testing.T) {
	d := newServiceDeps()
	d.store.metas = []ports.ArtifactMeta{{Filename: "a.json"}, {Filename: "b.json"}}
	svc := newTestService(t, d)

	metas, err := svc.ListArtifacts(context.Background())
	require.NoError(t, err)
	assert.Len(t, metas, 2)
}
