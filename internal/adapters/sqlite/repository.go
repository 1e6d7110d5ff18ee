package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"tradingStrategyBot/internal/domain"
	"tradingStrategyBot/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/shopspring/decimal"
)

// Repository implements ports.SignalRepository, ports.BacktestRepository
// and ports.CredentialStore using SQLite.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository creates a new SQLite repository instance.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/strategy.db"
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory %q: %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000") // WAL mode for better concurrency
	if err != nil {
		err = fmt.Errorf("%w: failed to open database at %q: %v", ports.ErrDBConnection, dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("%w: failed to ping database at %q: %v", ports.ErrDBConnection, dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// The sqlite3 driver serializes writes anyway; a single connection
	// avoids SQLITE_BUSY churn.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	repo := &Repository{db: db, logger: cfg.Logger}
	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	cfg.Logger.Info(context.Background(), "SQLite database ready", map[string]interface{}{"path": dbPath})
	return repo, nil
}

// initializeSchema creates tables if they don't exist.
func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS trading_signals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		strategy TEXT NOT NULL,
		signal_type TEXT NOT NULL,
		timestamp TIMESTAMP NOT NULL,
		price TEXT NOT NULL,
		confidence REAL NOT NULL,
		indicators TEXT NOT NULL DEFAULT '{}'
	);

	CREATE TABLE IF NOT EXISTS strategy_backtests (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		strategy TEXT NOT NULL,
		symbol TEXT NOT NULL,
		from_date TIMESTAMP NOT NULL,
		to_date TIMESTAMP NOT NULL,
		total_trades INTEGER NOT NULL DEFAULT 0,
		winning_trades INTEGER NOT NULL DEFAULT 0,
		losing_trades INTEGER NOT NULL DEFAULT 0,
		total_return REAL NOT NULL DEFAULT 0,
		market_return REAL NOT NULL DEFAULT 0,
		strategy_return REAL NOT NULL DEFAULT 0,
		buy_signals INTEGER NOT NULL DEFAULT 0,
		sell_signals INTEGER NOT NULL DEFAULT 0,
		win_rate REAL NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS api_credentials (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		api_key TEXT NOT NULL DEFAULT '',
		api_secret TEXT NOT NULL DEFAULT '',
		access_token TEXT NOT NULL DEFAULT '',
		refresh_token TEXT NOT NULL DEFAULT '',
		user_id TEXT NOT NULL DEFAULT '',
		expires_at TIMESTAMP NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_signals_symbol_strategy ON trading_signals (symbol, strategy);
	CREATE INDEX IF NOT EXISTS idx_signals_symbol_timestamp ON trading_signals (symbol, timestamp);
	CREATE INDEX IF NOT EXISTS idx_backtests_symbol ON strategy_backtests (symbol, created_at);
	`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("%w: schema initialization: %v", ports.ErrQueryFailed, err)
	}
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	if r.db != nil {
		r.logger.Info(context.Background(), "Closing SQLite database connection")
		return r.db.Close()
	}
	return nil
}

// --- SignalRepository Implementation ---

// ReplaceForStrategy deletes all prior signals for (symbol, strategy)
// and inserts the new set in a single transaction. A rerun replaces,
// never appends.
func (r *Repository) ReplaceForStrategy(ctx context.Context, symbol, strategy string, signals []domain.Signal) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: begin transaction: %v", ports.ErrQueryFailed, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM trading_signals WHERE symbol = ? AND strategy = ?`, symbol, strategy); err != nil {
		return 0, fmt.Errorf("%w: clear prior signals for %s/%s: %v", ports.ErrDeleteFailed, symbol, strategy, err)
	}

	const insert = `
	INSERT INTO trading_signals (symbol, strategy, signal_type, timestamp, price, confidence, indicators)
	VALUES (?, ?, ?, ?, ?, ?, ?)`
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return 0, fmt.Errorf("%w: prepare signal insert: %v", ports.ErrQueryFailed, err)
	}
	defer stmt.Close()

	for _, sig := range signals {
		indicators, err := json.Marshal(sig.Indicators)
		if err != nil {
			return 0, fmt.Errorf("failed to encode indicator snapshot: %w", err)
		}
		if _, err := stmt.ExecContext(ctx,
			symbol, strategy, string(sig.Type), sig.Timestamp,
			sig.Price.Round(2).String(), sig.Confidence, string(indicators)); err != nil {
			return 0, fmt.Errorf("%w: insert signal at %s: %v", ports.ErrQueryFailed, sig.Timestamp, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: commit signal replacement: %v", ports.ErrQueryFailed, err)
	}
	return len(signals), nil
}

// FindBySymbol retrieves the most recent signals for a symbol, newest
// first, up to limit rows.
func (r *Repository) FindBySymbol(ctx context.Context, symbol string, limit int) ([]domain.Signal, error) {
	const query = `
	SELECT id, symbol, strategy, signal_type, timestamp, price, confidence, indicators
	FROM trading_signals WHERE symbol = ? ORDER BY timestamp DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: query signals for %s: %v", ports.ErrQueryFailed, symbol, err)
	}
	defer rows.Close()

	var signals []domain.Signal
	for rows.Next() {
		var sig domain.Signal
		var sigType, priceStr, indicatorsJSON string
		if err := rows.Scan(&sig.ID, &sig.Symbol, &sig.Strategy, &sigType,
			&sig.Timestamp, &priceStr, &sig.Confidence, &indicatorsJSON); err != nil {
			return nil, fmt.Errorf("%w: scan signal row: %v", ports.ErrQueryFailed, err)
		}
		sig.Type = domain.SignalType(sigType)
		price, err := decimal.NewFromString(priceStr)
		if err != nil {
			return nil, fmt.Errorf("%w: bad price %q in signal %d: %v", ports.ErrQueryFailed, priceStr, sig.ID, err)
		}
		sig.Price = price
		if err := json.Unmarshal([]byte(indicatorsJSON), &sig.Indicators); err != nil {
			return nil, fmt.Errorf("%w: bad indicator snapshot in signal %d: %v", ports.ErrQueryFailed, sig.ID, err)
		}
		signals = append(signals, sig)
	}
	return signals, rows.Err()
}

// --- BacktestRepository Implementation ---

// Replace removes any prior result for the same (strategy, symbol,
// from, to) window and stores the new one. Sets result.ID on success.
func (r *Repository) Replace(ctx context.Context, result *domain.BacktestResult) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: begin transaction: %v", ports.ErrQueryFailed, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM strategy_backtests WHERE strategy = ? AND symbol = ? AND from_date = ? AND to_date = ?`,
		result.Strategy, result.Symbol, result.FromDate, result.ToDate); err != nil {
		return 0, fmt.Errorf("%w: clear prior backtest: %v", ports.ErrDeleteFailed, err)
	}

	const insert = `
	INSERT INTO strategy_backtests
		(strategy, symbol, from_date, to_date, total_trades, winning_trades, losing_trades,
		 total_return, market_return, strategy_return, buy_signals, sell_signals, win_rate, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, insert,
		result.Strategy, result.Symbol, result.FromDate, result.ToDate,
		result.TotalTrades, result.WinningTrades, result.LosingTrades,
		result.TotalReturn, result.MarketReturn, result.StrategyReturn,
		result.BuySignals, result.SellSignals, result.WinRate, time.Now())
	if err != nil {
		return 0, fmt.Errorf("%w: insert backtest for %s: %v", ports.ErrQueryFailed, result.Symbol, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: read backtest id: %v", ports.ErrQueryFailed, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: commit backtest replacement: %v", ports.ErrQueryFailed, err)
	}
	result.ID = id
	return id, nil
}

// FindBySymbolBacktests retrieves stored backtest results for a
// symbol, newest first.
func (r *Repository) FindBySymbolBacktests(ctx context.Context, symbol string) ([]domain.BacktestResult, error) {
	const query = `
	SELECT id, strategy, symbol, from_date, to_date, total_trades, winning_trades, losing_trades,
	       total_return, market_return, strategy_return, buy_signals, sell_signals, win_rate
	FROM strategy_backtests WHERE symbol = ? ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, symbol)
	if err != nil {
		return nil, fmt.Errorf("%w: query backtests for %s: %v", ports.ErrQueryFailed, symbol, err)
	}
	defer rows.Close()

	var results []domain.BacktestResult
	for rows.Next() {
		var res domain.BacktestResult
		if err := rows.Scan(&res.ID, &res.Strategy, &res.Symbol, &res.FromDate, &res.ToDate,
			&res.TotalTrades, &res.WinningTrades, &res.LosingTrades,
			&res.TotalReturn, &res.MarketReturn, &res.StrategyReturn,
			&res.BuySignals, &res.SellSignals, &res.WinRate); err != nil {
			return nil, fmt.Errorf("%w: scan backtest row: %v", ports.ErrQueryFailed, err)
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

// --- CredentialStore Implementation ---

// Get retrieves the active credential set. Returns nil, nil when no
// credentials are stored yet.
func (r *Repository) Get(ctx context.Context) (*ports.Credentials, error) {
	const query = `
	SELECT id, api_key, api_secret, access_token, refresh_token, user_id, expires_at, updated_at
	FROM api_credentials WHERE id = 1`

	var creds ports.Credentials
	var expiresAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query).Scan(&creds.ID, &creds.APIKey, &creds.APISecret,
		&creds.AccessToken, &creds.RefreshToken, &creds.UserID, &expiresAt, &creds.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: query credentials: %v", ports.ErrQueryFailed, err)
	}
	if expiresAt.Valid {
		creds.ExpiresAt = expiresAt.Time
	}
	return &creds, nil
}

// Put stores or replaces the single active credential set.
func (r *Repository) Put(ctx context.Context, creds *ports.Credentials) error {
	const upsert = `
	INSERT INTO api_credentials (id, api_key, api_secret, access_token, refresh_token, user_id, expires_at, updated_at)
	VALUES (1, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		api_key = excluded.api_key,
		api_secret = excluded.api_secret,
		access_token = excluded.access_token,
		refresh_token = excluded.refresh_token,
		user_id = excluded.user_id,
		expires_at = excluded.expires_at,
		updated_at = excluded.updated_at`

	var expiresAt interface{}
	if !creds.ExpiresAt.IsZero() {
		expiresAt = creds.ExpiresAt
	}
	if _, err := r.db.ExecContext(ctx, upsert,
		creds.APIKey, creds.APISecret, creds.AccessToken, creds.RefreshToken,
		creds.UserID, expiresAt, time.Now()); err != nil {
		return fmt.Errorf("%w: store credentials: %v", ports.ErrUpdateFailed, err)
	}
	creds.ID = 1
	return nil
}
