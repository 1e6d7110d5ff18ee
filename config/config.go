package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Kite Connect API
	APIKey    string
	APISecret string

	// Fetch behaviour
	ChunkDelay       time.Duration // pause between chunk fetches (rate-limit pacing)
	SyntheticOnError bool          // fabricate a synthetic series when the upstream fetch fails entirely

	// Storage
	DataDir string // directory for JSON series artifacts
	DBPath  string // SQLite database for signals, backtests, credentials

	// Strategy Parameters
	StrategyName     string
	MAPeriod         int // moving average window for the crossover rule
	MACDFastSpan     int
	MACDSlowSpan     int
	MACDSignalSpan   int
	SignalConfidence float64

	// Logging
	LogLevel  string // debug, info, warn, error
	LogFormat string // json or console
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var errs []string // Collect validation errors

	// Kite Connect API. Keys may be absent: without them only the
	// synthetic generator and already-saved artifacts are usable.
	cfg.APIKey = getEnv("KITE_API_KEY", "")
	cfg.APISecret = getEnv("KITE_API_SECRET", "")

	// Fetch behaviour
	chunkDelaySeconds := getEnvAsInt("CHUNK_DELAY_SECONDS", 1)
	if chunkDelaySeconds < 0 {
		errs = append(errs, "CHUNK_DELAY_SECONDS cannot be negative")
	}
	cfg.ChunkDelay = time.Duration(chunkDelaySeconds) * time.Second
	cfg.SyntheticOnError = getEnvAsBool("SYNTHETIC_ON_ERROR", true)

	// Storage
	cfg.DataDir = getEnv("DATA_DIR", "./data_storage")
	if cfg.DataDir == "" {
		errs = append(errs, "DATA_DIR must be set")
	}
	cfg.DBPath = getEnv("DB_PATH", "./data/strategy.db")
	if cfg.DBPath == "" {
		errs = append(errs, "DB_PATH must be set")
	}

	// Strategy Parameters (using defaults if not set)
	cfg.StrategyName = getEnv("STRATEGY_NAME", "MACD_MA_CrossOver_Strategy")
	cfg.MAPeriod = getEnvAsInt("STRATEGY_MA_PERIOD", 5)
	cfg.MACDFastSpan = getEnvAsInt("STRATEGY_MACD_FAST", 12)
	cfg.MACDSlowSpan = getEnvAsInt("STRATEGY_MACD_SLOW", 26)
	cfg.MACDSignalSpan = getEnvAsInt("STRATEGY_MACD_SIGNAL", 9)
	cfg.SignalConfidence = getEnvAsFloat("STRATEGY_SIGNAL_CONFIDENCE", 0.8)

	if cfg.MAPeriod <= 0 || cfg.MACDFastSpan <= 0 || cfg.MACDSlowSpan <= 0 || cfg.MACDSignalSpan <= 0 {
		errs = append(errs, "strategy periods (MA, MACD spans) must be positive")
	}
	if cfg.MACDFastSpan >= cfg.MACDSlowSpan {
		errs = append(errs, "STRATEGY_MACD_FAST must be less than STRATEGY_MACD_SLOW")
	}
	if cfg.SignalConfidence < 0 || cfg.SignalConfidence > 1 {
		errs = append(errs, "STRATEGY_SIGNAL_CONFIDENCE must be between 0.0 and 1.0")
	}

	// Logging
	cfg.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", "info"))
	cfg.LogFormat = strings.ToLower(getEnv("LOG_FORMAT", "console"))
	if cfg.LogFormat != "console" && cfg.LogFormat != "json" {
		errs = append(errs, "LOG_FORMAT must be 'console' or 'json'")
	}

	// Combine validation errors
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
