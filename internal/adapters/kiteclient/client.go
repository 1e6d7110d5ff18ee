package kiteclient

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tradingStrategyBot/internal/domain"
	"tradingStrategyBot/internal/ports"
)

const (
	defaultBaseURL  = "https://api.kite.trade"
	loginBaseURL    = "https://kite.zerodha.com/connect/login"
	kiteVersion     = "3"
	timestampLayout = "2006-01-02T15:04:05-0700"
	requestLayout   = "2006-01-02 15:04:05"
)

// Client implements the ports.MarketDataClient interface against the
// Kite Connect v3 REST API.
type Client struct {
	apiKey     string
	apiSecret  string
	baseURL    string
	httpClient *http.Client
	logger     ports.Logger
}

// Config holds configuration specific to the Kite client adapter.
type Config struct {
	APIKey     string
	APISecret  string
	BaseURL    string        // override for tests; defaults to the production API
	Timeout    time.Duration // per-request timeout; default 30s
	Logger     ports.Logger
	HTTPClient *http.Client // optional; a default client is built when nil
}

// New creates a new Kite client adapter.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Kite client")
	}
	if cfg.APIKey == "" {
		cfg.Logger.Warn(context.Background(), "APIKey is empty; upstream calls will fail until credentials are configured")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		apiKey:     cfg.APIKey,
		apiSecret:  cfg.APISecret,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     cfg.Logger,
	}, nil
}

// apiEnvelope is the common Kite response wrapper.
type apiEnvelope struct {
	Status    string          `json:"status"`
	Message   string          `json:"message"`
	ErrorType string          `json:"error_type"`
	Data      json.RawMessage `json:"data"`
}

// handleError translates Kite API failures into standardized ports errors.
func (c *Client) handleError(ctx context.Context, statusCode int, env *apiEnvelope, operation string) error {
	fields := map[string]interface{}{"operation": operation, "httpStatus": statusCode}
	if env != nil {
		fields["errorType"] = env.ErrorType
		fields["message"] = env.Message
	}

	var mapped error
	switch {
	case env != nil && env.ErrorType == "TokenException":
		mapped = ports.ErrTokenExpired
	case env != nil && env.ErrorType == "PermissionException":
		mapped = ports.ErrPermissionDenied
	case env != nil && env.ErrorType == "InputException":
		mapped = ports.ErrInvalidRequest
	case env != nil && env.ErrorType == "NetworkException":
		mapped = ports.ErrUpstreamUnavailable
	case statusCode == http.StatusForbidden || statusCode == http.StatusUnauthorized:
		mapped = ports.ErrNotAuthenticated
	case statusCode == http.StatusTooManyRequests:
		mapped = ports.ErrRateLimited
	case statusCode >= 500:
		mapped = ports.ErrUpstreamUnavailable
	default:
		mapped = ports.ErrUnknown
	}

	c.logger.Error(ctx, mapped, "Kite API call failed", fields)
	msg := ""
	if env != nil {
		msg = env.Message
	}
	return fmt.Errorf("%w: %s (%s, HTTP %d)", mapped, operation, msg, statusCode)
}

// do executes one API request and decodes the response envelope.
func (c *Client) do(ctx context.Context, method, path string, form url.Values, auth string) (*apiEnvelope, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrInvalidRequest, err)
	}
	req.Header.Set("X-Kite-Version", kiteVersion)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if auth != "" {
		req.Header.Set("Authorization", "token "+auth)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrConnectionFailed, err)
	}
	defer resp.Body.Close()

	var env apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, c.handleError(ctx, resp.StatusCode, nil, method+" "+path)
		}
		return nil, fmt.Errorf("%w: malformed response body: %v", ports.ErrUnknown, err)
	}
	if resp.StatusCode != http.StatusOK || env.Status != "success" {
		return nil, c.handleError(ctx, resp.StatusCode, &env, method+" "+path)
	}
	return &env, nil
}

// HistoricalData retrieves candles for one instrument over an
// inclusive date range. The upstream caps the span per interval; the
// caller is expected to chunk ranges accordingly.
func (c *Client) HistoricalData(ctx context.Context, accessToken string, instrumentToken int, from, to time.Time, interval domain.Interval) ([]domain.Candle, error) {
	op := "HistoricalData"
	if accessToken == "" {
		return nil, ports.ErrNotAuthenticated
	}

	// The API treats the to-date as inclusive when given end of day.
	fromArg := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	toArg := time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, 0, to.Location())

	query := url.Values{}
	query.Set("from", fromArg.Format(requestLayout))
	query.Set("to", toArg.Format(requestLayout))
	path := fmt.Sprintf("/instruments/historical/%d/%s?%s", instrumentToken, interval, query.Encode())

	env, err := c.do(ctx, http.MethodGet, path, nil, c.apiKey+":"+accessToken)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Candles [][]interface{} `json:"candles"`
	}
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		return nil, fmt.Errorf("%w: failed to decode candle payload: %v", ports.ErrUnknown, err)
	}
	if len(payload.Candles) == 0 {
		return nil, fmt.Errorf("%w: %s", ports.ErrEmptyResponse, op)
	}

	candles := make([]domain.Candle, 0, len(payload.Candles))
	for _, row := range payload.Candles {
		candle, err := translateCandleRow(row)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ports.ErrUnknown, op, err)
		}
		candles = append(candles, candle)
	}
	return candles, nil
}

// translateCandleRow converts one raw candle row
// [timestamp, open, high, low, close, volume] into a domain candle.
func translateCandleRow(row []interface{}) (domain.Candle, error) {
	if len(row) < 6 {
		return domain.Candle{}, fmt.Errorf("candle row has %d fields, want 6", len(row))
	}
	tsStr, ok := row[0].(string)
	if !ok {
		return domain.Candle{}, fmt.Errorf("candle timestamp is not a string: %v", row[0])
	}
	ts, err := time.Parse(timestampLayout, tsStr)
	if err != nil {
		// Kite occasionally omits the zone on daily candles.
		ts, err = time.Parse("2006-01-02T15:04:05", tsStr)
		if err != nil {
			return domain.Candle{}, fmt.Errorf("failed to parse candle timestamp %q: %v", tsStr, err)
		}
	}

	nums := make([]float64, 5)
	for i := 1; i <= 5; i++ {
		v, ok := row[i].(float64)
		if !ok {
			return domain.Candle{}, fmt.Errorf("candle field %d is not numeric: %v", i, row[i])
		}
		nums[i-1] = v
	}

	return domain.Candle{
		Timestamp: ts,
		Open:      nums[0],
		High:      nums[1],
		Low:       nums[2],
		Close:     nums[3],
		Volume:    int64(nums[4]),
	}, nil
}

// LoginURL returns the URL a user visits to obtain a request token.
func (c *Client) LoginURL() string {
	return fmt.Sprintf("%s?v=%s&api_key=%s", loginBaseURL, kiteVersion, c.apiKey)
}

// GenerateSession exchanges a request token for access/refresh tokens.
func (c *Client) GenerateSession(ctx context.Context, requestToken string) (*ports.Session, error) {
	form := url.Values{}
	form.Set("api_key", c.apiKey)
	form.Set("request_token", requestToken)
	form.Set("checksum", c.checksum(requestToken))

	env, err := c.do(ctx, http.MethodPost, "/session/token", form, "")
	if err != nil {
		return nil, err
	}
	return decodeSession(env.Data)
}

// RenewAccessToken exchanges a refresh token for a new access token.
func (c *Client) RenewAccessToken(ctx context.Context, refreshToken string) (*ports.Session, error) {
	form := url.Values{}
	form.Set("api_key", c.apiKey)
	form.Set("refresh_token", refreshToken)
	form.Set("checksum", c.checksum(refreshToken))

	env, err := c.do(ctx, http.MethodPost, "/session/refresh_token", form, "")
	if err != nil {
		return nil, err
	}
	return decodeSession(env.Data)
}

// checksum is SHA-256 over api_key + token + api_secret, as required
// by the session endpoints.
func (c *Client) checksum(token string) string {
	sum := sha256.Sum256([]byte(c.apiKey + token + c.apiSecret))
	return hex.EncodeToString(sum[:])
}

func decodeSession(data json.RawMessage) (*ports.Session, error) {
	var payload struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		UserID       string `json:"user_id"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: failed to decode session payload: %v", ports.ErrUnknown, err)
	}
	if payload.AccessToken == "" {
		return nil, fmt.Errorf("%w: session response missing access token", ports.ErrNotAuthenticated)
	}
	return &ports.Session{
		AccessToken:  payload.AccessToken,
		RefreshToken: payload.RefreshToken,
		UserID:       payload.UserID,
	}, nil
}
