package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tradingStrategyBot/internal/ports"
)

// Kite access tokens expire daily.
const tokenLifetime = 24 * time.Hour

// Manager owns the credential record. All token reads and refreshes go
// through it, serialized by a mutex, so two in-flight reconciliations
// can never race a refresh.
type Manager struct {
	mu     sync.Mutex
	client ports.MarketDataClient
	store  ports.CredentialStore
	logger ports.Logger
	now    func() time.Time
}

// Config holds configuration for the token manager.
type Config struct {
	Client ports.MarketDataClient
	Store  ports.CredentialStore
	Logger ports.Logger
}

// NewManager creates a new token manager.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.Client == nil || cfg.Store == nil || cfg.Logger == nil {
		return nil, fmt.Errorf("client, store and logger are required for token manager")
	}
	return &Manager{
		client: cfg.Client,
		store:  cfg.Store,
		logger: cfg.Logger,
		now:    time.Now,
	}, nil
}

// Token returns a valid access token. An expired token triggers
// exactly one refresh attempt using the held refresh token; refresh
// failure is terminal for the calling operation.
func (m *Manager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	creds, err := m.store.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read credentials: %w", err)
	}
	if creds == nil {
		return "", ports.ErrNotAuthenticated
	}
	if creds.IsTokenValid(m.now()) {
		return creds.AccessToken, nil
	}
	if creds.RefreshToken == "" {
		return "", fmt.Errorf("%w: no refresh token held", ports.ErrTokenExpired)
	}

	m.logger.Info(ctx, "Access token expired, attempting refresh")
	session, err := m.client.RenewAccessToken(ctx, creds.RefreshToken)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ports.ErrTokenRefreshFailed, err)
	}

	creds.AccessToken = session.AccessToken
	if session.RefreshToken != "" {
		creds.RefreshToken = session.RefreshToken
	}
	creds.ExpiresAt = m.now().Add(tokenLifetime)
	if err := m.store.Put(ctx, creds); err != nil {
		return "", fmt.Errorf("failed to persist refreshed credentials: %w", err)
	}
	m.logger.Info(ctx, "Access token refreshed")
	return creds.AccessToken, nil
}

// Authenticate exchanges a request token (obtained via the login URL)
// for a fresh session and persists it as the active credential set.
func (m *Manager) Authenticate(ctx context.Context, requestToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, err := m.client.GenerateSession(ctx, requestToken)
	if err != nil {
		return fmt.Errorf("session generation failed: %w", err)
	}

	creds, err := m.store.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to read credentials: %w", err)
	}
	if creds == nil {
		creds = &ports.Credentials{}
	}
	creds.AccessToken = session.AccessToken
	creds.RefreshToken = session.RefreshToken
	creds.UserID = session.UserID
	creds.ExpiresAt = m.now().Add(tokenLifetime)

	if err := m.store.Put(ctx, creds); err != nil {
		return fmt.Errorf("failed to persist credentials: %w", err)
	}
	m.logger.Info(ctx, "Authenticated with upstream API", map[string]interface{}{"userID": session.UserID})
	return nil
}

// LoginURL returns the upstream login URL for the manual token flow.
func (m *Manager) LoginURL() string {
	return m.client.LoginURL()
}

// IsAuthenticated reports whether a currently valid token is held,
// without attempting a refresh.
func (m *Manager) IsAuthenticated(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	creds, err := m.store.Get(ctx)
	if err != nil || creds == nil {
		return false
	}
	return creds.IsTokenValid(m.now())
}
