package ports

import (
	"context"
	"time"
)

// Credentials holds the upstream API credential set. At most one
// active set exists at a time.
type Credentials struct {
	ID           int64
	APIKey       string
	APISecret    string
	AccessToken  string
	RefreshToken string
	UserID       string
	ExpiresAt    time.Time
	UpdatedAt    time.Time
}

// IsTokenValid reports whether the access token is present and not
// expired at the given instant.
func (c *Credentials) IsTokenValid(now time.Time) bool {
	return c.AccessToken != "" && !c.ExpiresAt.IsZero() && now.Before(c.ExpiresAt)
}

// CredentialStore defines the interface for persisting the single
// active credential set.
type CredentialStore interface {
	// Get retrieves the active credential set.
	// Returns nil, nil if no credentials are stored.
	Get(ctx context.Context) (*Credentials, error)
	// Put stores or replaces the active credential set.
	Put(ctx context.Context, creds *Credentials) error
}
