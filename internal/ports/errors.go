package ports

import "errors"

// Standard application-level errors.
// Adapters should wrap underlying infrastructure errors with these standard errors.
var (
	// General Errors
	ErrUnknown          = errors.New("unknown error occurred")
	ErrInvalidRequest   = errors.New("invalid request parameters or format")
	ErrNotFound         = errors.New("resource not found")
	ErrTimeout          = errors.New("operation timed out")
	ErrContextCanceled  = errors.New("operation canceled via context")
	ErrPermissionDenied = errors.New("permission denied")

	// Input validation
	ErrUnknownSymbol   = errors.New("symbol not found in supported instruments")
	ErrUnknownInterval = errors.New("interval is not a supported value")
	ErrInvalidDates    = errors.New("invalid date range")

	// Upstream API
	ErrUpstreamUnavailable = errors.New("upstream API is unavailable")
	ErrConnectionFailed    = errors.New("failed to connect to the upstream API")
	ErrRateLimited         = errors.New("API rate limit exceeded")
	ErrNotAuthenticated    = errors.New("not authenticated with the upstream API")
	ErrTokenExpired        = errors.New("access token has expired")
	ErrTokenRefreshFailed  = errors.New("access token refresh failed")
	ErrEmptyResponse       = errors.New("upstream returned no data")

	// Reconciliation
	ErrAllChunksFailed = errors.New("all chunks failed to yield data")

	// Database / storage
	ErrDuplicateEntry  = errors.New("database record already exists")
	ErrDBConnection    = errors.New("database connection error")
	ErrQueryFailed     = errors.New("database query failed")
	ErrUpdateFailed    = errors.New("database update failed")
	ErrDeleteFailed    = errors.New("database delete failed")
	ErrCorruptArtifact = errors.New("artifact file is unreadable or corrupt")
)
