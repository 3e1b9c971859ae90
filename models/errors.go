package models

import "errors"

// Error taxonomy surfaced across the service boundary. Handlers map these to
// HTTP status codes; the client treats anything else as a transport failure.
var (
	// ErrInvalidParameter rejects malformed request parameters.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidPeriod rejects a period string outside the known classifications.
	ErrInvalidPeriod = errors.New("invalid period")

	// ErrQueryTooShort rejects product searches below the minimum query length.
	ErrQueryTooShort = errors.New("search query too short")

	// ErrDataSourceUnavailable wraps any failure reaching the fact dataset.
	// It is retryable; no stale fallback is attempted beyond what the cache
	// TTL already permits.
	ErrDataSourceUnavailable = errors.New("data source unavailable")
)
