package store

import "errors"

// Sentinel errors returned by the stores. Callers should use [errors.Is] to
// match against these values.
var (
	// ErrStoreUnavailable wraps every failure of the backing store (network
	// error, timeout, unexpected reply). Middleware treats it as fail-open.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrInvalidTTL is returned when a value is written with a non-positive
	// time to live or a counter is incremented with a non-positive window.
	ErrInvalidTTL = errors.New("ttl must be positive")
)
