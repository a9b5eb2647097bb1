package adapter

import "errors"

// Refresh failures, classified from the auth node's status code by
// classifyRefreshFailure.
var (
	// ErrRefreshMalformed means the auth node could not read the request (400).
	ErrRefreshMalformed = errors.New("refresh request malformed")
	// ErrRefreshRejected means the refresh token is unknown, expired or
	// revoked (401, 403).
	ErrRefreshRejected = errors.New("refresh token rejected")
	// ErrRefreshUnsupported means the node does not serve the refresh route (404, 405).
	ErrRefreshUnsupported = errors.New("auth node has no refresh endpoint")
	// ErrAuthThrottled means the auth node asked us to back off (429).
	ErrAuthThrottled = errors.New("auth node throttled the refresh")
	// ErrAuthUnavailable covers every 5xx answer.
	ErrAuthUnavailable = errors.New("auth node unavailable")

	// ErrEmptyToken is returned when the auth node answers 2xx without an
	// access token.
	ErrEmptyToken = errors.New("auth node returned no access token")
)
