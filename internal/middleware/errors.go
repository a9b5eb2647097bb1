// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package middleware

import (
	"errors"

	"github.com/cubic-js/cubic-api/internal/app"
	"github.com/cubic-js/cubic-api/internal/transport"
)

var (
	// ErrMalformedCookie is reported when the auth cookie cannot be decoded.
	// It never reaches the caller: a malformed cookie behaves like no cookie.
	ErrMalformedCookie = errors.New("malformed auth cookie")

	// ErrUnsupportedKey is returned when the configured public key is not an
	// RSA, ECDSA or Ed25519 key.
	ErrUnsupportedKey = errors.New("unsupported public key")

	// ErrMissingIdentity is returned when a verified token carries neither a
	// "uid" nor a "sub" claim.
	ErrMissingIdentity = errors.New("token carries no user id")

	// ErrInvalidToken rejects a request whose token failed verification. Its
	// text is the error field of the 401 body.
	ErrInvalidToken = errors.New(app.MsgInvalidToken)

	// ErrRateLimited rejects a request over the limit with 429.
	ErrRateLimited = errors.New(app.MsgTooManyRequests)

	// ErrRefreshFailed wraps any failure of the refresh round-trip.
	ErrRefreshFailed = errors.New(app.MsgRefreshFailed)

	// ErrUnknownStage is returned by BuildStack for an unknown stage name.
	ErrUnknownStage = errors.New("unknown middleware stage")
)

// rejection is the body sent when a stage stops the pipeline with sentinel.
func rejection(sentinel error, reason string) transport.ErrorBody {
	return transport.ErrorBody{Error: sentinel.Error(), Reason: reason}
}
