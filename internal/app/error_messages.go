// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// gateway's transports, middleware and handlers.
//
// All Msg* constants are human-readable message strings written into the
// "error" field of rejection bodies. Keeping them in one place ensures both
// transports answer with the same wording.
package app

const (
	// MsgInvalidToken is returned by the auth stage when the presented access
	// token cannot be verified, including after a failed refresh.
	MsgInvalidToken = "Invalid Token."

	// MsgRefreshFailed is the rejection reason when the refresh token could
	// not be exchanged for a new access token.
	MsgRefreshFailed = "Refresh token could not be attributed to any user."

	// MsgTooManyRequests is returned by the rate limiter when the caller has
	// used up the requests of the current window.
	MsgTooManyRequests = "Too many requests."

	// MsgNotFound is returned when no route or event matches the request.
	MsgNotFound = "Not found."

	// MsgInvalidBody is returned when the request body cannot be read or
	// decoded.
	MsgInvalidBody = "Invalid body."

	// MsgInvalidMessage is returned on the stream transport when a frame is
	// not valid JSON.
	MsgInvalidMessage = "Invalid message."

	// MsgForbidden is returned when an anonymous caller reaches a handler
	// that needs an authenticated identity.
	MsgForbidden = "Forbidden."

	// MsgPushUnavailable is returned when no request client is bound.
	MsgPushUnavailable = "Push unavailable."

	// MsgPushFailed is returned when the request client rejects a push.
	MsgPushFailed = "Push failed."
)
