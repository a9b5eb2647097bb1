// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides clients for the services the gateway calls out to.
//
// The only one today is [AuthAdapter], the client of the auth node used by the
// auth middleware to exchange a refresh token for a new access token. Failed
// exchanges wrap one of the sentinels in errors.go, so callers can tell a
// rejected token ([ErrRefreshRejected]) from an unhealthy node
// ([ErrAuthUnavailable]) with [errors.Is].
package adapter

import "context"

// AuthAdapter talks to the auth node.
type AuthAdapter interface {
	// Refresh exchanges refreshToken for a new access token. Returns
	// [ErrRefreshRejected] (wrapped) when the auth node does not accept the
	// refresh token.
	Refresh(ctx context.Context, refreshToken string) (string, error)
}
