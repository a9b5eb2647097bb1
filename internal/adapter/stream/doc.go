// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package stream implements the persistent bidirectional transport of the
// gateway over WebSocket.
//
// The endpoint is mounted on the HTTP transport's router, so both transports
// share one listener. Each connection owns a single [transport.Request] that
// is created at upgrade time from the handshake headers and reused for every
// message: a frame's headers are merged into it, the auth state is reset, and
// the request runs through the same middleware chain as an HTTP request.
//
// Client frames:
//
//	{"id": "1", "verb": "GET", "route": "/me", "headers": {...}, "body": {...}}
//
// Server frames answer with the same id, or carry a pushed event:
//
//	{"id": "1", "status": 200, "body": {...}}
//	{"event": "notify", "body": {...}}
//
// A rejected message is answered on its own; the connection stays open.
package stream
