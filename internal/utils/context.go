// Package utils provides small helpers shared by the transports: typed
// context keys, JSON response writing, the outgoing HTTP client and id
// generation.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
func (c contextKey) String() string {
	return string(c)
}

// TraceIDCtxKey is the key under which both transports store the trace id of
// the current request or connection.
//
//	ctx := context.WithValue(ctx, utils.TraceIDCtxKey, "a1b2")
var TraceIDCtxKey = contextKey("traceID")

// ConnIDCtxKey is the key under which the stream transport stores the id of
// the connection a message arrived on.
var ConnIDCtxKey = contextKey("connID")

// GetTraceIDFromContext returns the trace id stored in ctx.
func GetTraceIDFromContext(ctx context.Context) (string, bool) {
	traceID, ok := ctx.Value(TraceIDCtxKey).(string)
	return traceID, ok && traceID != ""
}

// GetConnIDFromContext returns the stream connection id stored in ctx.
func GetConnIDFromContext(ctx context.Context) (string, bool) {
	connID, ok := ctx.Value(ConnIDCtxKey).(string)
	return connID, ok && connID != ""
}
