// Package http implements the request/response transport of the gateway.
//
// Every request is turned into a [transport.Request], run through the shared
// middleware chain and, when no stage short-circuits, dispatched to the
// business route registered for its verb and path. The chi root router also
// hosts the stream transport endpoint and, when enabled, /metrics.
package http
