// Package server composes the gateway's transport adapters into one
// middleware dispatcher.
//
// Middleware is attached through the dispatcher, never through an adapter
// directly, so that every transport receives the same entries in the same
// order. Route and event tables are loaded last; after that the adapters are
// sealed and any further registration fails.
package server
