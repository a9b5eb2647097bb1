// Package handler holds the gateway's built-in business handlers and the
// route and event tables that attach them to the transports.
//
// Handlers receive the request after the whole middleware pipeline has run,
// so Request.User is always set and Request.AccessToken is non-empty only
// for authenticated callers.
package handler
