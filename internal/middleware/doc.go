// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package middleware implements the pipeline stages shared by both transports:
// request parsing, request logging, response caching, rate limiting and
// token authentication.
//
// Every stage is a [transport.Middleware] closure built once from an immutable
// configuration. Stages only talk to each other through the
// [transport.Request] they mutate in place; a stage short-circuits by sending
// a response and not calling the next one.
package middleware
