// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client provides the request client shared by both transports.
//
// The client is a single in-process publish/subscribe bus: a handler on either
// transport publishes a [transport.Push] and the stream adapter, subscribed
// once at startup, delivers it to the matching connections. Because there is
// exactly one bus per worker, state sent through it is visible to both
// transports.
package client
