// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package transport defines the contract shared by the HTTP and stream
// adapters: the per-request [Request] context, the [Handler] and [Middleware]
// types, the ordered middleware [Chain] and the [Adapter] registration surface.
//
// Both adapters build a [Request] with the same field set and run it through a
// [Chain] composed from the same registrations, so a middleware written once
// observes identical semantics on either transport.
package transport
