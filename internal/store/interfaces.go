// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store holds the external state shared by the pipeline: cached
// responses and rate-limit counters.
//
// Two backends are provided. The memory backend keeps state inside the worker
// process; the redis backend shares it between every worker pointed at the
// same redis, which is what a multi-process deployment needs. Both provide
// per-key atomicity.
package store

import (
	"context"
	"time"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// CacheStore keeps serialized responses for a limited time.
type CacheStore interface {
	// Get returns the value stored under key. The boolean is false on a miss
	// or when the value has expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CounterStore counts events per key in fixed windows.
type CounterStore interface {
	// Incr increments the counter for key and returns its new value. The
	// window starts with the first increment; the counter resets once it
	// elapses.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}
