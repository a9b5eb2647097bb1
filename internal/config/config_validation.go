// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"strings"
)

var knownStages = map[string]struct{}{
	StageLogger:      {},
	StageCache:       {},
	StageRateLimiter: {},
	StageAuth:        {},
}

// Validate checks that cfg satisfies every invariant the worker relies on.
// It is called on the value produced by [GetConfig] and [ParseBootstrap] and
// again by every constructor that takes a Config, so a zero or partially
// filled value can never reach a transport.
//
// All problems are wrapped in [ErrInvalidConfig].
func (cfg Config) Validate() error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return invalid("port %d is out of range", cfg.Port)
	}

	if strings.TrimSpace(cfg.CertPublic) == "" {
		return invalid("certPublic is empty")
	}

	if strings.TrimSpace(cfg.AuthCookie) == "" {
		return invalid("authCookie is empty")
	}

	if cfg.Routes == "" || cfg.Events == "" {
		return invalid("routes and events tables must be named")
	}

	if !strings.HasPrefix(cfg.StreamPath, "/") {
		return invalid("streamPath %q must start with /", cfg.StreamPath)
	}

	if err := validateOrder(cfg.MiddlewareOrder); err != nil {
		return err
	}

	if cfg.UseRateLimiter && (cfg.RateLimit.Max < 1 || cfg.RateLimit.Window <= 0) {
		return invalid("rate limiter needs a positive max and window")
	}

	if cfg.UseCache && cfg.Cache.TTL <= 0 {
		return invalid("cache needs a positive ttl")
	}

	if cfg.Refresh.URL != "" && cfg.Refresh.Timeout <= 0 {
		return invalid("refresh needs a positive timeout")
	}

	return nil
}

func validateOrder(order []string) error {
	if len(order) != len(knownStages) {
		return invalid("middlewareOrder must list %d stages, got %v", len(knownStages), order)
	}

	seen := make(map[string]struct{}, len(order))
	for i, stage := range order {
		if _, ok := knownStages[stage]; !ok {
			return invalid("unknown middleware stage %q", stage)
		}
		if _, dup := seen[stage]; dup {
			return invalid("middleware stage %q listed twice", stage)
		}
		if stage == StageLogger && i != 0 {
			return invalid("logger stage must run first")
		}
		seen[stage] = struct{}{}
	}

	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
