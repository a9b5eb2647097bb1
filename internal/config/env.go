// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// envPrefix namespaces every variable declared by the `env` tags of [Config].
const envPrefix = "GATEWAY_"

// parseEnv reads the GATEWAY_* variables into a fresh Config. Unset variables
// leave their fields zero so the merge in build keeps values from other
// sources. Stage lists are split on "," and trimmed, so "logger, auth" works.
func parseEnv() (*Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Prefix: envPrefix})
	if err != nil {
		return nil, fmt.Errorf("error getting env configs: %w", err)
	}

	cfg.MiddlewareOrder = trimStages(cfg.MiddlewareOrder)
	return &cfg, nil
}

func trimStages(stages []string) []string {
	if len(stages) == 0 {
		return nil
	}

	out := make([]string, 0, len(stages))
	for _, s := range stages {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
