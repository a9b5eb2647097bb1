package config

import "errors"

var (
	// ErrInvalidConfig marks every configuration problem that must stop the
	// worker before any transport is created. Callers match it with
	// [errors.Is]; the wrapped message names the offending field.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNotBootstrapMessage is returned by [ParseBootstrap] for messages from
	// the supervising process that carry no configuration. Such messages are
	// skipped by the worker rather than treated as errors.
	ErrNotBootstrapMessage = errors.New("message carries no configuration")
)
