// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package worker

import "errors"

var (
	// ErrAlreadyBootstrapped is returned when a second configuration is handed
	// to a Bootstrapper directly.
	ErrAlreadyBootstrapped = errors.New("worker is already bootstrapped")

	// ErrNoConfiguration is returned by Listen when the input ends before a
	// configuration message arrived.
	ErrNoConfiguration = errors.New("input closed before a configuration arrived")
)
