// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

var (
	errNoAdapters = errors.New("no transport adapters are given")

	// ErrRoutesApplied is returned when ApplyRoutes is called twice.
	ErrRoutesApplied = errors.New("routes are already applied")
)
