// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

var (
	// ErrUnsupportedVerb is returned by RegisterRoute for a verb chi cannot
	// route.
	ErrUnsupportedVerb = errors.New("unsupported http verb")

	// ErrBodyTooLarge is reported when a request body exceeds maxBodyBytes.
	ErrBodyTooLarge = errors.New("request body too large")

	// ErrInvalidBody is reported when a JSON body does not parse.
	ErrInvalidBody = errors.New("request body is not valid json")
)
