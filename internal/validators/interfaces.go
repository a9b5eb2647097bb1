// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks the bodies handlers accept before they reach the
// request client. A failed check wraps one of the sentinels in errors.go and
// the handler answers 400 with its message as the reason.
package validators

import "context"

// Validator checks v. Passing field names limits the check to those fields;
// with none, every field is checked.
type Validator interface {
	Validate(ctx context.Context, v any, fields ...string) error
}
