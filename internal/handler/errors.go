// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package handler

import "errors"

// errUnknownTable is returned by a Catalog lookup for a table name that was
// never registered. The bootstrap treats it as a configuration error.
var errUnknownTable = errors.New("unknown table")
