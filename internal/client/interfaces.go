// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"

	"github.com/cubic-js/cubic-api/internal/transport"
)

// Client defines the lifecycle of the shared request client.
type Client interface {
	transport.RequestClient

	// Subscribe starts delivering published pushes to deliver until ctx is
	// done or the client is closed.
	Subscribe(ctx context.Context, deliver func(transport.Push)) error

	// Close stops the bus. Pending subscribers return.
	Close() error
}
