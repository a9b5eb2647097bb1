package server

import (
	"github.com/cubic-js/cubic-api/internal/config"
	"github.com/cubic-js/cubic-api/internal/transport"
)

// RouteTable attaches business handlers to the HTTP transport.
type RouteTable interface {
	Register(a transport.Adapter) error
}

// EventTable attaches business handlers to the stream transport. It also
// receives the worker configuration.
type EventTable interface {
	Register(a transport.Adapter, cfg config.Config) error
}

// RouteTableFunc adapts a function to RouteTable.
type RouteTableFunc func(a transport.Adapter) error

func (f RouteTableFunc) Register(a transport.Adapter) error {
	return f(a)
}

// EventTableFunc adapts a function to EventTable.
type EventTableFunc func(a transport.Adapter, cfg config.Config) error

func (f EventTableFunc) Register(a transport.Adapter, cfg config.Config) error {
	return f(a, cfg)
}
