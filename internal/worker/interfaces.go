package worker

import (
	"github.com/cubic-js/cubic-api/internal/config"
	"github.com/cubic-js/cubic-api/internal/server"
)

// Tables resolves the route and event tables named by a configuration.
type Tables interface {
	Lookup(cfg config.Config) (server.RouteTable, server.EventTable, error)
}
