package handler

import (
	"fmt"
	"net/http"

	"github.com/cubic-js/cubic-api/internal/config"
	"github.com/cubic-js/cubic-api/internal/server"
	"github.com/cubic-js/cubic-api/internal/transport"
)

// DefaultTable is the name under which the built-in tables are registered.
const DefaultTable = "default"

// Routes returns the HTTP route table.
func (h *Handler) Routes() server.RouteTable {
	return server.RouteTableFunc(func(a transport.Adapter) error {
		return register(a, []route{
			{http.MethodGet, "/status", h.status},
			{http.MethodGet, "/version", h.getVersion},
			{http.MethodGet, "/me", h.me},
			{http.MethodPost, "/push", h.push},
		})
	})
}

// Events returns the stream event table.
func (h *Handler) Events() server.EventTable {
	return server.EventTableFunc(func(a transport.Adapter, _ config.Config) error {
		return register(a, []route{
			{http.MethodGet, "/status", h.status},
			{http.MethodGet, "/me", h.me},
			{http.MethodPost, "/echo", h.echo},
			{http.MethodPost, "/push", h.push},
		})
	})
}

type route struct {
	verb    string
	pattern string
	handler transport.HandlerFunc
}

func register(a transport.Adapter, routes []route) error {
	for _, r := range routes {
		if err := a.RegisterRoute(r.verb, r.pattern, r.handler); err != nil {
			return fmt.Errorf("%s %s %s: %w", a.Name(), r.verb, r.pattern, err)
		}
	}
	return nil
}

// Catalog maps the route and event table names of the configuration to
// table values.
type Catalog struct {
	Routes map[string]server.RouteTable
	Events map[string]server.EventTable
}

// NewCatalog returns a catalog holding h's tables under DefaultTable.
func NewCatalog(h *Handler) Catalog {
	return Catalog{
		Routes: map[string]server.RouteTable{DefaultTable: h.Routes()},
		Events: map[string]server.EventTable{DefaultTable: h.Events()},
	}
}

// Lookup resolves the tables named by cfg.
func (c Catalog) Lookup(cfg config.Config) (server.RouteTable, server.EventTable, error) {
	routes, ok := c.Routes[cfg.Routes]
	if !ok {
		return nil, nil, fmt.Errorf("%w: routes %q", errUnknownTable, cfg.Routes)
	}
	events, ok := c.Events[cfg.Events]
	if !ok {
		return nil, nil, fmt.Errorf("%w: events %q", errUnknownTable, cfg.Events)
	}
	return routes, events, nil
}
