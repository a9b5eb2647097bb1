package server

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/cubic-js/cubic-api/internal/config"
	"github.com/cubic-js/cubic-api/internal/logger"
	"github.com/cubic-js/cubic-api/internal/middleware"
	"github.com/cubic-js/cubic-api/internal/transport"
)

// Server is the middleware dispatcher shared by all transports.
type Server struct {
	cfg      config.Config
	adapters []transport.Adapter

	mu      sync.Mutex
	applied bool
	ready   atomic.Bool

	logger *logger.Logger
}

// New creates a dispatcher over adapters. cfg must be valid: a dispatcher is
// never built without a configuration.
func New(cfg config.Config, log *logger.Logger, adapters ...transport.Adapter) (*Server, error) {
	log.Info().Msg("creating new dispatcher...")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("dispatcher: %w", err)
	}
	if len(adapters) == 0 {
		return nil, errNoAdapters
	}

	return &Server{
		cfg:      cfg,
		adapters: adapters,
		logger:   log,
	}, nil
}

// Use registers mw on every adapter, in call order, for requests matching
// route and verb. An empty verb matches every verb. Registering the same
// middleware twice runs it twice.
func (s *Server) Use(route string, mw transport.Middleware, verb string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.applied {
		return fmt.Errorf("use %q: %w", route, transport.ErrRegistrationOrder)
	}

	for _, a := range s.adapters {
		if err := a.RegisterMiddleware(route, verb, mw); err != nil {
			return fmt.Errorf("use %q on %s: %w", route, a.Name(), err)
		}
	}
	return nil
}

// ApplyMiddleware registers the built-in stages in the order they are given.
func (s *Server) ApplyMiddleware(stack []middleware.Named) error {
	for _, stage := range stack {
		if err := s.Use("/", stage.Middleware, ""); err != nil {
			return fmt.Errorf("apply %s: %w", stage.Name, err)
		}
		s.logger.Debug().Str("stage", stage.Name).Msg("middleware applied")
	}
	return nil
}

// SetRequestClient binds c on every adapter.
func (s *Server) SetRequestClient(c transport.RequestClient) {
	for _, a := range s.adapters {
		a.SetRequestClient(c)
	}
}

// ApplyRoutes seals every adapter and loads the tables: routes on the HTTP
// transport, events on the stream transport. Either table may be nil.
func (s *Server) ApplyRoutes(routes RouteTable, events EventTable) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.applied {
		return ErrRoutesApplied
	}
	s.applied = true

	for _, a := range s.adapters {
		a.Seal()
	}

	for _, a := range s.adapters {
		var err error
		switch a.Name() {
		case transport.TransportHTTP:
			if routes != nil {
				err = routes.Register(a)
			}
		case transport.TransportStream:
			if events != nil {
				err = events.Register(a, s.cfg)
			}
		}
		if err != nil {
			return fmt.Errorf("load %s table: %w", a.Name(), err)
		}
	}

	s.ready.Store(true)
	s.logger.Info().Int("adapters", len(s.adapters)).Msg("routes applied")
	return nil
}

// Ready reports whether the route tables were loaded successfully.
func (s *Server) Ready() bool {
	return s.ready.Load()
}
