package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cubic-js/cubic-api/internal/app"
	"github.com/cubic-js/cubic-api/internal/config"
	"github.com/cubic-js/cubic-api/internal/logger"
	"github.com/cubic-js/cubic-api/internal/transport"
	"github.com/cubic-js/cubic-api/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const readHeaderTimeout = 10 * time.Second

var routableVerbs = map[string]struct{}{
	http.MethodGet:     {},
	http.MethodHead:    {},
	http.MethodPost:    {},
	http.MethodPut:     {},
	http.MethodPatch:   {},
	http.MethodDelete:  {},
	http.MethodOptions: {},
}

// Adapter is the HTTP transport.
type Adapter struct {
	chain  transport.Chain
	root   *chi.Mux
	routes *chi.Mux
	server *http.Server

	mu     sync.RWMutex
	client transport.RequestClient

	metricsHandler http.Handler
	traceIDs       *utils.UUIDGenerator
	logger         *logger.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithMetricsHandler exposes h at GET /metrics, outside the pipeline.
func WithMetricsHandler(h http.Handler) Option {
	return func(a *Adapter) {
		a.metricsHandler = h
	}
}

// New creates the HTTP transport bound to cfg.Port. It does not listen until
// ListenAndServe is called.
func New(cfg config.Config, log *logger.Logger, opts ...Option) (*Adapter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("http adapter: %w", err)
	}

	a := &Adapter{traceIDs: utils.NewUUIDGenerator("trace"), logger: log}
	for _, opt := range opts {
		opt(a)
	}

	a.routes = chi.NewRouter()
	a.routes.NotFound(a.notFound)
	a.routes.MethodNotAllowed(a.notFound)

	a.root = chi.NewRouter()
	a.root.Use(middleware.Recoverer)
	a.root.Use(middleware.RealIP)
	a.root.Use(a.withTraceID)
	if a.metricsHandler != nil {
		a.root.Method(http.MethodGet, "/metrics", a.metricsHandler)
	}
	a.root.HandleFunc("/*", a.dispatch)

	a.server = &http.Server{
		Addr:              cfg.Address(),
		Handler:           a.root,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	log.Info().Str("addr", cfg.Address()).Msg("http adapter created")
	return a, nil
}

// Name implements transport.Adapter.
func (a *Adapter) Name() string {
	return transport.TransportHTTP
}

// RegisterMiddleware implements transport.Adapter.
func (a *Adapter) RegisterMiddleware(route, verb string, mw transport.Middleware) error {
	return a.chain.Append(transport.Entry{Route: route, Verb: verb, Middleware: mw})
}

// Seal implements transport.Adapter.
func (a *Adapter) Seal() {
	a.chain.Seal()
}

// RegisterRoute implements transport.Adapter. Route patterns use chi syntax
// ("/users/{id}"); matched parameters are copied to Request.Params. An empty
// verb or "*" registers the route for every verb.
func (a *Adapter) RegisterRoute(verb, route string, h transport.Handler) error {
	if !a.chain.Sealed() {
		return transport.ErrNotSealed
	}

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc, ok := requestFromContext(r.Context())
		if !ok {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		if params := chi.RouteContext(r.Context()); params != nil {
			for i, key := range params.URLParams.Keys {
				rc.req.Params[key] = params.URLParams.Values[i]
			}
		}
		h.Serve(rc.rw, rc.req)
	})

	verb = strings.ToUpper(verb)
	if verb == "" || verb == "*" {
		a.routes.Handle(route, handler)
		return nil
	}
	if _, ok := routableVerbs[verb]; !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedVerb, verb)
	}
	a.routes.Method(verb, route, handler)
	return nil
}

// SetRequestClient implements transport.Adapter.
func (a *Adapter) SetRequestClient(c transport.RequestClient) {
	a.mu.Lock()
	a.client = c
	a.mu.Unlock()
}

func (a *Adapter) requestClient() transport.RequestClient {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.client
}

// Router returns the root router. The stream transport mounts its endpoint
// on it so both transports share one listener.
func (a *Adapter) Router() chi.Router {
	return a.root
}

// Handler returns the root handler, mainly for tests.
func (a *Adapter) Handler() http.Handler {
	return a.root
}

// ListenAndServe blocks until the server stops. A graceful Shutdown is not
// reported as an error.
func (a *Adapter) ListenAndServe() error {
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http adapter: %w", err)
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (a *Adapter) Shutdown(ctx context.Context) error {
	a.logger.Info().Msg("http adapter shutdown")
	return a.server.Shutdown(ctx)
}

type routeCtxKey struct{}

type routeContext struct {
	req *transport.Request
	rw  transport.ResponseWriter
}

func requestFromContext(ctx context.Context) (routeContext, bool) {
	rc, ok := ctx.Value(routeCtxKey{}).(routeContext)
	return rc, ok
}

func (a *Adapter) dispatch(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	rw := newResponseWriter(w, log)

	req := transport.NewRequest(r.Context(), transport.TransportHTTP, r.Method, r.URL.EscapedPath(), r.Header, r.RemoteAddr)
	req.Query = r.URL.RawQuery
	req.Client = a.requestClient()

	body, err := readBody(w, r)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrBodyTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		_ = rw.Send(status, transport.ErrorBody{Error: app.MsgInvalidBody, Reason: err.Error()})
		return
	}
	req.Body = body

	final := transport.HandlerFunc(func(tw transport.ResponseWriter, req *transport.Request) {
		ctx := context.WithValue(req.Context(), routeCtxKey{}, routeContext{req: req, rw: tw})
		ctx = context.WithValue(ctx, chi.RouteCtxKey, chi.NewRouteContext())
		a.routes.ServeHTTP(w, r.WithContext(ctx))
		if !tw.Written() {
			_ = tw.Send(http.StatusNoContent, nil)
		}
	})

	a.chain.Then(final).Serve(rw, req)
}

func (a *Adapter) notFound(w http.ResponseWriter, r *http.Request) {
	rc, ok := requestFromContext(r.Context())
	if !ok {
		http.NotFound(w, r)
		return
	}
	_ = rc.rw.Send(http.StatusNotFound, transport.ErrorBody{
		Error:  app.MsgNotFound,
		Reason: fmt.Sprintf("no route for %s %s", rc.req.Method, rc.req.Path),
	})
}
