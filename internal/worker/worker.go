package worker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/cubic-js/cubic-api/internal/adapter"
	httpadapter "github.com/cubic-js/cubic-api/internal/adapter/http"
	"github.com/cubic-js/cubic-api/internal/adapter/stream"
	"github.com/cubic-js/cubic-api/internal/client"
	"github.com/cubic-js/cubic-api/internal/config"
	"github.com/cubic-js/cubic-api/internal/logger"
	"github.com/cubic-js/cubic-api/internal/metrics"
	"github.com/cubic-js/cubic-api/internal/middleware"
	"github.com/cubic-js/cubic-api/internal/server"
	"github.com/cubic-js/cubic-api/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Worker is one booted gateway worker.
type Worker struct {
	cfg config.Config

	http       *httpadapter.Adapter
	stream     *stream.Adapter
	dispatcher *server.Server
	client     client.Client
	storages   *store.Storages

	stopDelivery context.CancelFunc
	logger       *logger.Logger
}

type options struct {
	refresher middleware.Refresher
	registry  *prometheus.Registry
}

// Option configures New.
type Option func(*options)

// WithRefresher replaces the refresher built from cfg.Refresh.
func WithRefresher(r middleware.Refresher) Option {
	return func(o *options) {
		o.refresher = r
	}
}

// WithRegistry makes the worker register its metrics on reg instead of a
// fresh registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) {
		o.registry = reg
	}
}

// New builds a worker from cfg. Every component is created exactly once and
// in order; the first failure aborts the boot and releases what was built.
func New(ctx context.Context, cfg config.Config, tables Tables, log *logger.Logger, opts ...Option) (_ *Worker, err error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	// 1. read-only configuration
	cfg = cfg.WithDefaults()
	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	log = log.WithLevel(cfg.LogLevel)

	routes, events, err := tables.Lookup(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}

	verifier, err := middleware.NewJWTVerifier(cfg.CertPublic)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}

	registry := o.registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	m, err := metrics.New(registry)
	if err != nil {
		return nil, fmt.Errorf("error creating metrics: %w", err)
	}

	storages, err := store.NewStorages(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}

	w := &Worker{cfg: cfg, storages: storages, logger: log}
	defer func() {
		if err != nil {
			w.release()
		}
	}()

	// 2. HTTP adapter on the configured port
	w.http, err = httpadapter.New(cfg, log,
		httpadapter.WithMetricsHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})))
	if err != nil {
		return nil, err
	}

	// 3. stream adapter on the same listener
	w.stream, err = stream.New(w.http.Router(), cfg, log)
	if err != nil {
		return nil, err
	}

	// 4. dispatcher
	w.dispatcher, err = server.New(cfg, log, w.http, w.stream)
	if err != nil {
		return nil, err
	}

	// 5. middleware
	refresher := o.refresher
	if refresher == nil && cfg.Refresh.URL != "" {
		if refresher, err = adapter.NewHTTPAuthAdapter(cfg.Refresh, log); err != nil {
			return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
		}
	}

	stack, err := middleware.BuildStack(cfg, middleware.Deps{
		Verifier:  verifier,
		Refresher: refresher,
		Storages:  storages,
		Logger:    log,
		Metrics:   m,
	})
	if err != nil {
		return nil, err
	}
	if err = w.dispatcher.ApplyMiddleware(stack); err != nil {
		return nil, err
	}

	// 6. shared request client
	w.client = client.NewClient(log)
	deliveryCtx, stopDelivery := context.WithCancel(context.Background())
	w.stopDelivery = stopDelivery
	if err = w.client.Subscribe(deliveryCtx, w.stream.Deliver); err != nil {
		return nil, err
	}
	w.dispatcher.SetRequestClient(w.client)

	// 7. route and event tables
	if err = w.dispatcher.ApplyRoutes(routes, events); err != nil {
		return nil, err
	}

	// 8. ready
	log.Info().Int("pid", os.Getpid()).Str("addr", cfg.Address()).
		Msgf("%s | worker started [%d]", cfg.Prefix, os.Getpid())

	return w, nil
}

// Config returns the configuration the worker was built from.
func (w *Worker) Config() config.Config {
	return w.cfg
}

// Ready reports whether the route and event tables are loaded.
func (w *Worker) Ready() bool {
	return w.dispatcher != nil && w.dispatcher.Ready()
}

// Handler returns the HTTP handler serving both transports.
func (w *Worker) Handler() http.Handler {
	return w.http.Handler()
}

// Run serves until ctx is cancelled or the listener fails, then shuts down
// gracefully within cfg.ShutdownTimeout.
func (w *Worker) Run(ctx context.Context) error {
	serveErr := make(chan error, 1)
	go func() {
		w.logger.Info().Str("addr", w.cfg.Address()).Msg("launching listener")
		serveErr <- w.http.ListenAndServe()
	}()

	var err error
	select {
	case <-ctx.Done():
	case err = <-serveErr:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), w.cfg.ShutdownTimeout)
	defer cancel()
	if shutdownErr := w.Shutdown(shutdownCtx); shutdownErr != nil {
		err = errors.Join(err, shutdownErr)
	}

	w.logger.Info().Msg("worker shutdown gracefully")
	return err
}

// Shutdown stops the listener, closes stream connections and releases the
// request client and the stores.
func (w *Worker) Shutdown(ctx context.Context) error {
	var err error
	if w.http != nil {
		err = w.http.Shutdown(ctx)
	}
	return errors.Join(err, w.release())
}

func (w *Worker) release() error {
	var errs []error
	if w.stream != nil {
		errs = append(errs, w.stream.Close())
	}
	if w.stopDelivery != nil {
		w.stopDelivery()
	}
	if w.client != nil {
		errs = append(errs, w.client.Close())
	}
	if w.storages != nil {
		errs = append(errs, w.storages.Close())
	}
	return errors.Join(errs...)
}
