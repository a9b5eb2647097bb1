// Package metrics exposes the Prometheus collectors updated by the pipeline.
//
// A nil *Metrics is valid and records nothing, so middleware can be built
// without metrics in tests.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cubic_api"

// Auth outcomes recorded by ObserveAuth.
const (
	AuthAnonymous     = "anonymous"
	AuthAuthenticated = "authenticated"
	AuthRefreshed     = "refreshed"
	AuthRejected      = "rejected"
)

// Cache outcomes recorded by ObserveCache.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheStore = "store"
	CacheError = "error"
)

// Metrics holds the gateway collectors.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	authTotal       *prometheus.CounterVec
	throttledTotal  *prometheus.CounterVec
	cacheTotal      *prometheus.CounterVec
}

func newCounterVec(subsystem, name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
		},
		labels,
	)
}

// New creates the collectors and registers them on reg. A collector already
// registered on reg is reused.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requestsTotal: newCounterVec("pipeline", "requests_total",
			"Requests that left the pipeline, by transport and status.", []string{"transport", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "request_duration_seconds",
			Help:      "Time spent in the pipeline per request.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"transport"}),
		authTotal: newCounterVec("auth", "results_total",
			"Auth stage outcomes, by transport and result.", []string{"transport", "result"}),
		throttledTotal: newCounterVec("ratelimit", "throttled_total",
			"Requests rejected by the rate limiter.", []string{"transport"}),
		cacheTotal: newCounterVec("cache", "lookups_total",
			"Cache stage outcomes.", []string{"transport", "result"}),
	}

	if reg == nil {
		return m, nil
	}

	var err error
	m.requestsTotal, err = register(reg, m.requestsTotal)
	if err != nil {
		return nil, err
	}
	m.requestDuration, err = register(reg, m.requestDuration)
	if err != nil {
		return nil, err
	}
	m.authTotal, err = register(reg, m.authTotal)
	if err != nil {
		return nil, err
	}
	m.throttledTotal, err = register(reg, m.throttledTotal)
	if err != nil {
		return nil, err
	}
	m.cacheTotal, err = register(reg, m.cacheTotal)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// ObserveRequest records a finished request.
func (m *Metrics) ObserveRequest(transport string, status int, took time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(transport, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(transport).Observe(took.Seconds())
}

// ObserveAuth records an auth stage outcome.
func (m *Metrics) ObserveAuth(transport, result string) {
	if m == nil {
		return
	}
	m.authTotal.WithLabelValues(transport, result).Inc()
}

// ObserveThrottled records a request rejected by the rate limiter.
func (m *Metrics) ObserveThrottled(transport string) {
	if m == nil {
		return
	}
	m.throttledTotal.WithLabelValues(transport).Inc()
}

// ObserveCache records a cache stage outcome.
func (m *Metrics) ObserveCache(transport, result string) {
	if m == nil {
		return
	}
	m.cacheTotal.WithLabelValues(transport, result).Inc()
}
