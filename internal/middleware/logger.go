package middleware

import (
	"time"

	"github.com/cubic-js/cubic-api/internal/logger"
	"github.com/cubic-js/cubic-api/internal/metrics"
	"github.com/cubic-js/cubic-api/internal/transport"
	"github.com/rs/zerolog"
)

// NewRequestLogger returns the request logger stage. It never short-circuits;
// it logs one line per request once the response is known.
func NewRequestLogger(log *logger.Logger, m *metrics.Metrics) transport.Middleware {
	return func(next transport.Handler) transport.Handler {
		return transport.HandlerFunc(func(w transport.ResponseWriter, r *transport.Request) {
			l := logger.FromContext(r.Context())
			if l.GetLevel() == zerolog.Disabled {
				l = log
			}

			start := time.Now()
			next.Serve(w, r)
			duration := time.Since(start)

			m.ObserveRequest(r.Transport, w.Status(), duration)

			l.Info().
				Str("transport", r.Transport).
				Str("method", r.Method).
				Str("path", r.Path).
				Str("uid", r.User.UID).
				Int("status", w.Status()).
				Dur("duration", duration).
				Send()
		})
	}
}
