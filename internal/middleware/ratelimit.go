package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cubic-js/cubic-api/internal/logger"
	"github.com/cubic-js/cubic-api/internal/metrics"
	"github.com/cubic-js/cubic-api/internal/store"
	"github.com/cubic-js/cubic-api/internal/transport"
)

// NewRateLimiter returns the rate limiter stage. Requests are counted per
// identity uid in fixed windows; once more than max requests were seen in the
// current window the request is rejected with 429.
//
// Placed before auth the uid is the caller address, after auth it is the
// token's user id. Counter failures are logged and the request proceeds.
func NewRateLimiter(counter store.CounterStore, max int, window time.Duration, log *logger.Logger, m *metrics.Metrics) transport.Middleware {
	reason := fmt.Sprintf("Limit of %d requests per %s exceeded.", max, window)

	return func(next transport.Handler) transport.Handler {
		return transport.HandlerFunc(func(w transport.ResponseWriter, r *transport.Request) {
			count, err := counter.Incr(r.Context(), r.User.UID, window)
			if err != nil {
				log.Warn().Err(err).Str("uid", r.User.UID).Msg("rate limit counter failed")
				next.Serve(w, r)
				return
			}

			if count > int64(max) {
				log.Debug().Str("uid", r.User.UID).Int64("count", count).Msg("request throttled")
				m.ObserveThrottled(r.Transport)
				_ = w.Send(http.StatusTooManyRequests, rejection(ErrRateLimited, reason))
				return
			}

			next.Serve(w, r)
		})
	}
}
