package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/cubic-js/cubic-api/internal/logger"
	"github.com/cubic-js/cubic-api/internal/metrics"
	"github.com/cubic-js/cubic-api/internal/store"
	"github.com/cubic-js/cubic-api/internal/transport"
	"github.com/golang-jwt/jwt/v5"
)

// cachedResponse is the value kept in the cache store.
type cachedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// CacheOption configures NewCache.
type CacheOption func(*cacheStage)

type cacheStage struct {
	cookieName string
}

// WithTokenExpiry caps every entry at the expiry of the access token the
// caller presented (Authorization header, else the named auth cookie). A
// request whose token already expired is not stored. The claim is read
// without verification; only the auth stage decides who the caller is.
func WithTokenExpiry(cookieName string) CacheOption {
	return func(c *cacheStage) { c.cookieName = cookieName }
}

// NewCache returns the response cache stage. GET requests are looked up by
// transport, route, caller and the request attributes that can change the
// response (query, Authorization header, cookies). A hit is sent without
// running the rest of the pipeline. On a miss the first 200 response is
// stored for ttl, or until the presented token expires with WithTokenExpiry.
//
// Store failures are logged and the request proceeds uncached.
func NewCache(cache store.CacheStore, ttl time.Duration, log *logger.Logger, m *metrics.Metrics, opts ...CacheOption) transport.Middleware {
	stage := &cacheStage{}
	for _, opt := range opts {
		opt(stage)
	}

	return func(next transport.Handler) transport.Handler {
		return transport.HandlerFunc(func(w transport.ResponseWriter, r *transport.Request) {
			if r.Method != http.MethodGet {
				next.Serve(w, r)
				return
			}

			ctx := r.Context()
			key := cacheKey(r)

			raw, ok, err := cache.Get(ctx, key)
			switch {
			case err != nil:
				log.Warn().Err(err).Str("key", key).Msg("cache lookup failed")
				m.ObserveCache(r.Transport, metrics.CacheError)
			case ok:
				var cached cachedResponse
				if err := json.Unmarshal(raw, &cached); err == nil {
					m.ObserveCache(r.Transport, metrics.CacheHit)
					_ = w.Send(cached.Status, cached.Body)
					return
				}
				log.Warn().Str("key", key).Msg("dropping undecodable cache entry")
			default:
				m.ObserveCache(r.Transport, metrics.CacheMiss)
			}

			entryTTL := stage.entryTTL(r, ttl, time.Now())
			recorder := transport.Intercept(w, func(status int, body any) {
				if status != http.StatusOK || entryTTL <= 0 {
					return
				}
				payload, err := json.Marshal(body)
				if err != nil {
					return
				}
				value, err := json.Marshal(cachedResponse{Status: status, Body: payload})
				if err != nil {
					return
				}
				if err := cache.Set(ctx, key, value, entryTTL); err != nil {
					log.Warn().Err(err).Str("key", key).Msg("cache store failed")
					m.ObserveCache(r.Transport, metrics.CacheError)
					return
				}
				m.ObserveCache(r.Transport, metrics.CacheStore)
			})

			next.Serve(recorder, r)
		})
	}
}

// entryTTL returns ttl, shortened to the presented token's remaining lifetime
// when token expiry is tracked.
func (c *cacheStage) entryTTL(r *transport.Request, ttl time.Duration, now time.Time) time.Duration {
	if c.cookieName == "" {
		return ttl
	}

	token := stripBearer(r.Header.Get("Authorization"))
	if token == "" {
		token = cookiePayload(r.Header, c.cookieName).AccessToken
	}
	if token == "" {
		return ttl
	}

	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil || claims.ExpiresAt == nil {
		return ttl
	}
	return min(ttl, claims.ExpiresAt.Sub(now))
}

// cacheKey separates callers by address and uid as well as by credentials:
// placed before auth every anonymous caller presents the same (empty)
// credentials but gets a different identity.
func cacheKey(r *transport.Request) string {
	h := sha256.New()
	h.Write([]byte(r.ClientAddress()))
	h.Write([]byte{0})
	h.Write([]byte(r.User.UID))
	h.Write([]byte{0})
	h.Write([]byte(r.Query))
	h.Write([]byte{0})
	h.Write([]byte(r.Header.Get("Authorization")))
	h.Write([]byte{0})
	h.Write([]byte(r.Header.Get("Cookie")))

	return r.Transport + " " + r.Method + " " + r.Path + " " + hex.EncodeToString(h.Sum(nil))
}
