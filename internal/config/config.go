// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"strconv"
	"time"
)

// Pipeline stage names accepted in [Config.MiddlewareOrder].
const (
	StageLogger      = "logger"
	StageCache       = "cache"
	StageRateLimiter = "ratelimit"
	StageAuth        = "auth"
)

// DefaultMiddlewareOrder is the order in which the built-in stages are
// registered on both transports when no explicit order is configured.
// Disabled stages are skipped but keep their relative position. The cache runs
// before auth here, so its entries are keyed by caller and capped at the
// presented token's expiry.
var DefaultMiddlewareOrder = []string{StageLogger, StageCache, StageRateLimiter, StageAuth}

// Config is the worker configuration. Exactly one value is produced per worker
// process before any transport is created; after that it is treated as
// read-only and passed by value to every component that needs it.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
//   - json: field name in the bootstrap message and the JSON config file.
type Config struct {
	// Port is the TCP port shared by the HTTP and stream transports.
	// Env: GATEWAY_PORT
	Port int `env:"PORT" json:"port"`

	// CertPublic is the PEM encoded public key or certificate used to verify
	// access tokens (RSA, ECDSA or Ed25519).
	// Env: GATEWAY_CERT_PUBLIC
	CertPublic string `env:"CERT_PUBLIC" json:"certPublic"`

	// CertPublicFile is read into CertPublic when CertPublic is empty.
	// Env: GATEWAY_CERT_PUBLIC_FILE
	CertPublicFile string `env:"CERT_PUBLIC_FILE" json:"certPublicFile,omitempty"`

	// AuthCookie is the name of the cookie carrying the base64 token payload.
	// Env: GATEWAY_AUTH_COOKIE
	AuthCookie string `env:"AUTH_COOKIE" json:"authCookie"`

	// Prefix is prepended to auth diagnostics to tell worker groups apart.
	// Env: GATEWAY_PREFIX
	Prefix string `env:"PREFIX" json:"prefix,omitempty"`

	// UseRequestLogger enables the request logger stage.
	// Env: GATEWAY_USE_REQUEST_LOGGER
	UseRequestLogger bool `env:"USE_REQUEST_LOGGER" json:"useRequestLogger"`

	// UseRateLimiter enables the rolling-window rate limiter stage.
	// Env: GATEWAY_USE_RATE_LIMITER
	UseRateLimiter bool `env:"USE_RATE_LIMITER" json:"useRateLimiter"`

	// UseCache enables the response cache stage.
	// Env: GATEWAY_USE_CACHE
	UseCache bool `env:"USE_CACHE" json:"useCache,omitempty"`

	// Routes names the route table registered on the HTTP transport.
	// Env: GATEWAY_ROUTES
	Routes string `env:"ROUTES" json:"routes"`

	// Events names the event table registered on the stream transport.
	// Env: GATEWAY_EVENTS
	Events string `env:"EVENTS" json:"events"`

	// StreamPath is the HTTP path upgraded to the stream transport.
	// Env: GATEWAY_STREAM_PATH
	StreamPath string `env:"STREAM_PATH" json:"streamPath,omitempty"`

	// MiddlewareOrder overrides [DefaultMiddlewareOrder]. It must list every
	// stage exactly once and, when present, the logger must come first.
	// Env: GATEWAY_MIDDLEWARE_ORDER (comma separated)
	MiddlewareOrder []string `env:"MIDDLEWARE_ORDER" json:"middlewareOrder,omitempty"`

	// RateLimit tunes the rate limiter stage.
	RateLimit RateLimit `envPrefix:"RATE_LIMIT_" json:"rateLimit"`

	// Cache tunes the response cache stage.
	Cache Cache `envPrefix:"CACHE_" json:"cache"`

	// Refresh configures the optional refresh-token retry of the auth stage.
	Refresh Refresh `envPrefix:"REFRESH_" json:"refresh"`

	// Redis points the cache and rate-limit stores at a shared redis. When
	// Addr is empty both stores are kept in process memory.
	Redis Redis `envPrefix:"REDIS_" json:"redis"`

	// LogLevel is the minimum zerolog level ("debug", "info", ...).
	// Env: GATEWAY_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL" json:"logLevel,omitempty"`

	// ShutdownTimeout bounds graceful shutdown of the listener.
	// Env: GATEWAY_SHUTDOWN_TIMEOUT
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" json:"shutdownTimeout"`

	// BootstrapFromStdin makes the binary wait for the configuration message
	// from the supervising process on stdin instead of starting right away.
	// Env: GATEWAY_BOOTSTRAP_STDIN
	BootstrapFromStdin bool `env:"BOOTSTRAP_STDIN" json:"-"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Env: GATEWAY_CONFIG
	JSONFilePath string `env:"CONFIG" json:"-"`
}

// RateLimit holds the rate limiter threshold and window.
type RateLimit struct {
	// Max is the number of requests allowed per identity and window.
	// Env: GATEWAY_RATE_LIMIT_MAX
	Max int `env:"MAX" json:"max"`

	// Window is the length of the fixed counting window.
	// Env: GATEWAY_RATE_LIMIT_WINDOW
	Window time.Duration `env:"WINDOW" json:"window"`
}

// Cache holds response cache settings.
type Cache struct {
	// TTL is how long a cached response stays valid.
	// Env: GATEWAY_CACHE_TTL
	TTL time.Duration `env:"TTL" json:"ttl"`
}

// Refresh configures the token refresh endpoint.
type Refresh struct {
	// URL is the base URL of the auth node exposing POST /refresh.
	// Empty disables the refresh-and-retry path.
	// Env: GATEWAY_REFRESH_URL
	URL string `env:"URL" json:"url,omitempty"`

	// Timeout bounds the single refresh round-trip.
	// Env: GATEWAY_REFRESH_TIMEOUT
	Timeout time.Duration `env:"TIMEOUT" json:"timeout"`
}

// Redis holds connection settings of the shared store.
type Redis struct {
	// Env: GATEWAY_REDIS_ADDR
	Addr string `env:"ADDR" json:"addr,omitempty"`
	// Env: GATEWAY_REDIS_PASSWORD
	Password string `env:"PASSWORD" json:"password,omitempty"`
	// Env: GATEWAY_REDIS_DB
	DB int `env:"DB" json:"db,omitempty"`
}

const (
	defaultRoutes          = "default"
	defaultEvents          = "default"
	defaultStreamPath      = "/ws"
	defaultPrefix          = "cubic-api"
	defaultLogLevel        = "debug"
	defaultRateLimitMax    = 60
	defaultRateLimitWindow = time.Minute
	defaultCacheTTL        = 30 * time.Second
	defaultRefreshTimeout  = 5 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

// WithDefaults returns a copy of cfg where every unset optional field carries
// its default value. Required fields (port, key, cookie) are left alone so
// that [Config.Validate] can report them.
func (cfg Config) WithDefaults() Config {
	if cfg.Routes == "" {
		cfg.Routes = defaultRoutes
	}
	if cfg.Events == "" {
		cfg.Events = defaultEvents
	}
	if cfg.StreamPath == "" {
		cfg.StreamPath = defaultStreamPath
	}
	if cfg.Prefix == "" {
		cfg.Prefix = defaultPrefix
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaultLogLevel
	}
	if len(cfg.MiddlewareOrder) == 0 {
		cfg.MiddlewareOrder = append([]string(nil), DefaultMiddlewareOrder...)
	} else {
		cfg.MiddlewareOrder = append([]string(nil), cfg.MiddlewareOrder...)
	}
	if cfg.RateLimit.Max == 0 {
		cfg.RateLimit.Max = defaultRateLimitMax
	}
	if cfg.RateLimit.Window == 0 {
		cfg.RateLimit.Window = defaultRateLimitWindow
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = defaultCacheTTL
	}
	if cfg.Refresh.Timeout == 0 {
		cfg.Refresh.Timeout = defaultRefreshTimeout
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	return cfg
}

// Address returns the listen address for the shared HTTP/stream listener.
func (cfg Config) Address() string {
	return ":" + strconv.Itoa(cfg.Port)
}

// GetConfig loads, merges, and validates the worker configuration from all
// available sources in the following priority order (later sources override
// earlier non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
func GetConfig(args []string) (Config, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(args).
		withJSON().
		build()
}
