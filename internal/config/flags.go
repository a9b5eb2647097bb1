package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"
)

// parseFlags parses the command-line flags in args into a partial [Config].
// Only flags that were actually set end up non-zero, so the result can be
// merged over the environment configuration.
//
// Flags:
//
//	-p port shared by HTTP and stream transports
//	-cert path to the PEM public key used to verify tokens
//	-cookie name of the auth cookie
//	-routes route table name
//	-events event table name
//	-logger enable the request logger
//	-rate-limit enable the rate limiter
//	-rate-limit-max requests per window
//	-rate-limit-window window length (e.g. "1m")
//	-cache enable the response cache
//	-cache-ttl cache entry lifetime (e.g. "30s")
//	-order comma separated middleware order
//	-refresh-url auth node base URL for token refresh
//	-redis redis address for shared stores
//	-log-level minimum log level
//	-stdin wait for the bootstrap message on stdin
//	-c/-config json file path with configs
func parseFlags(args []string) (*Config, error) {
	fs := flag.NewFlagSet("gateway", flag.ContinueOnError)

	var (
		port                            int
		certFile, cookie, routes        string
		events, order, refreshURL       string
		redisAddr, logLevel, jsonConfig string
		useLogger, useLimiter, useCache bool
		fromStdin                       bool
		limitMax                        int
		limitWindow, cacheTTL           time.Duration
	)

	fs.IntVar(&port, "p", 0, "Listen port")
	fs.StringVar(&certFile, "cert", "", "Public key PEM file")
	fs.StringVar(&cookie, "cookie", "", "Auth cookie name")
	fs.StringVar(&routes, "routes", "", "Route table name")
	fs.StringVar(&events, "events", "", "Event table name")
	fs.BoolVar(&useLogger, "logger", false, "Enable request logger")
	fs.BoolVar(&useLimiter, "rate-limit", false, "Enable rate limiter")
	fs.IntVar(&limitMax, "rate-limit-max", 0, "Requests per window")
	fs.DurationVar(&limitWindow, "rate-limit-window", 0, "Rate limit window (e.g., 1m)")
	fs.BoolVar(&useCache, "cache", false, "Enable response cache")
	fs.DurationVar(&cacheTTL, "cache-ttl", 0, "Cache TTL (e.g., 30s)")
	fs.StringVar(&order, "order", "", "Comma separated middleware order")
	fs.StringVar(&refreshURL, "refresh-url", "", "Token refresh base URL")
	fs.StringVar(&redisAddr, "redis", "", "Redis address host:port")
	fs.StringVar(&logLevel, "log-level", "", "Log level")
	fs.BoolVar(&fromStdin, "stdin", false, "Wait for bootstrap message on stdin")
	fs.StringVar(&jsonConfig, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfig, "config", "", "JSON config file path (alias)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	cfg := &Config{
		Port:               port,
		CertPublicFile:     certFile,
		AuthCookie:         cookie,
		Routes:             routes,
		Events:             events,
		UseRequestLogger:   useLogger,
		UseRateLimiter:     useLimiter,
		UseCache:           useCache,
		RateLimit:          RateLimit{Max: limitMax, Window: limitWindow},
		Cache:              Cache{TTL: cacheTTL},
		Refresh:            Refresh{URL: refreshURL},
		Redis:              Redis{Addr: redisAddr},
		LogLevel:           logLevel,
		BootstrapFromStdin: fromStdin,
		JSONFilePath:       jsonConfig,
	}
	if order != "" {
		cfg.MiddlewareOrder = trimStages(strings.Split(order, ","))
	}

	return cfg, nil
}

// readCertFile loads the PEM file referenced by path.
func readCertFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("error reading public key file: %w", err)
	}
	return string(data), nil
}
