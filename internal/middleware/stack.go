package middleware

import (
	"fmt"

	"github.com/cubic-js/cubic-api/internal/config"
	"github.com/cubic-js/cubic-api/internal/logger"
	"github.com/cubic-js/cubic-api/internal/metrics"
	"github.com/cubic-js/cubic-api/internal/store"
	"github.com/cubic-js/cubic-api/internal/transport"
)

// Named is a pipeline stage together with its configuration name.
type Named struct {
	Name       string
	Middleware transport.Middleware
}

// Deps are the collaborators of the built-in stages.
type Deps struct {
	Verifier  Verifier
	Refresher Refresher
	Storages  *store.Storages
	Logger    *logger.Logger
	Metrics   *metrics.Metrics
}

// BuildStack returns the enabled built-in stages in cfg.MiddlewareOrder.
// Disabled stages are left out; the auth stage is always present.
func BuildStack(cfg config.Config, deps Deps) ([]Named, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deps.Verifier == nil {
		return nil, fmt.Errorf("auth stage needs a verifier")
	}
	if (cfg.UseCache || cfg.UseRateLimiter) && deps.Storages == nil {
		return nil, fmt.Errorf("cache and rate limiter stages need storages")
	}

	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}

	stack := make([]Named, 0, len(cfg.MiddlewareOrder))
	for _, name := range cfg.MiddlewareOrder {
		var mw transport.Middleware

		switch name {
		case config.StageLogger:
			if cfg.UseRequestLogger {
				mw = NewRequestLogger(log, deps.Metrics)
			}
		case config.StageCache:
			if cfg.UseCache {
				mw = NewCache(deps.Storages.Cache, cfg.Cache.TTL, log, deps.Metrics, WithTokenExpiry(cfg.AuthCookie))
			}
		case config.StageRateLimiter:
			if cfg.UseRateLimiter {
				mw = NewRateLimiter(deps.Storages.Counter, cfg.RateLimit.Max, cfg.RateLimit.Window, log, deps.Metrics)
			}
		case config.StageAuth:
			mw = NewAuth(cfg, deps.Verifier, deps.Refresher, log, deps.Metrics)
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownStage, name)
		}

		if mw != nil {
			stack = append(stack, Named{Name: name, Middleware: mw})
		}
	}

	return stack, nil
}
