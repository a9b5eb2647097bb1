package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/cubic-js/cubic-api/internal/config"
	"github.com/cubic-js/cubic-api/internal/logger"
	"github.com/cubic-js/cubic-api/internal/metrics"
	"github.com/cubic-js/cubic-api/internal/transport"
)

const bearerPrefix = "bearer "

type auth struct {
	cookieName     string
	prefix         string
	refreshTimeout time.Duration

	verifier  Verifier
	refresher Refresher

	logger  *logger.Logger
	metrics *metrics.Metrics
}

// NewAuth returns the authentication stage.
//
// The access token is taken from the Authorization header, or from the auth
// cookie when no header is present. Without a token the request proceeds with
// the anonymous identity. A token that fails verification rejects the request
// with 401 and an [transport.ErrorBody]. When refresher is not nil, an expired
// token is refreshed with the cookie's refresh token at most once before the
// request is rejected.
func NewAuth(cfg config.Config, verifier Verifier, refresher Refresher, log *logger.Logger, m *metrics.Metrics) transport.Middleware {
	a := &auth{
		cookieName:     cfg.AuthCookie,
		prefix:         cfg.Prefix,
		refreshTimeout: cfg.Refresh.Timeout,
		verifier:       verifier,
		refresher:      refresher,
		logger:         log,
		metrics:        m,
	}

	return func(next transport.Handler) transport.Handler {
		return transport.HandlerFunc(func(w transport.ResponseWriter, r *transport.Request) {
			a.serve(next, w, r)
		})
	}
}

func (a *auth) serve(next transport.Handler, w transport.ResponseWriter, r *transport.Request) {
	r.ResetAuth()
	ip := r.User.UID

	authorization := r.Header.Get("Authorization")
	cookie := cookiePayload(r.Header, a.cookieName)
	if cookie.RefreshToken != "" {
		r.RefreshToken = cookie.RefreshToken
	}
	if authorization == "" && cookie.AccessToken != "" {
		authorization = bearerPrefix + cookie.AccessToken
	}

	if authorization == "" {
		a.logger.Debug().Msgf("%s | (%s) %s connected without token", a.prefix, r.Transport, ip)
		a.metrics.ObserveAuth(r.Transport, metrics.AuthAnonymous)
		next.Serve(w, r)
		return
	}

	token := stripBearer(authorization)
	identity, err := a.verifier.Verify(token)
	result := metrics.AuthAuthenticated

	if err != nil && a.canRefresh(err, r) {
		a.logger.Debug().Msgf("%s | (%s) %s token expired, refreshing", a.prefix, r.Transport, ip)
		token, identity, err = a.refresh(r)
		result = metrics.AuthRefreshed
	}

	if err != nil {
		a.logger.Debug().Msgf("%s | (%s) %s rejected (%v)", a.prefix, r.Transport, ip, err)
		a.metrics.ObserveAuth(r.Transport, metrics.AuthRejected)
		_ = w.Send(http.StatusUnauthorized, rejection(ErrInvalidToken, err.Error()))
		return
	}

	r.User = identity
	r.AccessToken = token
	a.logger.Debug().Msgf("%s | (%s) %s connected as %s", a.prefix, r.Transport, ip, identity.UID)
	a.metrics.ObserveAuth(r.Transport, result)
	next.Serve(w, r)
}

func (a *auth) canRefresh(err error, r *transport.Request) bool {
	return a.refresher != nil && r.RefreshToken != "" && isExpired(err)
}

// refresh performs the single refresh-and-retry. Its outcome is final: a
// second failure is returned as is.
func (a *auth) refresh(r *transport.Request) (string, transport.Identity, error) {
	ctx := r.Context()
	if a.refreshTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.refreshTimeout)
		defer cancel()
	}

	token, err := a.refresher.Refresh(ctx, r.RefreshToken)
	if err != nil || token == "" {
		a.logger.Debug().Err(err).Msg("refresh round-trip failed")
		return "", transport.Identity{}, ErrRefreshFailed
	}

	token = stripBearer(token)
	identity, err := a.verifier.Verify(token)
	if err != nil {
		return "", transport.Identity{}, err
	}
	return token, identity, nil
}

func stripBearer(value string) string {
	value = strings.TrimSpace(value)
	if len(value) >= len(bearerPrefix) && strings.EqualFold(value[:len(bearerPrefix)], bearerPrefix) {
		return strings.TrimSpace(value[len(bearerPrefix):])
	}
	return value
}
