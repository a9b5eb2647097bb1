package middleware

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/cubic-js/cubic-api/internal/logger"
	"github.com/cubic-js/cubic-api/internal/mock"
	"github.com/cubic-js/cubic-api/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func serveAuth(mw transport.Middleware, r *transport.Request) (*transport.Recorder, *capture) {
	final := &capture{}
	rec := transport.NewRecorder()
	mw(final).Serve(rec, r)
	return rec, final
}

func TestAuth_AnonymousWithoutCredentials(t *testing.T) {
	keys := newTestKeys(t)
	mw := NewAuth(testConfig(keys.publicPEM), keys.verifier(t), nil, logger.Nop(), nil)

	rec, final := serveAuth(mw, newRequest(nil))

	require.Equal(t, 1, final.called)
	assert.Equal(t, transport.Identity{UID: "10.0.0.7", Scope: ""}, final.user)
	assert.Empty(t, final.token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_ValidHeaderToken(t *testing.T) {
	keys := newTestKeys(t)
	mw := NewAuth(testConfig(keys.publicPEM), keys.verifier(t), nil, logger.Nop(), nil)
	token := keys.sign(t, "alice", "read", time.Hour)

	for _, prefix := range []string{"bearer ", "Bearer ", "BEARER "} {
		h := http.Header{}
		h.Set("Authorization", prefix+token)

		_, final := serveAuth(mw, newRequest(h))

		require.Equal(t, 1, final.called, prefix)
		assert.Equal(t, transport.Identity{UID: "alice", Scope: "read"}, final.user)
		assert.Equal(t, token, final.token)
	}
}

func TestAuth_HeaderTakesPrecedenceOverCookie(t *testing.T) {
	keys := newTestKeys(t)
	mw := NewAuth(testConfig(keys.publicPEM), keys.verifier(t), nil, logger.Nop(), nil)
	headerToken := keys.sign(t, "alice", "read", time.Hour)
	cookieToken := keys.sign(t, "bob", "admin", time.Hour)

	h := cookieHeader(t, "sess", CookiePayload{AccessToken: cookieToken})
	h.Set("Authorization", "bearer "+headerToken)

	_, final := serveAuth(mw, newRequest(h))

	require.Equal(t, 1, final.called)
	assert.Equal(t, "alice", final.user.UID)
	assert.Equal(t, headerToken, final.token)
}

func TestAuth_CookieEquivalentToHeader(t *testing.T) {
	keys := newTestKeys(t)
	mw := NewAuth(testConfig(keys.publicPEM), keys.verifier(t), nil, logger.Nop(), nil)
	token := keys.sign(t, "alice", "read", time.Hour)

	fromHeader := http.Header{}
	fromHeader.Set("Authorization", "bearer "+token)
	recHeader, viaHeader := serveAuth(mw, newRequest(fromHeader))

	recCookie, viaCookie := serveAuth(mw, newRequest(cookieHeader(t, "sess", CookiePayload{AccessToken: token})))

	assert.Equal(t, recHeader.Code, recCookie.Code)
	assert.Equal(t, viaHeader.user, viaCookie.user)
	assert.Equal(t, viaHeader.token, viaCookie.token)
}

func TestAuth_MalformedCookieIsNoCookie(t *testing.T) {
	keys := newTestKeys(t)
	mw := NewAuth(testConfig(keys.publicPEM), keys.verifier(t), nil, logger.Nop(), nil)

	h := http.Header{"Cookie": {"sess=%%%not-base64"}}
	rec, final := serveAuth(mw, newRequest(h))

	require.Equal(t, 1, final.called)
	assert.Equal(t, transport.Identity{UID: "10.0.0.7"}, final.user)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuth_TamperedTokenRejected(t *testing.T) {
	keys := newTestKeys(t)
	mw := NewAuth(testConfig(keys.publicPEM), keys.verifier(t), nil, logger.Nop(), nil)

	// Sign with another key so the signature does not match the configured one.
	tampered := newTestKeys(t).sign(t, "mallory", "admin", time.Hour)
	h := http.Header{}
	h.Set("Authorization", "bearer "+tampered)

	rec, final := serveAuth(mw, newRequest(h))

	assert.Zero(t, final.called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body, ok := rec.Body.(transport.ErrorBody)
	require.True(t, ok)
	assert.Equal(t, "Invalid Token.", body.Error)
	assert.Equal(t, ErrInvalidToken.Error(), body.Error)
	assert.Contains(t, body.Reason, "signature is invalid")
}

func TestAuth_ExpiredWithoutRefreshPath(t *testing.T) {
	ctrl := gomock.NewController(t)
	keys := newTestKeys(t)
	refresher := mock.NewMockRefresher(ctrl)
	mw := NewAuth(testConfig(keys.publicPEM), keys.verifier(t), refresher, logger.Nop(), nil)

	// No refresh token in the cookie: the refresher must not be called.
	h := http.Header{}
	h.Set("Authorization", "bearer "+keys.sign(t, "alice", "", -time.Minute))

	rec, final := serveAuth(mw, newRequest(h))

	assert.Zero(t, final.called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.(transport.ErrorBody).Reason, "expired")
}

func TestAuth_RefreshDisabled(t *testing.T) {
	keys := newTestKeys(t)
	mw := NewAuth(testConfig(keys.publicPEM), keys.verifier(t), nil, logger.Nop(), nil)

	h := cookieHeader(t, "sess", CookiePayload{
		AccessToken:  keys.sign(t, "alice", "", -time.Minute),
		RefreshToken: "refresh-1",
	})

	rec, final := serveAuth(mw, newRequest(h))

	assert.Zero(t, final.called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_ExpiredTokenRefreshedOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	keys := newTestKeys(t)
	refresher := mock.NewMockRefresher(ctrl)
	mw := NewAuth(testConfig(keys.publicPEM), keys.verifier(t), refresher, logger.Nop(), nil)

	fresh := keys.sign(t, "alice", "read", time.Hour)
	refresher.EXPECT().Refresh(gomock.Any(), "refresh-1").Return(fresh, nil).Times(1)

	h := cookieHeader(t, "sess", CookiePayload{
		AccessToken:  keys.sign(t, "alice", "read", -time.Minute),
		RefreshToken: "refresh-1",
	})

	rec, final := serveAuth(mw, newRequest(h))

	require.Equal(t, 1, final.called)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", final.user.UID)
	assert.Equal(t, fresh, final.token)
	assert.Equal(t, "refresh-1", final.req.RefreshToken)
}

func TestAuth_RefreshReturnsExpiredTokenRejectsWithoutLoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	keys := newTestKeys(t)
	refresher := mock.NewMockRefresher(ctrl)
	mw := NewAuth(testConfig(keys.publicPEM), keys.verifier(t), refresher, logger.Nop(), nil)

	stillExpired := keys.sign(t, "alice", "", -time.Second)
	refresher.EXPECT().Refresh(gomock.Any(), "refresh-1").Return(stillExpired, nil).Times(1)

	h := cookieHeader(t, "sess", CookiePayload{RefreshToken: "refresh-1"})
	h.Set("Authorization", "bearer "+keys.sign(t, "alice", "", -time.Minute))

	rec, final := serveAuth(mw, newRequest(h))

	assert.Zero(t, final.called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := rec.Body.(transport.ErrorBody)
	assert.Equal(t, "Invalid Token.", body.Error)
	assert.Contains(t, body.Reason, "expired")
}

func TestAuth_RefreshFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	keys := newTestKeys(t)
	refresher := mock.NewMockRefresher(ctrl)
	mw := NewAuth(testConfig(keys.publicPEM), keys.verifier(t), refresher, logger.Nop(), nil)

	refresher.EXPECT().Refresh(gomock.Any(), "refresh-1").Return("", errors.New("unauthorized")).Times(1)

	h := cookieHeader(t, "sess", CookiePayload{
		AccessToken:  keys.sign(t, "alice", "", -time.Minute),
		RefreshToken: "refresh-1",
	})

	rec, final := serveAuth(mw, newRequest(h))

	assert.Zero(t, final.called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, transport.ErrorBody{
		Error:  "Invalid Token.",
		Reason: "Refresh token could not be attributed to any user.",
	}, rec.Body)
}

func TestAuth_RefreshNotAttemptedForBadSignature(t *testing.T) {
	ctrl := gomock.NewController(t)
	keys := newTestKeys(t)
	refresher := mock.NewMockRefresher(ctrl)
	mw := NewAuth(testConfig(keys.publicPEM), keys.verifier(t), refresher, logger.Nop(), nil)

	h := cookieHeader(t, "sess", CookiePayload{
		AccessToken:  newTestKeys(t).sign(t, "alice", "", time.Hour),
		RefreshToken: "refresh-1",
	})

	rec, _ := serveAuth(mw, newRequest(h))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_ReusedStreamRequestResetsIdentity(t *testing.T) {
	keys := newTestKeys(t)
	mw := NewAuth(testConfig(keys.publicPEM), keys.verifier(t), nil, logger.Nop(), nil)
	final := &capture{}
	h := mw(final)

	r := newRequest(nil)
	r.Transport = transport.TransportStream
	r.Header.Set("Authorization", "bearer "+keys.sign(t, "alice", "read", time.Hour))
	h.Serve(transport.NewRecorder(), r)
	assert.Equal(t, "alice", final.user.UID)

	r.Header.Del("Authorization")
	h.Serve(transport.NewRecorder(), r)
	assert.Equal(t, transport.Identity{UID: "10.0.0.7"}, final.user)
	assert.Empty(t, final.token)
	assert.Equal(t, 2, final.called)
}

func TestAuth_UsesVerifierMock(t *testing.T) {
	ctrl := gomock.NewController(t)
	verifier := mock.NewMockVerifier(ctrl)
	mw := NewAuth(testConfig("unused"), verifier, nil, logger.Nop(), nil)

	verifier.EXPECT().Verify("opaque").Return(transport.Identity{UID: "svc", Scope: "internal"}, nil)

	h := http.Header{}
	h.Set("Authorization", "opaque")
	_, final := serveAuth(mw, newRequest(h))

	assert.Equal(t, transport.Identity{UID: "svc", Scope: "internal"}, final.user)
}
