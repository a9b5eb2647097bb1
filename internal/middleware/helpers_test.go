package middleware

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"testing"
	"time"

	"github.com/cubic-js/cubic-api/internal/config"
	"github.com/cubic-js/cubic-api/internal/transport"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

type testKeys struct {
	private   ed25519.PrivateKey
	publicPEM string
}

func newTestKeys(t *testing.T) testKeys {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(pub)
	require.NoError(t, err)

	return testKeys{
		private:   priv,
		publicPEM: string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})),
	}
}

func (k testKeys) sign(t *testing.T, uid, scope string, ttl time.Duration) string {
	t.Helper()

	claims := jwt.MapClaims{
		"uid": uid,
		"scp": scope,
		"exp": time.Now().Add(ttl).Unix(),
		"iat": time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(k.private)
	require.NoError(t, err)
	return token
}

func (k testKeys) verifier(t *testing.T) Verifier {
	t.Helper()
	v, err := NewJWTVerifier(k.publicPEM)
	require.NoError(t, err)
	return v
}

func testConfig(certPublic string) config.Config {
	return config.Config{
		Port:       4000,
		CertPublic: certPublic,
		AuthCookie: "sess",
	}.WithDefaults()
}

func newRequest(header http.Header) *transport.Request {
	return transport.NewRequest(context.Background(), transport.TransportHTTP, http.MethodGet, "/me", header, "10.0.0.7:51000")
}

func cookieHeader(t *testing.T, name string, p CookiePayload) http.Header {
	t.Helper()
	value, err := EncodeCookie(p)
	require.NoError(t, err)

	h := http.Header{}
	h.Add("Cookie", (&http.Cookie{Name: name, Value: value}).String())
	return h
}

// capture is a final handler remembering the request it was called with.
type capture struct {
	called int
	req    *transport.Request
	user   transport.Identity
	token  string
}

func (c *capture) Serve(w transport.ResponseWriter, r *transport.Request) {
	c.called++
	c.req = r
	c.user = r.User
	c.token = r.AccessToken
	_ = w.Send(http.StatusOK, map[string]string{"uid": r.User.UID})
}
