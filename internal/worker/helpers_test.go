package worker

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"testing"
	"time"

	"github.com/cubic-js/cubic-api/internal/config"
	"github.com/cubic-js/cubic-api/internal/handler"
	"github.com/cubic-js/cubic-api/internal/logger"
	"github.com/cubic-js/cubic-api/models"
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

func (k testKeys) sign(t *testing.T, uid string, ttl time.Duration) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, jwt.MapClaims{
		"uid": uid,
		"scp": "read write",
		"exp": time.Now().Add(ttl).Unix(),
	}).SignedString(k.private)
	require.NoError(t, err)
	return token
}

func testTables() handler.Catalog {
	return handler.NewCatalog(handler.NewHandler(models.NewAppBuildInfo("test", "", ""), logger.Nop()))
}

// scenarioConfig is the worker configuration of a typical deployment:
// port 4000, cookie "sess", rate limiter on with a threshold of 10.
func scenarioConfig(publicPEM string) config.Config {
	return config.Config{
		Port:             4000,
		CertPublic:       publicPEM,
		AuthCookie:       "sess",
		UseRequestLogger: true,
		UseRateLimiter:   true,
		Routes:           handler.DefaultTable,
		Events:           handler.DefaultTable,
		RateLimit:        config.RateLimit{Max: 10, Window: time.Minute},
	}
}

func newTestWorker(t *testing.T, cfg config.Config, opts ...Option) *Worker {
	t.Helper()

	w, err := New(context.Background(), cfg, testTables(), logger.Nop(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = w.Shutdown(ctx)
	})
	return w
}

// bootstrapMessage renders a configuration message as sent by the
// supervising process.
func bootstrapMessage(t *testing.T, publicPEM string, port int) string {
	t.Helper()

	msg, err := json.Marshal(map[string]any{
		"global": map[string]any{
			"port":             port,
			"certPublic":       publicPEM,
			"authCookie":       "sess",
			"useRequestLogger": true,
			"useRateLimiter":   true,
			"routes":           handler.DefaultTable,
			"events":           handler.DefaultTable,
			"rateLimit":        map[string]any{"max": 10, "window": "1m"},
		},
	})
	require.NoError(t, err)
	return string(msg)
}
