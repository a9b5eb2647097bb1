package middleware

import (
	"context"

	"github.com/cubic-js/cubic-api/internal/transport"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/middleware_mock.go -package=mock

// Verifier checks an access token and returns the identity it carries.
type Verifier interface {
	Verify(token string) (transport.Identity, error)
}

// Refresher exchanges a refresh token for a new access token.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (string, error)
}
