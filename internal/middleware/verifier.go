package middleware

import (
	"crypto"
	"errors"
	"fmt"
	"strings"

	"github.com/cubic-js/cubic-api/internal/transport"
	"github.com/golang-jwt/jwt/v5"
)

type jwtVerifier struct {
	key    crypto.PublicKey
	parser *jwt.Parser
}

// NewJWTVerifier builds a Verifier from a PEM encoded public key or
// certificate. RSA keys accept RS*/PS*, ECDSA keys ES* and Ed25519 keys EdDSA.
func NewJWTVerifier(certPublic string) (Verifier, error) {
	pem := []byte(certPublic)

	if key, err := jwt.ParseRSAPublicKeyFromPEM(pem); err == nil {
		return newJWTVerifier(key, "RS256", "RS384", "RS512", "PS256", "PS384", "PS512"), nil
	}
	if key, err := jwt.ParseECPublicKeyFromPEM(pem); err == nil {
		return newJWTVerifier(key, "ES256", "ES384", "ES512"), nil
	}
	if key, err := jwt.ParseEdPublicKeyFromPEM(pem); err == nil {
		return newJWTVerifier(key, "EdDSA"), nil
	}

	return nil, ErrUnsupportedKey
}

func newJWTVerifier(key crypto.PublicKey, methods ...string) *jwtVerifier {
	return &jwtVerifier{
		key:    key,
		parser: jwt.NewParser(jwt.WithValidMethods(methods)),
	}
}

// Verify checks the signature and expiry of token and returns its identity.
// The uid is taken from the "uid" claim, falling back to "sub"; the scope from
// "scp".
func (v *jwtVerifier) Verify(token string) (transport.Identity, error) {
	claims := jwt.MapClaims{}
	if _, err := v.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.key, nil
	}); err != nil {
		return transport.Identity{}, err
	}

	uid := claimString(claims, "uid")
	if uid == "" {
		sub, err := claims.GetSubject()
		if err != nil {
			return transport.Identity{}, err
		}
		uid = sub
	}
	if uid == "" {
		return transport.Identity{}, ErrMissingIdentity
	}

	return transport.Identity{UID: uid, Scope: claimString(claims, "scp")}, nil
}

func claimString(claims jwt.MapClaims, name string) string {
	switch v := claims[name].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	case []any:
		parts := make([]string, 0, len(v))
		for _, p := range v {
			if s, ok := p.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}

// isExpired reports whether err only means the token expired.
func isExpired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}
