package middleware

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// CookiePayload is the content of the auth cookie: a base64 encoded JSON
// object holding the token pair.
type CookiePayload struct {
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// EncodeCookie returns the cookie value for p.
func EncodeCookie(p CookiePayload) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode cookie: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DecodeCookie parses a cookie value. Standard and URL-safe base64 are both
// accepted. Any failure yields an empty payload together with
// ErrMalformedCookie.
func DecodeCookie(value string) (CookiePayload, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return CookiePayload{}, ErrMalformedCookie
	}

	data, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		data, err = base64.URLEncoding.DecodeString(value)
		if err != nil {
			return CookiePayload{}, fmt.Errorf("%w: %v", ErrMalformedCookie, err)
		}
	}

	var p CookiePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return CookiePayload{}, fmt.Errorf("%w: %v", ErrMalformedCookie, err)
	}
	return p, nil
}

// cookiePayload reads and decodes the named cookie from h. A missing or
// malformed cookie yields an empty payload.
func cookiePayload(h http.Header, name string) CookiePayload {
	c, err := (&http.Request{Header: h}).Cookie(name)
	if err != nil {
		return CookiePayload{}
	}
	p, err := DecodeCookie(c.Value)
	if err != nil {
		return CookiePayload{}
	}
	return p
}
