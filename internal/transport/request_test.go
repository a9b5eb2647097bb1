package transport

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequest_DefaultsToAnonymousIdentity(t *testing.T) {
	r := NewRequest(context.Background(), TransportStream, "get", "/me", nil, "192.168.1.7:40000")

	assert.Equal(t, Identity{UID: "192.168.1.7", Scope: ""}, r.User)
	assert.Equal(t, http.MethodGet, r.Method)
	assert.NotNil(t, r.Header)
	assert.NotNil(t, r.Params)
	assert.Empty(t, r.AccessToken)
}

func TestRequest_ClientAddress(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       string
	}{
		{name: "host and port", remoteAddr: "10.1.2.3:8080", want: "10.1.2.3"},
		{name: "ipv6", remoteAddr: "[::1]:8080", want: "::1"},
		{name: "no port", remoteAddr: "10.1.2.3", want: "10.1.2.3"},
		{name: "forwarded", remoteAddr: "10.1.2.3:8080", forwarded: "203.0.113.9, 10.0.0.1", want: "203.0.113.9"},
		{name: "blank forwarded", remoteAddr: "10.1.2.3:8080", forwarded: " ,10.0.0.1", want: "10.1.2.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.forwarded != "" {
				h.Set("X-Forwarded-For", tt.forwarded)
			}
			r := NewRequest(context.Background(), TransportHTTP, "GET", "/", h, tt.remoteAddr)
			assert.Equal(t, tt.want, r.ClientAddress())
			assert.Equal(t, tt.want, r.User.UID)
		})
	}
}

func TestRequest_ResetAuth(t *testing.T) {
	r := NewRequest(context.Background(), TransportStream, "GET", "/", nil, "10.0.0.5:1")
	r.User = Identity{UID: "user-1", Scope: "read"}
	r.AccessToken = "token"
	r.RefreshToken = "refresh"

	r.ResetAuth()

	assert.Equal(t, Identity{UID: "10.0.0.5"}, r.User)
	assert.Empty(t, r.AccessToken)
	assert.Empty(t, r.RefreshToken)
}

func TestRequest_Decode(t *testing.T) {
	r := NewRequest(context.Background(), TransportHTTP, "POST", "/", nil, "")

	var v map[string]string
	assert.ErrorIs(t, r.Decode(&v), ErrEmptyBody)

	r.Body = []byte(`{"a":"b"}`)
	require.NoError(t, r.Decode(&v))
	assert.Equal(t, "b", v["a"])
}

func TestRequest_Context(t *testing.T) {
	r := &Request{}
	assert.NotNil(t, r.Context())

	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")
	r.WithContext(ctx)
	assert.Equal(t, "v", r.Context().Value(key{}))
}

func TestNormalizePath(t *testing.T) {
	tests := map[string]string{
		"":              "/",
		"/":             "/",
		"users":         "/users",
		"/caf%C3%A9":    "/café",
		"/a%20b/c":      "/a b/c",
		"/broken%zz":    "/broken%zz",
		"/already/fine": "/already/fine",
	}

	for in, want := range tests {
		assert.Equal(t, want, NormalizePath(in), "input %q", in)
	}
}
