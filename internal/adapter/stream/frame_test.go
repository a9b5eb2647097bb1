package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/cubic-js/cubic-api/internal/transport"
	"github.com/stretchr/testify/assert"
)

func TestPrepare(t *testing.T) {
	handshake := http.Header{"Cookie": []string{"sess=abc"}}
	req := transport.NewRequest(context.Background(), transport.TransportStream, http.MethodGet, "/ws", handshake.Clone(), "10.0.0.1:1234")
	req.Params["stale"] = "1"

	prepare(req, handshake, inboundFrame{
		Verb:    "post",
		Route:   "/users%20list?page=2",
		Headers: map[string]string{"Authorization": "bearer x"},
		Body:    json.RawMessage(`{"a":1}`),
	})

	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/users list", req.Path)
	assert.Equal(t, "page=2", req.Query)
	assert.Equal(t, "bearer x", req.Header.Get("Authorization"))
	assert.Equal(t, "sess=abc", req.Header.Get("Cookie"))
	assert.Empty(t, req.Params)
	assert.JSONEq(t, `{"a":1}`, string(req.Body))

	req.User = transport.Identity{UID: "alice", Scope: "read"}
	req.AccessToken = "x"
	req.RefreshToken = "y"
	prepare(req, handshake, inboundFrame{})

	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/", req.Path)
	assert.Empty(t, req.Header.Get("Authorization"))
	assert.Empty(t, handshake.Get("Authorization"))
	assert.Equal(t, transport.Identity{UID: "10.0.0.1"}, req.User)
	assert.Empty(t, req.AccessToken)
	assert.Empty(t, req.RefreshToken)
}
