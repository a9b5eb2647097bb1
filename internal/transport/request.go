package transport

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/url"
	"strings"
)

// Transport names carried in [Request.Transport].
const (
	TransportHTTP   = "http"
	TransportStream = "stream"
)

// Identity is the caller attached to a request. Before authentication it holds
// the caller's network address and an empty scope.
type Identity struct {
	UID   string `json:"uid"`
	Scope string `json:"scp"`
}

// Request is the per-request context shared by both transports. The HTTP
// adapter creates one per request; the stream adapter creates one per
// connection and reuses it for every message on that connection. Middleware
// mutates it in place.
type Request struct {
	Method     string
	Path       string
	Query      string
	Header     http.Header
	RemoteAddr string

	User         Identity
	AccessToken  string
	RefreshToken string

	Body   json.RawMessage
	Params map[string]string

	// Transport is either TransportHTTP or TransportStream.
	Transport string

	// Client is the shared request client bound by the dispatcher. It is nil
	// until one is bound.
	Client RequestClient

	ctx context.Context
}

// NewRequest creates a request whose identity defaults to the anonymous
// caller address.
func NewRequest(ctx context.Context, transportName, method, path string, header http.Header, remoteAddr string) *Request {
	if header == nil {
		header = make(http.Header)
	}
	r := &Request{
		Method:     strings.ToUpper(method),
		Path:       NormalizePath(path),
		Header:     header,
		RemoteAddr: remoteAddr,
		Transport:  transportName,
		Params:     make(map[string]string),
		ctx:        ctx,
	}
	r.User = Identity{UID: r.ClientAddress()}
	return r
}

// NormalizePath turns an empty path into "/" and percent-decodes it. A path
// that cannot be decoded is kept as is.
func NormalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if decoded, err := url.PathUnescape(path); err == nil {
		path = decoded
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

// Context returns the request's context, never nil.
func (r *Request) Context() context.Context {
	if r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}

// WithContext replaces the request's context in place.
func (r *Request) WithContext(ctx context.Context) {
	r.ctx = ctx
}

// ClientAddress returns the first X-Forwarded-For hop when present, otherwise
// the host part of RemoteAddr.
func (r *Request) ClientAddress() string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ResetAuth drops any credential left on the request by a previous message and
// restores the anonymous identity.
func (r *Request) ResetAuth() {
	r.User = Identity{UID: r.ClientAddress()}
	r.AccessToken = ""
	r.RefreshToken = ""
}

// Decode unmarshals the request body into v.
func (r *Request) Decode(v any) error {
	if len(r.Body) == 0 {
		return ErrEmptyBody
	}
	return json.Unmarshal(r.Body, v)
}

// ErrorBody is the structured body of every rejection sent by the pipeline.
type ErrorBody struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// Push is a message emitted through the request client towards stream
// connections. An empty UID addresses every connection.
type Push struct {
	UID     string          `json:"uid,omitempty"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// RequestClient is the dispatch target shared by both transports. Handlers on
// either transport may call it concurrently.
type RequestClient interface {
	Push(ctx context.Context, push Push) error
}
