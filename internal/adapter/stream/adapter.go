package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cubic-js/cubic-api/internal/app"
	"github.com/cubic-js/cubic-api/internal/config"
	"github.com/cubic-js/cubic-api/internal/logger"
	"github.com/cubic-js/cubic-api/internal/transport"
	"github.com/cubic-js/cubic-api/internal/utils"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

const anyVerb = "*"

// Adapter is the stream transport.
type Adapter struct {
	chain    transport.Chain
	upgrader websocket.Upgrader
	ids      *utils.UUIDGenerator
	path     string

	routesMu sync.RWMutex
	routes   map[string]transport.Handler

	connsMu sync.RWMutex
	conns   map[string]*conn
	wg      sync.WaitGroup
	closed  atomic.Bool

	clientMu sync.RWMutex
	client   transport.RequestClient

	logger *logger.Logger
}

// New creates the stream transport and mounts its upgrade endpoint at
// cfg.StreamPath on mount.
func New(mount chi.Router, cfg config.Config, log *logger.Logger) (*Adapter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("stream adapter: %w", err)
	}
	cfg = cfg.WithDefaults()

	a := &Adapter{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
		ids:    utils.NewUUIDGenerator("conn"),
		path:   cfg.StreamPath,
		routes: make(map[string]transport.Handler),
		conns:  make(map[string]*conn),
		logger: log,
	}

	mount.Get(cfg.StreamPath, a.ServeHTTP)

	log.Info().Str("path", cfg.StreamPath).Msg("stream adapter created")
	return a, nil
}

// Name implements transport.Adapter.
func (a *Adapter) Name() string {
	return transport.TransportStream
}

// RegisterMiddleware implements transport.Adapter.
func (a *Adapter) RegisterMiddleware(route, verb string, mw transport.Middleware) error {
	return a.chain.Append(transport.Entry{Route: route, Verb: verb, Middleware: mw})
}

// Seal implements transport.Adapter.
func (a *Adapter) Seal() {
	a.chain.Seal()
}

// RegisterRoute implements transport.Adapter. Routes are matched exactly; an
// empty verb or "*" accepts every verb.
func (a *Adapter) RegisterRoute(verb, route string, h transport.Handler) error {
	if !a.chain.Sealed() {
		return transport.ErrNotSealed
	}

	verb = strings.ToUpper(verb)
	if verb == "" {
		verb = anyVerb
	}

	a.routesMu.Lock()
	a.routes[routeKey(verb, transport.NormalizePath(route))] = h
	a.routesMu.Unlock()
	return nil
}

// SetRequestClient implements transport.Adapter.
func (a *Adapter) SetRequestClient(c transport.RequestClient) {
	a.clientMu.Lock()
	a.client = c
	a.clientMu.Unlock()
}

func (a *Adapter) requestClient() transport.RequestClient {
	a.clientMu.RLock()
	defer a.clientMu.RUnlock()
	return a.client
}

// Connections returns the number of open connections.
func (a *Adapter) Connections() int {
	a.connsMu.RLock()
	defer a.connsMu.RUnlock()
	return len(a.conns)
}

// Deliver writes push as an event frame to every connection whose current
// identity matches push.UID, or to every connection when UID is empty.
func (a *Adapter) Deliver(push transport.Push) {
	if a.closed.Load() {
		return
	}

	a.connsMu.RLock()
	targets := make([]*conn, 0, len(a.conns))
	for _, c := range a.conns {
		if push.UID == "" || c.UID() == push.UID {
			targets = append(targets, c)
		}
	}
	a.connsMu.RUnlock()

	frame := outboundFrame{Event: push.Event}
	if len(push.Payload) > 0 {
		frame.Body = push.Payload
	}
	for _, c := range targets {
		if err := c.write(frame); err != nil {
			a.logger.Debug().Err(err).Str("conn_id", c.id).Str("event", push.Event).Msg("push not delivered")
		}
	}
}

// Close closes every open connection and waits for their read loops to end.
func (a *Adapter) Close() error {
	if a.closed.Swap(true) {
		return nil
	}

	a.connsMu.RLock()
	for _, c := range a.conns {
		c.close(websocket.CloseGoingAway, "server shutdown")
	}
	a.connsMu.RUnlock()

	a.wg.Wait()
	a.logger.Info().Msg("stream adapter closed")
	return nil
}

// ServeHTTP upgrades the connection and serves its messages until the client
// disconnects.
func (a *Adapter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if a.closed.Load() {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}

	ws, err := a.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.FromRequest(r).Debug().Err(err).Msg("stream upgrade failed")
		return
	}

	connID := a.ids.Generate()
	log := logger.FromRequest(r).Tagged("conn_id", connID)

	ctx, cancel := context.WithCancel(log.WithContext(r.Context()))
	defer cancel()
	ctx = context.WithValue(ctx, utils.ConnIDCtxKey, connID)

	req := transport.NewRequest(ctx, transport.TransportStream, http.MethodGet, a.path, r.Header.Clone(), r.RemoteAddr)
	c := newConn(connID, ws, req.User.UID)

	a.wg.Add(1)
	defer a.wg.Done()
	a.track(c)
	defer a.untrack(c)

	log.Debug().Str("remote", req.ClientAddress()).Msg("stream connection opened")
	go a.keepAlive(ctx, c)
	a.readLoop(c, req, r.Header.Clone())
	log.Debug().Msg("stream connection closed")
}

func (a *Adapter) track(c *conn) {
	a.connsMu.Lock()
	a.conns[c.id] = c
	a.connsMu.Unlock()
}

func (a *Adapter) untrack(c *conn) {
	a.connsMu.Lock()
	delete(a.conns, c.id)
	a.connsMu.Unlock()
	c.close(websocket.CloseNormalClosure, "")
}

func (a *Adapter) keepAlive(ctx context.Context, c *conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.ping(); err != nil {
				return
			}
		}
	}
}

// readLoop handles messages one at a time, so the connection's request is
// never shared between two pipeline runs.
func (a *Adapter) readLoop(c *conn, req *transport.Request, handshake http.Header) {
	c.ws.SetReadLimit(maxFrameBytes)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.FromContext(req.Context()).Debug().Err(err).Msg("stream read failed")
			}
			return
		}
		_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))

		a.handleMessage(c, req, handshake, data)
	}
}

func (a *Adapter) handleMessage(c *conn, req *transport.Request, handshake http.Header, data []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		_ = c.write(outboundFrame{
			Status: http.StatusBadRequest,
			Body:   transport.ErrorBody{Error: app.MsgInvalidMessage, Reason: fmt.Errorf("%w: %v", ErrInvalidFrame, err).Error()},
		})
		return
	}

	prepare(req, handshake, frame)
	req.Client = a.requestClient()

	rw := &messageWriter{conn: c, id: frame.ID, req: req}
	a.chain.Then(transport.HandlerFunc(a.route)).Serve(rw, req)
	if !rw.Written() {
		_ = rw.Send(http.StatusNoContent, nil)
	}
}

// prepare loads frame into the connection's reused request. Frame headers
// overlay the handshake headers for this message only, and the identity goes
// back to the anonymous caller so stages ahead of auth see what an HTTP
// request would.
func prepare(req *transport.Request, handshake http.Header, frame inboundFrame) {
	verb := frame.Verb
	if verb == "" {
		verb = http.MethodGet
	}
	route, query, _ := strings.Cut(frame.Route, "?")

	req.Method = strings.ToUpper(verb)
	req.Path = transport.NormalizePath(route)
	req.Query = query
	req.Body = frame.Body
	req.Params = make(map[string]string)
	req.Header = handshake.Clone()
	for k, v := range frame.Headers {
		req.Header.Set(k, v)
	}
	req.ResetAuth()
}

func (a *Adapter) route(w transport.ResponseWriter, req *transport.Request) {
	a.routesMu.RLock()
	h, ok := a.routes[routeKey(req.Method, req.Path)]
	if !ok {
		h, ok = a.routes[routeKey(anyVerb, req.Path)]
	}
	a.routesMu.RUnlock()

	if !ok {
		_ = w.Send(http.StatusNotFound, transport.ErrorBody{
			Error:  app.MsgNotFound,
			Reason: fmt.Sprintf("no route for %s %s", req.Method, req.Path),
		})
		return
	}
	h.Serve(w, req)
}

func routeKey(verb, route string) string {
	return verb + " " + route
}
