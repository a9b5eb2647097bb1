package stream

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/cubic-js/cubic-api/internal/transport"
	"github.com/gorilla/websocket"
)

const (
	writeWait     = 10 * time.Second
	pongWait      = 60 * time.Second
	pingPeriod    = (pongWait * 9) / 10
	maxFrameBytes = 1 << 20
)

// conn is one upgraded connection. Writes are serialized: gorilla/websocket
// supports a single concurrent writer.
type conn struct {
	id string
	ws *websocket.Conn

	writeMu sync.Mutex
	uid     atomic.Value
	closed  atomic.Bool
}

func newConn(id string, ws *websocket.Conn, uid string) *conn {
	c := &conn{id: id, ws: ws}
	c.uid.Store(uid)
	return c
}

func (c *conn) UID() string {
	return c.uid.Load().(string)
}

func (c *conn) setUID(uid string) {
	c.uid.Store(uid)
}

func (c *conn) write(frame outboundFrame) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.closed.Load() {
		return websocket.ErrCloseSent
	}
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteJSON(frame)
}

func (c *conn) ping() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

func (c *conn) close(code int, reason string) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.closed.Swap(true) {
		return
	}
	_ = c.ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), time.Now().Add(writeWait))
	_ = c.ws.Close()
}

// messageWriter answers one inbound frame. The connection takes over the
// request's identity before the answer is written, so pushes sent after the
// answer reach the right connections.
type messageWriter struct {
	conn *conn
	id   string
	req  *transport.Request

	mu     sync.Mutex
	status int
	sent   bool
}

func (w *messageWriter) Send(status int, body any) error {
	w.mu.Lock()
	if w.sent {
		w.mu.Unlock()
		return nil
	}
	w.sent = true
	w.status = status
	w.mu.Unlock()

	if w.req != nil {
		w.conn.setUID(w.req.User.UID)
	}
	return w.conn.write(outboundFrame{ID: w.id, Status: status, Body: body})
}

func (w *messageWriter) Status() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

func (w *messageWriter) Written() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sent
}
