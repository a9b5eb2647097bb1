package http

import (
	"net/http"
	"sync"

	"github.com/cubic-js/cubic-api/internal/logger"
	"github.com/cubic-js/cubic-api/internal/utils"
)

// responseWriter implements transport.ResponseWriter over an
// http.ResponseWriter. Only the first Send reaches the client.
type responseWriter struct {
	w      http.ResponseWriter
	logger *logger.Logger

	mu     sync.Mutex
	status int
	sent   bool
}

func newResponseWriter(w http.ResponseWriter, log *logger.Logger) *responseWriter {
	return &responseWriter{w: w, logger: log}
}

func (rw *responseWriter) Send(status int, body any) error {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if rw.sent {
		rw.logger.Warn().Int("status", status).Msg("response already sent, dropping")
		return nil
	}
	rw.sent = true
	rw.status = status

	_, err := utils.WriteJSON(rw.w, body, status)
	return err
}

func (rw *responseWriter) Status() int {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	return rw.status
}

func (rw *responseWriter) Written() bool {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	return rw.sent
}
