package middleware

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/cubic-js/cubic-api/internal/logger"
	"github.com/cubic-js/cubic-api/internal/transport"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestRequestLogger_LogsAndContinues(t *testing.T) {
	var buf bytes.Buffer
	log := &logger.Logger{Logger: zerolog.New(&buf)}

	mw := NewRequestLogger(log, nil)
	rec, final := serveAuth(mw, newRequest(nil))

	assert.Equal(t, 1, final.called)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, buf.String(), `"path":"/me"`)
	assert.Contains(t, buf.String(), `"status":200`)
	assert.Contains(t, buf.String(), `"transport":"http"`)
}

func TestRequestLogger_PrefersContextLogger(t *testing.T) {
	var base, scoped bytes.Buffer
	ctxLogger := zerolog.New(&scoped).With().Str("trace_id", "t-1").Logger()

	r := newRequest(nil)
	r.WithContext(ctxLogger.WithContext(r.Context()))

	mw := NewRequestLogger(&logger.Logger{Logger: zerolog.New(&base)}, nil)
	mw(transport.HandlerFunc(func(w transport.ResponseWriter, r *transport.Request) {
		_ = w.Send(http.StatusNoContent, nil)
	})).Serve(transport.NewRecorder(), r)

	assert.Empty(t, base.String())
	assert.Contains(t, scoped.String(), `"trace_id":"t-1"`)
	assert.Contains(t, scoped.String(), `"status":204`)
}
