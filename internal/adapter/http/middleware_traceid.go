package http

import (
	"context"
	"net/http"

	"github.com/cubic-js/cubic-api/internal/utils"
)

const traceIDHeader = "X-Trace-ID"

// withTraceID attaches a child logger carrying the request's trace id to the
// request context. The id is taken from X-Trace-ID or generated, and echoed
// back in the response. The stream transport inherits it for the handshake.
func (a *Adapter) withTraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(traceIDHeader)
		if traceID == "" {
			traceID = a.traceIDs.Generate()
		}

		l := a.logger.Tagged("trace_id", traceID)
		ctx := context.WithValue(r.Context(), utils.TraceIDCtxKey, traceID)
		r = r.WithContext(l.WithContext(ctx))

		w.Header().Set(traceIDHeader, traceID)
		next.ServeHTTP(w, r)
	})
}
