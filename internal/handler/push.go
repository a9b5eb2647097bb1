package handler

import (
	"net/http"

	"github.com/cubic-js/cubic-api/internal/app"
	"github.com/cubic-js/cubic-api/internal/logger"
	"github.com/cubic-js/cubic-api/internal/transport"
)

type pushResponse struct {
	Queued bool `json:"queued"`
}

// push publishes an event to stream connections through the request client.
// Only authenticated callers may push.
func (h *Handler) push(w transport.ResponseWriter, r *transport.Request) {
	log := logger.FromContext(r.Context())

	if r.AccessToken == "" {
		_ = w.Send(http.StatusForbidden, transport.ErrorBody{Error: app.MsgForbidden, Reason: "pushing requires an authenticated caller"})
		return
	}

	var push transport.Push
	if err := r.Decode(&push); err != nil {
		_ = w.Send(http.StatusBadRequest, transport.ErrorBody{Error: app.MsgInvalidBody, Reason: err.Error()})
		return
	}
	if err := h.pushValidator.Validate(r.Context(), push); err != nil {
		_ = w.Send(http.StatusBadRequest, transport.ErrorBody{Error: app.MsgInvalidBody, Reason: err.Error()})
		return
	}

	if r.Client == nil {
		_ = w.Send(http.StatusServiceUnavailable, transport.ErrorBody{Error: app.MsgPushUnavailable})
		return
	}

	err := r.Client.Push(r.Context(), push)
	if err != nil {
		log.Err(err).Str("func", "*Handler.push").Str("event", push.Event).Msg("error pushing event")
		_ = w.Send(http.StatusBadGateway, transport.ErrorBody{Error: app.MsgPushFailed, Reason: err.Error()})
		return
	}

	_ = w.Send(http.StatusAccepted, pushResponse{Queued: true})
}
