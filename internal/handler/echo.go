package handler

import (
	"net/http"

	"github.com/cubic-js/cubic-api/internal/app"
	"github.com/cubic-js/cubic-api/internal/transport"
)

func (h *Handler) echo(w transport.ResponseWriter, r *transport.Request) {
	if len(r.Body) == 0 {
		_ = w.Send(http.StatusBadRequest, transport.ErrorBody{Error: app.MsgInvalidBody, Reason: transport.ErrEmptyBody.Error()})
		return
	}
	_ = w.Send(http.StatusOK, r.Body)
}
