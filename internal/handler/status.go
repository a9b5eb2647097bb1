package handler

import (
	"net/http"

	"github.com/cubic-js/cubic-api/internal/transport"
)

type statusResponse struct {
	Status    string `json:"status"`
	Transport string `json:"transport"`
}

type meResponse struct {
	transport.Identity
	Authenticated bool `json:"authenticated"`
}

func (h *Handler) status(w transport.ResponseWriter, r *transport.Request) {
	_ = w.Send(http.StatusOK, statusResponse{Status: "ok", Transport: r.Transport})
}

func (h *Handler) getVersion(w transport.ResponseWriter, _ *transport.Request) {
	_ = w.Send(http.StatusOK, h.buildInfo)
}

// me echoes the identity attached by the auth stage.
func (h *Handler) me(w transport.ResponseWriter, r *transport.Request) {
	_ = w.Send(http.StatusOK, meResponse{
		Identity:      r.User,
		Authenticated: r.AccessToken != "",
	})
}
