package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/cubic-js/cubic-api/internal/config"
	"github.com/cubic-js/cubic-api/internal/logger"
	"github.com/cubic-js/cubic-api/internal/utils"
)

const refreshPath = "/refresh"

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type refreshResponse struct {
	AccessToken string `json:"access_token"`
}

type httpAuthAdapter struct {
	client *utils.HTTPClient
	logger *logger.Logger
}

// NewHTTPAuthAdapter constructs the HTTP implementation of [AuthAdapter]
// pointed at cfg.URL. Each call is bounded by cfg.Timeout.
//
// Returns an error if cfg.URL is empty or cannot be parsed as a valid URL.
func NewHTTPAuthAdapter(cfg config.Refresh, logger *logger.Logger) (AuthAdapter, error) {
	baseURL, err := normalizeBaseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	client := utils.NewHTTPClient()
	client.
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	return &httpAuthAdapter{client: client, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Refresh implements [AuthAdapter].
func (h *httpAuthAdapter) Refresh(ctx context.Context, refreshToken string) (string, error) {
	var out refreshResponse
	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(refreshRequest{RefreshToken: refreshToken}).
		SetResult(&out).
		Post(refreshPath)
	if err != nil {
		return "", fmt.Errorf("refresh request: %w", err)
	}
	if err = classifyRefreshFailure(resp); err != nil {
		h.logger.Debug().Err(err).Int("status", resp.StatusCode()).Msg("refresh rejected by auth node")
		return "", err
	}
	if out.AccessToken == "" {
		return "", ErrEmptyToken
	}

	return out.AccessToken, nil
}
