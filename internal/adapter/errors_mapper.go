package adapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// nodeError is the rejection body the auth node sends, the same shape the
// gateway itself answers with.
type nodeError struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

// classifyRefreshFailure turns a non-2xx refresh answer into one of the
// sentinels in errors.go, carrying the node's own explanation when it sent one.
func classifyRefreshFailure(resp *resty.Response) error {
	status := resp.StatusCode()
	if status >= http.StatusOK && status < http.StatusMultipleChoices {
		return nil
	}

	var sentinel error
	switch {
	case status == http.StatusBadRequest:
		sentinel = ErrRefreshMalformed
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		sentinel = ErrRefreshRejected
	case status == http.StatusNotFound, status == http.StatusMethodNotAllowed:
		sentinel = ErrRefreshUnsupported
	case status == http.StatusTooManyRequests:
		sentinel = ErrAuthThrottled
	case status >= http.StatusInternalServerError:
		sentinel = ErrAuthUnavailable
	default:
		return fmt.Errorf("refresh answered %d: %s", status, nodeReason(resp))
	}

	return fmt.Errorf("%w: %s", sentinel, nodeReason(resp))
}

// nodeReason prefers reason over error from a JSON body and falls back to the
// raw body, then to the status text.
func nodeReason(resp *resty.Response) string {
	raw := strings.TrimSpace(string(resp.Body()))

	var body nodeError
	if raw != "" && json.Unmarshal([]byte(raw), &body) == nil {
		if body.Reason != "" {
			return body.Reason
		}
		if body.Error != "" {
			return body.Error
		}
	}
	if raw != "" {
		return raw
	}
	return http.StatusText(resp.StatusCode())
}
