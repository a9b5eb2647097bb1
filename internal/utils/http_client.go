package utils

import (
	"github.com/go-resty/resty/v2"
)

const userAgent = "cubic-api"

// HTTPClient is a wrapper around resty.Client. It embeds *resty.Client to
// expose all of its methods directly.
//
//	client := utils.NewHTTPClient()
//	resp, err := client.R().Post("/refresh")
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient returns an independent client that identifies itself as the
// gateway and expects JSON replies.
func NewHTTPClient() *HTTPClient {
	client := resty.New().
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json")

	return &HTTPClient{Client: client}
}
