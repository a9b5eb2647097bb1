package stream

import "encoding/json"

type inboundFrame struct {
	ID      string            `json:"id"`
	Verb    string            `json:"verb"`
	Route   string            `json:"route"`
	Headers map[string]string `json:"headers"`
	Body    json.RawMessage   `json:"body"`
}

type outboundFrame struct {
	ID     string `json:"id,omitempty"`
	Status int    `json:"status,omitempty"`
	Event  string `json:"event,omitempty"`
	Body   any    `json:"body,omitempty"`
}
