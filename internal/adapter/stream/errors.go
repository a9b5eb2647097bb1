package stream

import "errors"

var (
	// ErrInvalidFrame is reported to the client when a message is not a
	// valid JSON frame.
	ErrInvalidFrame = errors.New("invalid frame")

	// ErrAdapterClosed is returned by Deliver after Close.
	ErrAdapterClosed = errors.New("stream adapter closed")
)
