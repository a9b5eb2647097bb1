package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyEvent     = errors.New("event is required")
	ErrInvalidEvent   = errors.New("invalid event name")
	ErrInvalidUID     = errors.New("invalid target uid")
	ErrInvalidPayload = errors.New("payload is not valid JSON")
)
