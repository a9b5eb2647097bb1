package transport

import "errors"

var (
	// ErrRegistrationOrder is returned when middleware or routes are
	// registered after the chain has been sealed.
	ErrRegistrationOrder = errors.New("middleware registered after routes were applied")

	// ErrEmptyBody is returned by Request.Decode when the request has no body.
	ErrEmptyBody = errors.New("empty request body")

	// ErrNotSealed is returned when a route is registered before the adapter
	// finished receiving middleware.
	ErrNotSealed = errors.New("routes registered before middleware was sealed")
)
