package transport

// Adapter is the registration surface every transport exposes to the
// dispatcher and to route/event tables.
type Adapter interface {
	// Name identifies the transport ("http" or "stream").
	Name() string

	// RegisterMiddleware appends mw to the adapter's chain for requests
	// matching route and verb. It fails with ErrRegistrationOrder once the
	// adapter is sealed.
	RegisterMiddleware(route, verb string, mw Middleware) error

	// RegisterRoute attaches a business handler. Handlers always run after
	// every matching middleware.
	RegisterRoute(verb, route string, h Handler) error

	// Seal ends middleware registration.
	Seal()

	// SetRequestClient binds the shared request client exposed on every
	// request as Request.Client.
	SetRequestClient(c RequestClient)
}
