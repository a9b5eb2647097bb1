// Package worker boots one gateway worker from a single configuration.
//
// A worker starts with no transports. [New] takes the configuration and
// builds everything in a fixed order: the HTTP adapter, the stream adapter
// on the same listener, the dispatcher, the middleware stack, the shared
// request client and finally the route and event tables. [Bootstrapper]
// guarantees that this happens exactly once per process, whether the
// configuration is handed over directly or read from the supervising
// process on stdin.
package worker
