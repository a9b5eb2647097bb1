package transport

import (
	"strings"
	"sync"
)

// Entry is one middleware registration: a route pattern, an optional verb and
// the middleware itself.
type Entry struct {
	Route      string
	Verb       string
	Middleware Middleware
}

// Matches reports whether the entry applies to a request with the given verb
// and path.
//
// An empty verb or "*" matches every verb. Routes "", "/" and "/*" match every
// path; any other route matches itself and everything below it.
func (e Entry) Matches(verb, path string) bool {
	if e.Verb != "" && e.Verb != "*" && !strings.EqualFold(e.Verb, verb) {
		return false
	}
	return matchRoute(e.Route, path)
}

func matchRoute(pattern, path string) bool {
	pattern = strings.TrimSuffix(pattern, "/*")
	if pattern == "" || pattern == "/" {
		return true
	}
	pattern = strings.TrimSuffix(pattern, "/")
	return path == pattern || strings.HasPrefix(path, pattern+"/")
}

// Chain is the ordered list of middleware registered on one adapter. Entries
// are never deduplicated: registering the same middleware twice runs it twice.
type Chain struct {
	mu      sync.RWMutex
	entries []Entry
	sealed  bool
}

// Append adds an entry at the end of the chain.
func (c *Chain) Append(e Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sealed {
		return ErrRegistrationOrder
	}
	c.entries = append(c.entries, e)
	return nil
}

// Seal forbids further registrations.
func (c *Chain) Seal() {
	c.mu.Lock()
	c.sealed = true
	c.mu.Unlock()
}

// Sealed reports whether Seal was called.
func (c *Chain) Sealed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sealed
}

// Len returns the number of registered entries.
func (c *Chain) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Then composes the entries matching r in registration order in front of
// final and serves the request.
func (c *Chain) Then(final Handler) Handler {
	return HandlerFunc(func(w ResponseWriter, r *Request) {
		c.mu.RLock()
		matched := make([]Middleware, 0, len(c.entries))
		for _, e := range c.entries {
			if e.Matches(r.Method, r.Path) {
				matched = append(matched, e.Middleware)
			}
		}
		c.mu.RUnlock()

		h := final
		for i := len(matched) - 1; i >= 0; i-- {
			h = matched[i](h)
		}
		h.Serve(w, r)
	})
}
