// Package kit holds the transport-agnostic endpoint plumbing shared by the
// HTTP and MCP surfaces: the Endpoint function type, middleware chaining,
// context accessors, and the MCP tool adapter.
package kit

import "context"

// Endpoint is the transport-agnostic unit of work: a decoded request in, a
// response or error out. HTTP handlers and MCP tools both dispatch to one.
type Endpoint func(ctx context.Context, req any) (any, error)

// Middleware wraps an Endpoint with cross-cutting behaviour.
type Middleware func(next Endpoint) Endpoint

// Chain composes middlewares; the first listed runs outermost.
func Chain(mws ...Middleware) Middleware {
	return func(next Endpoint) Endpoint {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}
