package middleware

import "net/http"

type RouteMiddleware func(http.HandlerFunc) http.HandlerFunc

// SetRouteChain wraps a route handler with the given middlewares, outermost
// first.
func SetRouteChain(handler http.HandlerFunc, chain ...RouteMiddleware) http.HandlerFunc {
	for i := len(chain) - 1; i >= 0; i-- {
		handler = chain[i](handler)
	}

	return handler
}

// SetChain wraps a handler with the given middlewares, outermost first.
func SetChain(handler http.Handler, chain ...func(http.Handler) http.Handler) http.Handler {
	for i := len(chain) - 1; i >= 0; i-- {
		handler = chain[i](handler)
	}

	return handler
}
