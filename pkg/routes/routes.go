// Package routes defines route groups for hierarchical endpoint registration.
package routes

import "net/http"

// Route binds an HTTP method and pattern to a handler.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// Group represents a collection of routes under a common URL prefix.
type Group struct {
	Prefix      string
	Description string
	Routes      []Route
}

// Mount registers every route of the group on the multiplexer, applying the
// group prefix and any middleware in order.
func Mount(mux *http.ServeMux, group Group, middleware ...func(http.Handler) http.Handler) {
	for _, route := range group.Routes {
		pattern := route.Method + " " + group.Prefix + route.Pattern

		var handler http.Handler = route.Handler
		for i := len(middleware) - 1; i >= 0; i-- {
			handler = middleware[i](handler)
		}

		mux.Handle(pattern, handler)
	}
}
