package handler

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RouteMatcher names the route a request is for, used as a low cardinality label
type RouteMatcher interface {
	Match(r *http.Request) string
}

// MuxRouteMatcher names requests after the mux route they hit
type MuxRouteMatcher struct {
	Router *mux.Router
}

// Match returns the route name, then the path template, or "not_found"
func (m *MuxRouteMatcher) Match(r *http.Request) string {
	var match mux.RouteMatch
	if !m.Router.Match(r, &match) || match.Route == nil {
		// A NotFoundHandler still reports a match, but without a route
		return "not_found"
	}

	if name := match.Route.GetName(); name != "" {
		return name
	}

	if template, err := match.Route.GetPathTemplate(); err == nil {
		return template
	}

	return "unknown"
}
