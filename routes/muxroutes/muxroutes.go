// Package muxroutes enumerates the routes of a gorilla/mux router.
//
// Patterns keep gorilla's brace syntax ({id}, {id:[0-9]+}); pair the
// enumerator with routes.BraceRules. Routes registered without a method
// matcher answer GET.
package muxroutes

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mark3labs/routes2swagger/routes"
)

// Router is a routes.Enumerator over a *mux.Router.
type Router struct {
	router *mux.Router
}

// New wraps r.
func New(r *mux.Router) *Router {
	return &Router{router: r}
}

// Routes walks the router, subrouters included, in registration order.
// Routes without a handler or without a path template (host-only matchers,
// bare PathPrefix subrouters) are skipped.
func (r *Router) Routes(prefix string) ([]routes.Route, error) {
	return r.RoutesLogged(prefix, nil)
}

// RoutesLogged implements routes.LoggedEnumerator.
func (r *Router) RoutesLogged(prefix string, logger *slog.Logger) ([]routes.Route, error) {
	c := routes.NewCollector(prefix).WithLogger(logger)
	if r.router == nil {
		return c.Routes(), nil
	}
	err := r.router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		handler := route.GetHandler()
		if handler == nil {
			return nil
		}
		tpl, err := route.GetPathTemplate()
		if err != nil {
			return nil
		}
		methods, err := route.GetMethods()
		if err != nil {
			methods = []string{http.MethodGet}
		}
		c.Add(tpl, methods, handler)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("muxroutes: walk: %w", err)
	}
	return c.Routes(), nil
}
