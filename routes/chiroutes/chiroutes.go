// Package chiroutes enumerates the routes of a chi router.
//
// Patterns keep chi's brace syntax; pair the enumerator with
// routes.BraceRules. Middleware chains are unwrapped so documentation is
// read from the endpoint handler. A route registered with Handle answers
// every method chi knows and is reported under each of them, less the verbs
// routes.Ignored drops.
package chiroutes

import (
	"fmt"
	"log/slog"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/mark3labs/routes2swagger/routes"
)

// Router is a routes.Enumerator over a chi.Routes tree.
type Router struct {
	router chi.Routes
}

// New wraps r.
func New(r chi.Routes) *Router {
	return &Router{router: r}
}

type endpoint struct {
	method  string
	handler http.Handler
}

// Routes walks the tree, mounted sub-routers included. chi keeps handlers
// per pattern in a map, so verbs are ordered by name to keep the output
// stable.
func (r *Router) Routes(prefix string) ([]routes.Route, error) {
	return r.RoutesLogged(prefix, nil)
}

// RoutesLogged implements routes.LoggedEnumerator.
func (r *Router) RoutesLogged(prefix string, logger *slog.Logger) ([]routes.Route, error) {
	c := routes.NewCollector(prefix).WithLogger(logger)
	if r.router == nil {
		return c.Routes(), nil
	}

	var order []string
	byPattern := make(map[string][]endpoint)
	err := chi.Walk(r.router, func(method, pattern string, handler http.Handler, _ ...func(http.Handler) http.Handler) error {
		if _, seen := byPattern[pattern]; !seen {
			order = append(order, pattern)
		}
		byPattern[pattern] = append(byPattern[pattern], endpoint{method: method, handler: handler})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("chiroutes: walk: %w", err)
	}

	for _, pattern := range order {
		eps := byPattern[pattern]
		sort.SliceStable(eps, func(i, j int) bool { return eps[i].method < eps[j].method })
		for _, ep := range eps {
			c.Add(pattern, []string{ep.method}, ep.handler)
		}
	}
	return c.Routes(), nil
}
