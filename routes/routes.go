// Package routes enumerates the addressable operations of a host application:
// every path pattern it serves together with the verbs it accepts and the
// handler bound to each verb.
//
// Router-specific adapters live in sub-packages (muxroutes, chiroutes,
// ginroutes). They all feed raw router entries through a Collector so that
// verb filtering, prefix filtering and verb-dispatch resolution behave the
// same regardless of the router in use.
package routes

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// Operation is one verb accepted on a route and the handler to introspect for it.
type Operation struct {
	Verb    string // lower-case HTTP method
	Handler any
}

// Route is a path pattern in the host's native placeholder syntax and the
// operations registered on it.
type Route struct {
	Pattern    string
	Operations []Operation
}

// Enumerator is implemented by host applications (usually through an adapter).
// Patterns that do not start with prefix are excluded; an unknown prefix simply
// yields no routes.
type Enumerator interface {
	Routes(prefix string) ([]Route, error)
}

// EnumeratorFunc adapts a function to the Enumerator interface.
type EnumeratorFunc func(prefix string) ([]Route, error)

func (f EnumeratorFunc) Routes(prefix string) ([]Route, error) { return f(prefix) }

// LoggedEnumerator is implemented by enumerators that report the entries
// they filter out. All adapters in this module implement it.
type LoggedEnumerator interface {
	Enumerator
	RoutesLogged(prefix string, logger *slog.Logger) ([]Route, error)
}

// Enumerate lists the routes of app, handing logger to enumerators that
// accept one.
func Enumerate(app Enumerator, prefix string, logger *slog.Logger) ([]Route, error) {
	if le, ok := app.(LoggedEnumerator); ok {
		return le.RoutesLogged(prefix, logger)
	}
	return app.Routes(prefix)
}

// ignoredVerbs carry protocol plumbing only and never produce operations.
// Swagger 2.0 path items have no key for CONNECT or TRACE either.
var ignoredVerbs = map[string]struct{}{
	http.MethodHead:    {},
	http.MethodOptions: {},
	http.MethodConnect: {},
	http.MethodTrace:   {},
}

// Ignored reports whether method is dropped from enumeration.
func Ignored(method string) bool {
	_, ok := ignoredVerbs[strings.ToUpper(strings.TrimSpace(method))]
	return ok
}

// Collector groups raw (pattern, methods, handler) entries into routes,
// preserving the order in which patterns were first seen.
type Collector struct {
	prefix string
	logger *slog.Logger
	routes []Route
	index  map[string]int
}

// NewCollector returns a collector that drops patterns not starting with prefix.
func NewCollector(prefix string) *Collector {
	return &Collector{
		prefix: prefix,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		index:  make(map[string]int),
	}
}

// WithLogger reports skipped entries to logger at debug level. A nil logger
// keeps the collector silent.
func (c *Collector) WithLogger(logger *slog.Logger) *Collector {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// Add records handler for every method in methods. Ignored verbs are dropped,
// verbs are lower-cased and a verb already recorded for pattern is kept as is.
func (c *Collector) Add(pattern string, methods []string, handler any) {
	if handler == nil {
		return
	}
	if c.prefix != "" && !strings.HasPrefix(pattern, c.prefix) {
		c.logger.Debug("route skipped by prefix", "pattern", pattern, "prefix", c.prefix)
		return
	}
	for _, method := range methods {
		if Ignored(method) {
			c.logger.Debug("verb ignored", "pattern", pattern, "method", method)
			continue
		}
		verb := strings.ToLower(strings.TrimSpace(method))
		if verb == "" {
			continue
		}
		c.add(pattern, Operation{Verb: verb, Handler: Resolve(verb, handler)})
	}
}

func (c *Collector) add(pattern string, op Operation) {
	idx, ok := c.index[pattern]
	if !ok {
		idx = len(c.routes)
		c.index[pattern] = idx
		c.routes = append(c.routes, Route{Pattern: pattern})
	}
	for _, existing := range c.routes[idx].Operations {
		if existing.Verb == op.Verb {
			return
		}
	}
	c.routes[idx].Operations = append(c.routes[idx].Operations, op)
}

// Routes returns the collected routes.
func (c *Collector) Routes() []Route {
	out := make([]Route, len(c.routes))
	copy(out, c.routes)
	return out
}
