package routes

import "log/slog"

// Table is a hand-built Enumerator for applications that do not sit on one of
// the supported routers, or for tests.
type Table struct {
	entries []tableEntry
}

type tableEntry struct {
	pattern string
	methods []string
	handler any
}

// Handle registers handler for pattern under the given methods. With no
// methods the route answers GET only.
func (t *Table) Handle(pattern string, handler any, methods ...string) *Table {
	if len(methods) == 0 {
		methods = []string{"GET"}
	}
	t.entries = append(t.entries, tableEntry{pattern: pattern, methods: methods, handler: handler})
	return t
}

// Routes implements Enumerator.
func (t *Table) Routes(prefix string) ([]Route, error) {
	return t.RoutesLogged(prefix, nil)
}

// RoutesLogged implements LoggedEnumerator.
func (t *Table) RoutesLogged(prefix string, logger *slog.Logger) ([]Route, error) {
	c := NewCollector(prefix).WithLogger(logger)
	for _, e := range t.entries {
		c.Add(e.pattern, e.methods, e.handler)
	}
	return c.Routes(), nil
}
