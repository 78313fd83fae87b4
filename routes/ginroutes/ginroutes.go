// Package ginroutes enumerates the routes of a gin engine.
//
// Patterns use gin's colon syntax (:id, *path); pair the enumerator with
// routes.ColonRules. The handler introspected for a route is the last one in
// its chain, the one gin reports as the route's handler.
package ginroutes

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/mark3labs/routes2swagger/routes"
)

// Engine is a routes.Enumerator over a *gin.Engine.
type Engine struct {
	engine *gin.Engine
}

// New wraps e.
func New(e *gin.Engine) *Engine {
	return &Engine{engine: e}
}

// Routes lists the engine's routes in the order gin reports them.
func (e *Engine) Routes(prefix string) ([]routes.Route, error) {
	return e.RoutesLogged(prefix, nil)
}

// RoutesLogged implements routes.LoggedEnumerator.
func (e *Engine) RoutesLogged(prefix string, logger *slog.Logger) ([]routes.Route, error) {
	c := routes.NewCollector(prefix).WithLogger(logger)
	if e.engine == nil {
		return c.Routes(), nil
	}
	for _, info := range e.engine.Routes() {
		if info.HandlerFunc == nil {
			continue
		}
		c.Add(info.Path, []string{info.Method}, info.HandlerFunc)
	}
	return c.Routes(), nil
}
