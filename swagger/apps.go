package swagger

import (
	"fmt"
	"sort"
	"sync"

	"github.com/mark3labs/routes2swagger/internal/spec"
	"github.com/mark3labs/routes2swagger/routes"
)

var (
	appsMu sync.RWMutex
	apps   = make(map[string]routes.Enumerator)
)

// RegisterApp makes app available under locator, conventionally
// "module:attribute". It is meant to be called from init functions of
// packages linked into the command. Registering a locator twice replaces
// the earlier app.
func RegisterApp(locator string, app routes.Enumerator) {
	if locator == "" {
		panic("swagger: RegisterApp with empty locator")
	}
	if app == nil {
		panic("swagger: RegisterApp with nil app for " + locator)
	}
	appsMu.Lock()
	defer appsMu.Unlock()
	apps[locator] = app
}

// LookupApp returns the app registered under locator.
func LookupApp(locator string) (routes.Enumerator, error) {
	appsMu.RLock()
	defer appsMu.RUnlock()
	app, ok := apps[locator]
	if !ok {
		return nil, &spec.SpecError{
			Code:     spec.LookupError,
			Message:  fmt.Sprintf("swagger: no application registered as %q", locator),
			Location: locator,
		}
	}
	return app, nil
}

// Apps returns the registered locators in sorted order.
func Apps() []string {
	appsMu.RLock()
	defer appsMu.RUnlock()
	out := make([]string, 0, len(apps))
	for locator := range apps {
		out = append(out, locator)
	}
	sort.Strings(out)
	return out
}
