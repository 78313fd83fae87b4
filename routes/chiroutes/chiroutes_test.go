package chiroutes_test

import (
	"net/http"
	"reflect"
	"runtime"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/routes2swagger/routes"
	"github.com/mark3labs/routes2swagger/routes/chiroutes"
	"github.com/mark3labs/routes2swagger/swagger"
)

func listPets(http.ResponseWriter, *http.Request) {}

func createPet(http.ResponseWriter, *http.Request) {}

// getPet fetches one pet.
// ---
// responses: {200: {description: the pet}}
func getPet(http.ResponseWriter, *http.Request) {}

func status(http.ResponseWriter, *http.Request) {}

type legacyResource struct{}

func (legacyResource) AllowedMethods() []string { return []string{"GET"} }

func (legacyResource) ServeHTTP(http.ResponseWriter, *http.Request) {}

func (legacyResource) Get(http.ResponseWriter, *http.Request) {}

func passThrough(next http.Handler) http.Handler { return next }

func newRouter() chi.Router {
	r := chi.NewRouter()
	r.Get("/pets", listPets)
	r.Post("/pets", createPet)
	r.With(passThrough).Get("/pets/{id}", getPet)
	r.Handle("/legacy", legacyResource{})
	r.Route("/api", func(r chi.Router) {
		r.Get("/status", status)
	})
	return r
}

func byPattern(t *testing.T, rs []routes.Route) map[string]routes.Route {
	t.Helper()
	out := make(map[string]routes.Route, len(rs))
	for _, r := range rs {
		_, dup := out[r.Pattern]
		require.False(t, dup, "pattern %s reported twice", r.Pattern)
		out[r.Pattern] = r
	}
	return out
}

func verbs(r routes.Route) []string {
	out := make([]string, 0, len(r.Operations))
	for _, op := range r.Operations {
		out = append(out, op.Verb)
	}
	return out
}

func handlerName(h any) string {
	v := reflect.ValueOf(h)
	if v.Kind() != reflect.Func {
		return ""
	}
	return runtime.FuncForPC(v.Pointer()).Name()
}

func TestRoutes(t *testing.T) {
	t.Parallel()
	rs, err := chiroutes.New(newRouter()).Routes("")
	require.NoError(t, err)
	got := byPattern(t, rs)
	require.Len(t, got, 4)

	assert.Equal(t, []string{"get", "post"}, verbs(got["/pets"]))

	pet := got["/pets/{id}"]
	require.Len(t, pet.Operations, 1)
	assert.True(t, strings.HasSuffix(handlerName(pet.Operations[0].Handler), ".getPet"), "middleware chain is unwrapped")

	legacy := got["/legacy"]
	assert.Equal(t, []string{"delete", "get", "patch", "post", "put"}, verbs(legacy))
	for _, op := range legacy.Operations {
		if op.Verb == "get" {
			assert.True(t, strings.HasSuffix(handlerName(op.Handler), "legacyResource.Get"))
		} else {
			assert.IsType(t, legacyResource{}, op.Handler)
		}
	}

	assert.Equal(t, []string{"get"}, verbs(got["/api/status"]))
}

func TestRoutes_Prefix(t *testing.T) {
	t.Parallel()
	rs, err := chiroutes.New(newRouter()).Routes("/api/")
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Equal(t, "/api/status", rs[0].Pattern)

	rs, err = chiroutes.New(nil).Routes("")
	require.NoError(t, err)
	assert.Empty(t, rs)
}

func TestGenerate(t *testing.T) {
	t.Parallel()
	doc, err := swagger.Generate(chiroutes.New(newRouter()))
	require.NoError(t, err)

	require.Len(t, doc.Paths(), 1)
	get := doc.Paths()["/pets/{id}"].(map[string]any)["get"].(map[string]any)
	assert.Equal(t, "getPet fetches one pet.", get["summary"])
}

type catchAll string

func (c catchAll) SwaggerDoc() string { return string(c) }

func (catchAll) ServeHTTP(http.ResponseWriter, *http.Request) {}

func TestGenerate_HandleSkipsPlumbingVerbs(t *testing.T) {
	t.Parallel()
	r := chi.NewRouter()
	r.Handle("/thing", catchAll("Any verb.\n---\nresponses: {200: {description: ok}}"))

	doc, err := swagger.Generate(chiroutes.New(r))
	require.NoError(t, err)

	item := doc.Paths()["/thing"].(map[string]any)
	got := make([]string, 0, len(item))
	for verb := range item {
		got = append(got, verb)
	}
	assert.ElementsMatch(t, []string{"delete", "get", "patch", "post", "put"}, got)
}
