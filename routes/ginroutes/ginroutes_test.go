package ginroutes_test

import (
	"os"
	"reflect"
	"runtime"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/routes2swagger/routes"
	"github.com/mark3labs/routes2swagger/routes/ginroutes"
	"github.com/mark3labs/routes2swagger/swagger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func listPets(*gin.Context) {}

// getPet fetches one pet.
// ---
// responses: {200: {description: the pet}}
func getPet(*gin.Context) {}

func updatePet(*gin.Context) {}

func serveFile(*gin.Context) {}

func status(*gin.Context) {}

func newEngine() *gin.Engine {
	e := gin.New()
	e.GET("/pets", listPets)
	e.HEAD("/pets", listPets)
	e.GET("/pets/:id", getPet)
	e.PUT("/pets/:id", updatePet)
	e.GET("/files/*path", serveFile)

	api := e.Group("/api")
	api.Use(func(c *gin.Context) { c.Next() })
	api.GET("/status", status)
	return e
}

func index(rs []routes.Route) map[string][]string {
	out := make(map[string][]string, len(rs))
	for _, r := range rs {
		for _, op := range r.Operations {
			out[r.Pattern] = append(out[r.Pattern], op.Verb)
		}
	}
	return out
}

func TestRoutes(t *testing.T) {
	t.Parallel()
	rs, err := ginroutes.New(newEngine()).Routes("")
	require.NoError(t, err)

	got := index(rs)
	assert.Equal(t, []string{"get"}, got["/pets"])
	assert.ElementsMatch(t, []string{"get", "put"}, got["/pets/:id"])
	assert.Equal(t, []string{"get"}, got["/files/*path"])
	assert.Equal(t, []string{"get"}, got["/api/status"])
	assert.Len(t, got, 4)

	for _, r := range rs {
		if r.Pattern != "/api/status" {
			continue
		}
		name := runtime.FuncForPC(reflect.ValueOf(r.Operations[0].Handler).Pointer()).Name()
		assert.True(t, strings.HasSuffix(name, ".status"), "last handler in the chain: %s", name)
	}
}

func TestRoutes_Prefix(t *testing.T) {
	t.Parallel()
	rs, err := ginroutes.New(newEngine()).Routes("/pets")
	require.NoError(t, err)
	assert.Len(t, index(rs), 2)

	rs, err = ginroutes.New(nil).Routes("")
	require.NoError(t, err)
	assert.Empty(t, rs)
}

func TestGenerate(t *testing.T) {
	t.Parallel()
	doc, err := swagger.Generate(ginroutes.New(newEngine()), swagger.WithRuleParser(routes.ColonRules))
	require.NoError(t, err)

	require.Len(t, doc.Paths(), 1)
	get := doc.Paths()["/pets/{id}"].(map[string]any)["get"].(map[string]any)
	assert.Equal(t, "getPet fetches one pet.", get["summary"])
}
