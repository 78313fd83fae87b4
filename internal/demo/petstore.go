// Package demo is a small pet store served by gorilla/mux whose handlers
// carry documentation blocks. It registers itself under Locator so the
// command can generate a document without an application of one's own.
package demo

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mark3labs/routes2swagger/routes/muxroutes"
	"github.com/mark3labs/routes2swagger/swagger"
)

// Locator is the name the demo application is registered under.
const Locator = "demo:petstore"

func init() {
	swagger.RegisterApp(Locator, New(NewStore(Pet{Name: "Rex", Tag: "dog"}, Pet{Name: "Tom", Tag: "cat"})))
}

// Models holds the schemas the handlers import by reference.
var Models = swagger.MapRegistry{}.Register("petstore.models", "Error", map[string]any{
	"type":     "object",
	"required": []any{"code", "message"},
	"properties": map[string]any{
		"code":    map[string]any{"type": "integer", "format": "int32"},
		"message": map[string]any{"type": "string"},
	},
})

// App is the pet store. It serves HTTP and enumerates its own routes.
type App struct {
	*muxroutes.Router
	handler http.Handler
}

// New builds the application around store.
func New(store *Store) *App {
	r := mux.NewRouter()
	r.Handle("/pets", petsResource{store: store}).Methods(http.MethodGet, http.MethodPost)
	r.Handle("/pets/{id:[0-9]+}", petResource{store: store}).Methods(http.MethodGet, http.MethodDelete)
	r.HandleFunc("/healthz", healthz).Methods(http.MethodGet, http.MethodHead)
	return &App{Router: muxroutes.New(r), handler: r}
}

func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) { a.handler.ServeHTTP(w, r) }

// SchemaRegistry resolves the handlers' import-style references.
func (a *App) SchemaRegistry() swagger.SchemaRegistry { return Models }

type petsResource struct {
	store *Store
}

func (petsResource) AllowedMethods() []string { return []string{http.MethodGet, http.MethodPost} }

func (p petsResource) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		p.Get(w, r)
	case http.MethodPost:
		p.Post(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// Get lists the pets in the store.
// Pets are ordered by id.
// ---
// tags: [pets]
// operationId: listPets
// produces: [application/json]
// parameters: [{in: query, name: limit, type: integer, required: false}]
// responses:
//
//	200:
//	  description: the pets
//	  schema:
//	    type: array
//	    items:
//	      schema:
//	        id: Pet
//	        required: [name]
//	        properties:
//	          id: {type: integer, format: int64}
//	          name: {type: string}
//	          tag: {type: string}
func (p petsResource) Get(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, p.store.List(limit))
}

// Post adds a pet to the store.
// ---
// tags: [pets]
// operationId: createPet
// consumes: [application/json]
// produces: [application/json]
// parameters: [{in: body, name: pet, required: true, schema: {id: NewPet, required: [name], properties: {name: {type: string}, tag: {type: string}}}}]
// responses: {201: {description: the stored pet, schema: {$ref: "#/definitions/Pet"}}, 400: {description: invalid pet}}
func (p petsResource) Post(w http.ResponseWriter, r *http.Request) {
	var pet Pet
	if err := json.NewDecoder(r.Body).Decode(&pet); err != nil || pet.Name == "" {
		writeError(w, http.StatusBadRequest, "a pet needs a name")
		return
	}
	writeJSON(w, http.StatusCreated, p.store.Add(pet))
}

type petResource struct {
	store *Store
}

func (petResource) AllowedMethods() []string { return []string{http.MethodGet, http.MethodDelete} }

func (p petResource) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		p.Get(w, r)
	case http.MethodDelete:
		p.Delete(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// Get returns one pet.
// ---
// tags: [pets]
// operationId: getPet
// produces: [application/json]
// parameters: [{in: path, name: id, required: true, type: integer}]
// responses: {200: {description: the pet, schema: {$ref: "#/definitions/Pet"}}, 404: {description: no such pet}}
func (p petResource) Get(w http.ResponseWriter, r *http.Request) {
	pet, ok := p.store.Get(petID(r))
	if !ok {
		writeError(w, http.StatusNotFound, "no such pet")
		return
	}
	writeJSON(w, http.StatusOK, pet)
}

// Delete removes a pet from the store.
// ---
// tags: [pets]
// operationId: deletePet
// parameters: [{in: path, name: id, required: true, type: integer}]
// responses:
//
//	204:
//	  description: deleted
//	default:
//	  description: unexpected error
//	  schema:
//	    $ref: "#/import/petstore.models.Error"
func (p petResource) Delete(w http.ResponseWriter, r *http.Request) {
	if !p.store.Delete(petID(r)) {
		writeError(w, http.StatusNotFound, "no such pet")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func petID(r *http.Request) int64 {
	// the route pattern only admits digits
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"code": status, "message": message})
}
