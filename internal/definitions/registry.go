package definitions

import (
	"fmt"

	"github.com/mark3labs/routes2swagger/internal/spec"
)

// Registry resolves import-style references (#/import/<dotted.path>) to schema
// objects owned outside the documentation block.
type Registry interface {
	Lookup(path string) (map[string]any, error)
}

// RegistryFunc adapts a function to the Registry interface.
type RegistryFunc func(path string) (map[string]any, error)

func (f RegistryFunc) Lookup(path string) (map[string]any, error) { return f(path) }

// MapRegistry is a Registry keyed by dotted path, e.g. "models.user.UserObject".
type MapRegistry map[string]map[string]any

// Lookup returns the schema registered under path. The extractor copies it
// before stamping its id.
func (r MapRegistry) Lookup(path string) (map[string]any, error) {
	schema, ok := r[path]
	if !ok {
		return nil, &spec.SpecError{
			Code:     spec.LookupError,
			Message:  fmt.Sprintf("definitions: no schema registered for %q", path),
			Location: path,
		}
	}
	return schema, nil
}

// Register adds schema under module + "." + name, mirroring how the dotted
// path of an import-style reference is split.
func (r MapRegistry) Register(module, name string, schema map[string]any) MapRegistry {
	key := name
	if module != "" {
		key = module + "." + name
	}
	r[key] = schema
	return r
}
