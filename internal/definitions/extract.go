// Package definitions hoists schema objects embedded in parameters and
// responses into the shared definitions table.
//
// Schemas are found by walking entries that carry a "schema" key. A schema
// with an "id" is hoisted and its occurrence replaced with a reference: at
// the top level (depth 0, a parameter or response) the entry's schema
// becomes {"$ref": "#/definitions/<id>"}; nested inside another schema's
// properties or array items (depth > 0) the reference is merged into the
// entry itself and its "schema" key removed. Schemas without an id stay
// inline.
package definitions

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/mark3labs/routes2swagger/internal/spec"
)

const (
	// RefPrefix is the JSON pointer prefix of the definitions table.
	RefPrefix = "#/definitions/"

	importMarker = "import/"
)

// Extractor hoists identified schemas out of parameter and response entries.
type Extractor struct {
	registry Registry
	logger   *slog.Logger
}

// New returns an Extractor. registry may be nil, in which case import-style
// references fail with a LookupError.
func New(registry Registry, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Extractor{registry: registry, logger: logger}
}

// Ref returns the reference object pointing at definitions[id].
func Ref(id string) map[string]any {
	return map[string]any{"$ref": RefPrefix + id}
}

// Extract walks entries at the given depth and returns the hoisted schemas in
// traversal order, each still carrying its "id". Entries are rewritten in
// place. Non-mapping entries are ignored.
//
// An entry whose schema is an import-style reference ends the walk: the
// reference is rewritten to #/definitions/<path> and the resolved schema is
// the only result for the whole list, whatever else it holds.
func (e *Extractor) Extract(entries []any, depth int) ([]map[string]any, error) {
	var defs []map[string]any
	for _, entry := range entries {
		item, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		if schema, ok := item["schema"].(map[string]any); ok {
			if ref, ok := schema["$ref"].(string); ok && strings.Contains(ref, importMarker) {
				def, err := e.resolveImport(schema, ref)
				if err != nil {
					return nil, err
				}
				return []map[string]any{def}, nil
			}

			if id, ok := schemaID(schema); ok {
				defs = append(defs, schema)
				if depth == 0 {
					item["schema"] = Ref(id)
				} else {
					item["$ref"] = RefPrefix + id
					delete(item, "schema")
				}
				e.logger.Debug("definition hoisted", "id", id, "depth", depth)
			}

			if props, ok := schema["properties"].(map[string]any); ok {
				sub, err := e.Extract(Values(props), depth+1)
				if err != nil {
					return nil, err
				}
				defs = append(defs, sub...)
			}

			sub, err := e.arrayDefs(schema, depth)
			if err != nil {
				return nil, err
			}
			defs = append(defs, sub...)
		}

		sub, err := e.arrayDefs(item, depth)
		if err != nil {
			return nil, err
		}
		defs = append(defs, sub...)
	}
	return defs, nil
}

// arrayDefs extracts from source.items when it wraps a schema.
func (e *Extractor) arrayDefs(source map[string]any, depth int) ([]map[string]any, error) {
	items, ok := source["items"].(map[string]any)
	if !ok {
		return nil, nil
	}
	if _, ok := items["schema"]; !ok {
		return nil, nil
	}
	return e.Extract([]any{items}, depth+1)
}

func (e *Extractor) resolveImport(schema map[string]any, ref string) (map[string]any, error) {
	// "#/import/timeline.models.user.UserObject" -> "timeline.models.user.UserObject"
	path := strings.Split(ref, importMarker)[1]
	schema["$ref"] = RefPrefix + path

	if e.registry == nil {
		return nil, &spec.SpecError{
			Code:     spec.LookupError,
			Message:  fmt.Sprintf("definitions: import reference %q but no schema registry configured", ref),
			Location: path,
		}
	}
	def, err := e.registry.Lookup(path)
	if err != nil {
		return nil, fmt.Errorf("definitions: resolve %q: %w", ref, err)
	}
	if def == nil {
		return nil, &spec.SpecError{
			Code:     spec.LookupError,
			Message:  fmt.Sprintf("definitions: registry returned no schema for %q", path),
			Location: path,
		}
	}
	def = spec.DeepCopy(def).(map[string]any)
	def["id"] = path
	e.logger.Debug("import reference resolved", "path", path)
	return def, nil
}

func schemaID(schema map[string]any) (string, bool) {
	id, ok := schema["id"]
	if !ok || id == nil {
		return "", false
	}
	if s, ok := id.(string); ok {
		return s, true
	}
	return fmt.Sprint(id), true
}

// PopID removes and returns the identifier of a hoisted schema.
func PopID(def map[string]any) (string, bool) {
	id, ok := schemaID(def)
	delete(def, "id")
	return id, ok
}

// Values returns the values of m ordered by key.
func Values(m map[string]any) []any {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]any, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}

// Entries turns a fragment's definitions block into extractor entries. The
// block is either a list of entries carrying "schema", or a mapping of
// name -> schema whose schemas take the name as id unless they declare one.
func Entries(block any) []any {
	switch val := block.(type) {
	case []any:
		return val
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make([]any, 0, len(keys))
		for _, name := range keys {
			schema, ok := val[name].(map[string]any)
			if !ok {
				continue
			}
			if _, ok := schema["id"]; !ok {
				schema["id"] = name
			}
			out = append(out, map[string]any{"schema": schema})
		}
		return out
	default:
		return nil
	}
}
