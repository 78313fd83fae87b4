package spec

// Document is a Swagger 2.0 document held as generic JSON values so that
// fragments and templates can carry any key the format allows.
type Document map[string]any

// Version is the value of the top-level "swagger" key.
const Version = "2.0"

const (
	defaultTitle   = "Cool product name"
	defaultVersion = "0.0.0"
)

// Paths returns the path table, or nil when absent.
func (d Document) Paths() map[string]any {
	m, _ := d["paths"].(map[string]any)
	return m
}

// Definitions returns the definitions table, or nil when absent.
func (d Document) Definitions() map[string]any {
	m, _ := d["definitions"].(map[string]any)
	return m
}

// Info returns the info object, creating it when missing or malformed.
func (d Document) Info() map[string]any {
	info, ok := d["info"].(map[string]any)
	if !ok {
		info = map[string]any{}
		d["info"] = info
	}
	return info
}

// SetHost overrides the host key.
func (d Document) SetHost(host string) { d["host"] = host }

// SetBasePath overrides the basePath key.
func (d Document) SetBasePath(basePath string) { d["basePath"] = basePath }

// SetVersion overrides info.version.
func (d Document) SetVersion(version string) { d.Info()["version"] = version }

// ApplyDefinitions copies defs into the definitions table, replacing
// same-named entries.
func (d Document) ApplyDefinitions(defs map[string]any) {
	table := d.Definitions()
	if table == nil {
		table = map[string]any{}
		d["definitions"] = table
	}
	for name, def := range defs {
		table[name] = def
	}
}

// Builder owns a Document while routes are discovered. paths and definitions
// always exist and grow as operations and schemas are merged in.
type Builder struct {
	doc         Document
	paths       map[string]any
	definitions map[string]any
}

// NewBuilder seeds a document from the default skeleton overlaid with
// template (top-level keys replace the defaults). Template paths and
// definitions become the starting tables.
func NewBuilder(template Document) *Builder {
	doc := Document{
		"swagger": Version,
		"info": map[string]any{
			"version": defaultVersion,
			"title":   defaultTitle,
		},
	}
	for k, v := range template {
		doc[k] = v
	}

	b := &Builder{
		doc:         doc,
		paths:       map[string]any{},
		definitions: map[string]any{},
	}
	for k, v := range doc.Paths() {
		b.paths[k] = v
	}
	for k, v := range doc.Definitions() {
		b.definitions[k] = v
	}
	doc["paths"] = b.paths
	doc["definitions"] = b.definitions
	return b
}

// MergeDefinition updates definitions[id] key by key with schema.
func (b *Builder) MergeDefinition(id string, schema map[string]any) {
	b.definitions[id] = mergeInto(b.definitions[id], schema)
}

// MergeOperations updates paths[path] verb by verb with ops; verbs already
// present and not in ops are preserved.
func (b *Builder) MergeOperations(path string, ops map[string]any) {
	b.paths[path] = mergeInto(b.paths[path], ops)
}

// Definition returns the current definitions entry for id.
func (b *Builder) Definition(id string) (map[string]any, bool) {
	m, ok := b.definitions[id].(map[string]any)
	return m, ok
}

// Document returns the document under construction.
func (b *Builder) Document() Document { return b.doc }

// mergeInto returns a new map holding existing's entries (when it is a map)
// updated with update's entries. Caller-supplied template maps are not mutated.
func mergeInto(existing any, update map[string]any) map[string]any {
	base, _ := existing.(map[string]any)
	out := make(map[string]any, len(base)+len(update))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range update {
		out[k] = v
	}
	return out
}
