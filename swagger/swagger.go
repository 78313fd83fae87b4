// Package swagger builds a Swagger 2.0 document from a running
// application's routes and the documentation blocks of its handlers.
//
//	doc, err := swagger.Generate(muxroutes.New(router),
//		swagger.WithTemplate(tmpl),
//		swagger.WithHost("api.example.com"),
//	)
//
// Only handlers whose documentation carries a "---" fragment contribute an
// operation. Schemas with an "id" inside the fragment are moved into the
// document's definitions and replaced by references.
package swagger

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mark3labs/routes2swagger/internal/definitions"
	"github.com/mark3labs/routes2swagger/internal/docstring"
	"github.com/mark3labs/routes2swagger/internal/spec"
	"github.com/mark3labs/routes2swagger/routes"
)

type (
	// Document is a Swagger 2.0 document as generic JSON values.
	Document = spec.Document
	// SchemaRegistry resolves import-style references (#/import/<path>).
	SchemaRegistry = definitions.Registry
	// MapRegistry is a SchemaRegistry keyed by dotted path.
	MapRegistry = definitions.MapRegistry
	// DocSource reads the documentation block of a handler.
	DocSource = docstring.Source
)

// RegistryProvider is implemented by applications that own the schemas
// their import-style references point at. Generate uses it when no
// WithRegistry option is given.
type RegistryProvider interface {
	SchemaRegistry() SchemaRegistry
}

// optionalFields are copied verbatim from a fragment into its operation.
var optionalFields = []string{
	"tags",
	"consumes",
	"produces",
	"schemes",
	"security",
	"deprecated",
	"operationId",
	"externalDocs",
}

// Generate enumerates app and assembles its document. The first error
// aborts generation and no document is returned.
func Generate(app routes.Enumerator, opts ...Option) (Document, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if app == nil {
		return nil, &spec.SpecError{Code: spec.InputError, Message: "swagger: no application"}
	}
	if o.registry == nil {
		if rp, ok := app.(RegistryProvider); ok {
			o.registry = rp.SchemaRegistry()
		}
	}

	var template Document
	if o.template != nil {
		template = Document(spec.DeepCopy(map[string]any(o.template)).(map[string]any))
	}
	a := &assembler{
		builder:   spec.NewBuilder(template),
		parser:    docstring.NewParser(o.docSource, o.processDoc, o.fromFileKeyword),
		extractor: definitions.New(o.registry, o.logger),
		opts:      o,
	}

	rs, err := routes.Enumerate(app, o.prefix, o.logger)
	if err != nil {
		return nil, fmt.Errorf("swagger: enumerate routes: %w", err)
	}
	for _, r := range rs {
		if err := a.addRoute(r); err != nil {
			return nil, err
		}
	}

	doc := a.builder.Document()
	if o.host != nil {
		doc.SetHost(*o.host)
	}
	if o.basePath != nil {
		doc.SetBasePath(*o.basePath)
	}
	if o.version != nil {
		doc.SetVersion(*o.version)
	}
	return doc, nil
}

type assembler struct {
	builder   *spec.Builder
	parser    *docstring.Parser
	extractor *definitions.Extractor
	opts      options
}

func (a *assembler) addRoute(r routes.Route) error {
	path := a.opts.ruleParser(r.Pattern)
	ops := make(map[string]any, len(r.Operations))
	for _, op := range r.Operations {
		operation, err := a.operation(op.Handler)
		if err != nil {
			return fmt.Errorf("swagger: %s %s: %w", strings.ToUpper(op.Verb), path, err)
		}
		if operation == nil {
			a.opts.logger.Debug("handler without fragment", "verb", op.Verb, "path", path)
			continue
		}
		ops[op.Verb] = operation
		a.opts.logger.Debug("operation added", "verb", op.Verb, "path", path)
	}
	if len(ops) == 0 {
		return nil
	}
	a.builder.MergeOperations(path, ops)
	return nil
}

// operation returns nil when handler documents no fragment.
func (a *assembler) operation(handler any) (map[string]any, error) {
	block, err := a.parser.Parse(handler)
	if err != nil {
		return nil, err
	}
	frag := block.Fragment
	if frag == nil {
		return nil, nil
	}

	defs, err := a.extractor.Extract(definitions.Entries(frag["definitions"]), 0)
	if err != nil {
		return nil, err
	}

	var params []any
	switch p := frag["parameters"].(type) {
	case nil:
	case []any:
		params = p
	default:
		return nil, &spec.SpecError{
			Code:        spec.ParseError,
			Message:     fmt.Sprintf("parameters is %T, want a list", p),
			JSONPointer: "#/parameters",
		}
	}
	found, err := a.extractor.Extract(params, 0)
	if err != nil {
		return nil, err
	}
	defs = append(defs, found...)

	responses := map[string]any{}
	switch r := frag["responses"].(type) {
	case nil:
	case map[string]any:
		responses = r
	default:
		return nil, &spec.SpecError{
			Code:        spec.ParseError,
			Message:     fmt.Sprintf("responses is %T, want a mapping", r),
			JSONPointer: "#/responses",
		}
	}
	found, err = a.extractor.Extract(definitions.Values(responses), 0)
	if err != nil {
		return nil, err
	}
	defs = append(defs, found...)

	for _, def := range defs {
		if id, ok := definitions.PopID(def); ok {
			a.builder.MergeDefinition(id, def)
		}
	}

	operation := map[string]any{
		"summary":     block.Summary,
		"description": block.Description,
		"responses":   responses,
	}
	if len(params) > 0 {
		operation["parameters"] = params
	}
	for _, key := range optionalFields {
		if v, ok := frag[key]; ok {
			operation[key] = v
		}
	}
	return operation, nil
}

// Encode writes doc as indented JSON with sorted keys.
func Encode(w io.Writer, doc Document) error {
	return spec.Encode(w, doc)
}

// WriteFile writes doc to dir/swagger.json and returns the path written.
func WriteFile(dir string, doc Document) (string, error) {
	return spec.WriteFile(dir, doc)
}

// Validate checks doc against the Swagger 2.0 model. Findings are returned
// as a ValidationError.
func Validate(ctx context.Context, doc Document) error {
	return spec.Validate(ctx, doc)
}
