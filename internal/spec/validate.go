package spec

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	openapi2 "github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
)

// Validate checks doc against the Swagger 2.0 object model. The document is
// decoded into kin-openapi's openapi2.T, converted to OpenAPI 3 and validated
// there, which also catches references to missing definitions.
func Validate(ctx context.Context, doc Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return &SpecError{Code: ParseError, Message: fmt.Sprintf("encode document: %v", err), Cause: err}
	}

	var v2 openapi2.T
	if err := json.Unmarshal(data, &v2); err != nil {
		return &SpecError{Code: ParseError, Message: fmt.Sprintf("decode swagger 2.0: %v", err), Cause: err}
	}

	v3, err := openapi2conv.ToV3(&v2)
	if err != nil {
		return &SpecError{Code: ValidationError, Message: fmt.Sprintf("convert v2→v3: %v", err), Cause: err}
	}

	loader := openapi3.NewLoader()
	if err := loader.ResolveRefsIn(v3, nil); err != nil {
		return mapValidateErr(err)
	}
	if err := v3.Validate(ctx); err != nil {
		return mapValidateErr(err)
	}
	return nil
}

func mapValidateErr(err error) error {
	return &SpecError{Code: ValidationError, Message: err.Error(), JSONPointer: extractJSONPointer(err), Cause: err}
}

var jsonPtrRe = regexp.MustCompile(`#/[^\s'\"]+`)

func extractJSONPointer(err error) string {
	if err == nil {
		return ""
	}
	// Unwrap MultiError and take the first for brevity.
	if me, ok := err.(openapi3.MultiError); ok {
		if len(me) > 0 {
			return extractJSONPointer(me[0])
		}
	}
	var se *openapi3.SchemaError
	if errors.As(err, &se) {
		if parts := se.JSONPointer(); len(parts) > 0 {
			return "#/" + strings.Join(parts, "/")
		}
		if se.SchemaField != "" {
			return se.SchemaField
		}
	}
	if m := jsonPtrRe.FindString(err.Error()); m != "" {
		return m
	}
	return ""
}
