package spec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrorCode categorizes errors for clearer handling and messaging.
type ErrorCode string

const (
	InputError      ErrorCode = "InputError"
	ParseError      ErrorCode = "ParseError"
	LookupError     ErrorCode = "LookupError"
	ValidationError ErrorCode = "ValidationError"
)

// SpecError is a structured error with optional location and JSON Pointer.
type SpecError struct {
	Code        ErrorCode
	Message     string
	Location    string // file path, locator or route
	JSONPointer string // e.g. "#/paths/~1pets/get"
	Cause       error
}

func (e *SpecError) Error() string { return e.Message }
func (e *SpecError) Unwrap() error { return e.Cause }

// IsCode reports whether err wraps a SpecError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var se *SpecError
	return errors.As(err, &se) && se.Code == code
}

// LoadTemplate reads a template document from a JSON or YAML file.
func LoadTemplate(path string) (Document, error) {
	root, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	return Document(root), nil
}

// LoadDefinitions reads a definitions file: either a bare mapping of
// name -> schema or a document wrapping that mapping under "definitions".
func LoadDefinitions(path string) (map[string]any, error) {
	root, err := readDocument(path)
	if err != nil {
		return nil, err
	}
	if wrapped, ok := root["definitions"]; ok {
		defs, ok := wrapped.(map[string]any)
		if !ok {
			return nil, &SpecError{
				Code:        ParseError,
				Message:     fmt.Sprintf("definitions file %s: \"definitions\" is %T, want a mapping", path, wrapped),
				Location:    path,
				JSONPointer: "#/definitions",
			}
		}
		return defs, nil
	}
	return root, nil
}

// ReadDoc reads a documentation block redirected to an external file.
func ReadDoc(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &SpecError{Code: InputError, Message: fmt.Sprintf("read doc file %s: %v", path, err), Location: path, Cause: err}
	}
	return string(data), nil
}

// readDocument decodes a mapping from path. .yaml/.yml files are read as
// YAML; anything else as JSON with numbers kept verbatim.
func readDocument(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &SpecError{Code: InputError, Message: fmt.Sprintf("read file %s: %v", path, err), Location: path, Cause: err}
	}

	var root map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &root); err != nil {
			return nil, &SpecError{Code: ParseError, Message: fmt.Sprintf("parse %s: %v", path, err), Location: path, Cause: err}
		}
		root = NormalizeMap(root)
	default:
		root, err = decodeJSON(data)
		if err != nil {
			return nil, &SpecError{Code: ParseError, Message: fmt.Sprintf("parse %s: %v", path, err), Location: path, Cause: err}
		}
	}
	if root == nil {
		return nil, &SpecError{Code: ParseError, Message: fmt.Sprintf("parse %s: document is empty", path), Location: path}
	}
	return root, nil
}

func decodeJSON(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var root map[string]any
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	return root, nil
}
