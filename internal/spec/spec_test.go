package spec

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestNewBuilder_Defaults(t *testing.T) {
	t.Parallel()
	doc := NewBuilder(nil).Document()
	if doc["swagger"] != "2.0" {
		t.Fatalf("swagger = %v", doc["swagger"])
	}
	info := doc.Info()
	if info["title"] != "Cool product name" || info["version"] != "0.0.0" {
		t.Fatalf("unexpected info: %v", info)
	}
	if doc.Paths() == nil || doc.Definitions() == nil {
		t.Fatalf("paths and definitions must always be present: %v", doc)
	}
}

func TestNewBuilder_TemplateSeeds(t *testing.T) {
	t.Parallel()
	getOp := map[string]any{"summary": "from template"}
	tmpl := Document{
		"info": map[string]any{"title": "Pets", "version": "1.2.3"},
		"paths": map[string]any{
			"/pets": map[string]any{"get": getOp},
		},
		"definitions": map[string]any{
			"Pet": map[string]any{"type": "object", "required": []any{"name"}},
		},
	}
	b := NewBuilder(tmpl)

	b.MergeOperations("/pets", map[string]any{"post": map[string]any{"summary": "discovered"}})
	b.MergeDefinition("Pet", map[string]any{"type": "object", "properties": map[string]any{}})

	doc := b.Document()
	if doc.Info()["title"] != "Pets" {
		t.Fatalf("template info not applied: %v", doc.Info())
	}
	pets := doc.Paths()["/pets"].(map[string]any)
	if !reflect.DeepEqual(pets["get"], getOp) {
		t.Fatalf("template verb lost: %v", pets)
	}
	if pets["post"] == nil {
		t.Fatalf("discovered verb missing: %v", pets)
	}
	pet, ok := b.Definition("Pet")
	if !ok || pet["required"] == nil || pet["properties"] == nil {
		t.Fatalf("definition merge must keep template keys: %v", pet)
	}

	// the caller's template is left alone
	if _, ok := tmpl["paths"].(map[string]any)["/pets"].(map[string]any)["post"]; ok {
		t.Fatalf("template paths were mutated")
	}
}

func TestMergeOperations_OverwritesSameVerb(t *testing.T) {
	t.Parallel()
	b := NewBuilder(Document{"paths": map[string]any{
		"/items/{id}": map[string]any{
			"get":    map[string]any{"summary": "old"},
			"delete": map[string]any{"summary": "kept"},
		},
	}})
	b.MergeOperations("/items/{id}", map[string]any{"get": map[string]any{"summary": "new"}})

	item := b.Document().Paths()["/items/{id}"].(map[string]any)
	if got := item["get"].(map[string]any)["summary"]; got != "new" {
		t.Fatalf("get summary = %v, want new", got)
	}
	if got := item["delete"].(map[string]any)["summary"]; got != "kept" {
		t.Fatalf("delete summary = %v, want kept", got)
	}
}

func TestOverrides(t *testing.T) {
	t.Parallel()
	doc := NewBuilder(Document{"info": "broken"}).Document()
	doc.SetHost("api.example.com")
	doc.SetBasePath("/v1")
	doc.SetVersion("9.9.9")
	if doc["host"] != "api.example.com" || doc["basePath"] != "/v1" {
		t.Fatalf("overrides not applied: %v", doc)
	}
	if doc.Info()["version"] != "9.9.9" {
		t.Fatalf("version not applied: %v", doc.Info())
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()
	in := map[string]any{
		"responses": map[any]any{
			200:       map[string]any{"description": "ok"},
			"default": map[any]any{"description": "err"},
		},
		"list": []any{map[any]any{1: "one"}},
	}
	got := NormalizeMap(in)
	want := map[string]any{
		"responses": map[string]any{
			"200":     map[string]any{"description": "ok"},
			"default": map[string]any{"description": "err"},
		},
		"list": []any{map[string]any{"1": "one"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Normalize mismatch:\n got %#v\nwant %#v", got, want)
	}
}

func TestDeepCopy(t *testing.T) {
	t.Parallel()
	orig := map[string]any{"properties": map[string]any{"name": map[string]any{"type": "string"}}, "enum": []any{"a"}}
	cp := DeepCopy(orig).(map[string]any)
	cp["properties"].(map[string]any)["name"] = "changed"
	cp["enum"].([]any)[0] = "b"
	if orig["properties"].(map[string]any)["name"].(map[string]any)["type"] != "string" {
		t.Fatalf("nested map shared with copy")
	}
	if orig["enum"].([]any)[0] != "a" {
		t.Fatalf("slice shared with copy")
	}
}

func TestLoadTemplate_JSON(t *testing.T) {
	t.Parallel()
	p := writeFile(t, "template.json", `{"info": {"title": "T", "version": "1.0"}, "x-rate": 1.50, "paths": {}}`)
	doc, err := LoadTemplate(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if n, ok := doc["x-rate"].(json.Number); !ok || n.String() != "1.50" {
		t.Fatalf("numbers must be kept verbatim, got %#v", doc["x-rate"])
	}
}

func TestLoadTemplate_YAML(t *testing.T) {
	t.Parallel()
	p := writeFile(t, "template.yaml", "info:\n  title: T\npaths:\n  /x:\n    get:\n      responses:\n        200:\n          description: ok\n")
	doc, err := LoadTemplate(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	get := doc.Paths()["/x"].(map[string]any)["get"].(map[string]any)
	if _, ok := get["responses"].(map[string]any)["200"]; !ok {
		t.Fatalf("response keys must be text: %#v", get["responses"])
	}
}

func TestLoadTemplate_Errors(t *testing.T) {
	t.Parallel()

	_, err := LoadTemplate(filepath.Join(t.TempDir(), "missing.json"))
	var se *SpecError
	if !errors.As(err, &se) || se.Code != InputError {
		t.Fatalf("expected InputError, got %v (%T)", err, err)
	}

	bad := writeFile(t, "bad.json", `{"info": `)
	_, err = LoadTemplate(bad)
	if !IsCode(err, ParseError) {
		t.Fatalf("expected ParseError, got %v", err)
	}

	empty := writeFile(t, "empty.json", "")
	_, err = LoadTemplate(empty)
	if !IsCode(err, ParseError) {
		t.Fatalf("expected ParseError for empty file, got %v", err)
	}
}

func TestLoadDefinitions(t *testing.T) {
	t.Parallel()

	bare := writeFile(t, "defs.json", `{"Pet": {"type": "object"}}`)
	defs, err := LoadDefinitions(bare)
	if err != nil {
		t.Fatalf("load bare: %v", err)
	}
	if _, ok := defs["Pet"]; !ok {
		t.Fatalf("bare mapping not returned: %v", defs)
	}

	wrapped := writeFile(t, "wrapped.json", `{"definitions": {"Owner": {"type": "object"}}}`)
	defs, err = LoadDefinitions(wrapped)
	if err != nil {
		t.Fatalf("load wrapped: %v", err)
	}
	if _, ok := defs["Owner"]; !ok || len(defs) != 1 {
		t.Fatalf("wrapped mapping not unwrapped: %v", defs)
	}

	doc := Document{"definitions": map[string]any{"Owner": "old", "Keep": "x"}}
	doc.ApplyDefinitions(defs)
	if doc.Definitions()["Keep"] != "x" || doc.Definitions()["Owner"] == "old" {
		t.Fatalf("definitions not applied: %v", doc.Definitions())
	}

	bad := writeFile(t, "bad.json", `{"definitions": []}`)
	if _, err := LoadDefinitions(bad); !IsCode(err, ParseError) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	doc := Document{"b": "line<br/>two", "a": map[string]any{"z": 1, "y": 2}}
	if err := Encode(&buf, doc); err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := "{\n    \"a\": {\n        \"y\": 2,\n        \"z\": 1\n    },\n    \"b\": \"line<br/>two\"\n}\n"
	if buf.String() != want {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestWriteFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path, err := WriteFile(dir, NewBuilder(nil).Document())
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if path != filepath.Join(dir, "swagger.json") {
		t.Fatalf("path = %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), `"swagger": "2.0"`) {
		t.Fatalf("unexpected content: %s", data)
	}

	nested, err := WriteFile(filepath.Join(dir, "docs", "v1"), Document{})
	if err != nil {
		t.Fatalf("write into new directory: %v", err)
	}
	if _, err := os.Stat(nested + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}

	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatalf("prewrite: %v", err)
	}
	if _, err := WriteFile(blocker, Document{}); !IsCode(err, InputError) {
		t.Fatalf("expected InputError when the directory is a file, got %v", err)
	}
}

func TestWriteAtomic_Replaces(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "out.yaml")
	for _, content := range []string{"first\n", "second\n"} {
		if err := WriteAtomic(path, []byte(content)); err != nil {
			t.Fatalf("write %q: %v", content, err)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "second\n" {
		t.Fatalf("content = %q", data)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	b := NewBuilder(Document{"info": map[string]any{"title": "T", "version": "1.0.0"}})
	b.MergeDefinition("Item", map[string]any{"type": "object"})
	b.MergeOperations("/items/{id}", map[string]any{"get": map[string]any{
		"summary": "Get item",
		"parameters": []any{
			map[string]any{"in": "path", "name": "id", "required": true, "type": "string"},
		},
		"responses": map[string]any{
			"200": map[string]any{"description": "ok", "schema": map[string]any{"$ref": "#/definitions/Item"}},
		},
	}})
	if err := Validate(ctx, b.Document()); err != nil {
		t.Fatalf("expected valid document, got %v", err)
	}

	b.MergeOperations("/missing", map[string]any{"get": map[string]any{
		"responses": map[string]any{
			"200": map[string]any{"description": "ok", "schema": map[string]any{"$ref": "#/definitions/Nope"}},
		},
	}})
	err := Validate(ctx, b.Document())
	if !IsCode(err, ValidationError) {
		t.Fatalf("expected ValidationError for dangling ref, got %v", err)
	}
}
