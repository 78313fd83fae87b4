package docstring

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"reflect"
	"runtime"
	"strings"

	"github.com/mark3labs/routes2swagger/internal/spec"
)

// Source returns the raw documentation text of a handler. An undocumented
// handler yields "" and no error.
type Source interface {
	Doc(handler any) (string, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(handler any) (string, error)

func (f SourceFunc) Doc(handler any) (string, error) { return f(handler) }

// Documented handlers carry their documentation block themselves.
type Documented interface {
	SwaggerDoc() string
}

// DocumentedSource reads blocks from handlers implementing Documented.
var DocumentedSource = SourceFunc(func(handler any) (string, error) {
	if d, ok := handler.(Documented); ok {
		return d.SwaggerDoc(), nil
	}
	return "", nil
})

// Static maps fully qualified function names, as reported by FuncName, to
// documentation blocks.
type Static map[string]string

func (s Static) Doc(handler any) (string, error) {
	return s[FuncName(handler)], nil
}

// Chain tries each source in order and returns the first non-empty block.
func Chain(sources ...Source) Source {
	return SourceFunc(func(handler any) (string, error) {
		for _, src := range sources {
			if src == nil {
				continue
			}
			doc, err := src.Doc(handler)
			if err != nil {
				return "", err
			}
			if strings.TrimSpace(doc) != "" {
				return doc, nil
			}
		}
		return "", nil
	})
}

// Default reads Documented handlers first and falls back to doc comments.
func Default() Source {
	return Chain(DocumentedSource, NewComments())
}

// FuncName returns the runtime name of a function handler, e.g.
// "example.com/app/api.(*Pets).Get". Bound method values lose their "-fm"
// suffix. Non-function handlers report the name of their ServeHTTP method
// when they have one.
func FuncName(handler any) string {
	fn := funcFor(handler)
	if fn == nil {
		return ""
	}
	return strings.TrimSuffix(fn.Name(), "-fm")
}

func funcFor(handler any) *runtime.Func {
	if handler == nil {
		return nil
	}
	v := reflect.ValueOf(handler)
	if v.Kind() != reflect.Func {
		m, ok := v.Type().MethodByName("ServeHTTP")
		if !ok {
			return nil
		}
		v = m.Func
	}
	if v.IsNil() {
		return nil
	}
	return runtime.FuncForPC(v.Pointer())
}

// Comments reads the doc comment of a handler's declaration from the Go
// source file the runtime reports for it. Parsed files are cached. A
// Comments is not safe for concurrent use.
type Comments struct {
	fset  *token.FileSet
	files map[string]*ast.File
}

// NewComments returns an empty doc comment source.
func NewComments() *Comments {
	return &Comments{fset: token.NewFileSet(), files: make(map[string]*ast.File)}
}

// Doc returns the doc comment of handler's declaration. Closures, generated
// wrappers and binaries built without their sources have none.
func (c *Comments) Doc(handler any) (string, error) {
	fn := funcFor(handler)
	if fn == nil {
		return "", nil
	}
	file, _ := fn.FileLine(fn.Entry())
	if !strings.HasSuffix(file, ".go") {
		return "", nil
	}
	recv, name := splitFuncName(fn.Name())
	if name == "" {
		return "", nil
	}

	f, err := c.parse(file)
	if err != nil {
		return "", err
	}
	if f == nil {
		return "", nil
	}
	for _, decl := range f.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok || fd.Name.Name != name || receiverName(fd) != recv {
			continue
		}
		if fd.Doc == nil {
			return "", nil
		}
		return fd.Doc.Text(), nil
	}
	return "", nil
}

func (c *Comments) parse(file string) (*ast.File, error) {
	if f, ok := c.files[file]; ok {
		return f, nil
	}
	f, err := parser.ParseFile(c.fset, file, nil, parser.ParseComments)
	if err != nil {
		if f == nil {
			// the file is gone, e.g. a binary deployed without sources
			c.files[file] = nil
			return nil, nil
		}
		return nil, &spec.SpecError{
			Code:     spec.ParseError,
			Message:  fmt.Sprintf("docstring: parse %s: %v", file, err),
			Location: file,
			Cause:    err,
		}
	}
	c.files[file] = f
	return f, nil
}

// splitFuncName turns a runtime function name into receiver type and
// function name:
//
//	example.com/app/api.List           -> "", "List"
//	example.com/app/api.(*Pets).Get    -> "Pets", "Get"
//	example.com/app/api.Pets.Get-fm    -> "Pets", "Get"
//	example.com/app/api.List.func1     -> "List", "func1" (never declared)
func splitFuncName(full string) (recv, name string) {
	full = strings.TrimSuffix(full, "-fm")
	if i := strings.LastIndexByte(full, '/'); i >= 0 {
		full = full[i+1:]
	}
	i := strings.IndexByte(full, '.')
	if i < 0 {
		return "", ""
	}
	full = full[i+1:]
	full = stripTypeArgs(full)

	parts := strings.Split(full, ".")
	switch len(parts) {
	case 1:
		return "", parts[0]
	case 2:
		recv = strings.TrimSuffix(strings.TrimPrefix(parts[0], "(*"), ")")
		return recv, parts[1]
	default:
		return "", ""
	}
}

func stripTypeArgs(s string) string {
	for {
		open := strings.IndexByte(s, '[')
		if open < 0 {
			return s
		}
		end := strings.IndexByte(s[open:], ']')
		if end < 0 {
			return s
		}
		s = s[:open] + s[open+end+1:]
	}
}

func receiverName(fd *ast.FuncDecl) string {
	if fd.Recv == nil || len(fd.Recv.List) == 0 {
		return ""
	}
	expr := fd.Recv.List[0].Type
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.IndexExpr:
		if id, ok := t.X.(*ast.Ident); ok {
			return id.Name
		}
	case *ast.IndexListExpr:
		if id, ok := t.X.(*ast.Ident); ok {
			return id.Name
		}
	}
	return ""
}
