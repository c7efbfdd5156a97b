// Package inspect extracts canonical component metadata from user-authored
// Go functions: parameters, return fields, doc descriptions, and source
// text. It is a pure transformation over the function's parsed source.
package inspect

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"reflect"
	"regexp"
	"runtime"
	"sort"
	"strconv"
	"strings"
)

// Function is a user function located in its source file.
type Function struct {
	Name string
	Decl *ast.FuncDecl
	File *ast.File
	Fset *token.FileSet

	src []byte
}

var anonFuncName = regexp.MustCompile(`^func\d+(\.\d+)?$`)

// Load resolves a function value back to its declaration in source. The
// value must be a declared top-level function; methods and closures cannot
// be compiled into components.
func Load(fn any) (*Function, error) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return nil, fmt.Errorf("value of type %T is not a function", fn)
	}
	rf := runtime.FuncForPC(v.Pointer())
	if rf == nil {
		return nil, fmt.Errorf("cannot resolve function symbol for %T", fn)
	}
	fullName := rf.Name()
	if strings.HasSuffix(fullName, "-fm") {
		return nil, fmt.Errorf("%s is a method value; components must be top-level functions", fullName)
	}
	short := fullName[strings.LastIndexByte(fullName, '.')+1:]
	if anonFuncName.MatchString(short) {
		return nil, fmt.Errorf("%s is a function literal; components must be top-level functions", fullName)
	}

	path, _ := rf.FileLine(rf.Entry())
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source of %s: %w", fullName, err)
	}
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parse source of %s: %w", fullName, err)
	}
	for _, d := range file.Decls {
		decl, ok := d.(*ast.FuncDecl)
		if !ok || decl.Recv != nil || decl.Name.Name != short {
			continue
		}
		return &Function{Name: short, Decl: decl, File: file, Fset: fset, src: src}, nil
	}
	return nil, fmt.Errorf("declaration of %s not found in %s", short, path)
}

// SourceBody returns the function's source text, from the func keyword to
// the closing brace, without its doc comment.
func (f *Function) SourceBody() string {
	start := f.Fset.Position(f.Decl.Pos()).Offset
	end := f.Fset.Position(f.Decl.End()).Offset
	return string(f.src[start:end])
}

// SourceAt returns the source text spanned by node.
func (f *Function) SourceAt(node ast.Node) string {
	start := f.Fset.Position(node.Pos()).Offset
	end := f.Fset.Position(node.End()).Offset
	return string(f.src[start:end])
}

// Doc returns the function's doc comment text with markers stripped.
func (f *Function) Doc() string {
	if f.Decl.Doc == nil {
		return ""
	}
	return f.Decl.Doc.Text()
}

// UsedImports returns the import spec lines of the enclosing file that the
// function body actually references, sorted. These feed both the rendered
// task file and dependency-list inference.
func (f *Function) UsedImports() []string {
	byName := make(map[string]string)
	for _, spec := range f.File.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		name := path[strings.LastIndexByte(path, '/')+1:]
		line := spec.Path.Value
		if spec.Name != nil {
			if spec.Name.Name == "_" || spec.Name.Name == "." {
				continue
			}
			name = spec.Name.Name
			line = spec.Name.Name + " " + spec.Path.Value
		}
		byName[name] = line
	}

	used := make(map[string]struct{})
	ast.Inspect(f.Decl, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		if ident, ok := sel.X.(*ast.Ident); ok && ident.Obj == nil {
			if _, known := byName[ident.Name]; known {
				used[ident.Name] = struct{}{}
			}
		}
		return true
	})

	lines := make([]string, 0, len(used))
	for name := range used {
		lines = append(lines, byName[name])
	}
	sort.Strings(lines)
	return lines
}
