package graph

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"sort"

	"github.com/mlforge-labs/mlforge-go/internal/domain"
)

// Extract parses a pipeline function's source body and returns the
// invocation graph over the registered components. Calls to names outside
// the registry are ignored; a pipeline that invokes no registered
// component yields an empty graph, not an error.
func Extract(sourceBody string, components map[string]*domain.ComponentSpec) (*Graph, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "pipeline.go", "package pipeline\n\n"+sourceBody, 0)
	if err != nil {
		return nil, fmt.Errorf("parse pipeline source: %w", err)
	}

	var decl *ast.FuncDecl
	for _, d := range file.Decls {
		if fd, ok := d.(*ast.FuncDecl); ok {
			decl = fd
			break
		}
	}
	if decl == nil {
		return nil, fmt.Errorf("pipeline source holds no function declaration")
	}

	type hit struct {
		name string
		pos  token.Pos
	}
	var hits []hit
	ast.Inspect(decl, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		ident, ok := call.Fun.(*ast.Ident)
		if !ok {
			return true
		}
		if _, registered := components[ident.Name]; registered {
			hits = append(hits, hit{name: ident.Name, pos: ident.Pos()})
		}
		return true
	})
	sort.Slice(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	g := New()
	for _, h := range hits {
		g.AddNode(components[h.name])
	}

	// Sequential invocations chain as an "after" relation.
	names := g.order
	for i := 0; i+1 < len(names); i++ {
		if err := g.AddEdge(names[i], names[i+1]); err != nil {
			return nil, err
		}
	}
	return g, nil
}
