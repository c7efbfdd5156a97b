package inspect

import (
	"fmt"
	"go/ast"

	"github.com/mlforge-labs/mlforge-go/internal/domain"
	"github.com/mlforge-labs/mlforge-go/internal/typemap"
)

// Component introspects a user function into an immutable ComponentSpec.
func Component(fn any, packages []string) (*domain.ComponentSpec, error) {
	f, err := Load(fn)
	if err != nil {
		return nil, err
	}
	doc := ParseDoc(f.Doc())
	params, err := parameters(f, doc)
	if err != nil {
		return nil, err
	}
	outputs, returnSource, err := returns(f)
	if err != nil {
		return nil, err
	}
	spec := &domain.ComponentSpec{
		Name:         f.Name,
		Description:  doc.Description,
		Parameters:   params,
		Outputs:      outputs,
		Packages:     packages,
		Imports:      f.UsedImports(),
		SourceBody:   f.SourceBody(),
		ReturnSource: returnSource,
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

// Pipeline introspects a pipeline function; its body is kept verbatim for
// rendering and its parameters are not type-mapped here.
func Pipeline(fn any) (name string, sourceBody string, err error) {
	f, err := Load(fn)
	if err != nil {
		return "", "", err
	}
	return f.Name, f.SourceBody(), nil
}

func parameters(f *Function, doc Doc) ([]domain.Parameter, error) {
	if f.Decl.Type.Params == nil {
		return nil, nil
	}
	var params []domain.Parameter
	for _, field := range f.Decl.Type.Params.List {
		if len(field.Names) == 0 {
			return nil, fmt.Errorf("function %s: unnamed parameter of type %s", f.Name, typemap.ExprString(field.Type))
		}
		typeExpr := stripOptional(field.Type)
		for _, ident := range field.Names {
			if isAnyType(typeExpr) {
				return nil, &domain.MissingTypeHintError{Param: ident.Name}
			}
			mapped, err := typemap.Map(typeExpr)
			if err != nil {
				return nil, err
			}
			params = append(params, domain.Parameter{
				Name:        ident.Name,
				Type:        mapped,
				Description: doc.Params[ident.Name],
			})
		}
	}
	return params, nil
}

func returns(f *Function) ([]domain.Parameter, string, error) {
	results := f.Decl.Type.Results
	if results == nil || len(results.List) == 0 {
		return nil, "", nil
	}
	if len(results.List) > 1 || len(results.List[0].Names) > 1 {
		return nil, "", &domain.InvalidReturnAnnotationError{Func: f.Name, Reason: "multiple return values; declare a single named struct"}
	}

	expr := results.List[0].Type
	if _, optional := expr.(*ast.StarExpr); optional {
		return nil, "", &domain.InvalidReturnAnnotationError{Func: f.Name, Reason: "return type cannot be optional"}
	}

	structType, declSource, err := resolveStruct(f, expr)
	if err != nil {
		return nil, "", err
	}

	var outputs []domain.Parameter
	for _, field := range structType.Fields.List {
		if len(field.Names) == 0 {
			return nil, "", &domain.InvalidReturnAnnotationError{Func: f.Name, Reason: "return struct fields must be named"}
		}
		typeExpr := stripOptional(field.Type)
		for _, ident := range field.Names {
			if isAnyType(typeExpr) {
				return nil, "", &domain.MissingTypeHintError{Param: ident.Name}
			}
			mapped, err := typemap.Map(typeExpr)
			if err != nil {
				return nil, "", err
			}
			outputs = append(outputs, domain.Parameter{Name: ident.Name, Type: mapped})
		}
	}
	return outputs, declSource, nil
}

// resolveStruct accepts either an inline struct type or the name of a
// struct type declared in the same file. For a named struct it also
// returns the declaration's source text.
func resolveStruct(f *Function, expr ast.Expr) (*ast.StructType, string, error) {
	switch t := expr.(type) {
	case *ast.StructType:
		return t, "", nil
	case *ast.Ident:
		for _, d := range f.File.Decls {
			gen, ok := d.(*ast.GenDecl)
			if !ok {
				continue
			}
			for _, s := range gen.Specs {
				ts, ok := s.(*ast.TypeSpec)
				if !ok || ts.Name.Name != t.Name {
					continue
				}
				if st, ok := ts.Type.(*ast.StructType); ok {
					return st, f.SourceAt(gen), nil
				}
				return nil, "", &domain.InvalidReturnAnnotationError{Func: f.Name, Reason: fmt.Sprintf("%s is not a struct type", t.Name)}
			}
		}
		return nil, "", &domain.InvalidReturnAnnotationError{Func: f.Name, Reason: fmt.Sprintf("struct type %s must be declared in the same file", t.Name)}
	default:
		return nil, "", &domain.InvalidReturnAnnotationError{Func: f.Name, Reason: fmt.Sprintf("return type %s is not an ordered field container", typemap.ExprString(expr))}
	}
}

func stripOptional(expr ast.Expr) ast.Expr {
	if star, ok := expr.(*ast.StarExpr); ok {
		return star.X
	}
	return expr
}

func isAnyType(expr ast.Expr) bool {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name == "any"
	case *ast.InterfaceType:
		return t.Methods == nil || len(t.Methods.List) == 0
	}
	return false
}
