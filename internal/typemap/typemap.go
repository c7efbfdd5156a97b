// Package typemap converts the closed set of primitive Go types into the
// orchestration engine's parameter type vocabulary.
package typemap

import (
	"bytes"
	"go/ast"
	"go/printer"
	"go/token"

	"github.com/mlforge-labs/mlforge-go/internal/domain"
)

// Engine type names understood by the KFP orchestrator.
const (
	TypeInteger    = "Integer"
	TypeString     = "String"
	TypeFloat      = "Float"
	TypeBool       = "Bool"
	TypeJSONArray  = "JsonArray"
	TypeJSONObject = "JsonObject"
)

var identTypes = map[string]string{
	"int":     TypeInteger,
	"string":  TypeString,
	"float64": TypeFloat,
	"bool":    TypeBool,
}

// Map converts a source type expression to the engine's type name. Slices
// map to JsonArray and maps to JsonObject regardless of element type.
// Anything outside the closed set fails with UnsupportedParameterTypeError.
func Map(expr ast.Expr) (string, error) {
	switch t := expr.(type) {
	case *ast.Ident:
		if mapped, ok := identTypes[t.Name]; ok {
			return mapped, nil
		}
	case *ast.ArrayType:
		if t.Len == nil {
			return TypeJSONArray, nil
		}
	case *ast.MapType:
		return TypeJSONObject, nil
	}
	return "", &domain.UnsupportedParameterTypeError{Type: ExprString(expr)}
}

// ExprString renders a type expression as source text for error messages.
func ExprString(expr ast.Expr) string {
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, token.NewFileSet(), expr); err != nil {
		return "<unprintable>"
	}
	return buf.String()
}
