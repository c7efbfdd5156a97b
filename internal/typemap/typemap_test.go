package typemap

import (
	"errors"
	"go/parser"
	"testing"

	"github.com/mlforge-labs/mlforge-go/internal/domain"
)

func TestMap_Primitives(t *testing.T) {
	cases := map[string]string{
		"int":            TypeInteger,
		"string":         TypeString,
		"float64":        TypeFloat,
		"bool":           TypeBool,
		"[]string":       TypeJSONArray,
		"[]int":          TypeJSONArray,
		"map[string]any": TypeJSONObject,
	}
	for src, want := range cases {
		expr, err := parser.ParseExpr(src)
		if err != nil {
			t.Fatalf("parse %q: %v", src, err)
		}
		got, err := Map(expr)
		if err != nil {
			t.Fatalf("Map(%s) err=%v", src, err)
		}
		if got != want {
			t.Fatalf("Map(%s)=%q, want %q", src, got, want)
		}
	}
}

func TestMap_Unsupported(t *testing.T) {
	for _, src := range []string{"time.Time", "complex128", "chan int", "[4]int", "func()"} {
		expr, err := parser.ParseExpr(src)
		if err != nil {
			t.Fatalf("parse %q: %v", src, err)
		}
		_, err = Map(expr)
		var unsupported *domain.UnsupportedParameterTypeError
		if !errors.As(err, &unsupported) {
			t.Fatalf("Map(%s) err=%v, want UnsupportedParameterTypeError", src, err)
		}
		if unsupported.Type == "" {
			t.Fatalf("Map(%s) error does not name the offending type", src)
		}
	}
}
