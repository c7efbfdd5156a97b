package inspect

import (
	"errors"
	"strings"
	"testing"

	"github.com/mlforge-labs/mlforge-go/internal/domain"
)

func TestComponent_Parameters(t *testing.T) {
	spec, err := Component(create_dataset, nil)
	if err != nil {
		t.Fatalf("Component() err=%v", err)
	}
	if spec.Name != "create_dataset" {
		t.Fatalf("Name=%q", spec.Name)
	}
	if spec.Description != "create_dataset exports a table to CSV for downstream training." {
		t.Fatalf("Description=%q", spec.Description)
	}
	want := []domain.Parameter{
		{Name: "bq_table", Type: "String", Description: "Fully qualified name of the source table."},
		{Name: "data_path", Type: "String", Description: "Destination path for the exported CSV, relative to the pipeline storage root."},
	}
	if len(spec.Parameters) != len(want) {
		t.Fatalf("Parameters=%v", spec.Parameters)
	}
	for i, p := range want {
		if spec.Parameters[i] != p {
			t.Fatalf("Parameters[%d]=%+v, want %+v", i, spec.Parameters[i], p)
		}
	}
	if spec.Outputs != nil {
		t.Fatalf("Outputs=%v, want none", spec.Outputs)
	}
	if !strings.HasPrefix(spec.SourceBody, "func create_dataset(") {
		t.Fatalf("SourceBody does not start at declaration: %q", spec.SourceBody[:40])
	}
}

func TestComponent_Outputs(t *testing.T) {
	spec, err := Component(train_model, nil)
	if err != nil {
		t.Fatalf("Component() err=%v", err)
	}
	if len(spec.Outputs) != 1 {
		t.Fatalf("Outputs=%v", spec.Outputs)
	}
	if spec.Outputs[0].Name != "score" || spec.Outputs[0].Type != "Float" {
		t.Fatalf("Outputs[0]=%+v", spec.Outputs[0])
	}
	if !strings.HasPrefix(spec.ReturnSource, "type trainOutput struct") {
		t.Fatalf("ReturnSource=%q", spec.ReturnSource)
	}
}

func TestComponent_MissingTypeHint(t *testing.T) {
	_, err := Component(untyped_param, nil)
	var missing *domain.MissingTypeHintError
	if !errors.As(err, &missing) {
		t.Fatalf("err=%v, want MissingTypeHintError", err)
	}
	if missing.Param != "payload" {
		t.Fatalf("Param=%q, want payload", missing.Param)
	}
}

func TestComponent_OptionalUnwrap(t *testing.T) {
	spec, err := Component(optional_param, nil)
	if err != nil {
		t.Fatalf("Component() err=%v", err)
	}
	if spec.Parameters[0].Type != "String" || spec.Parameters[1].Type != "Integer" {
		t.Fatalf("Parameters=%v", spec.Parameters)
	}
}

func TestComponent_InvalidReturns(t *testing.T) {
	for _, fn := range []any{scalar_return, optional_return, tuple_return} {
		_, err := Component(fn, nil)
		var invalid *domain.InvalidReturnAnnotationError
		if !errors.As(err, &invalid) {
			t.Fatalf("err=%v, want InvalidReturnAnnotationError", err)
		}
	}
}

func TestComponent_UnsupportedParameterType(t *testing.T) {
	_, err := Component(exotic_param, nil)
	var unsupported *domain.UnsupportedParameterTypeError
	if !errors.As(err, &unsupported) {
		t.Fatalf("err=%v, want UnsupportedParameterTypeError", err)
	}
	if unsupported.Type != "time.Time" {
		t.Fatalf("Type=%q, want time.Time", unsupported.Type)
	}
}

func TestLoad_RejectsNonFunctions(t *testing.T) {
	if _, err := Load(42); err == nil {
		t.Fatalf("Load(42) expected error")
	}
	closure := func(s string) {}
	if _, err := Load(closure); err == nil {
		t.Fatalf("Load(closure) expected error")
	}
}

func TestUsedImports(t *testing.T) {
	f, err := Load(create_dataset)
	if err != nil {
		t.Fatalf("Load() err=%v", err)
	}
	imports := f.UsedImports()
	if len(imports) != 1 || imports[0] != `"fmt"` {
		t.Fatalf("UsedImports()=%v, want [\"fmt\"]", imports)
	}
}

func TestParseDoc_UnmatchedParamIsEmpty(t *testing.T) {
	doc := ParseDoc("does a thing.\n\nArgs:\n  known: documented.\n")
	if doc.Params["unknown"] != "" {
		t.Fatalf("unexpected description for unknown param")
	}
	if doc.Params["known"] != "documented." {
		t.Fatalf("known=%q", doc.Params["known"])
	}
}
