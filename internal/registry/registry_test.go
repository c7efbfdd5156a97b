package registry

import (
	"strings"
	"testing"
)

// create_dataset loads source rows into a managed table.
//
// Args:
//
//	bq_table: fully qualified table name.
//	data_path: object path of the raw csv.
func create_dataset(bq_table string, data_path string) {
	_ = bq_table
	_ = data_path
}

// train_model fits the model against the managed table.
func train_model(bq_table string) {
	_ = bq_table
}

// deploy_model pushes the trained model to an endpoint.
func deploy_model(region string) {
	_ = region
}

func training_pipeline(bq_table string, data_path string, region string) {
	create_dataset(bq_table, data_path)
	train_model(bq_table)
	deploy_model(region)
}

func TestRegisterComponent(t *testing.T) {
	r := New()
	spec, err := r.RegisterComponent(create_dataset, []string{"cloud.google.com/go/bigquery"})
	if err != nil {
		t.Fatalf("RegisterComponent: %v", err)
	}
	if spec.Name != "create_dataset" {
		t.Fatalf("name = %q, want create_dataset", spec.Name)
	}
	if len(spec.Parameters) != 2 || spec.Parameters[0].Name != "bq_table" {
		t.Fatalf("unexpected parameters: %+v", spec.Parameters)
	}
	if got := spec.Parameters[1].Description; got != "object path of the raw csv." {
		t.Fatalf("data_path description = %q", got)
	}
	if len(r.Components()) != 1 {
		t.Fatalf("Components() = %d entries, want 1", len(r.Components()))
	}
}

func TestRegisterComponentRejectsDuplicate(t *testing.T) {
	r := New()
	if _, err := r.RegisterComponent(create_dataset, nil); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := r.RegisterComponent(create_dataset, nil); err == nil {
		t.Fatal("duplicate registration accepted")
	}
}

func TestRegisterPipelineOrdersComponents(t *testing.T) {
	r := New()
	for _, fn := range []any{deploy_model, train_model, create_dataset} {
		if _, err := r.RegisterComponent(fn, nil); err != nil {
			t.Fatalf("RegisterComponent: %v", err)
		}
	}
	p, err := r.RegisterPipeline(training_pipeline, "training-pipeline", "end to end training")
	if err != nil {
		t.Fatalf("RegisterPipeline: %v", err)
	}
	want := []string{"create_dataset", "train_model", "deploy_model"}
	got := p.ComponentNames()
	if len(got) != len(want) {
		t.Fatalf("components = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("components = %v, want %v", got, want)
		}
	}
	if !strings.Contains(p.SourceBody, "create_dataset(bq_table, data_path)") {
		t.Fatalf("pipeline source body not captured:\n%s", p.SourceBody)
	}
	if r.Pipeline() != p {
		t.Fatal("Pipeline() does not return the registered pipeline")
	}
}

func TestRegisterPipelineDefaultName(t *testing.T) {
	r := New()
	if _, err := r.RegisterComponent(train_model, nil); err != nil {
		t.Fatalf("RegisterComponent: %v", err)
	}
	p, err := r.RegisterPipeline(training_pipeline, "", "")
	if err != nil {
		t.Fatalf("RegisterPipeline: %v", err)
	}
	if p.Name != "mlforge-pipeline" {
		t.Fatalf("name = %q, want mlforge-pipeline", p.Name)
	}
	if names := p.ComponentNames(); len(names) != 1 || names[0] != "train_model" {
		t.Fatalf("components = %v, want [train_model]", names)
	}
}
