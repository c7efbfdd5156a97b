package graph

import (
	"testing"

	"github.com/mlforge-labs/mlforge-go/internal/domain"
)

func registrySet(names ...string) map[string]*domain.ComponentSpec {
	set := make(map[string]*domain.ComponentSpec, len(names))
	for _, n := range names {
		set[n] = &domain.ComponentSpec{Name: n}
	}
	return set
}

func orderOf(t *testing.T, g *Graph) []string {
	t.Helper()
	comps, err := g.TopologicalOrder()
	if err != nil {
		t.Fatalf("TopologicalOrder() err=%v", err)
	}
	names := make([]string, 0, len(comps))
	for _, c := range comps {
		names = append(names, c.Name)
	}
	return names
}

const pipelineSrc = `func training_pipeline(bq_table string, data_path string) {
	helperLog("starting")
	create_dataset(bq_table, data_path)
	notRegistered(data_path)
	train_model(data_path)
	deploy_model(data_path)
}`

func TestExtract_FirstOccurrenceOrder(t *testing.T) {
	g, err := Extract(pipelineSrc, registrySet("create_dataset", "train_model", "deploy_model"))
	if err != nil {
		t.Fatalf("Extract() err=%v", err)
	}
	got := orderOf(t, g)
	want := []string{"create_dataset", "train_model", "deploy_model"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order=%v, want %v", got, want)
		}
	}
}

func TestExtract_IgnoresUnknownCalls(t *testing.T) {
	g, err := Extract(pipelineSrc, registrySet("train_model"))
	if err != nil {
		t.Fatalf("Extract() err=%v", err)
	}
	got := orderOf(t, g)
	if len(got) != 1 || got[0] != "train_model" {
		t.Fatalf("order=%v, want [train_model]", got)
	}
}

func TestExtract_DuplicateCallsCollapse(t *testing.T) {
	src := `func p() {
	train_model("a")
	train_model("b")
	create_dataset("t", "p")
}`
	g, err := Extract(src, registrySet("create_dataset", "train_model"))
	if err != nil {
		t.Fatalf("Extract() err=%v", err)
	}
	got := orderOf(t, g)
	want := []string{"train_model", "create_dataset"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("order=%v, want %v", got, want)
	}
}

func TestExplicitEdgesOverrideDeclarationOrder(t *testing.T) {
	g := New()
	a := &domain.ComponentSpec{Name: "a"}
	b := &domain.ComponentSpec{Name: "b"}
	c := &domain.ComponentSpec{Name: "c"}
	g.AddNode(a)
	g.AddNode(b)
	g.AddNode(c)
	if err := g.AddEdge("c", "a"); err != nil {
		t.Fatalf("AddEdge() err=%v", err)
	}
	got := orderOf(t, g)
	// b keeps declaration rank; a must wait for c.
	want := []string{"b", "c", "a"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order=%v, want %v", got, want)
		}
	}
}

func TestCycleDetected(t *testing.T) {
	g := New()
	g.AddNode(&domain.ComponentSpec{Name: "a"})
	g.AddNode(&domain.ComponentSpec{Name: "b"})
	_ = g.AddEdge("a", "b")
	_ = g.AddEdge("b", "a")
	if _, err := g.TopologicalOrder(); err == nil {
		t.Fatalf("TopologicalOrder() expected cycle error")
	}
}
