package generator

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/mlforge-labs/mlforge-go/internal/defaults"
	"github.com/mlforge-labs/mlforge-go/internal/domain"
	"github.com/mlforge-labs/mlforge-go/internal/typemap"
)

func testRecord(mutate func(*defaults.Record)) *defaults.Record {
	rec := &defaults.Record{
		Resource: defaults.Resource{
			ProjectID:    "acme-ml",
			NamingPrefix: "churn",
		},
		Tooling: defaults.Tooling{
			Orchestrator:          domain.OrchestratorKFP,
			Provisioner:           domain.ProvisionerTerraform,
			ArtifactRepoType:      domain.ArtifactRepositoryRegistry,
			Deployer:              domain.DeployerCloudBuild,
			SourceRepoType:        domain.CodeRepositoryCloudSource,
			SubmissionServiceType: domain.JobSubmitterCloudFunctions,
			UseCI:                 true,
		},
	}
	if mutate != nil {
		mutate(rec)
	}
	rec.Derive()
	return rec
}

func testComponents() []*domain.ComponentSpec {
	return []*domain.ComponentSpec{
		{
			Name:        "create_dataset",
			Description: "loads source rows into a managed table",
			Parameters: []domain.Parameter{
				{Name: "bq_table", Type: typemap.TypeString},
				{Name: "data_path", Type: typemap.TypeString},
			},
			SourceBody: "func create_dataset(bq_table string, data_path string) {\n\t_ = bq_table\n\t_ = data_path\n}",
		},
		{
			Name: "train_model",
			Parameters: []domain.Parameter{
				{Name: "data_path", Type: typemap.TypeString},
			},
			Outputs:      []domain.Parameter{{Name: "score", Type: typemap.TypeFloat}},
			ReturnSource: "type trainOutput struct {\n\tscore float64\n}",
			SourceBody:   "func train_model(data_path string) trainOutput {\n\t_ = data_path\n\treturn trainOutput{}\n}",
		},
	}
}

func testContext(rec *defaults.Record, baseDir string) *Context {
	components := testComponents()
	return &Context{
		Record:     rec,
		Components: components,
		Pipeline: &domain.PipelineSpec{
			Name:       "churn-training",
			SourceBody: "func training_pipeline(bq_table string, data_path string) {\n\tcreate_dataset(bq_table, data_path)\n\ttrain_model(data_path)\n}",
			Components: components,
		},
		Params:  map[string]any{"bq_table": "acme.churn.features"},
		BaseDir: baseDir,
	}
}

func pathSet(ctx *Context) map[string]struct{} {
	set := make(map[string]struct{})
	for _, p := range Paths(ctx) {
		set[p] = struct{}{}
	}
	return set
}

func diffPaths(with, without map[string]struct{}) []string {
	var added []string
	for p := range with {
		if _, ok := without[p]; !ok {
			added = append(added, p)
		}
	}
	sort.Strings(added)
	return added
}

func TestCIToggleChangesOnlyCIFiles(t *testing.T) {
	on := testContext(testRecord(nil), "")
	off := testContext(testRecord(func(r *defaults.Record) { r.Tooling.UseCI = false }), "")

	if removed := diffPaths(pathSet(off), pathSet(on)); len(removed) != 0 {
		t.Fatalf("disabling CI added files: %v", removed)
	}
	want := []string{
		"cloudbuild.yaml",
		filepath.Join("provision", "environment", "build_triggers.tf"),
		filepath.Join("provision", "environment", "cloud_functions.tf"),
		filepath.Join("provision", "environment", "pubsub.tf"),
		filepath.Join("provision", "environment", "source_repository.tf"),
		filepath.Join("scripts", "publish_to_topic.sh"),
		filepath.Join("services", "submission_service", "Dockerfile"),
		filepath.Join("services", "submission_service", "main.go"),
		filepath.Join("services", "submission_service", "requirements.txt"),
	}
	got := diffPaths(pathSet(on), pathSet(off))
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("CI-gated files = %v, want %v", got, want)
	}
}

func TestScheduleToggleChangesOnlySchedulerFiles(t *testing.T) {
	scheduled := testContext(testRecord(func(r *defaults.Record) { r.Resource.SchedulePattern = "0 * * * *" }), "")
	unscheduled := testContext(testRecord(nil), "")

	got := diffPaths(pathSet(scheduled), pathSet(unscheduled))
	want := []string{filepath.Join("provision", "environment", "scheduler.tf")}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("scheduler-gated files = %v, want %v", got, want)
	}
	if removed := diffPaths(pathSet(unscheduled), pathSet(scheduled)); len(removed) != 0 {
		t.Fatalf("scheduling removed files: %v", removed)
	}
}

func TestProvisionerSelectsFileSet(t *testing.T) {
	gcloud := pathSet(testContext(testRecord(func(r *defaults.Record) { r.Tooling.Provisioner = domain.ProvisionerGcloud }), ""))
	if _, ok := gcloud[filepath.Join("provision", "provision_resources.sh")]; !ok {
		t.Fatal("gcloud mode missing provision_resources.sh")
	}
	for p := range gcloud {
		if strings.Contains(p, "environment") || strings.Contains(p, "state_bucket") {
			t.Fatalf("gcloud mode rendered terraform file %s", p)
		}
	}
}

func TestMonitoringGatesServiceFiles(t *testing.T) {
	mon := pathSet(testContext(testRecord(func(r *defaults.Record) { r.Tooling.SetupMonitoring = true }), ""))
	if _, ok := mon[filepath.Join("services", "model_monitoring", "main.go")]; !ok {
		t.Fatal("monitoring enabled but no monitoring service rendered")
	}
	off := pathSet(testContext(testRecord(nil), ""))
	if _, ok := off[filepath.Join("services", "model_monitoring", "main.go")]; ok {
		t.Fatal("monitoring service rendered with monitoring off")
	}
}

func TestProvisionHandlesBareServiceAccount(t *testing.T) {
	rec := testRecord(func(r *defaults.Record) {
		r.Resource.PipelineRunnerServiceAccount = "runner-sa"
	})
	ctx := testContext(rec, "")

	script, err := renderGcloudProvision(ctx)
	if err != nil {
		t.Fatalf("renderGcloudProvision: %v", err)
	}
	if !strings.Contains(string(script), "gcloud iam service-accounts create runner-sa") {
		t.Fatalf("gcloud provision does not create the account:\n%s", script)
	}

	iam, err := renderTFIAM(ctx)
	if err != nil {
		t.Fatalf("renderTFIAM: %v", err)
	}
	if !strings.Contains(string(iam), `account_id   = "runner-sa"`) {
		t.Fatalf("terraform iam missing account id:\n%s", iam)
	}
}

func TestRunScriptsCarryRunID(t *testing.T) {
	ctx := testContext(testRecord(nil), "")

	publish, err := renderPublishToTopic(ctx)
	if err != nil {
		t.Fatalf("renderPublishToTopic: %v", err)
	}
	if !strings.Contains(string(publish), `--attribute=run_id="${RUN_ID}"`) {
		t.Fatalf("publish script drops the run id:\n%s", publish)
	}

	submit, err := renderRunPipeline(ctx)
	if err != nil {
		t.Fatalf("renderRunPipeline: %v", err)
	}
	if !strings.Contains(string(submit), "pipelineJobId=${RUN_ID}") {
		t.Fatalf("submit script drops the run id:\n%s", submit)
	}

	all, err := renderRunAll(ctx)
	if err != nil {
		t.Fatalf("renderRunAll: %v", err)
	}
	if !strings.Contains(string(all), `./scripts/run_pipeline.sh "${RUN_ID}"`) {
		t.Fatalf("run_all does not forward the run id:\n%s", all)
	}
}

func TestManifestResolvesPlaceholderImage(t *testing.T) {
	ctx := testContext(testRecord(nil), "")
	body, err := renderComponentManifest(ctx, ctx.Components[0])
	if err != nil {
		t.Fatalf("renderComponentManifest: %v", err)
	}
	if strings.Contains(string(body), placeholderImage) {
		t.Fatalf("manifest still holds the placeholder image:\n%s", body)
	}
	want := "us-central1-docker.pkg.dev/acme-ml/churn-artifact-registry/churn/components/component_base:latest"
	if !strings.Contains(string(body), want) {
		t.Fatalf("manifest missing resolved image %s:\n%s", want, body)
	}
}

func TestManifestCarriesTypedInputs(t *testing.T) {
	ctx := testContext(testRecord(nil), "")
	body, err := renderComponentManifest(ctx, ctx.Components[1])
	if err != nil {
		t.Fatalf("renderComponentManifest: %v", err)
	}
	for _, want := range []string{"name: train_model", "name: data_path", "type: String", "name: score", "type: Float"} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("manifest missing %q:\n%s", want, body)
		}
	}
}

func TestTaskSourceIsSelfContained(t *testing.T) {
	src, err := renderTaskSource(testComponents()[1])
	if err != nil {
		t.Fatalf("renderTaskSource: %v", err)
	}
	for _, want := range []string{
		"package main",
		"type trainOutput struct",
		"func train_model(data_path string) trainOutput",
		"DataPath string `json:\"data_path\"`",
		"json.Marshal(train_model(args.DataPath))",
	} {
		if !strings.Contains(string(src), want) {
			t.Fatalf("task source missing %q:\n%s", want, src)
		}
	}
}

func TestTaskSourceWithoutInputsOrOutputs(t *testing.T) {
	src, err := renderTaskSource(&domain.ComponentSpec{
		Name:       "warm_cache",
		SourceBody: "func warm_cache() {\n}",
	})
	if err != nil {
		t.Fatalf("renderTaskSource: %v", err)
	}
	for _, unused := range []string{`"encoding/json"`, `"log"`, `"os"`} {
		if strings.Contains(string(src), unused) {
			t.Fatalf("task source imports %s without using it:\n%s", unused, src)
		}
	}
	if _, err := parser.ParseFile(token.NewFileSet(), "warm_cache.go", src, 0); err != nil {
		t.Fatalf("task source does not parse: %v\n%s", err, src)
	}
}

func TestRequirementsUseDeclaredPackagesVerbatim(t *testing.T) {
	components := testComponents()
	components[0].Packages = []string{"example.com/dataload", "cloud.google.com/go/bigquery", ""}
	body, err := synthesizeRequirements(components)
	if err != nil {
		t.Fatalf("synthesizeRequirements: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	want := []string{aiplatformModule, "cloud.google.com/go/bigquery", "example.com/dataload"}
	if strings.Join(lines, ",") != strings.Join(want, ",") {
		t.Fatalf("requirements = %v, want %v", lines, want)
	}
}

func TestRequirementsInferredFromTaskSources(t *testing.T) {
	components := testComponents()
	components[0].Imports = []string{`"cloud.google.com/go/bigquery"`, `"fmt"`}
	body, err := synthesizeRequirements(components)
	if err != nil {
		t.Fatalf("synthesizeRequirements: %v", err)
	}
	got := string(body)
	for _, want := range append(baselineModules, aiplatformModule) {
		if !strings.Contains(got, want+"\n") {
			t.Fatalf("inferred requirements missing %s:\n%s", want, got)
		}
	}
	if strings.Contains(got, "\nfmt\n") {
		t.Fatalf("standard library package leaked into requirements:\n%s", got)
	}
}

func TestPipelineRunnerCallsPipelineFunction(t *testing.T) {
	ctx := testContext(testRecord(nil), "")
	body, err := renderPipelineRunner(ctx)
	if err != nil {
		t.Fatalf("renderPipelineRunner: %v", err)
	}
	for _, want := range []string{
		"training_pipeline(args.BqTable, args.DataPath)",
		`BqTable string ` + "`" + `json:"bq_table"` + "`",
		`DisplayName:     "churn-training"`,
	} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("runner missing %q:\n%s", want, body)
		}
	}
}

func TestBuildWritesTree(t *testing.T) {
	dir := t.TempDir()
	ctx := testContext(testRecord(nil), dir)
	if err := Build(ctx); err != nil {
		t.Fatalf("Build: %v", err)
	}

	for _, rel := range []string{
		"README.md",
		filepath.Join("components", "create_dataset", "component.yaml"),
		filepath.Join("components", "component_base", "src", "train_model.go"),
		filepath.Join("pipelines", "runner.go"),
		defaults.ParameterValuesPath,
	} {
		if _, err := os.Stat(filepath.Join(dir, rel)); err != nil {
			t.Fatalf("missing artifact %s: %v", rel, err)
		}
	}

	info, err := os.Stat(filepath.Join(dir, "scripts", "run_all.sh"))
	if err != nil {
		t.Fatalf("stat run_all.sh: %v", err)
	}
	if info.Mode()&0o111 == 0 {
		t.Fatal("run_all.sh is not executable")
	}

	params, err := os.ReadFile(filepath.Join(dir, defaults.ParameterValuesPath))
	if err != nil {
		t.Fatalf("read parameter values: %v", err)
	}
	if !strings.Contains(string(params), "gs_pipeline_spec_path") {
		t.Fatalf("parameter values missing spec path:\n%s", params)
	}
}
