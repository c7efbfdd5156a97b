package generator

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mlforge-labs/mlforge-go/internal/defaults"
	"github.com/mlforge-labs/mlforge-go/internal/domain"
)

// terraformFiles lists the HCL files the record's dimensions call for. The
// state_bucket set bootstraps remote state; the environment set holds one
// file per resource so each gating dimension owns whole files.
func terraformFiles(rec *defaults.Record) []file {
	env := func(name string, render func(*Context) ([]byte, error)) file {
		return file{path: filepath.Join("provision", "environment", name), render: render}
	}
	files := []file{
		{path: filepath.Join("provision", "state_bucket", "provider.tf"), render: renderTFStateProvider},
		{path: filepath.Join("provision", "state_bucket", "variables.tf"), render: renderTFStateVariables},
		{path: filepath.Join("provision", "state_bucket", "main.tf"), render: renderTFStateBucket},
		env("provider.tf", renderTFProvider),
		env("variables.tf", renderTFVariables),
		env("variables.auto.tfvars", renderTFVarValues),
		env("iam.tf", renderTFIAM),
		env("storage_bucket.tf", renderTFStorageBucket),
		env("outputs.tf", renderTFOutputs),
	}
	if rec.Tooling.ArtifactRepoType == domain.ArtifactRepositoryRegistry {
		files = append(files, env("artifact_registry.tf", renderTFArtifactRegistry))
	}
	if rec.Tooling.UseCI {
		if rec.Tooling.SourceRepoType == domain.CodeRepositoryCloudSource {
			files = append(files, env("source_repository.tf", renderTFSourceRepo))
		}
		files = append(files, env("pubsub.tf", renderTFPubsub))
		switch rec.Tooling.SubmissionServiceType {
		case domain.JobSubmitterCloudFunctions:
			files = append(files, env("cloud_functions.tf", renderTFCloudFunctions))
		case domain.JobSubmitterCloudRun:
			files = append(files, env("cloud_run.tf", renderTFCloudRun))
		}
		if rec.Tooling.Deployer == domain.DeployerCloudBuild && rec.Tooling.SourceRepoType == domain.CodeRepositoryCloudSource {
			files = append(files, env("build_triggers.tf", renderTFBuildTriggers))
		}
	}
	if rec.ScheduleSet() {
		files = append(files, env("scheduler.tf", renderTFScheduler))
	}
	return files
}

func renderTFStateProvider(ctx *Context) ([]byte, error) {
	var b strings.Builder
	b.WriteString("terraform {\n  required_providers {\n    google = {\n      source  = \"hashicorp/google\"\n      version = \"~> 5.0\"\n    }\n  }\n}\n\n")
	b.WriteString("provider \"google\" {\n  project = var.project_id\n}\n")
	return []byte(b.String()), nil
}

func renderTFStateVariables(ctx *Context) ([]byte, error) {
	var b strings.Builder
	writeTFVariable(&b, "project_id", "Project the state bucket lives in.", ctx.Record.Resource.ProjectID)
	writeTFVariable(&b, "location", "Location of the state bucket.", ctx.Record.Resource.StorageBucketLocation)
	return []byte(b.String()), nil
}

func renderTFStateBucket(ctx *Context) ([]byte, error) {
	var b strings.Builder
	b.WriteString("resource \"google_storage_bucket\" \"tfstate\" {\n")
	fmt.Fprintf(&b, "  name                        = \"%s-tfstate\"\n", ctx.Record.Resource.StorageBucketName)
	b.WriteString("  project                     = var.project_id\n")
	b.WriteString("  location                    = var.location\n")
	b.WriteString("  uniform_bucket_level_access = true\n")
	b.WriteString("  versioning {\n    enabled = true\n  }\n")
	b.WriteString("}\n")
	return []byte(b.String()), nil
}

func renderTFProvider(ctx *Context) ([]byte, error) {
	var b strings.Builder
	b.WriteString("terraform {\n  required_providers {\n    google = {\n      source  = \"hashicorp/google\"\n      version = \"~> 5.0\"\n    }\n  }\n")
	b.WriteString("  backend \"gcs\" {\n")
	fmt.Fprintf(&b, "    bucket = \"%s-tfstate\"\n", ctx.Record.Resource.StorageBucketName)
	b.WriteString("    prefix = \"environment\"\n  }\n}\n\n")
	b.WriteString("provider \"google\" {\n  project = var.project_id\n}\n")
	return []byte(b.String()), nil
}

func renderTFVariables(ctx *Context) ([]byte, error) {
	var b strings.Builder
	writeTFVariable(&b, "project_id", "Project every resource is created in.", "")
	writeTFVariable(&b, "naming_prefix", "Prefix shared by derived resource names.", "")
	writeTFVariable(&b, "region", "Default region for regional resources.", "")
	return []byte(b.String()), nil
}

func renderTFVarValues(ctx *Context) ([]byte, error) {
	res := ctx.Record.Resource
	var b strings.Builder
	fmt.Fprintf(&b, "project_id    = %q\n", res.ProjectID)
	fmt.Fprintf(&b, "naming_prefix = %q\n", res.NamingPrefix)
	fmt.Fprintf(&b, "region        = %q\n", res.StorageBucketLocation)
	return []byte(b.String()), nil
}

func renderTFIAM(ctx *Context) ([]byte, error) {
	res := ctx.Record.Resource
	saName := serviceAccountID(res.PipelineRunnerServiceAccount)
	var b strings.Builder
	b.WriteString("resource \"google_service_account\" \"pipeline_runner\" {\n")
	fmt.Fprintf(&b, "  account_id   = %q\n", saName)
	b.WriteString("  project      = var.project_id\n")
	b.WriteString("  display_name = \"Pipeline job runner\"\n}\n\n")
	for i, role := range []string{"roles/aiplatform.user", "roles/storage.admin", "roles/artifactregistry.reader"} {
		fmt.Fprintf(&b, "resource \"google_project_iam_member\" \"pipeline_runner_%d\" {\n", i)
		b.WriteString("  project = var.project_id\n")
		fmt.Fprintf(&b, "  role    = %q\n", role)
		b.WriteString("  member  = \"serviceAccount:${google_service_account.pipeline_runner.email}\"\n}\n\n")
	}
	return []byte(b.String()), nil
}

func renderTFStorageBucket(ctx *Context) ([]byte, error) {
	res := ctx.Record.Resource
	var b strings.Builder
	b.WriteString("resource \"google_storage_bucket\" \"pipeline\" {\n")
	fmt.Fprintf(&b, "  name                        = %q\n", res.StorageBucketName)
	b.WriteString("  project                     = var.project_id\n")
	fmt.Fprintf(&b, "  location                    = %q\n", res.StorageBucketLocation)
	b.WriteString("  uniform_bucket_level_access = true\n}\n")
	return []byte(b.String()), nil
}

func renderTFArtifactRegistry(ctx *Context) ([]byte, error) {
	res := ctx.Record.Resource
	var b strings.Builder
	b.WriteString("resource \"google_artifact_registry_repository\" \"components\" {\n")
	fmt.Fprintf(&b, "  repository_id = %q\n", res.ArtifactRepoName)
	b.WriteString("  project       = var.project_id\n")
	fmt.Fprintf(&b, "  location      = %q\n", res.ArtifactRepoLocation)
	b.WriteString("  format        = \"DOCKER\"\n}\n")
	return []byte(b.String()), nil
}

func renderTFSourceRepo(ctx *Context) ([]byte, error) {
	var b strings.Builder
	b.WriteString("resource \"google_sourcerepo_repository\" \"pipeline\" {\n")
	fmt.Fprintf(&b, "  name    = %q\n", ctx.Record.Resource.SourceRepoName)
	b.WriteString("  project = var.project_id\n}\n")
	return []byte(b.String()), nil
}

func renderTFPubsub(ctx *Context) ([]byte, error) {
	var b strings.Builder
	b.WriteString("resource \"google_pubsub_topic\" \"job_submission\" {\n")
	fmt.Fprintf(&b, "  name    = %q\n", ctx.Record.Resource.PubsubTopicName)
	b.WriteString("  project = var.project_id\n}\n")
	return []byte(b.String()), nil
}

func renderTFCloudFunctions(ctx *Context) ([]byte, error) {
	res := ctx.Record.Resource
	var b strings.Builder
	b.WriteString("resource \"google_cloudfunctions2_function\" \"job_submission\" {\n")
	fmt.Fprintf(&b, "  name     = %q\n", res.SubmissionServiceName)
	b.WriteString("  project  = var.project_id\n")
	fmt.Fprintf(&b, "  location = %q\n", res.SubmissionServiceLocation)
	b.WriteString("\n  build_config {\n    runtime     = \"go122\"\n    entry_point = \"SubmitPipelineJob\"\n  }\n")
	b.WriteString("\n  event_trigger {\n    event_type   = \"google.cloud.pubsub.topic.v1.messagePublished\"\n")
	b.WriteString("    pubsub_topic = google_pubsub_topic.job_submission.id\n  }\n")
	b.WriteString("}\n")
	return []byte(b.String()), nil
}

func renderTFCloudRun(ctx *Context) ([]byte, error) {
	res := ctx.Record.Resource
	var b strings.Builder
	b.WriteString("resource \"google_cloud_run_v2_service\" \"job_submission\" {\n")
	fmt.Fprintf(&b, "  name     = %q\n", res.SubmissionServiceName)
	b.WriteString("  project  = var.project_id\n")
	fmt.Fprintf(&b, "  location = %q\n", res.SubmissionServiceLocation)
	b.WriteString("\n  template {\n    containers {\n")
	fmt.Fprintf(&b, "      image = %q\n", submissionImage(ctx.Record))
	b.WriteString("    }\n    service_account = google_service_account.pipeline_runner.email\n  }\n")
	b.WriteString("}\n\n")
	b.WriteString("resource \"google_pubsub_subscription\" \"job_submission\" {\n")
	fmt.Fprintf(&b, "  name    = \"%s-subscription\"\n", res.PubsubTopicName)
	b.WriteString("  project = var.project_id\n")
	b.WriteString("  topic   = google_pubsub_topic.job_submission.name\n")
	b.WriteString("\n  push_config {\n    push_endpoint = google_cloud_run_v2_service.job_submission.uri\n  }\n")
	b.WriteString("}\n")
	return []byte(b.String()), nil
}

func renderTFBuildTriggers(ctx *Context) ([]byte, error) {
	res := ctx.Record.Resource
	var b strings.Builder
	b.WriteString("resource \"google_cloudbuild_trigger\" \"pipeline\" {\n")
	fmt.Fprintf(&b, "  name     = %q\n", res.BuildTriggerName)
	b.WriteString("  project  = var.project_id\n")
	fmt.Fprintf(&b, "  location = %q\n", res.BuildTriggerLocation)
	b.WriteString("\n  trigger_template {\n")
	b.WriteString("    repo_name   = google_sourcerepo_repository.pipeline.name\n")
	fmt.Fprintf(&b, "    branch_name = %q\n", res.SourceRepoBranch)
	b.WriteString("  }\n\n  filename = \"cloudbuild.yaml\"\n}\n")
	return []byte(b.String()), nil
}

func renderTFScheduler(ctx *Context) ([]byte, error) {
	res := ctx.Record.Resource
	var b strings.Builder
	b.WriteString("resource \"google_cloud_scheduler_job\" \"pipeline\" {\n")
	fmt.Fprintf(&b, "  name     = %q\n", res.ScheduleName)
	b.WriteString("  project  = var.project_id\n")
	fmt.Fprintf(&b, "  region   = %q\n", res.ScheduleLocation)
	fmt.Fprintf(&b, "  schedule = %q\n", res.SchedulePattern)
	b.WriteString("\n  pubsub_target {\n")
	b.WriteString("    topic_name = google_pubsub_topic.job_submission.id\n")
	b.WriteString("    data       = base64encode(file(\"../../" + ctx.Record.Pipeline.ParameterValuesPath + "\"))\n")
	b.WriteString("  }\n}\n")
	return []byte(b.String()), nil
}

func renderTFOutputs(ctx *Context) ([]byte, error) {
	var b strings.Builder
	b.WriteString("output \"pipeline_bucket\" {\n  value = google_storage_bucket.pipeline.url\n}\n\n")
	b.WriteString("output \"pipeline_runner_email\" {\n  value = google_service_account.pipeline_runner.email\n}\n")
	return []byte(b.String()), nil
}

func writeTFVariable(b *strings.Builder, name, description, defaultValue string) {
	fmt.Fprintf(b, "variable %q {\n", name)
	b.WriteString("  type        = string\n")
	fmt.Fprintf(b, "  description = %q\n", description)
	if defaultValue != "" {
		fmt.Fprintf(b, "  default     = %q\n", defaultValue)
	}
	b.WriteString("}\n\n")
}
