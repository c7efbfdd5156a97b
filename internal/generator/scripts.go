package generator

import (
	"fmt"
	"strings"
)

const scriptPreamble = "#!/bin/bash\nset -euo pipefail\n\n"

// Scripts assume the working directory is the artifact tree root.

func renderBuildComponents(ctx *Context) ([]byte, error) {
	var b strings.Builder
	b.WriteString(scriptPreamble)
	b.WriteString("# Builds the shared component base image and pushes it to the registry.\n")
	fmt.Fprintf(&b, "gcloud builds submit components/component_base \\\n  --project=%s \\\n  --region=%s \\\n  --tag=%s\n",
		ctx.Record.Resource.ProjectID,
		ctx.Record.Resource.ArtifactRepoLocation,
		ContainerImage(ctx.Record))
	return []byte(b.String()), nil
}

func renderBuildPipelineSpec(ctx *Context) ([]byte, error) {
	p := ctx.Record.Pipeline
	var b strings.Builder
	b.WriteString(scriptPreamble)
	b.WriteString("# Compiles the pipeline job spec and stages it in the pipeline bucket.\n")
	b.WriteString("(cd pipelines && go run .)\n")
	fmt.Fprintf(&b, "gsutil cp %s %s\n", p.PipelineJobSpecPath, p.GSPipelineJobSpecPath)
	return []byte(b.String()), nil
}

func renderRunPipeline(ctx *Context) ([]byte, error) {
	rec := ctx.Record
	var b strings.Builder
	b.WriteString(scriptPreamble)
	b.WriteString("# Submits the compiled job spec as a pipeline job.\n")
	b.WriteString("RUN_ID=\"${1:?run id required}\"\n")
	b.WriteString("curl -sS -X POST \\\n")
	b.WriteString("  -H \"Authorization: Bearer $(gcloud auth print-access-token)\" \\\n")
	b.WriteString("  -H \"Content-Type: application/json\" \\\n")
	fmt.Fprintf(&b, "  \"https://%s-aiplatform.googleapis.com/v1/projects/%s/locations/%s/pipelineJobs?pipelineJobId=${RUN_ID}\" \\\n",
		rec.Pipeline.Region, rec.Resource.ProjectID, rec.Pipeline.Region)
	fmt.Fprintf(&b, "  -d @%s\n", rec.Pipeline.PipelineJobSpecPath)
	return []byte(b.String()), nil
}

func renderRunAll(*Context) ([]byte, error) {
	var b strings.Builder
	b.WriteString(scriptPreamble)
	b.WriteString("# Builds the component image, compiles the job spec, and submits it.\n")
	b.WriteString("RUN_ID=\"${1:?run id required}\"\n")
	b.WriteString("./scripts/build_components.sh\n")
	b.WriteString("./scripts/build_pipeline_spec.sh\n")
	b.WriteString("./scripts/run_pipeline.sh \"${RUN_ID}\"\n")
	return []byte(b.String()), nil
}

func renderPublishToTopic(ctx *Context) ([]byte, error) {
	rec := ctx.Record
	var b strings.Builder
	b.WriteString(scriptPreamble)
	b.WriteString("# Publishes the runtime parameters to the job-submission topic.\n")
	b.WriteString("RUN_ID=\"${1:?run id required}\"\n")
	fmt.Fprintf(&b, "gcloud pubsub topics publish %s \\\n  --project=%s \\\n  --attribute=run_id=\"${RUN_ID}\" \\\n  --message=\"$(cat %s)\"\n",
		rec.Resource.PubsubTopicName,
		rec.Resource.ProjectID,
		rec.Pipeline.ParameterValuesPath)
	return []byte(b.String()), nil
}
