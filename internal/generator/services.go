package generator

import (
	"fmt"
	"strings"

	"github.com/mlforge-labs/mlforge-go/internal/defaults"
	"github.com/mlforge-labs/mlforge-go/internal/domain"
)

// submissionImage is the registry path of the job-submission service image.
func submissionImage(rec *defaults.Record) string {
	res := rec.Resource
	return fmt.Sprintf("%s-docker.pkg.dev/%s/%s/%s/services/submission_service:latest",
		res.ArtifactRepoLocation, res.ProjectID, res.ArtifactRepoName, res.NamingPrefix)
}

func renderSubmissionDockerfile(ctx *Context) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "FROM %s AS build\n\n", ctx.Record.Resource.BaseImage)
	b.WriteString("WORKDIR /app\n")
	b.WriteString("COPY . .\n")
	b.WriteString("RUN go mod init submission_service &&\\\n")
	b.WriteString("    xargs -n1 go get < requirements.txt &&\\\n")
	b.WriteString("    CGO_ENABLED=0 go build -o /submission-service .\n\n")
	b.WriteString("FROM gcr.io/distroless/static-debian12\n")
	b.WriteString("COPY --from=build /submission-service /submission-service\n")
	b.WriteString("ENTRYPOINT [\"/submission-service\"]\n")
	return []byte(b.String()), nil
}

// renderSubmissionSource produces the service that turns a queued runtime
// parameter message into a pipeline job. The transport shell differs per
// submitter: cloud-functions registers a CloudEvent handler, cloud-run
// serves the Pub/Sub push endpoint over HTTP.
func renderSubmissionSource(ctx *Context) ([]byte, error) {
	rec := ctx.Record
	var b strings.Builder
	b.WriteString(generatedHeader)
	b.WriteString("package main\n\n")

	aiplatformImports := "\taiplatform \"cloud.google.com/go/aiplatform/apiv1\"\n" +
		"\taiplatformpb \"cloud.google.com/go/aiplatform/apiv1/aiplatformpb\"\n" +
		"\t\"google.golang.org/api/option\"\n" +
		"\t\"google.golang.org/protobuf/types/known/structpb\"\n"

	if rec.Tooling.SubmissionServiceType == domain.JobSubmitterCloudFunctions {
		b.WriteString("import (\n\t\"context\"\n\t\"encoding/json\"\n\t\"fmt\"\n\n")
		b.WriteString("\t\"github.com/GoogleCloudPlatform/functions-framework-go/functions\"\n")
		b.WriteString("\t\"github.com/cloudevents/sdk-go/v2/event\"\n\n")
		b.WriteString(aiplatformImports)
		b.WriteString(")\n\n")
		b.WriteString("func init() {\n\tfunctions.CloudEvent(\"SubmitPipelineJob\", submitPipelineJob)\n}\n\n")
		b.WriteString("type pubsubMessage struct {\n\tMessage struct {\n\t\tData []byte `json:\"data\"`\n\t} `json:\"message\"`\n}\n\n")
		b.WriteString("func submitPipelineJob(ctx context.Context, e event.Event) error {\n")
		b.WriteString("\tvar msg pubsubMessage\n")
		b.WriteString("\tif err := e.DataAs(&msg); err != nil {\n\t\treturn fmt.Errorf(\"decode event: %w\", err)\n\t}\n")
		b.WriteString("\treturn submitJob(ctx, msg.Message.Data)\n}\n\n")
	} else {
		b.WriteString("import (\n\t\"context\"\n\t\"encoding/json\"\n\t\"fmt\"\n\t\"log\"\n\t\"net/http\"\n\t\"os\"\n\n")
		b.WriteString(aiplatformImports)
		b.WriteString(")\n\n")
		b.WriteString("type pushRequest struct {\n\tMessage struct {\n\t\tData []byte `json:\"data\"`\n\t} `json:\"message\"`\n}\n\n")
		b.WriteString("func main() {\n")
		b.WriteString("\tport := os.Getenv(\"PORT\")\n\tif port == \"\" {\n\t\tport = \"8080\"\n\t}\n")
		b.WriteString("\thttp.HandleFunc(\"/\", func(w http.ResponseWriter, r *http.Request) {\n")
		b.WriteString("\t\tvar req pushRequest\n")
		b.WriteString("\t\tif err := json.NewDecoder(r.Body).Decode(&req); err != nil {\n")
		b.WriteString("\t\t\thttp.Error(w, err.Error(), http.StatusBadRequest)\n\t\t\treturn\n\t\t}\n")
		b.WriteString("\t\tif err := submitJob(r.Context(), req.Message.Data); err != nil {\n")
		b.WriteString("\t\t\thttp.Error(w, err.Error(), http.StatusInternalServerError)\n\t\t\treturn\n\t\t}\n")
		b.WriteString("\t\tw.WriteHeader(http.StatusNoContent)\n\t})\n")
		b.WriteString("\tlog.Fatal(http.ListenAndServe(\":\"+port, nil))\n}\n\n")
	}

	b.WriteString("// submitJob applies the queued parameter values to the staged job spec\n")
	b.WriteString("// and creates the pipeline job.\n")
	b.WriteString("func submitJob(ctx context.Context, parameterValues []byte) error {\n")
	fmt.Fprintf(&b, "\tconst specPath = %q\n", rec.Pipeline.GSPipelineJobSpecPath)
	fmt.Fprintf(&b, "\tconst parent = \"projects/%s/locations/%s\"\n", rec.Resource.ProjectID, rec.Pipeline.Region)
	fmt.Fprintf(&b, "\tconst serviceAccount = %q\n", rec.Resource.PipelineRunnerServiceAccount)
	fmt.Fprintf(&b, "\tconst pipelineRoot = %q\n", rec.Pipeline.StoragePath)
	fmt.Fprintf(&b, "\tconst apiEndpoint = \"%s-aiplatform.googleapis.com:443\"\n\n", rec.Pipeline.Region)
	b.WriteString("\tvar values map[string]any\n")
	b.WriteString("\tif err := json.Unmarshal(parameterValues, &values); err != nil {\n")
	b.WriteString("\t\treturn fmt.Errorf(\"decode parameter values: %w\", err)\n\t}\n")
	b.WriteString("\tparams, err := structpb.NewStruct(values)\n")
	b.WriteString("\tif err != nil {\n\t\treturn fmt.Errorf(\"encode parameter values: %w\", err)\n\t}\n\n")
	b.WriteString("\tclient, err := aiplatform.NewPipelineClient(ctx, option.WithEndpoint(apiEndpoint))\n")
	b.WriteString("\tif err != nil {\n\t\treturn fmt.Errorf(\"create pipeline client: %w\", err)\n\t}\n")
	b.WriteString("\tdefer client.Close()\n\n")
	b.WriteString("\t_, err = client.CreatePipelineJob(ctx, &aiplatformpb.CreatePipelineJobRequest{\n")
	b.WriteString("\t\tParent: parent,\n")
	b.WriteString("\t\tPipelineJob: &aiplatformpb.PipelineJob{\n")
	b.WriteString("\t\t\tTemplateUri:    specPath,\n")
	b.WriteString("\t\t\tServiceAccount: serviceAccount,\n")
	b.WriteString("\t\t\tRuntimeConfig: &aiplatformpb.PipelineJob_RuntimeConfig{\n")
	b.WriteString("\t\t\t\tGcsOutputDirectory: pipelineRoot,\n")
	b.WriteString("\t\t\t\tParameterValues:    params.GetFields(),\n")
	b.WriteString("\t\t\t},\n\t\t},\n\t})\n")
	b.WriteString("\treturn err\n}\n")
	return []byte(b.String()), nil
}

func renderSubmissionRequirements(ctx *Context) ([]byte, error) {
	modules := []string{aiplatformModule, "google.golang.org/api", "google.golang.org/protobuf"}
	if ctx.Record.Tooling.SubmissionServiceType == domain.JobSubmitterCloudFunctions {
		modules = append(modules,
			"github.com/GoogleCloudPlatform/functions-framework-go",
			"github.com/cloudevents/sdk-go/v2",
		)
	}
	return []byte(strings.Join(modules, "\n") + "\n"), nil
}

// renderMonitoringSource produces the job that creates or updates the
// model monitoring deployment described by the record's monitoring block.
func renderMonitoringSource(ctx *Context) ([]byte, error) {
	rec := ctx.Record
	var b strings.Builder
	b.WriteString(generatedHeader)
	b.WriteString("package main\n\n")
	b.WriteString("import (\n\t\"context\"\n\t\"log\"\n\n")
	b.WriteString("\taiplatform \"cloud.google.com/go/aiplatform/apiv1\"\n")
	b.WriteString("\taiplatformpb \"cloud.google.com/go/aiplatform/apiv1/aiplatformpb\"\n")
	b.WriteString("\t\"google.golang.org/api/option\"\n)\n\n")
	b.WriteString("func main() {\n")
	b.WriteString("\tctx := context.Background()\n")
	if m := rec.Monitoring; m != nil {
		fmt.Fprintf(&b, "\tconst jobDisplayName = %q\n", m.JobDisplayName)
		fmt.Fprintf(&b, "\tconst endpoint = %q\n", m.ModelEndpoint)
		fmt.Fprintf(&b, "\tconst location = %q\n", m.MonitoringLocation)
	} else {
		fmt.Fprintf(&b, "\tconst jobDisplayName = \"%s-monitoring-job\"\n", rec.Resource.NamingPrefix)
		b.WriteString("\tconst endpoint = \"\" // set by the monitor stage\n")
		fmt.Fprintf(&b, "\tconst location = %q\n", rec.Pipeline.Region)
	}
	fmt.Fprintf(&b, "\tconst parent = \"projects/%s/locations/\" + location\n\n", rec.Resource.ProjectID)
	b.WriteString("\tclient, err := aiplatform.NewJobClient(ctx, option.WithEndpoint(location+\"-aiplatform.googleapis.com:443\"))\n")
	b.WriteString("\tif err != nil {\n\t\tlog.Fatalf(\"create job client: %v\", err)\n\t}\n")
	b.WriteString("\tdefer client.Close()\n\n")
	b.WriteString("\t_, err = client.CreateModelDeploymentMonitoringJob(ctx, &aiplatformpb.CreateModelDeploymentMonitoringJobRequest{\n")
	b.WriteString("\t\tParent: parent,\n")
	b.WriteString("\t\tModelDeploymentMonitoringJob: &aiplatformpb.ModelDeploymentMonitoringJob{\n")
	b.WriteString("\t\t\tDisplayName: jobDisplayName,\n")
	b.WriteString("\t\t\tEndpoint:    endpoint,\n")
	b.WriteString("\t\t},\n\t})\n")
	b.WriteString("\tif err != nil {\n\t\tlog.Fatalf(\"create monitoring job: %v\", err)\n\t}\n")
	b.WriteString("}\n")
	return []byte(b.String()), nil
}

func renderMonitoringRequirements(*Context) ([]byte, error) {
	return []byte(aiplatformModule + "\ngoogle.golang.org/api\n"), nil
}
