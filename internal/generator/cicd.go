package generator

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mlforge-labs/mlforge-go/internal/defaults"
	"github.com/mlforge-labs/mlforge-go/internal/domain"
)

type cloudBuildStep struct {
	ID         string   `yaml:"id"`
	Name       string   `yaml:"name"`
	Dir        string   `yaml:"dir,omitempty"`
	Entrypoint string   `yaml:"entrypoint,omitempty"`
	Args       []string `yaml:"args"`
}

type cloudBuildConfig struct {
	Steps   []cloudBuildStep `yaml:"steps"`
	Images  []string         `yaml:"images,omitempty"`
	Timeout string           `yaml:"timeout"`
}

// renderCloudBuild emits the pipeline build config triggered on every push
// to the source branch: rebuild the component base image, redeploy the
// job-submission service, then compile and stage the pipeline spec.
func renderCloudBuild(ctx *Context) ([]byte, error) {
	rec := ctx.Record
	image := ContainerImage(rec)
	cfg := cloudBuildConfig{
		Timeout: "3600s",
		Images:  []string{image, submissionImage(rec)},
		Steps: []cloudBuildStep{
			{
				ID:   "build-component-base",
				Name: "gcr.io/cloud-builders/docker",
				Dir:  "components/component_base",
				Args: []string{"build", "-t", image, "."},
			},
			{
				ID:   "build-submission-service",
				Name: "gcr.io/cloud-builders/docker",
				Dir:  "services/submission_service",
				Args: []string{"build", "-t", submissionImage(rec), "."},
			},
		},
	}
	switch rec.Tooling.SubmissionServiceType {
	case domain.JobSubmitterCloudRun:
		cfg.Steps = append(cfg.Steps, cloudBuildStep{
			ID:   "deploy-submission-service",
			Name: "gcr.io/google.com/cloudsdktool/cloud-sdk",
			Args: []string{
				"gcloud", "run", "deploy", rec.Resource.SubmissionServiceName,
				"--image", submissionImage(rec),
				"--region", rec.Resource.SubmissionServiceLocation,
				"--project", rec.Resource.ProjectID,
			},
		})
	case domain.JobSubmitterCloudFunctions:
		args := []string{
			"gcloud", "functions", "deploy", rec.Resource.SubmissionServiceName,
			"--gen2", "--runtime", "go122",
			"--entry-point", "SubmitPipelineJob",
			"--trigger-topic", rec.Resource.PubsubTopicName,
			"--region", rec.Resource.SubmissionServiceLocation,
			"--project", rec.Resource.ProjectID,
		}
		if rec.Resource.VPCConnector != defaults.DefaultVPCConnector {
			args = append(args, "--vpc-connector", rec.Resource.VPCConnector)
		}
		cfg.Steps = append(cfg.Steps, cloudBuildStep{
			ID:   "deploy-submission-service",
			Name: "gcr.io/google.com/cloudsdktool/cloud-sdk",
			Dir:  "services/submission_service",
			Args: args,
		})
	}
	cfg.Steps = append(cfg.Steps, cloudBuildStep{
		ID:         "build-pipeline-spec",
		Name:       "gcr.io/google.com/cloudsdktool/cloud-sdk",
		Entrypoint: "bash",
		Args:       []string{"scripts/build_pipeline_spec.sh"},
	})
	return yaml.Marshal(&cfg)
}

// renderGitHubWorkflow emits the equivalent workflow for repositories
// hosted on GitHub.
func renderGitHubWorkflow(ctx *Context) ([]byte, error) {
	rec := ctx.Record
	var b strings.Builder
	b.WriteString("name: build-pipeline\n\n")
	b.WriteString("on:\n  push:\n    branches:\n")
	fmt.Fprintf(&b, "      - %s\n\n", rec.Resource.SourceRepoBranch)
	b.WriteString("jobs:\n  build:\n    runs-on: ubuntu-latest\n")
	b.WriteString("    permissions:\n      contents: read\n      id-token: write\n")
	b.WriteString("    steps:\n")
	b.WriteString("      - uses: actions/checkout@v4\n")
	b.WriteString("      - uses: google-github-actions/auth@v2\n")
	b.WriteString("        with:\n")
	b.WriteString("          workload_identity_provider: ${{ secrets.WIF_PROVIDER }}\n")
	fmt.Fprintf(&b, "          service_account: %s\n", rec.Resource.PipelineRunnerServiceAccount)
	b.WriteString("      - uses: google-github-actions/setup-gcloud@v2\n")
	b.WriteString("      - name: Build component base\n")
	b.WriteString("        run: ./scripts/build_components.sh\n")
	b.WriteString("      - name: Build pipeline spec\n")
	b.WriteString("        run: ./scripts/build_pipeline_spec.sh\n")
	return []byte(b.String()), nil
}
