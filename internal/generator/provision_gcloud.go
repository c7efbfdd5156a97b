package generator

import (
	"fmt"
	"strings"

	"github.com/mlforge-labs/mlforge-go/internal/domain"
)

// serviceAccountID returns the account id of a service account email.
// Record validation rejects values without an @, but rendering never
// panics on one.
func serviceAccountID(email string) string {
	if i := strings.IndexByte(email, '@'); i >= 0 {
		return email[:i]
	}
	return email
}

// renderGcloudProvision emits one idempotent script creating every resource
// the record names. Blocks are selected by the same dimensions that gate
// terraform files, so both provisioners cover the same resource set.
func renderGcloudProvision(ctx *Context) ([]byte, error) {
	rec := ctx.Record
	res := rec.Resource
	var b strings.Builder
	b.WriteString(scriptPreamble)
	b.WriteString("# Creates the cloud resources the pipeline artifacts reference.\n")
	b.WriteString("# Every block tolerates the resource already existing.\n\n")

	if rec.Tooling.ArtifactRepoType == domain.ArtifactRepositoryRegistry {
		fmt.Fprintf(&b, "gcloud artifacts repositories describe %s \\\n  --project=%s --location=%s >/dev/null 2>&1 ||\n", res.ArtifactRepoName, res.ProjectID, res.ArtifactRepoLocation)
		fmt.Fprintf(&b, "gcloud artifacts repositories create %s \\\n  --project=%s --location=%s --repository-format=docker\n\n", res.ArtifactRepoName, res.ProjectID, res.ArtifactRepoLocation)
	}

	fmt.Fprintf(&b, "gsutil ls -b gs://%s >/dev/null 2>&1 ||\n", res.StorageBucketName)
	fmt.Fprintf(&b, "gsutil mb -p %s -l %s gs://%s\n\n", res.ProjectID, res.StorageBucketLocation, res.StorageBucketName)

	saName := serviceAccountID(res.PipelineRunnerServiceAccount)
	fmt.Fprintf(&b, "gcloud iam service-accounts describe %s \\\n  --project=%s >/dev/null 2>&1 ||\n", res.PipelineRunnerServiceAccount, res.ProjectID)
	fmt.Fprintf(&b, "gcloud iam service-accounts create %s \\\n  --project=%s --display-name=\"Pipeline job runner\"\n\n", saName, res.ProjectID)
	for _, role := range []string{"roles/aiplatform.user", "roles/storage.admin", "roles/artifactregistry.reader"} {
		fmt.Fprintf(&b, "gcloud projects add-iam-policy-binding %s \\\n  --member=serviceAccount:%s \\\n  --role=%s >/dev/null\n", res.ProjectID, res.PipelineRunnerServiceAccount, role)
	}
	b.WriteString("\n")

	if rec.Tooling.UseCI {
		if rec.Tooling.SourceRepoType == domain.CodeRepositoryCloudSource {
			fmt.Fprintf(&b, "gcloud source repos describe %s \\\n  --project=%s >/dev/null 2>&1 ||\n", res.SourceRepoName, res.ProjectID)
			fmt.Fprintf(&b, "gcloud source repos create %s --project=%s\n\n", res.SourceRepoName, res.ProjectID)
		}

		fmt.Fprintf(&b, "gcloud pubsub topics describe %s \\\n  --project=%s >/dev/null 2>&1 ||\n", res.PubsubTopicName, res.ProjectID)
		fmt.Fprintf(&b, "gcloud pubsub topics create %s --project=%s\n\n", res.PubsubTopicName, res.ProjectID)

		if rec.Tooling.Deployer == domain.DeployerCloudBuild && rec.Tooling.SourceRepoType == domain.CodeRepositoryCloudSource {
			fmt.Fprintf(&b, "gcloud builds triggers describe %s \\\n  --project=%s --region=%s >/dev/null 2>&1 ||\n", res.BuildTriggerName, res.ProjectID, res.BuildTriggerLocation)
			fmt.Fprintf(&b, "gcloud builds triggers create cloud-source-repositories \\\n  --project=%s --region=%s \\\n  --name=%s \\\n  --repo=%s \\\n  --branch-pattern=%s \\\n  --build-config=cloudbuild.yaml\n\n",
				res.ProjectID, res.BuildTriggerLocation, res.BuildTriggerName, res.SourceRepoName, res.SourceRepoBranch)
		}
	}

	if rec.ScheduleSet() {
		fmt.Fprintf(&b, "gcloud scheduler jobs describe %s \\\n  --project=%s --location=%s >/dev/null 2>&1 ||\n", res.ScheduleName, res.ProjectID, res.ScheduleLocation)
		fmt.Fprintf(&b, "gcloud scheduler jobs create pubsub %s \\\n  --project=%s --location=%s \\\n  --schedule=%q \\\n  --topic=%s \\\n  --message-body-from-file=%s\n",
			res.ScheduleName, res.ProjectID, res.ScheduleLocation, res.SchedulePattern, res.PubsubTopicName, rec.Pipeline.ParameterValuesPath)
	}

	return []byte(b.String()), nil
}
