package domain

// Each tooling dimension is a closed enum. A value outside its set fails
// record validation with UnsupportedToolingError.

// Orchestrator selects the pipeline orchestration engine.
type Orchestrator string

const (
	OrchestratorKFP Orchestrator = "kfp"
)

// Provisioner selects the infrastructure-as-code tool.
type Provisioner string

const (
	ProvisionerGcloud    Provisioner = "gcloud"
	ProvisionerTerraform Provisioner = "terraform"
)

// Deployer selects the CI build tool.
type Deployer string

const (
	DeployerCloudBuild    Deployer = "cloud-build"
	DeployerGitHubActions Deployer = "github-actions"
)

// ArtifactRepository selects where container images are stored.
type ArtifactRepository string

const (
	ArtifactRepositoryRegistry ArtifactRepository = "artifact-registry"
)

// CodeRepository selects where generated source is hosted.
type CodeRepository string

const (
	CodeRepositoryCloudSource CodeRepository = "cloud-source-repositories"
	CodeRepositoryGitHub      CodeRepository = "github"
)

// JobSubmitter selects the transport hosting the job-submission service.
type JobSubmitter string

const (
	JobSubmitterCloudFunctions JobSubmitter = "cloud-functions"
	JobSubmitterCloudRun       JobSubmitter = "cloud-run"
)

func (o Orchestrator) Valid() bool {
	return o == OrchestratorKFP
}

func (p Provisioner) Valid() bool {
	return p == ProvisionerGcloud || p == ProvisionerTerraform
}

func (d Deployer) Valid() bool {
	return d == DeployerCloudBuild || d == DeployerGitHubActions
}

func (a ArtifactRepository) Valid() bool {
	return a == ArtifactRepositoryRegistry
}

func (c CodeRepository) Valid() bool {
	return c == CodeRepositoryCloudSource || c == CodeRepositoryGitHub
}

func (j JobSubmitter) Valid() bool {
	return j == JobSubmitterCloudFunctions || j == JobSubmitterCloudRun
}
