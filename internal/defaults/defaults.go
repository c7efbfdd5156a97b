// Package defaults owns the single persisted configuration record shared
// across the generate, provision, deploy, and monitor lifecycle stages.
// The record is written once at compile time; only the monitoring block
// may be mutated afterwards, through UpdateMonitoring.
package defaults

import (
	"github.com/mlforge-labs/mlforge-go/internal/domain"
)

// Fallback values applied by Derive when the caller supplies nothing.
const (
	DefaultBaseDir          = "MLForge"
	DefaultResourceLocation = "us-central1"
	DefaultNamingPrefix     = "mlforge-default-prefix"
	DefaultSchedulePattern  = "No Schedule Specified"
	DefaultSourceRepoBranch = "mlforge"
	DefaultVPCConnector     = "No VPC Specified"
	DefaultBaseImage        = "golang:1.22-bookworm"
)

// Record locations, relative to the artifact tree base directory.
const (
	ConfigFilePath      = "configs/defaults.yaml"
	ParameterValuesPath = "pipelines/runtime_parameters/pipeline_parameter_values.json"
	PipelineJobSpecPath = "scripts/pipeline_spec/pipeline_job.json"
)

// Record is the persisted configuration consumed by every lifecycle stage.
type Record struct {
	Resource   Resource    `yaml:"resource"`
	Pipeline   Pipeline    `yaml:"pipeline"`
	Tooling    Tooling     `yaml:"tooling"`
	Monitoring *Monitoring `yaml:"monitoring,omitempty"`
}

// Resource names the cloud resources the generated artifacts reference.
// Fields tagged omitempty are CI-only and stay absent while CI is off.
type Resource struct {
	ProjectID                    string `yaml:"project_id"`
	NamingPrefix                 string `yaml:"naming_prefix"`
	ArtifactRepoLocation         string `yaml:"artifact_repo_location"`
	ArtifactRepoName             string `yaml:"artifact_repo_name"`
	BaseImage                    string `yaml:"base_image"`
	PipelineRunnerServiceAccount string `yaml:"pipeline_job_runner_service_account"`
	StorageBucketLocation        string `yaml:"storage_bucket_location"`
	StorageBucketName            string `yaml:"storage_bucket_name"`
	VPCConnector                 string `yaml:"vpc_connector"`

	BuildTriggerLocation      string `yaml:"build_trigger_location,omitempty"`
	BuildTriggerName          string `yaml:"build_trigger_name,omitempty"`
	PubsubTopicName           string `yaml:"pubsub_topic_name,omitempty"`
	ScheduleLocation          string `yaml:"schedule_location,omitempty"`
	ScheduleName              string `yaml:"schedule_name,omitempty"`
	SchedulePattern           string `yaml:"schedule_pattern,omitempty"`
	SourceRepoBranch          string `yaml:"source_repository_branch,omitempty"`
	SourceRepoName            string `yaml:"source_repository_name,omitempty"`
	SubmissionServiceLocation string `yaml:"pipeline_job_submission_service_location,omitempty"`
	SubmissionServiceName     string `yaml:"pipeline_job_submission_service_name,omitempty"`
}

// Pipeline holds the storage and spec paths the rendered pipeline uses.
type Pipeline struct {
	StoragePath          string `yaml:"pipeline_storage_path"`
	GSPipelineJobSpecPath string `yaml:"gs_pipeline_job_spec_path"`
	PipelineJobSpecPath  string `yaml:"pipeline_job_spec_path"`
	ParameterValuesPath  string `yaml:"parameter_values_path"`
	ComponentDirectory   string `yaml:"pipeline_component_directory"`
	Region               string `yaml:"pipeline_region"`
}

// Tooling holds the enum selection for each feature dimension.
type Tooling struct {
	Orchestrator     domain.Orchestrator       `yaml:"orchestration_framework"`
	Provisioner      domain.Provisioner        `yaml:"provisioning_framework"`
	ArtifactRepoType domain.ArtifactRepository `yaml:"artifact_repo_type"`
	UseCI            bool                      `yaml:"use_ci"`
	SetupMonitoring  bool                      `yaml:"setup_model_monitoring"`

	Deployer              domain.Deployer       `yaml:"deployment_framework,omitempty"`
	SourceRepoType        domain.CodeRepository `yaml:"source_repository_type,omitempty"`
	SubmissionServiceType domain.JobSubmitter   `yaml:"pipeline_job_submission_service_type,omitempty"`
}

// Monitoring configures the model monitoring job. It is the only block
// that may change after the record is first written.
type Monitoring struct {
	JobDisplayName     string             `yaml:"job_display_name"`
	ModelEndpoint      string             `yaml:"model_endpoint"`
	MonitoringLocation string             `yaml:"monitoring_location"`
	MonitoringInterval int                `yaml:"monitoring_interval"`
	SampleRate         float64            `yaml:"sample_rate"`
	TargetField        string             `yaml:"target_field"`
	TrainingDataset    string             `yaml:"training_dataset,omitempty"`
	AlertEmails        []string           `yaml:"alert_emails,omitempty"`
	AutoRetrain        bool               `yaml:"automatic_retrain"`
	SkewThresholds     map[string]float64 `yaml:"skew_thresholds,omitempty"`
	DriftThresholds    map[string]float64 `yaml:"drift_thresholds,omitempty"`
}

// ScheduleSet reports whether a real schedule was requested.
func (r *Record) ScheduleSet() bool {
	return r.Resource.SchedulePattern != "" && r.Resource.SchedulePattern != DefaultSchedulePattern
}
