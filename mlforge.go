// Package mlforge compiles registered Go functions into a deployable
// pipeline artifact tree and drives its lifecycle: generate renders the
// tree and persists the configuration record, provision creates the cloud
// resources the record names, deploy submits a run, and monitor attaches
// model monitoring to a served model.
package mlforge

import (
	"fmt"

	"github.com/mlforge-labs/mlforge-go/internal/defaults"
	"github.com/mlforge-labs/mlforge-go/internal/domain"
	"github.com/mlforge-labs/mlforge-go/internal/generator"
	"github.com/mlforge-labs/mlforge-go/internal/registry"
)

// Registry collects the component and pipeline functions of one
// compilation. Create one with NewRegistry and pass it to Generate.
type Registry = registry.Registry

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return registry.New()
}

// GenerateOptions holds the arguments of one generate run. Project is
// required; every other identifier falls back to a value derived from the
// naming prefix. Tooling selections are strings so misspellings surface as
// configuration errors rather than compile errors.
type GenerateOptions struct {
	Project        string
	PipelineParams map[string]any
	BaseDir        string

	Provisioner           string
	Deployer              string
	ArtifactRepoType      string
	SourceRepoType        string
	SubmissionServiceType string
	UseCI                 bool
	SetupMonitoring       bool

	ArtifactRepoLocation         string
	ArtifactRepoName             string
	BaseImage                    string
	BuildTriggerLocation         string
	BuildTriggerName             string
	NamingPrefix                 string
	PipelineRunnerServiceAccount string
	PubsubTopicName              string
	ScheduleLocation             string
	ScheduleName                 string
	SchedulePattern              string
	SourceRepoBranch             string
	SourceRepoName               string
	StorageBucketLocation        string
	StorageBucketName            string
	SubmissionServiceLocation    string
	SubmissionServiceName        string
	VPCConnector                 string
}

func fallback(value, def string) string {
	if value == "" {
		return def
	}
	return value
}

// record builds the configuration record the options describe, before
// derivation and validation.
func (o GenerateOptions) record() *defaults.Record {
	return &defaults.Record{
		Resource: defaults.Resource{
			ProjectID:                    o.Project,
			NamingPrefix:                 o.NamingPrefix,
			ArtifactRepoLocation:         o.ArtifactRepoLocation,
			ArtifactRepoName:             o.ArtifactRepoName,
			BaseImage:                    o.BaseImage,
			PipelineRunnerServiceAccount: o.PipelineRunnerServiceAccount,
			StorageBucketLocation:        o.StorageBucketLocation,
			StorageBucketName:            o.StorageBucketName,
			VPCConnector:                 o.VPCConnector,
			BuildTriggerLocation:         o.BuildTriggerLocation,
			BuildTriggerName:             o.BuildTriggerName,
			PubsubTopicName:              o.PubsubTopicName,
			ScheduleLocation:             o.ScheduleLocation,
			ScheduleName:                 o.ScheduleName,
			SchedulePattern:              o.SchedulePattern,
			SourceRepoBranch:             o.SourceRepoBranch,
			SourceRepoName:               o.SourceRepoName,
			SubmissionServiceLocation:    o.SubmissionServiceLocation,
			SubmissionServiceName:        o.SubmissionServiceName,
		},
		Tooling: defaults.Tooling{
			Orchestrator:          domain.OrchestratorKFP,
			Provisioner:           domain.Provisioner(fallback(o.Provisioner, string(domain.ProvisionerGcloud))),
			ArtifactRepoType:      domain.ArtifactRepository(fallback(o.ArtifactRepoType, string(domain.ArtifactRepositoryRegistry))),
			Deployer:              domain.Deployer(fallback(o.Deployer, string(domain.DeployerCloudBuild))),
			SourceRepoType:        domain.CodeRepository(fallback(o.SourceRepoType, string(domain.CodeRepositoryCloudSource))),
			SubmissionServiceType: domain.JobSubmitter(fallback(o.SubmissionServiceType, string(domain.JobSubmitterCloudFunctions))),
			UseCI:                 o.UseCI,
			SetupMonitoring:       o.SetupMonitoring,
		},
	}
}

// Generate validates the options, derives and persists the configuration
// record, and renders the full artifact tree. Validation failures surface
// before any file is written; a failing write aborts without rollback.
func Generate(reg *Registry, opts GenerateOptions) error {
	if opts.Project == "" {
		return &domain.InvalidConfigurationError{Reason: "project id is required"}
	}
	pipeline := reg.Pipeline()
	if pipeline == nil {
		return fmt.Errorf("no pipeline registered")
	}

	rec := opts.record()
	rec.Derive()
	if err := rec.Validate(); err != nil {
		return err
	}
	rec.Normalize()

	baseDir := fallback(opts.BaseDir, defaults.DefaultBaseDir)
	if err := defaults.Save(baseDir, rec); err != nil {
		return err
	}
	return generator.Build(&generator.Context{
		Record:     rec,
		Components: reg.Components(),
		Pipeline:   pipeline,
		Params:     opts.PipelineParams,
		BaseDir:    baseDir,
	})
}
