package mlforge

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/mlforge-labs/mlforge-go/internal/defaults"
	"github.com/mlforge-labs/mlforge-go/internal/domain"
	"github.com/mlforge-labs/mlforge-go/internal/platform/objectstore"
	"github.com/mlforge-labs/mlforge-go/internal/platform/runner"
)

// Runner is the process-execution boundary the lifecycle stages use to
// invoke the rendered entry points.
type Runner = runner.Runner

// ProvisionOptions configures one provision run over an existing tree.
type ProvisionOptions struct {
	BaseDir string
	Runner  Runner
	Logger  *slog.Logger

	// EnsureBucket creates the pipeline storage bucket directly through
	// the object-store endpoint before the provisioning tool runs, so the
	// first spec upload never races resource creation.
	EnsureBucket bool
}

// Provision creates the cloud resources the persisted record names, using
// the provisioning tool selected at generate time.
func Provision(ctx context.Context, opts ProvisionOptions) error {
	baseDir := fallback(opts.BaseDir, defaults.DefaultBaseDir)
	log := loggerOr(opts.Logger)
	rec, err := defaults.Load(baseDir)
	if err != nil {
		return err
	}

	if opts.EnsureBucket {
		cfg, err := objectstore.ConfigFromEnv()
		if err != nil {
			return err
		}
		client, err := objectstore.NewClient(cfg)
		if err != nil {
			return err
		}
		if err := objectstore.EnsureBucket(ctx, client, rec.Resource.StorageBucketName, rec.Resource.StorageBucketLocation); err != nil {
			return err
		}
		log.Info("storage bucket ready", "bucket", rec.Resource.StorageBucketName)
	}

	run := runnerOr(opts.Runner)
	switch rec.Tooling.Provisioner {
	case domain.ProvisionerGcloud:
		log.Info("provisioning resources", "tool", "gcloud")
		return run.Run(ctx, baseDir, filepath.Join(".", "provision", "provision_resources.sh"))
	case domain.ProvisionerTerraform:
		log.Info("provisioning resources", "tool", "terraform")
		for _, chdir := range []string{"provision/state_bucket", "provision/environment"} {
			if err := run.Run(ctx, baseDir, "terraform", "-chdir="+chdir, "init", "-input=false"); err != nil {
				return err
			}
			if err := run.Run(ctx, baseDir, "terraform", "-chdir="+chdir, "apply", "-auto-approve", "-input=false"); err != nil {
				return err
			}
		}
		return nil
	}
	return &domain.UnsupportedToolingError{Dimension: "provisioning framework", Value: string(rec.Tooling.Provisioner)}
}

// DeployOptions configures one deploy run over an existing tree.
type DeployOptions struct {
	BaseDir string
	Runner  Runner
	Logger  *slog.Logger

	// PrecheckBucket verifies the pipeline storage bucket exists before
	// submitting, failing fast when provision has not run yet.
	PrecheckBucket bool
}

// Deploy submits one pipeline run. With CI enabled the runtime parameters
// are published to the job-submission topic and the service picks them up;
// without CI the rendered scripts build and submit directly.
func Deploy(ctx context.Context, opts DeployOptions) error {
	baseDir := fallback(opts.BaseDir, defaults.DefaultBaseDir)
	log := loggerOr(opts.Logger)
	rec, err := defaults.Load(baseDir)
	if err != nil {
		return err
	}

	if opts.PrecheckBucket {
		cfg, err := objectstore.ConfigFromEnv()
		if err != nil {
			return err
		}
		client, err := objectstore.NewClient(cfg)
		if err != nil {
			return err
		}
		if err := objectstore.CheckBucket(ctx, client, rec.Resource.StorageBucketName); err != nil {
			return err
		}
	}

	// The run ID travels with the submission: as a message attribute on the
	// CI topic, and as the pipeline job ID on the direct path.
	runID := uuid.NewString()
	run := runnerOr(opts.Runner)
	if rec.Tooling.UseCI {
		log.Info("queueing pipeline run", "run_id", runID, "topic", rec.Resource.PubsubTopicName)
		return run.Run(ctx, baseDir, filepath.Join(".", "scripts", "publish_to_topic.sh"), runID)
	}
	log.Info("submitting pipeline run", "run_id", runID)
	return run.Run(ctx, baseDir, filepath.Join(".", "scripts", "run_all.sh"), runID)
}

// DeprovisionOptions configures one teardown run.
type DeprovisionOptions struct {
	BaseDir string
	Runner  Runner
	Logger  *slog.Logger
}

// Deprovision destroys the provisioned environment. Only terraform tracks
// enough state to tear down safely; gcloud-provisioned trees must be
// cleaned up by hand.
func Deprovision(ctx context.Context, opts DeprovisionOptions) error {
	baseDir := fallback(opts.BaseDir, defaults.DefaultBaseDir)
	rec, err := defaults.Load(baseDir)
	if err != nil {
		return err
	}
	if rec.Tooling.Provisioner != domain.ProvisionerTerraform {
		return &domain.InvalidConfigurationError{Reason: "deprovision requires the terraform provisioning framework"}
	}
	loggerOr(opts.Logger).Info("destroying environment", "tool", "terraform")
	return runnerOr(opts.Runner).Run(ctx, baseDir, "terraform", "-chdir=provision/environment", "destroy", "-auto-approve", "-input=false")
}

// MonitorOptions describes the model monitoring job to attach.
type MonitorOptions struct {
	BaseDir string

	JobDisplayName     string
	ModelEndpoint      string
	MonitoringLocation string
	MonitoringInterval int
	SampleRate         float64
	TargetField        string
	TrainingDataset    string
	AlertEmails        []string
	AutoRetrain        bool
	SkewThresholds     map[string]float64
	DriftThresholds    map[string]float64
}

// Monitor validates the monitoring arguments and updates the monitoring
// block of the persisted record. No other block changes.
func Monitor(opts MonitorOptions) error {
	baseDir := fallback(opts.BaseDir, defaults.DefaultBaseDir)
	rec, err := defaults.Load(baseDir)
	if err != nil {
		return err
	}
	if !rec.Tooling.SetupMonitoring {
		return &domain.InvalidConfigurationError{Reason: "generate must be run with model monitoring enabled before monitor"}
	}
	if len(opts.SkewThresholds) == 0 && len(opts.DriftThresholds) == 0 {
		return &domain.InvalidConfigurationError{Reason: "at least one of skew_thresholds and drift_thresholds is required"}
	}
	if len(opts.SkewThresholds) > 0 && opts.TrainingDataset == "" {
		return &domain.InvalidConfigurationError{Reason: "training_dataset is required when skew_thresholds are set"}
	}

	m := &defaults.Monitoring{
		JobDisplayName:     fallback(opts.JobDisplayName, rec.Resource.NamingPrefix+"-monitoring-job"),
		ModelEndpoint:      opts.ModelEndpoint,
		MonitoringLocation: fallback(opts.MonitoringLocation, rec.Pipeline.Region),
		MonitoringInterval: opts.MonitoringInterval,
		SampleRate:         opts.SampleRate,
		TargetField:        opts.TargetField,
		TrainingDataset:    opts.TrainingDataset,
		AlertEmails:        opts.AlertEmails,
		AutoRetrain:        opts.AutoRetrain,
		SkewThresholds:     opts.SkewThresholds,
		DriftThresholds:    opts.DriftThresholds,
	}
	if m.MonitoringInterval <= 0 {
		m.MonitoringInterval = 24
	}
	if m.SampleRate <= 0 {
		m.SampleRate = 0.8
	}
	return defaults.UpdateMonitoring(baseDir, m)
}

func loggerOr(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.Default()
}

func runnerOr(r Runner) Runner {
	if r != nil {
		return r
	}
	return runner.Exec{}
}
