package defaults

import (
	"fmt"
	"strings"

	"github.com/mlforge-labs/mlforge-go/internal/domain"
)

// Validate checks the tooling selections against their closed sets and the
// cross-field consistency rules. It must run before Normalize so that
// CI-gated requests are still visible.
func (r *Record) Validate() error {
	t := r.Tooling
	if !t.Orchestrator.Valid() {
		return &domain.UnsupportedToolingError{Dimension: "orchestration framework", Value: string(t.Orchestrator)}
	}
	if !t.Provisioner.Valid() {
		return &domain.UnsupportedToolingError{Dimension: "provisioning framework", Value: string(t.Provisioner)}
	}
	if !t.ArtifactRepoType.Valid() {
		return &domain.UnsupportedToolingError{Dimension: "artifact repository type", Value: string(t.ArtifactRepoType)}
	}
	// The CI-only enums are cleared by Normalize when CI is off, so a
	// persisted CI-off record must still revalidate on load.
	if t.UseCI {
		if !t.Deployer.Valid() {
			return &domain.UnsupportedToolingError{Dimension: "deployment framework", Value: string(t.Deployer)}
		}
		if !t.SourceRepoType.Valid() {
			return &domain.UnsupportedToolingError{Dimension: "source repository type", Value: string(t.SourceRepoType)}
		}
		if !t.SubmissionServiceType.Valid() {
			return &domain.UnsupportedToolingError{Dimension: "pipeline job submission service type", Value: string(t.SubmissionServiceType)}
		}
	}

	if sa := r.Resource.PipelineRunnerServiceAccount; sa != "" && !strings.Contains(sa, "@") {
		return &domain.InvalidConfigurationError{Reason: fmt.Sprintf("pipeline job runner service account %q is not a service account email", sa)}
	}

	if r.ScheduleSet() && !t.UseCI {
		return &domain.InvalidConfigurationError{Reason: "use_ci must be enabled to use a schedule"}
	}
	if t.SetupMonitoring && !t.UseCI {
		return &domain.InvalidConfigurationError{Reason: "use_ci must be enabled to set up model monitoring"}
	}
	return nil
}
