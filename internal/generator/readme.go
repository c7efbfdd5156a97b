package generator

import (
	"fmt"
	"strings"

	"github.com/mlforge-labs/mlforge-go/internal/domain"
)

// renderReadme describes the rendered tree and how to take it to a running
// pipeline. Sections mirror the directories the current flags produce.
func renderReadme(ctx *Context) ([]byte, error) {
	rec := ctx.Record
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", ctx.Pipeline.Name)
	if ctx.Pipeline.Description != "" {
		b.WriteString(ctx.Pipeline.Description + "\n\n")
	}
	b.WriteString("Generated by mlforge. Edit the registered component and pipeline\n")
	b.WriteString("functions and regenerate; do not edit rendered files in place.\n\n")

	b.WriteString("## Layout\n\n")
	b.WriteString("- `components/` — one manifest per component plus the shared base image\n")
	b.WriteString("- `pipelines/` — pipeline source, runner entry point, runtime parameters\n")
	b.WriteString("- `scripts/` — build and run entry points\n")
	b.WriteString("- `configs/` — the persisted configuration record\n")
	switch rec.Tooling.Provisioner {
	case domain.ProvisionerGcloud:
		b.WriteString("- `provision/` — resource creation script (gcloud)\n")
	case domain.ProvisionerTerraform:
		b.WriteString("- `provision/` — terraform state bootstrap and environment\n")
	}
	if rec.Tooling.UseCI {
		b.WriteString("- `services/submission_service/` — queue-driven pipeline job submission\n")
	}
	if rec.Tooling.SetupMonitoring {
		b.WriteString("- `services/model_monitoring/` — model monitoring job setup\n")
	}
	b.WriteString("\n## Usage\n\n")
	switch rec.Tooling.Provisioner {
	case domain.ProvisionerGcloud:
		b.WriteString("1. `./provision/provision_resources.sh`\n")
	case domain.ProvisionerTerraform:
		b.WriteString("1. `terraform -chdir=provision/state_bucket apply`, then\n")
		b.WriteString("   `terraform -chdir=provision/environment apply`\n")
	}
	if rec.Tooling.UseCI {
		fmt.Fprintf(&b, "2. Push to the `%s` branch; CI rebuilds images and stages the spec\n", rec.Resource.SourceRepoBranch)
		b.WriteString("3. `./scripts/publish_to_topic.sh` to queue a run\n")
	} else {
		b.WriteString("2. `./scripts/run_all.sh`\n")
	}
	return []byte(b.String()), nil
}
