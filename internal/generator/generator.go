// Package generator renders the artifact tree. The file set is a pure
// function of the tooling enums in the configuration record: each plan
// entry is gated by at most one dimension, so toggling a flag adds or
// removes exactly that dimension's files and nothing else.
package generator

import (
	"fmt"
	"path/filepath"

	"github.com/mlforge-labs/mlforge-go/internal/defaults"
	"github.com/mlforge-labs/mlforge-go/internal/domain"
	"github.com/mlforge-labs/mlforge-go/internal/platform/fsio"
)

// Context carries everything one generation run needs. It is read-only
// during rendering.
type Context struct {
	Record     *defaults.Record
	Components []*domain.ComponentSpec
	Pipeline   *domain.PipelineSpec
	Params     map[string]any
	BaseDir    string
}

type file struct {
	path       string
	executable bool
	render     func(*Context) ([]byte, error)
}

func static(body string) func(*Context) ([]byte, error) {
	return func(*Context) ([]byte, error) { return []byte(body), nil }
}

// plan lists every file this context produces, in render order. Gating
// happens here and only here; render functions never consult the flags
// that decide their own existence.
func plan(ctx *Context) []file {
	rec := ctx.Record
	var files []file

	files = append(files, file{path: "README.md", render: renderReadme})

	for _, c := range ctx.Components {
		c := c
		files = append(files,
			file{
				path: filepath.Join("components", c.Name, "component.yaml"),
				render: func(ctx *Context) ([]byte, error) {
					return renderComponentManifest(ctx, c)
				},
			},
			file{
				path: filepath.Join("components", "component_base", "src", c.Name+".go"),
				render: func(ctx *Context) ([]byte, error) {
					return renderTaskSource(c)
				},
			},
		)
	}
	files = append(files,
		file{path: filepath.Join("components", "component_base", "Dockerfile"), render: renderBaseDockerfile},
		file{path: filepath.Join("components", "component_base", "requirements.txt"), render: renderComponentRequirements},
	)

	files = append(files,
		file{path: filepath.Join("pipelines", "pipeline.go"), render: renderPipelineSource},
		file{path: filepath.Join("pipelines", "runner.go"), render: renderPipelineRunner},
		file{path: filepath.Join("pipelines", "requirements.txt"), render: renderPipelineRequirements},
		file{path: defaults.ParameterValuesPath, render: renderParameterValues},
	)

	files = append(files,
		file{path: filepath.Join("scripts", "pipeline_spec", ".gitkeep"), render: static("")},
		file{path: filepath.Join("scripts", "build_components.sh"), executable: true, render: renderBuildComponents},
		file{path: filepath.Join("scripts", "build_pipeline_spec.sh"), executable: true, render: renderBuildPipelineSpec},
		file{path: filepath.Join("scripts", "run_pipeline.sh"), executable: true, render: renderRunPipeline},
		file{path: filepath.Join("scripts", "run_all.sh"), executable: true, render: renderRunAll},
	)
	if rec.Tooling.UseCI {
		files = append(files, file{path: filepath.Join("scripts", "publish_to_topic.sh"), executable: true, render: renderPublishToTopic})
	}

	switch rec.Tooling.Provisioner {
	case domain.ProvisionerGcloud:
		files = append(files, file{path: filepath.Join("provision", "provision_resources.sh"), executable: true, render: renderGcloudProvision})
	case domain.ProvisionerTerraform:
		files = append(files, terraformFiles(rec)...)
	}

	if rec.Tooling.UseCI {
		switch rec.Tooling.Deployer {
		case domain.DeployerCloudBuild:
			files = append(files, file{path: "cloudbuild.yaml", render: renderCloudBuild})
		case domain.DeployerGitHubActions:
			files = append(files, file{path: filepath.Join(".github", "workflows", "build_pipeline.yaml"), render: renderGitHubWorkflow})
		}
		files = append(files,
			file{path: filepath.Join("services", "submission_service", "Dockerfile"), render: renderSubmissionDockerfile},
			file{path: filepath.Join("services", "submission_service", "main.go"), render: renderSubmissionSource},
			file{path: filepath.Join("services", "submission_service", "requirements.txt"), render: renderSubmissionRequirements},
		)
	}

	if rec.Tooling.SetupMonitoring {
		files = append(files,
			file{path: filepath.Join("services", "model_monitoring", "main.go"), render: renderMonitoringSource},
			file{path: filepath.Join("services", "model_monitoring", "requirements.txt"), render: renderMonitoringRequirements},
		)
	}

	return files
}

// Paths returns the relative paths the context would render, in order.
func Paths(ctx *Context) []string {
	files := plan(ctx)
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.path)
	}
	return paths
}

// Build renders the whole artifact tree under ctx.BaseDir. The first
// failing write aborts; files already written stay on disk.
func Build(ctx *Context) error {
	for _, f := range plan(ctx) {
		body, err := f.render(ctx)
		if err != nil {
			return fmt.Errorf("render %s: %w", f.path, err)
		}
		dst := filepath.Join(ctx.BaseDir, f.path)
		if f.executable {
			err = fsio.WriteExecutable(dst, body)
		} else {
			err = fsio.WriteFile(dst, body)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
