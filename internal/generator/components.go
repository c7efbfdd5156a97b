package generator

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mlforge-labs/mlforge-go/internal/defaults"
	"github.com/mlforge-labs/mlforge-go/internal/domain"
	"github.com/mlforge-labs/mlforge-go/internal/typemap"
)

// placeholderImage stands in for the registry path inside manifest bodies
// until the record's resource names are known at render time.
const placeholderImage = "component-base-image-placeholder"

// manifest is the on-disk component definition consumed by the build and
// run scripts.
type manifest struct {
	Name           string          `yaml:"name"`
	Description    string          `yaml:"description,omitempty"`
	Inputs         []manifestParam `yaml:"inputs,omitempty"`
	Outputs        []manifestParam `yaml:"outputs,omitempty"`
	Implementation implementation  `yaml:"implementation"`
}

type manifestParam struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Description string `yaml:"description,omitempty"`
}

type implementation struct {
	Container container `yaml:"container"`
}

type container struct {
	Image   string   `yaml:"image"`
	Command []string `yaml:"command"`
}

// ContainerImage is the registry path every component task runs in.
func ContainerImage(rec *defaults.Record) string {
	res := rec.Resource
	return fmt.Sprintf("%s-docker.pkg.dev/%s/%s/%s/components/component_base:latest",
		res.ArtifactRepoLocation, res.ProjectID, res.ArtifactRepoName, res.NamingPrefix)
}

func renderComponentManifest(ctx *Context, c *domain.ComponentSpec) ([]byte, error) {
	m := manifest{
		Name:        c.Name,
		Description: c.Description,
		Implementation: implementation{
			Container: container{
				Image:   placeholderImage,
				Command: []string{"go", "run", "/app/src/" + c.Name + ".go"},
			},
		},
	}
	for _, p := range c.Parameters {
		m.Inputs = append(m.Inputs, manifestParam{Name: p.Name, Type: p.Type, Description: p.Description})
	}
	for _, o := range c.Outputs {
		m.Outputs = append(m.Outputs, manifestParam{Name: o.Name, Type: o.Type})
	}
	body, err := yaml.Marshal(&m)
	if err != nil {
		return nil, fmt.Errorf("marshal manifest for %s: %w", c.Name, err)
	}
	return bytes.ReplaceAll(body, []byte(placeholderImage), []byte(ContainerImage(ctx.Record))), nil
}

// renderTaskSource produces one self-contained task program: the user's
// function and return struct verbatim, plus a main that decodes the
// executor input and runs the task.
func renderTaskSource(c *domain.ComponentSpec) ([]byte, error) {
	harness := []string{`"flag"`}
	if len(c.Parameters) > 0 || len(c.Outputs) > 0 {
		harness = append(harness, `"encoding/json"`, `"log"`, `"os"`)
	}
	imports := mergeImports(c.Imports, harness...)

	var b strings.Builder
	b.WriteString(generatedHeader)
	b.WriteString("package main\n\n")
	b.WriteString("import (\n")
	for _, line := range imports {
		b.WriteString("\t" + line + "\n")
	}
	b.WriteString(")\n\n")
	if c.ReturnSource != "" {
		b.WriteString(c.ReturnSource + "\n\n")
	}
	b.WriteString(c.SourceBody + "\n\n")

	b.WriteString("func main() {\n")
	b.WriteString("\texecutorInput := flag.String(\"executor_input\", \"\", \"JSON file of resolved input values\")\n")
	if len(c.Outputs) > 0 {
		b.WriteString("\toutputFile := flag.String(\"output_file\", \"\", \"where output values are written\")\n")
	}
	b.WriteString("\tflag.Parse()\n\n")

	if len(c.Parameters) > 0 {
		b.WriteString("\traw, err := os.ReadFile(*executorInput)\n")
		b.WriteString("\tif err != nil {\n\t\tlog.Fatalf(\"read executor input: %v\", err)\n\t}\n")
		b.WriteString("\tvar args struct {\n")
		for _, p := range c.Parameters {
			goType, err := goTypeFor(p.Type)
			if err != nil {
				return nil, err
			}
			fmt.Fprintf(&b, "\t\t%s %s `json:%q`\n", exportName(p.Name), goType, p.Name)
		}
		b.WriteString("\t}\n")
		b.WriteString("\tif err := json.Unmarshal(raw, &args); err != nil {\n\t\tlog.Fatalf(\"decode executor input: %v\", err)\n\t}\n\n")
	} else {
		b.WriteString("\t_ = executorInput\n\n")
	}

	callArgs := make([]string, 0, len(c.Parameters))
	for _, p := range c.Parameters {
		callArgs = append(callArgs, "args."+exportName(p.Name))
	}
	call := fmt.Sprintf("%s(%s)", c.Name, strings.Join(callArgs, ", "))
	if len(c.Outputs) > 0 {
		fmt.Fprintf(&b, "\tout, err := json.Marshal(%s)\n", call)
		b.WriteString("\tif err != nil {\n\t\tlog.Fatalf(\"encode outputs: %v\", err)\n\t}\n")
		b.WriteString("\tif err := os.WriteFile(*outputFile, out, 0o644); err != nil {\n\t\tlog.Fatalf(\"write outputs: %v\", err)\n\t}\n")
	} else {
		b.WriteString("\t" + call + "\n")
	}
	b.WriteString("}\n")
	return []byte(b.String()), nil
}

const generatedHeader = "// Code generated by mlforge. DO NOT EDIT.\n\n"

func renderBaseDockerfile(ctx *Context) ([]byte, error) {
	var b strings.Builder
	b.WriteString("# Shared base image for all component tasks.\n")
	fmt.Fprintf(&b, "FROM %s\n\n", ctx.Record.Resource.BaseImage)
	b.WriteString("WORKDIR /app\n")
	b.WriteString("COPY requirements.txt .\n")
	b.WriteString("RUN xargs -n1 go install < requirements.txt || true\n")
	b.WriteString("COPY src/ src/\n")
	b.WriteString("ENTRYPOINT [\"go\"]\n")
	return []byte(b.String()), nil
}

func renderComponentRequirements(ctx *Context) ([]byte, error) {
	return synthesizeRequirements(ctx.Components)
}

// mergeImports unions the component's import lines with the harness's own,
// deduplicated and sorted.
func mergeImports(componentImports []string, harness ...string) []string {
	seen := make(map[string]struct{}, len(componentImports)+len(harness))
	var out []string
	for _, line := range append(append([]string{}, componentImports...), harness...) {
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	sort.Strings(out)
	return out
}

// goTypeFor inverts the engine type vocabulary back to a Go type for the
// rendered argument struct.
func goTypeFor(engineType string) (string, error) {
	switch engineType {
	case typemap.TypeInteger:
		return "int", nil
	case typemap.TypeString:
		return "string", nil
	case typemap.TypeFloat:
		return "float64", nil
	case typemap.TypeBool:
		return "bool", nil
	case typemap.TypeJSONArray:
		return "[]any", nil
	case typemap.TypeJSONObject:
		return "map[string]any", nil
	}
	return "", fmt.Errorf("no Go rendering for engine type %q", engineType)
}

// exportName turns a snake_case parameter name into an exported field name.
func exportName(name string) string {
	parts := strings.Split(name, "_")
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]) + p[1:])
	}
	if b.Len() == 0 {
		return "Field"
	}
	return b.String()
}
