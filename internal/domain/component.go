// Package domain holds the canonical specification types produced by the
// compiler and the tooling dimensions that gate artifact generation.
package domain

import (
	"fmt"
	"strings"
)

// DefaultPipelineName names a pipeline registered without one.
const DefaultPipelineName = "mlforge-pipeline"

// Parameter describes one typed input or output of a component. Type holds
// the orchestration engine's type name, not the source-language type.
type Parameter struct {
	Name        string
	Type        string
	Description string
}

// ComponentSpec is the canonical, typed description of one reusable
// processing step. It is created once per registered component function and
// never mutated afterwards.
type ComponentSpec struct {
	Name        string
	Description string
	Parameters  []Parameter
	Outputs     []Parameter
	Packages    []string
	Imports     []string
	SourceBody  string

	// ReturnSource is the verbatim declaration of the named return struct,
	// rendered alongside SourceBody so the task file stays self-contained.
	// Empty when the function returns nothing or declares the struct inline.
	ReturnSource string
}

// PipelineSpec describes an ordered composition of components. Components
// is derived by the graph extractor, not user-declared.
type PipelineSpec struct {
	Name        string
	Description string
	SourceBody  string
	Components  []*ComponentSpec
}

// Validate checks the structural invariants of a ComponentSpec.
func (c *ComponentSpec) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("component name is required")
	}
	seen := make(map[string]struct{}, len(c.Parameters))
	for _, p := range c.Parameters {
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("component %s: duplicate parameter %q", c.Name, p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	return nil
}

// ComponentNames returns the ordered component names of the pipeline.
func (p *PipelineSpec) ComponentNames() []string {
	names := make([]string, 0, len(p.Components))
	for _, c := range p.Components {
		names = append(names, c.Name)
	}
	return names
}
