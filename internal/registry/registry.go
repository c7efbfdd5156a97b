// Package registry is the explicit registration surface for user
// components and pipelines. One Registry feeds one compiler invocation;
// nothing is shared through package-level state, so independent registries
// can coexist in a single process.
package registry

import (
	"fmt"

	"github.com/mlforge-labs/mlforge-go/internal/domain"
	"github.com/mlforge-labs/mlforge-go/internal/graph"
	"github.com/mlforge-labs/mlforge-go/internal/inspect"
)

type Registry struct {
	components []*domain.ComponentSpec
	byName     map[string]*domain.ComponentSpec
	pipeline   *domain.PipelineSpec
}

func New() *Registry {
	return &Registry{byName: make(map[string]*domain.ComponentSpec)}
}

// RegisterComponent introspects fn into a ComponentSpec and records it.
// Packages lists module requirements to install before running the
// component; it may be nil.
func (r *Registry) RegisterComponent(fn any, packages []string) (*domain.ComponentSpec, error) {
	spec, err := inspect.Component(fn, packages)
	if err != nil {
		return nil, err
	}
	if _, exists := r.byName[spec.Name]; exists {
		return nil, fmt.Errorf("component %q is already registered", spec.Name)
	}
	r.components = append(r.components, spec)
	r.byName[spec.Name] = spec
	return spec, nil
}

// RegisterPipeline introspects fn into a PipelineSpec whose component
// order is recovered from the function body. Components must be
// registered before the pipeline that invokes them.
func (r *Registry) RegisterPipeline(fn any, name string, description string) (*domain.PipelineSpec, error) {
	funcName, body, err := inspect.Pipeline(fn)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = domain.DefaultPipelineName
	}

	g, err := graph.Extract(body, r.byName)
	if err != nil {
		return nil, fmt.Errorf("pipeline %s: %w", funcName, err)
	}
	ordered, err := g.TopologicalOrder()
	if err != nil {
		return nil, fmt.Errorf("pipeline %s: %w", funcName, err)
	}

	r.pipeline = &domain.PipelineSpec{
		Name:        name,
		Description: description,
		SourceBody:  body,
		Components:  ordered,
	}
	return r.pipeline, nil
}

// Components returns the registered components in registration order.
func (r *Registry) Components() []*domain.ComponentSpec {
	return r.components
}

// Pipeline returns the registered pipeline, or nil.
func (r *Registry) Pipeline() *domain.PipelineSpec {
	return r.pipeline
}
