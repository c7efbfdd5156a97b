// Package graph recovers the invocation structure of a pipeline function.
//
// The extractor harvests call expressions whose callee matches a registered
// component and records them in first-occurrence source order. That order is
// an "after" chain, not inferred data dependency: callers that know the real
// data flow can declare explicit edges instead, and rendering always
// consumes the topological order of the resulting graph.
package graph

import (
	"fmt"
	"sort"

	"github.com/mlforge-labs/mlforge-go/internal/domain"
)

// Graph is a pipeline invocation graph. Nodes are component invocations,
// identified by component name; edges mean "runs after".
type Graph struct {
	order []string
	nodes map[string]*domain.ComponentSpec
	after map[string][]string
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*domain.ComponentSpec),
		after: make(map[string][]string),
	}
}

// AddNode registers an invocation. Repeated additions of one component
// collapse to its first occurrence.
func (g *Graph) AddNode(c *domain.ComponentSpec) {
	if _, seen := g.nodes[c.Name]; seen {
		return
	}
	g.nodes[c.Name] = c
	g.order = append(g.order, c.Name)
}

// AddEdge declares that to runs after from. Both ends must be nodes.
func (g *Graph) AddEdge(from, to string) error {
	if _, ok := g.nodes[from]; !ok {
		return fmt.Errorf("edge from unknown component %q", from)
	}
	if _, ok := g.nodes[to]; !ok {
		return fmt.Errorf("edge to unknown component %q", to)
	}
	if from == to {
		return fmt.Errorf("component %q cannot run after itself", from)
	}
	g.after[from] = append(g.after[from], to)
	return nil
}

// TopologicalOrder returns the components in an order satisfying every
// edge, breaking ties by first-occurrence order so that a graph without
// explicit edges renders in declaration order.
func (g *Graph) TopologicalOrder() ([]*domain.ComponentSpec, error) {
	indegree := make(map[string]int, len(g.order))
	for _, name := range g.order {
		indegree[name] = 0
	}
	for _, tos := range g.after {
		for _, to := range tos {
			indegree[to]++
		}
	}

	ready := make([]string, 0, len(g.order))
	for _, name := range g.order {
		if indegree[name] == 0 {
			ready = append(ready, name)
		}
	}

	rank := make(map[string]int, len(g.order))
	for i, name := range g.order {
		rank[name] = i
	}

	var out []*domain.ComponentSpec
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool { return rank[ready[i]] < rank[ready[j]] })
		name := ready[0]
		ready = ready[1:]
		out = append(out, g.nodes[name])
		for _, to := range g.after[name] {
			indegree[to]--
			if indegree[to] == 0 {
				ready = append(ready, to)
			}
		}
	}
	if len(out) != len(g.order) {
		return nil, fmt.Errorf("pipeline graph has a cycle")
	}
	return out, nil
}
