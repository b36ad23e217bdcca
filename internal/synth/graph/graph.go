// Package graph builds the directed dependency graph over resource ids that
// the grouping and cross-reference stages operate on.
package graph

import "github.com/armforge/armforge/internal/synth/metadata"

// DependencyGraph is a directed graph over resource ids. Edges point from a
// resource to the resources it depends on. Edge lists only contain ids
// present in the input resource set; dangling edges are dropped at build
// time and recorded for upstream warning reporting.
type DependencyGraph struct {
	order        []string
	dependencies map[string][]string
	dependents   map[string][]string
	dangling     []DanglingDependency
}

// DanglingDependency records a dependency edge to an id no resource
// declares. Dropped from the graph, surfaced as a warning by the caller.
type DanglingDependency struct {
	SourceID string
	TargetID string
}

// Build constructs the dependency graph for a resource list. Dependencies
// naming unknown resource ids are silently dropped from the adjacency and
// collected in Dangling. Cycles are not detected here; only the document
// level graph needs to be acyclic.
func Build(resources []*metadata.ResourceMetadata) *DependencyGraph {
	g := &DependencyGraph{
		order:        make([]string, 0, len(resources)),
		dependencies: make(map[string][]string, len(resources)),
		dependents:   make(map[string][]string, len(resources)),
	}
	known := make(map[string]bool, len(resources))
	for _, r := range resources {
		known[r.ID] = true
		g.order = append(g.order, r.ID)
	}
	for _, r := range resources {
		for _, dep := range r.Dependencies {
			if !known[dep] {
				g.dangling = append(g.dangling, DanglingDependency{SourceID: r.ID, TargetID: dep})
				continue
			}
			g.dependencies[r.ID] = append(g.dependencies[r.ID], dep)
			g.dependents[dep] = append(g.dependents[dep], r.ID)
		}
	}
	return g
}

// ResourceIDs returns all resource ids in input order.
func (g *DependencyGraph) ResourceIDs() []string {
	return g.order
}

// DependenciesOf returns the ids the given resource depends on.
func (g *DependencyGraph) DependenciesOf(id string) []string {
	return g.dependencies[id]
}

// DependentsOf returns the ids that depend on the given resource.
func (g *DependencyGraph) DependentsOf(id string) []string {
	return g.dependents[id]
}

// Dangling returns the dependency edges dropped at build time.
func (g *DependencyGraph) Dangling() []DanglingDependency {
	return g.dangling
}

// Components returns the weakly connected components of the graph, treating
// every edge as undirected. Components are ordered by first appearance in
// the input, and members appear in discovery order. The traversal uses an
// explicit stack so that arbitrarily long dependency chains cannot overflow
// the call stack.
func (g *DependencyGraph) Components() [][]string {
	visited := make(map[string]bool, len(g.order))
	var components [][]string

	for _, start := range g.order {
		if visited[start] {
			continue
		}
		var component []string
		stack := []string{start}
		visited[start] = true
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			component = append(component, id)
			for _, next := range g.dependencies[id] {
				if !visited[next] {
					visited[next] = true
					stack = append(stack, next)
				}
			}
			for _, next := range g.dependents[id] {
				if !visited[next] {
					visited[next] = true
					stack = append(stack, next)
				}
			}
		}
		components = append(components, component)
	}
	return components
}
