package graph

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/armforge/armforge/internal/synth/metadata"
)

func res(id string, deps ...string) *metadata.ResourceMetadata {
	return &metadata.ResourceMetadata{ID: id, Type: "Custom.Provider/things", Dependencies: deps}
}

func TestBuildDropsDanglingDependencies(t *testing.T) {
	g := Build([]*metadata.ResourceMetadata{
		res("a", "b", "ghost"),
		res("b"),
	})

	if !reflect.DeepEqual(g.DependenciesOf("a"), []string{"b"}) {
		t.Errorf("DependenciesOf(a) = %v, want [b]", g.DependenciesOf("a"))
	}
	if len(g.Dangling()) != 1 {
		t.Fatalf("Dangling() = %v, want one entry", g.Dangling())
	}
	d := g.Dangling()[0]
	if d.SourceID != "a" || d.TargetID != "ghost" {
		t.Errorf("dangling edge = %+v, want a->ghost", d)
	}
}

func TestDependents(t *testing.T) {
	g := Build([]*metadata.ResourceMetadata{
		res("a", "c"),
		res("b", "c"),
		res("c"),
	})
	if !reflect.DeepEqual(g.DependentsOf("c"), []string{"a", "b"}) {
		t.Errorf("DependentsOf(c) = %v, want [a b]", g.DependentsOf("c"))
	}
}

func TestComponents(t *testing.T) {
	g := Build([]*metadata.ResourceMetadata{
		res("a", "b"),
		res("b"),
		res("c", "d"),
		res("d"),
		res("e"),
	})

	components := g.Components()
	if len(components) != 3 {
		t.Fatalf("Components() produced %d components, want 3", len(components))
	}
	// Ordered by first appearance in the input.
	if components[0][0] != "a" || components[1][0] != "c" || components[2][0] != "e" {
		t.Errorf("component order = %v", components)
	}

	seen := make(map[string]int)
	for _, comp := range components {
		for _, id := range comp {
			seen[id]++
		}
	}
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		if seen[id] != 1 {
			t.Errorf("resource %q visited %d times, want exactly once", id, seen[id])
		}
	}
}

func TestComponentsTreatsEdgesAsUndirected(t *testing.T) {
	// b has no outgoing edges; it joins a's component through the
	// dependent direction.
	g := Build([]*metadata.ResourceMetadata{
		res("b"),
		res("a", "b"),
	})
	components := g.Components()
	if len(components) != 1 {
		t.Fatalf("Components() = %v, want a single component", components)
	}
}

func TestComponentsLongChain(t *testing.T) {
	// A chain long enough to overflow the stack if the traversal were
	// call-recursive.
	const n = 200_000
	resources := make([]*metadata.ResourceMetadata, n)
	for i := 0; i < n; i++ {
		if i == n-1 {
			resources[i] = res(fmt.Sprintf("r%d", i))
		} else {
			resources[i] = res(fmt.Sprintf("r%d", i), fmt.Sprintf("r%d", i+1))
		}
	}
	components := Build(resources).Components()
	if len(components) != 1 {
		t.Fatalf("chain produced %d components, want 1", len(components))
	}
	if len(components[0]) != n {
		t.Errorf("component has %d members, want %d", len(components[0]), n)
	}
}
