// Package partition implements the template partitioning engine: it decides
// which resource lands in which output document, enforces co-location and
// size constraints, and identifies every dependency edge that crosses a
// document boundary.
package partition

import "github.com/armforge/armforge/internal/synth/errors"

// Group is an ordered collection of resource ids with a running size total.
// Groups are transient: created and discarded within a single
// AssignResources call.
type Group struct {
	Name        string
	ResourceIDs []string
	SizeTotal   int
}

// groupList keeps groups in deterministic creation order. Go map iteration
// order would otherwise leak into document naming and deployment order.
type groupList struct {
	names  []string
	byName map[string]*Group
}

func newGroupList() *groupList {
	return &groupList{byName: make(map[string]*Group)}
}

// add appends a resource to the named group, creating it on first use.
func (l *groupList) add(name, resourceID string, size int) {
	g, ok := l.byName[name]
	if !ok {
		g = &Group{Name: name}
		l.byName[name] = g
		l.names = append(l.names, name)
	}
	g.ResourceIDs = append(g.ResourceIDs, resourceID)
	g.SizeTotal += size
}

// groups returns the groups in creation order.
func (l *groupList) groups() []*Group {
	out := make([]*Group, 0, len(l.names))
	for _, name := range l.names {
		out = append(out, l.byName[name])
	}
	return out
}

// remove drops the named group, preserving the order of the rest.
func (l *groupList) remove(name string) {
	delete(l.byName, name)
	for i, n := range l.names {
		if n == name {
			l.names = append(l.names[:i], l.names[i+1:]...)
			return
		}
	}
}

// DocumentAssignment maps every resource id to exactly one document name.
// The mapping is a total partition: no id omitted, no id in two documents.
type DocumentAssignment map[string]string

// DocumentMetadata describes one output document.
type DocumentMetadata struct {
	// Name is the document's logical name, e.g. "Foundation".
	Name string
	// FileName is the document's on-disk name, e.g. "Foundation.json".
	FileName string
	// ResourceIDs lists the document's resources in assignment order.
	ResourceIDs []string
	// EstimatedSize is the summed size estimate of the resources, bytes.
	EstimatedSize int
	// ResourceCount is len(ResourceIDs), kept for manifest reporting.
	ResourceCount int
	// IsRoot marks the orchestrating root document.
	IsRoot bool
	// Parameters lists parameter names the document declares.
	Parameters []string
	// Outputs lists output names the document declares.
	Outputs []string
}

// CrossDocumentDependency records one dependency edge whose endpoints
// resolve to different documents. Direction mirrors the resource-level
// dependency: SourceResourceID depends on TargetResourceID.
type CrossDocumentDependency struct {
	SourceDocument   string
	TargetDocument   string
	SourceResourceID string
	TargetResourceID string
	// OutputName is the output the target document must declare so the
	// source document can read the referenced value.
	OutputName string
	// PropertyPath optionally narrows the reference to a property of the
	// target resource instead of its resource id.
	PropertyPath string
}

// Placement is a per-resource diagnostic: which document a resource landed
// in and why. Not required for correctness; used by tests and operators.
type Placement struct {
	ResourceID string
	Document   string
	Reason     string
}

// Placement reason codes.
const (
	ReasonTierBased       = "tier-based-assignment"
	ReasonTypeBased       = "type-based-assignment"
	ReasonDependencyChain = "dependency-chain-grouping"
	ReasonCustomGrouping  = "custom-grouping"
	ReasonCoLocation      = "co-location"
	ReasonSizeSplit       = "size-split"
)

// Result is the complete output of one AssignResources run. Warnings carry
// the degraded-but-continued conditions (dangling dependencies, oversized
// singletons); they never fail the run.
type Result struct {
	Assignment      DocumentAssignment
	Documents       map[string]*DocumentMetadata
	CrossReferences []CrossDocumentDependency
	Placements      []Placement
	Warnings        []*errors.SynthError
}
