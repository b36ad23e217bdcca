package partition

import (
	"sort"
	"strconv"

	"github.com/armforge/armforge/internal/synth/graph"
	"github.com/armforge/armforge/internal/synth/metadata"
)

// Strategy partitions resources into named groups. The set of strategies is
// closed: TierBased, TypeBased, DependencyChain, and Custom. The unexported
// method keeps external packages from adding cases the engine does not
// dispatch on; extension goes through Custom.
type Strategy interface {
	// Name identifies the strategy in configuration and logs.
	Name() string
	// reason is the placement reason code recorded for resources grouped
	// by this strategy.
	reason() string
	group(resources []*metadata.ResourceMetadata, g *graph.DependencyGraph) *groupList
}

// TierBased groups resources by deployment tier, the default strategy. It
// minimizes cross-document references for the common layered-deployment
// shape. When every resource falls into a single tier the group keeps that
// tier's name but the result is a single document, so small deployments are
// not split gratuitously.
type TierBased struct {
	classifier *metadata.Classifier
}

// NewTierBased creates the tier-based strategy with its own classifier.
func NewTierBased() *TierBased {
	return &TierBased{classifier: metadata.NewClassifier()}
}

// Name implements Strategy.
func (s *TierBased) Name() string { return "tier-based" }

func (s *TierBased) reason() string { return ReasonTierBased }

func (s *TierBased) group(resources []*metadata.ResourceMetadata, _ *graph.DependencyGraph) *groupList {
	list := newGroupList()
	for _, r := range resources {
		tier := s.classifier.EffectiveTier(r)
		list.add(tier.String(), r.ID, r.SizeEstimate)
	}
	return list
}

// TypeBased groups resources by the top-level provider/namespace segment of
// their type string.
type TypeBased struct{}

// Name implements Strategy.
func (s *TypeBased) Name() string { return "type-based" }

func (s *TypeBased) reason() string { return ReasonTypeBased }

func (s *TypeBased) group(resources []*metadata.ResourceMetadata, _ *graph.DependencyGraph) *groupList {
	list := newGroupList()
	for _, r := range resources {
		list.add(r.ProviderNamespace(), r.ID, r.SizeEstimate)
	}
	return list
}

// DependencyChain groups resources by weakly connected components of the
// dependency graph: every chain of related resources becomes one document,
// so no reference ever crosses a document boundary before size splitting.
type DependencyChain struct{}

// Name implements Strategy.
func (s *DependencyChain) Name() string { return "dependency-chain" }

func (s *DependencyChain) reason() string { return ReasonDependencyChain }

func (s *DependencyChain) group(resources []*metadata.ResourceMetadata, g *graph.DependencyGraph) *groupList {
	sizes := make(map[string]int, len(resources))
	for _, r := range resources {
		sizes[r.ID] = r.SizeEstimate
	}
	list := newGroupList()
	for i, component := range g.Components() {
		name := chainName(i)
		for _, id := range component {
			list.add(name, id, sizes[id])
		}
	}
	return list
}

func chainName(i int) string {
	if i == 0 {
		return "chain"
	}
	return "chain-" + strconv.Itoa(i)
}

// GroupFunc is a caller-supplied grouping function for the Custom strategy.
// It receives the full metadata list and returns a document-name→resource-id
// map in the same shape the built-in strategies produce.
type GroupFunc func(resources []*metadata.ResourceMetadata) map[string][]string

// Custom wraps a caller-supplied grouping function. Its output is treated
// identically to the built-in strategies for all downstream steps. Group
// names are ordered lexically since a map carries no order of its own.
type Custom struct {
	Fn GroupFunc
}

// Name implements Strategy.
func (s *Custom) Name() string { return "custom" }

func (s *Custom) reason() string { return ReasonCustomGrouping }

func (s *Custom) group(resources []*metadata.ResourceMetadata, _ *graph.DependencyGraph) *groupList {
	sizes := make(map[string]int, len(resources))
	for _, r := range resources {
		sizes[r.ID] = r.SizeEstimate
	}
	raw := s.Fn(resources)
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	list := newGroupList()
	for _, name := range names {
		for _, id := range raw[name] {
			list.add(name, id, sizes[id])
		}
	}
	return list
}
