package partition

import (
	"github.com/armforge/armforge/internal/synth/errors"
	"github.com/armforge/armforge/internal/synth/graph"
	"github.com/armforge/armforge/internal/synth/metadata"
)

// Default ceilings. ARM rejects templates above 4 MB; the default size
// ceiling leaves headroom for the envelope the partitioner cannot see
// (parameters, outputs, whitespace).
const (
	DefaultMaxDocumentSize         = 3_500_000
	DefaultMaxResourcesPerDocument = 200
)

// Options configures a Partitioner.
type Options struct {
	// Strategy selects the grouping algorithm. Nil means tier-based.
	Strategy Strategy
	// MaxDocumentSize is the per-document size ceiling in bytes.
	// Zero means DefaultMaxDocumentSize.
	MaxDocumentSize int
	// MaxResourcesPerDocument is the per-document resource-count ceiling.
	// Zero means DefaultMaxResourcesPerDocument.
	MaxResourcesPerDocument int
	// LegacyAffinitySplit selects the pre-metadata splitting path that
	// keeps strongly affine resources together even past the ceiling.
	LegacyAffinitySplit bool
}

// Partitioner assigns resources to size-bounded output documents. A
// Partitioner holds only read-only configuration and immutable lookup
// tables, so one instance may be reused, including concurrently, across
// independent synthesis runs.
type Partitioner struct {
	strategy Strategy
	maxSize  int
	maxCount int
	legacy   bool
	affinity *metadata.AffinityTable
}

// New creates a Partitioner from options, applying defaults.
func New(opts Options) *Partitioner {
	p := &Partitioner{
		strategy: opts.Strategy,
		maxSize:  opts.MaxDocumentSize,
		maxCount: opts.MaxResourcesPerDocument,
		legacy:   opts.LegacyAffinitySplit,
		affinity: metadata.NewAffinityTable(),
	}
	if p.strategy == nil {
		p.strategy = NewTierBased()
	}
	if p.maxSize <= 0 {
		p.maxSize = DefaultMaxDocumentSize
	}
	if p.maxCount <= 0 {
		p.maxCount = DefaultMaxResourcesPerDocument
	}
	return p
}

// Strategy returns the configured grouping strategy.
func (p *Partitioner) Strategy() Strategy { return p.strategy }

// AssignResources partitions the resource list into documents. The result
// covers every input resource exactly once. Dangling dependencies and
// oversized single resources do not fail the run; they are reported in
// Result.Warnings.
func (p *Partitioner) AssignResources(resources []*metadata.ResourceMetadata) *Result {
	g := graph.Build(resources)

	byID := make(map[string]*metadata.ResourceMetadata, len(resources))
	sizes := make(map[string]int, len(resources))
	for _, r := range resources {
		byID[r.ID] = r
		sizes[r.ID] = r.SizeEstimate
	}

	list := p.strategy.group(resources, g)

	reasons := make(map[string]string, len(resources))
	for _, r := range resources {
		reasons[r.ID] = p.strategy.reason()
	}

	for _, id := range enforceCoLocation(list, resources) {
		reasons[id] = ReasonCoLocation
	}

	var warnings []*errors.SynthError
	if p.legacy {
		for _, id := range splitWithAffinity(list, byID, p.affinity, p.maxSize, p.maxCount) {
			reasons[id] = ReasonSizeSplit
		}
	} else {
		moved, oversized := splitOversized(list, sizes, p.maxSize, p.maxCount)
		for _, id := range moved {
			reasons[id] = ReasonSizeSplit
		}
		for _, id := range oversized {
			w := errors.NewWarning(errors.CodeOversizedResource,
				"resource %q (%d bytes) exceeds the document size ceiling (%d bytes) on its own and will occupy its own document", id, sizes[id], p.maxSize)
			w.Resource = id
			warnings = append(warnings, w)
		}
	}

	assignment, documents, crossRefs := finalize(resources, list, g)

	placements := make([]Placement, 0, len(resources))
	for _, r := range resources {
		placements = append(placements, Placement{
			ResourceID: r.ID,
			Document:   assignment[r.ID],
			Reason:     reasons[r.ID],
		})
	}

	for _, d := range g.Dangling() {
		w := errors.NewWarning(errors.CodeDanglingDependency,
			"resource %q depends on unknown resource %q; the edge was dropped", d.SourceID, d.TargetID)
		w.Resource = d.SourceID
		warnings = append(warnings, w)
	}

	return &Result{
		Assignment:      assignment,
		Documents:       documents,
		CrossReferences: crossRefs,
		Placements:      placements,
		Warnings:        warnings,
	}
}
