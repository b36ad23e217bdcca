// Package synth wires the synthesis pipeline together: partitioning,
// orchestration, rendering, and validation. The surrounding CLI handles
// input discovery and persistence.
package synth

import (
	"go.uber.org/zap"

	"github.com/armforge/armforge/internal/synth/arm"
	"github.com/armforge/armforge/internal/synth/discover"
	"github.com/armforge/armforge/internal/synth/document"
	"github.com/armforge/armforge/internal/synth/partition"
	"github.com/armforge/armforge/internal/synth/render"
	"github.com/armforge/armforge/internal/synth/validate"
)

// Synthesizer runs the full pipeline for one stack definition. A
// Synthesizer holds only read-only configuration; one instance may serve
// independent runs concurrently.
type Synthesizer struct {
	partitioner *partition.Partitioner
	maxSize     int
	logger      *zap.SugaredLogger
}

// Output is everything one synthesis run produces, before write-out.
type Output struct {
	Result    *partition.Result
	Plan      *document.Plan
	Templates map[string]*arm.Template
	Findings  *validate.Findings
}

// New creates a synthesizer with the given partitioning options.
func New(opts partition.Options, logger *zap.SugaredLogger) *Synthesizer {
	maxSize := opts.MaxDocumentSize
	if maxSize <= 0 {
		maxSize = partition.DefaultMaxDocumentSize
	}
	return &Synthesizer{
		partitioner: partition.New(opts),
		maxSize:     maxSize,
		logger:      logger,
	}
}

// Run synthesizes a stack definition into deployable documents. The only
// fatal partitioning outcomes are a document-level dependency cycle and a
// validation error; dangling dependencies and oversized resources come back
// as findings, not failures.
func (s *Synthesizer) Run(def *discover.Definition) (*Output, error) {
	resources := def.Metadata()
	result := s.partitioner.AssignResources(resources)
	s.logger.Infow("partitioned resources",
		"stack", def.Name,
		"strategy", s.partitioner.Strategy().Name(),
		"resources", len(resources),
		"documents", len(result.Documents),
		"crossReferences", len(result.CrossReferences),
	)

	plan, err := document.Orchestrate(result, def.Parameters)
	if err != nil {
		return nil, err
	}
	templates, err := render.Render(def, result, plan)
	if err != nil {
		return nil, err
	}
	if plan.RootMetadata != nil {
		result.Documents[document.RootDocumentName] = plan.RootMetadata
	}

	findings := validate.Check(resources, result, s.maxSize)
	out := &Output{Result: result, Plan: plan, Templates: templates, Findings: findings}
	if !findings.OK() {
		return out, findings.Errors[0]
	}
	return out, nil
}
