// Package validate checks a partitioning result against the invariants the
// deployment platform enforces, before anything is written to disk. A
// failed deployment typically surfaces these mistakes only after a long
// timeout; catching them here is much cheaper.
package validate

import (
	"fmt"

	"github.com/armforge/armforge/internal/synth/errors"
	"github.com/armforge/armforge/internal/synth/metadata"
	"github.com/armforge/armforge/internal/synth/partition"
)

// Findings separates fatal problems from degraded-but-deployable ones.
type Findings struct {
	Errors   []*errors.SynthError
	Warnings []*errors.SynthError
}

// OK reports whether the result may be written out.
func (f *Findings) OK() bool {
	return len(f.Errors) == 0
}

// Check verifies the partitioning result for a resource list: the
// assignment is a total partition, every document stays under the ceilings
// where possible, and every cross-document reference is internally
// consistent.
func Check(resources []*metadata.ResourceMetadata, result *partition.Result, maxSize int) *Findings {
	f := &Findings{}

	assigned := make(map[string]string, len(result.Assignment))
	for id, doc := range result.Assignment {
		assigned[id] = doc
	}
	counted := make(map[string]int)
	for _, doc := range result.Documents {
		for _, id := range doc.ResourceIDs {
			counted[id]++
		}
	}
	for _, r := range resources {
		doc, ok := assigned[r.ID]
		if !ok {
			f.Errors = append(f.Errors, errors.NewConfigurationError(errors.CodeInconsistentAssignment,
				"resource %q is missing from the document assignment", r.ID))
			continue
		}
		if _, ok := result.Documents[doc]; !ok {
			f.Errors = append(f.Errors, errors.NewConfigurationError(errors.CodeInconsistentAssignment,
				"resource %q is assigned to document %q which has no metadata", r.ID, doc))
		}
		if counted[r.ID] > 1 {
			f.Errors = append(f.Errors, errors.NewConfigurationError(errors.CodeInconsistentAssignment,
				"resource %q appears in %d documents", r.ID, counted[r.ID]))
		}
	}

	alreadyWarned := make(map[string]bool)
	for _, w := range result.Warnings {
		f.Warnings = append(f.Warnings, w)
		if w.Code == errors.CodeOversizedResource {
			alreadyWarned[w.Resource] = true
		}
	}

	sizes := make(map[string]int, len(resources))
	for _, r := range resources {
		sizes[r.ID] = r.SizeEstimate
	}
	for _, doc := range result.Documents {
		if doc.IsRoot || doc.EstimatedSize <= maxSize {
			continue
		}
		explained := false
		for _, id := range doc.ResourceIDs {
			if sizes[id] <= maxSize {
				continue
			}
			explained = true
			if !alreadyWarned[id] {
				w := errors.NewWarning(errors.CodeOversizedResource,
					"document %q exceeds the size ceiling because resource %q is %d bytes on its own", doc.Name, id, sizes[id])
				w.Resource = id
				f.Warnings = append(f.Warnings, w)
			}
		}
		// Affinity splitting can push a document past the ceiling without
		// any single resource exceeding it.
		if !explained {
			w := errors.NewWarning(errors.CodeOversizedDocument,
				"document %q is %d bytes, over the %d byte ceiling", doc.Name, doc.EstimatedSize, maxSize)
			w.Document = doc.Name
			f.Warnings = append(f.Warnings, w)
		}
	}

	for _, ref := range result.CrossReferences {
		if ref.SourceDocument == ref.TargetDocument {
			f.Errors = append(f.Errors, errors.NewConfigurationError(errors.CodeBrokenReference,
				"cross-document reference from %q to itself (resource %q)", ref.SourceDocument, ref.TargetResourceID))
			continue
		}
		target, ok := result.Documents[ref.TargetDocument]
		if !ok {
			f.Errors = append(f.Errors, errors.NewConfigurationError(errors.CodeBrokenReference,
				"cross-document reference targets unknown document %q", ref.TargetDocument))
			continue
		}
		if !declared(target.Outputs, ref.OutputName) {
			f.Errors = append(f.Errors, errors.NewConfigurationError(errors.CodeBrokenReference,
				"document %q does not declare output %q required by %q", ref.TargetDocument, ref.OutputName, ref.SourceDocument))
		}
		if result.Assignment[ref.TargetResourceID] != ref.TargetDocument {
			f.Errors = append(f.Errors, errors.NewConfigurationError(errors.CodeBrokenReference,
				"cross-document reference says %q lives in %q but the assignment says %q",
				ref.TargetResourceID, ref.TargetDocument, result.Assignment[ref.TargetResourceID]))
		}
	}

	return f
}

// Summarize renders findings as terminal lines.
func Summarize(f *Findings) []string {
	lines := make([]string, 0, len(f.Errors)+len(f.Warnings))
	for _, e := range f.Errors {
		lines = append(lines, fmt.Sprintf("error: %s", e.Message))
	}
	for _, w := range f.Warnings {
		lines = append(lines, fmt.Sprintf("warning: %s", w.Message))
	}
	return lines
}

func declared(outputs []string, name string) bool {
	for _, o := range outputs {
		if o == name {
			return true
		}
	}
	return false
}
