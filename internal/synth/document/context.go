// Package document finalizes partitioned output: it builds the root
// orchestration document, computes the deployment order, and answers
// per-document reference questions at generation time.
package document

import (
	"sort"
	"strings"

	"github.com/armforge/armforge/internal/synth/arm"
	"github.com/armforge/armforge/internal/synth/errors"
	"github.com/armforge/armforge/internal/synth/partition"
)

// ReferenceKind distinguishes the two shapes a resolved reference takes.
type ReferenceKind int

const (
	// ReferenceDirect points at a resource in the current document. The
	// payload is the resource id; the resource-body transformer
	// substitutes the resource's wire-format type when it renders the
	// final resourceId expression.
	ReferenceDirect ReferenceKind = iota
	// ReferenceCrossDocument reads a nested deployment output from a
	// sibling document. The payload is the complete expression.
	ReferenceCrossDocument
)

// Reference is the two-field result of reference resolution: the kind plus
// the payload the kind calls for. Modeling the direct case as an id rather
// than a pre-baked string makes the type-substitution step an explicit
// contract instead of downstream string patching.
type Reference struct {
	Kind ReferenceKind
	// ResourceID is set for ReferenceDirect.
	ResourceID string
	// Expression is set for ReferenceCrossDocument.
	Expression string
}

// maxKnownIDsInError caps the id sample attached to not-found errors.
const maxKnownIDsInError = 10

// SynthesisContext answers, for one document being generated, whether a
// dependency is co-located or remote, and what expression to emit for it.
// It is immutable: constructed by the orchestrator right before a
// document's resource bodies are generated and discarded afterwards.
type SynthesisContext struct {
	current    string
	assignment partition.DocumentAssignment
	documents  map[string]*partition.DocumentMetadata
}

// NewSynthesisContext creates the context for currentDocument. The document
// must exist in the supplied metadata map; a miss means the caller paired
// an assignment with metadata from a different run, which is a fatal
// configuration error.
func NewSynthesisContext(currentDocument string, assignment partition.DocumentAssignment, documents map[string]*partition.DocumentMetadata) (*SynthesisContext, error) {
	if _, ok := documents[currentDocument]; !ok {
		known := make([]string, 0, len(documents))
		for name := range documents {
			known = append(known, name)
		}
		sort.Strings(known)
		return nil, errors.NewConfigurationError(errors.CodeUnknownDocument,
			"current document %q not present in document metadata; known documents: %s",
			currentDocument, strings.Join(known, ", ")).WithKnown(known)
	}
	return &SynthesisContext{
		current:    currentDocument,
		assignment: assignment,
		documents:  documents,
	}, nil
}

// CurrentDocument returns the name of the document being generated.
func (c *SynthesisContext) CurrentDocument() string {
	return c.current
}

// IsCoLocated reports whether the resource is assigned to the current
// document. Unknown resource ids return false rather than an error.
func (c *SynthesisContext) IsCoLocated(resourceID string) bool {
	return c.assignment[resourceID] == c.current
}

// ResourceReference resolves a reference to a resource from the current
// document: a direct reference when co-located, a nested deployment output
// read when remote. Ids absent from the assignment fail with a not-found
// error carrying a sample of known ids.
func (c *SynthesisContext) ResourceReference(resourceID string) (Reference, error) {
	doc, ok := c.assignment[resourceID]
	if !ok {
		return Reference{}, c.notFound(resourceID)
	}
	if doc == c.current {
		return Reference{Kind: ReferenceDirect, ResourceID: resourceID}, nil
	}
	return c.CrossDocumentReference(resourceID, "")
}

// CrossDocumentReference builds the expression that reads resourceID's
// value from its document's nested deployment outputs. propertyPath
// narrows the reference to a property of the resource; empty means the
// resource id. Requesting a cross-document reference for a co-located
// resource is a programmer error.
func (c *SynthesisContext) CrossDocumentReference(resourceID, propertyPath string) (Reference, error) {
	doc, ok := c.assignment[resourceID]
	if !ok {
		return Reference{}, c.notFound(resourceID)
	}
	if doc == c.current {
		return Reference{}, errors.NewInvalidReferenceError(resourceID,
			"resource %q is co-located in document %q; cross-document reference is invalid", resourceID, c.current)
	}
	meta, ok := c.documents[doc]
	if !ok {
		return Reference{}, errors.NewConfigurationError(errors.CodeUnknownDocument,
			"resource %q is assigned to document %q which has no metadata", resourceID, doc)
	}
	deployment := arm.DeploymentName(meta.FileName)
	output := partition.OutputName(resourceID, propertyPath)
	return Reference{
		Kind:       ReferenceCrossDocument,
		Expression: arm.DeploymentOutput(deployment, output),
	}, nil
}

// ParameterReference builds a parameter lookup expression. It always
// succeeds: whether the parameter is declared locally or propagates from an
// ancestor document is not checked here.
func (c *SynthesisContext) ParameterReference(name string) string {
	return arm.ParameterReference(name)
}

func (c *SynthesisContext) notFound(resourceID string) error {
	known := make([]string, 0, len(c.assignment))
	for id := range c.assignment {
		known = append(known, id)
	}
	sort.Strings(known)
	if len(known) > maxKnownIDsInError {
		known = known[:maxKnownIDsInError]
	}
	return errors.NewNotFoundError(resourceID,
		"resource %q is not part of this deployment; known resources include: %s",
		resourceID, strings.Join(known, ", ")).WithKnown(known)
}
