package document

import (
	"sort"

	"github.com/armforge/armforge/internal/synth/arm"
	"github.com/armforge/armforge/internal/synth/errors"
	"github.com/armforge/armforge/internal/synth/partition"
)

// RootDocumentName is the logical name of the orchestrating root document.
// The name is reserved: a multi-document grouping may not produce a document
// with this name.
const RootDocumentName = "azuredeploy"

// Plan is the orchestrator's output: the deployment order over the
// generated documents and, when the run split into more than one document,
// the root document that chains them.
type Plan struct {
	// Order lists document names in a valid deployment order: every
	// document appears after the documents it reads outputs from.
	Order []string
	// Root is the orchestrating document, nil for single-document runs.
	// Single-document output deploys directly; wrapping it would only add
	// a deployment hop.
	Root *arm.Template
	// RootMetadata describes Root; nil when Root is nil.
	RootMetadata *partition.DocumentMetadata
}

// Orchestrate builds the deployment plan for a partitioning result.
// originalParameters are the parameter declarations of the unsplit source
// document; they are merged into the root document so callers keep passing
// the same values. A cycle in the document-level dependency graph is fatal:
// no deployment order exists.
func Orchestrate(result *partition.Result, originalParameters map[string]arm.Parameter) (*Plan, error) {
	names := make([]string, 0, len(result.Documents))
	for name := range result.Documents {
		names = append(names, name)
	}
	sort.Strings(names)

	// Document-level edges, deduplicated: source deploys after target.
	targets := make(map[string][]string, len(names))
	seen := make(map[[2]string]bool)
	for _, ref := range result.CrossReferences {
		key := [2]string{ref.SourceDocument, ref.TargetDocument}
		if seen[key] {
			continue
		}
		seen[key] = true
		targets[ref.SourceDocument] = append(targets[ref.SourceDocument], ref.TargetDocument)
	}
	for _, deps := range targets {
		sort.Strings(deps)
	}

	order, err := deploymentOrder(names, targets)
	if err != nil {
		return nil, err
	}

	if len(names) <= 1 {
		return &Plan{Order: order}, nil
	}
	if _, ok := result.Documents[RootDocumentName]; ok {
		return nil, errors.NewConfigurationError(errors.CodeReservedDocumentName,
			"document name %q is reserved for the root document; rename the group", RootDocumentName)
	}

	root := arm.NewTemplate()
	root.Parameters = arm.RootParameters(originalParameters)
	for _, name := range order {
		meta := result.Documents[name]
		var dependsOn []string
		for _, target := range targets[name] {
			dependsOn = append(dependsOn, arm.DeploymentResourceID(arm.DeploymentName(result.Documents[target].FileName)))
		}
		root.Resources = append(root.Resources, arm.NestedDeployment(meta.FileName, dependsOn))
	}

	rootParams := make([]string, 0, len(root.Parameters))
	for name := range root.Parameters {
		rootParams = append(rootParams, name)
	}
	sort.Strings(rootParams)

	return &Plan{
		Order: order,
		Root:  root,
		RootMetadata: &partition.DocumentMetadata{
			Name:          RootDocumentName,
			FileName:      RootDocumentName + ".json",
			ResourceCount: len(root.Resources),
			IsRoot:        true,
			Parameters:    rootParams,
		},
	}, nil
}

// deploymentOrder topologically sorts documents so that every document
// follows its dependency targets. Depth-first with a separate visiting set:
// meeting a document already on the active path is a back-edge, i.e. a
// cycle.
func deploymentOrder(names []string, targets map[string][]string) ([]string, error) {
	const (
		unvisited = iota
		visiting
		visited
	)
	state := make(map[string]int, len(names))
	order := make([]string, 0, len(names))

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case visited:
			return nil
		case visiting:
			return errors.NewCyclicDependencyError(name)
		}
		state[name] = visiting
		for _, target := range targets[name] {
			if err := visit(target); err != nil {
				return err
			}
		}
		state[name] = visited
		order = append(order, name)
		return nil
	}

	for _, name := range names {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return order, nil
}
