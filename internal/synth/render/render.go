// Package render turns a partitioning result into final ARM template
// documents, substituting the reference expressions the synthesis context
// resolves for each document.
package render

import (
	"fmt"
	"strings"

	"github.com/armforge/armforge/internal/synth/arm"
	"github.com/armforge/armforge/internal/synth/discover"
	"github.com/armforge/armforge/internal/synth/document"
	"github.com/armforge/armforge/internal/synth/partition"
)

// Placeholder prefixes recognized in resource property values. A property
// value that is exactly "${ref:storage1}" renders as a reference to that
// resource's id; "${ref:storage1:properties.primaryEndpoints.blob}" narrows
// it to a property path; "${param:env}" renders as a parameter lookup.
const (
	refPrefix   = "${ref:"
	paramPrefix = "${param:"
)

// Render produces the final template for every document in the plan,
// including the root document when the run split. Keys are document names.
func Render(def *discover.Definition, result *partition.Result, plan *document.Plan) (map[string]*arm.Template, error) {
	byID := make(map[string]*discover.ResourceDefinition, len(def.Resources))
	for _, r := range def.Resources {
		byID[r.Metadata.ID] = r
	}

	templates := make(map[string]*arm.Template, len(result.Documents)+1)
	for name := range result.Documents {
		ctx, err := document.NewSynthesisContext(name, result.Assignment, result.Documents)
		if err != nil {
			return nil, err
		}
		tpl, err := renderDocument(def, byID, result, ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to render document %q: %w", name, err)
		}
		templates[name] = tpl
	}
	if plan.Root != nil {
		templates[document.RootDocumentName] = plan.Root
	}
	return templates, nil
}

func renderDocument(def *discover.Definition, byID map[string]*discover.ResourceDefinition, result *partition.Result, ctx *document.SynthesisContext) (*arm.Template, error) {
	meta := result.Documents[ctx.CurrentDocument()]
	tpl := arm.NewTemplate()

	// Split documents keep the original parameter declarations so that
	// parameter lookups keep resolving after the split.
	if len(def.Parameters) > 0 {
		tpl.Parameters = make(map[string]arm.Parameter, len(def.Parameters))
		for name, p := range def.Parameters {
			tpl.Parameters[name] = p
		}
	}

	for _, id := range meta.ResourceIDs {
		rd, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("assignment names unknown resource %q", id)
		}
		body := rd.Body

		var dependsOn []string
		for _, dep := range rd.Metadata.Dependencies {
			if !ctx.IsCoLocated(dep) {
				// Remote dependencies are ordered by the root document's
				// nested deployment chain, not by dependsOn.
				continue
			}
			target, ok := byID[dep]
			if !ok {
				continue
			}
			dependsOn = append(dependsOn, arm.Bracket(arm.ResourceID(target.Metadata.Type, dep)))
		}
		body.DependsOn = dependsOn

		if body.Properties != nil {
			props, err := substituteMap(body.Properties, ctx, byID)
			if err != nil {
				return nil, fmt.Errorf("resource %q: %w", id, err)
			}
			body.Properties = props
		}
		tpl.Resources = append(tpl.Resources, body)
	}

	// Declare one output per cross-document dependency targeting this
	// document, so sibling documents can read the referenced values.
	for _, ref := range result.CrossReferences {
		if ref.TargetDocument != ctx.CurrentDocument() {
			continue
		}
		target := byID[ref.TargetResourceID]
		declareOutput(tpl, ref.OutputName, arm.Bracket(arm.ResourceID(target.Metadata.Type, ref.TargetResourceID)))
	}

	// Property-path references only surface inside resource bodies, so the
	// assignment stage cannot see them. Scan the other documents' bodies
	// for paths into this document's resources and declare their outputs.
	for _, rd := range byID {
		if ctx.IsCoLocated(rd.Metadata.ID) {
			continue
		}
		for _, pr := range propertyRefs(rd.Body.Properties) {
			if !ctx.IsCoLocated(pr.resourceID) {
				continue
			}
			target := byID[pr.resourceID]
			value := arm.Bracket(fmt.Sprintf("reference(%s).%s", arm.ResourceID(target.Metadata.Type, pr.resourceID), pr.path))
			declareOutput(tpl, partition.OutputName(pr.resourceID, pr.path), value)
		}
	}
	return tpl, nil
}

func declareOutput(tpl *arm.Template, name, value string) {
	if tpl.Outputs == nil {
		tpl.Outputs = make(map[string]arm.Output)
	}
	if _, ok := tpl.Outputs[name]; ok {
		return
	}
	tpl.Outputs[name] = arm.Output{Type: "string", Value: value}
}

type propertyRef struct {
	resourceID string
	path       string
}

// propertyRefs collects the path-narrowed reference placeholders in a
// property tree.
func propertyRefs(v interface{}) []propertyRef {
	var refs []propertyRef
	switch val := v.(type) {
	case string:
		if strings.HasPrefix(val, refPrefix) && strings.HasSuffix(val, "}") {
			token := val[len(refPrefix) : len(val)-1]
			if i := strings.IndexByte(token, ':'); i >= 0 {
				refs = append(refs, propertyRef{resourceID: token[:i], path: token[i+1:]})
			}
		}
	case map[string]interface{}:
		for _, item := range val {
			refs = append(refs, propertyRefs(item)...)
		}
	case []interface{}:
		for _, item := range val {
			refs = append(refs, propertyRefs(item)...)
		}
	}
	return refs
}

func substituteMap(in map[string]interface{}, ctx *document.SynthesisContext, byID map[string]*discover.ResourceDefinition) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		sub, err := substituteValue(v, ctx, byID)
		if err != nil {
			return nil, err
		}
		out[k] = sub
	}
	return out, nil
}

func substituteValue(v interface{}, ctx *document.SynthesisContext, byID map[string]*discover.ResourceDefinition) (interface{}, error) {
	switch val := v.(type) {
	case string:
		return substituteString(val, ctx, byID)
	case map[string]interface{}:
		return substituteMap(val, ctx, byID)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			sub, err := substituteValue(item, ctx, byID)
			if err != nil {
				return nil, err
			}
			out[i] = sub
		}
		return out, nil
	default:
		return v, nil
	}
}

// substituteString resolves a placeholder when the whole value is one.
// Placeholders embedded in longer strings pass through unchanged.
func substituteString(s string, ctx *document.SynthesisContext, byID map[string]*discover.ResourceDefinition) (interface{}, error) {
	if !strings.HasSuffix(s, "}") {
		return s, nil
	}
	switch {
	case strings.HasPrefix(s, refPrefix):
		token := s[len(refPrefix) : len(s)-1]
		id, path := token, ""
		if i := strings.IndexByte(token, ':'); i >= 0 {
			id, path = token[:i], token[i+1:]
		}
		return resolveReference(ctx, byID, id, path)
	case strings.HasPrefix(s, paramPrefix):
		name := s[len(paramPrefix) : len(s)-1]
		return ctx.ParameterReference(name), nil
	default:
		return s, nil
	}
}

func resolveReference(ctx *document.SynthesisContext, byID map[string]*discover.ResourceDefinition, id, path string) (string, error) {
	if ctx.IsCoLocated(id) && path != "" {
		target := byID[id]
		return arm.Bracket(fmt.Sprintf("reference(%s).%s", arm.ResourceID(target.Metadata.Type, id), path)), nil
	}
	var (
		ref document.Reference
		err error
	)
	if path != "" {
		ref, err = ctx.CrossDocumentReference(id, path)
	} else {
		ref, err = ctx.ResourceReference(id)
	}
	if err != nil {
		return "", err
	}
	if ref.Kind == document.ReferenceDirect {
		target := byID[ref.ResourceID]
		return arm.Bracket(arm.ResourceID(target.Metadata.Type, ref.ResourceID)), nil
	}
	return ref.Expression, nil
}
