// Package discover parses the declarative resource definition tree into the
// metadata descriptors and resource bodies the rest of the synthesizer
// consumes.
package discover

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/armforge/armforge/internal/synth/arm"
	"github.com/armforge/armforge/internal/synth/metadata"
)

// Definition is one parsed deployment stack definition.
type Definition struct {
	// Name is the stack name, used for output naming and the manifest.
	Name string
	// Parameters are the parameter declarations of the unsplit document.
	Parameters map[string]arm.Parameter
	// Resources lists the stack's resources in definition order.
	Resources []*ResourceDefinition
}

// ResourceDefinition pairs a resource's partitioning metadata with its
// deployable body.
type ResourceDefinition struct {
	Metadata *metadata.ResourceMetadata
	Body     arm.Resource
}

// Metadata returns the ResourceMetadata list in definition order.
func (d *Definition) Metadata() []*metadata.ResourceMetadata {
	out := make([]*metadata.ResourceMetadata, 0, len(d.Resources))
	for _, r := range d.Resources {
		out = append(out, r.Metadata)
	}
	return out
}

// manifest mirrors the YAML stack definition file.
type manifest struct {
	Name       string                   `yaml:"name"`
	Parameters map[string]manifestParam `yaml:"parameters"`
	Resources  []manifestResource       `yaml:"resources"`
}

type manifestParam struct {
	Type        string      `yaml:"type"`
	Default     interface{} `yaml:"default"`
	Description string      `yaml:"description"`
}

type manifestResource struct {
	ID             string                 `yaml:"id"`
	Type           string                 `yaml:"type"`
	APIVersion     string                 `yaml:"apiVersion"`
	Location       string                 `yaml:"location"`
	Tier           string                 `yaml:"tier"`
	DependsOn      []string               `yaml:"dependsOn"`
	SameDocumentAs []string               `yaml:"sameDocumentAs"`
	Properties     map[string]interface{} `yaml:"properties"`
	Tags           map[string]string      `yaml:"tags"`
}

// LoadFile reads and parses a stack definition file.
func LoadFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stack definition: %w", err)
	}
	return Parse(data)
}

// Parse parses a YAML stack definition. Resource ids must be unique; the
// engine's assignment invariants depend on stable, unique identifiers.
func Parse(data []byte) (*Definition, error) {
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse stack definition: %w", err)
	}
	if m.Name == "" {
		return nil, fmt.Errorf("stack definition is missing a name")
	}

	def := &Definition{Name: m.Name}
	if len(m.Parameters) > 0 {
		def.Parameters = make(map[string]arm.Parameter, len(m.Parameters))
		for name, p := range m.Parameters {
			param := arm.Parameter{Type: p.Type, DefaultValue: p.Default}
			if p.Description != "" {
				param.Metadata = &arm.Metadata{Description: p.Description}
			}
			def.Parameters[name] = param
		}
	}

	seen := make(map[string]bool, len(m.Resources))
	for i, r := range m.Resources {
		if r.ID == "" {
			return nil, fmt.Errorf("resource at index %d is missing an id", i)
		}
		if r.Type == "" {
			return nil, fmt.Errorf("resource %q is missing a type", r.ID)
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("duplicate resource id %q", r.ID)
		}
		seen[r.ID] = true

		body := arm.Resource{
			Type:       r.Type,
			APIVersion: r.APIVersion,
			Name:       r.ID,
			Location:   r.Location,
			Properties: r.Properties,
			Tags:       r.Tags,
		}
		def.Resources = append(def.Resources, &ResourceDefinition{
			Metadata: &metadata.ResourceMetadata{
				ID:                   r.ID,
				Type:                 r.Type,
				SizeEstimate:         estimateSize(body),
				Dependencies:         r.DependsOn,
				TierPreference:       metadata.ParseTier(r.Tier),
				RequiresSameDocument: r.SameDocumentAs,
			},
			Body: body,
		})
	}
	return def, nil
}

// estimateSize approximates a resource's serialized size by marshaling its
// body. Reference substitution changes the final byte count slightly, which
// is why the size ceiling keeps headroom.
func estimateSize(body arm.Resource) int {
	data, err := json.Marshal(body)
	if err != nil {
		return 0
	}
	return len(data)
}
