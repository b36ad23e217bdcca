package arm

// TemplateSchema is the deployment template schema stamped on every
// generated document.
const TemplateSchema = "https://schema.management.azure.com/schemas/2019-04-01/deploymentTemplate.json#"

// DefaultContentVersion is used when the source definitions carry none.
const DefaultContentVersion = "1.0.0.0"

// Template is one deployable ARM template document.
type Template struct {
	Schema         string                 `json:"$schema"`
	ContentVersion string                 `json:"contentVersion"`
	Parameters     map[string]Parameter   `json:"parameters,omitempty"`
	Variables      map[string]interface{} `json:"variables,omitempty"`
	Resources      []Resource             `json:"resources"`
	Outputs        map[string]Output      `json:"outputs,omitempty"`
}

// NewTemplate creates an empty template with the standard envelope.
func NewTemplate() *Template {
	return &Template{
		Schema:         TemplateSchema,
		ContentVersion: DefaultContentVersion,
		Resources:      []Resource{},
	}
}

// Parameter is one template parameter declaration.
type Parameter struct {
	Type         string      `json:"type"`
	DefaultValue interface{} `json:"defaultValue,omitempty"`
	Metadata     *Metadata   `json:"metadata,omitempty"`
}

// Metadata carries a parameter or output description.
type Metadata struct {
	Description string `json:"description,omitempty"`
}

// Output is one template output declaration.
type Output struct {
	Type  string      `json:"type"`
	Value interface{} `json:"value"`
}

// Resource is one resource body inside a template.
type Resource struct {
	Type       string                 `json:"type"`
	APIVersion string                 `json:"apiVersion"`
	Name       string                 `json:"name"`
	Location   string                 `json:"location,omitempty"`
	DependsOn  []string               `json:"dependsOn,omitempty"`
	Properties map[string]interface{} `json:"properties,omitempty"`
	Tags       map[string]string      `json:"tags,omitempty"`
}

// TemplateLink locates a nested deployment's document.
type TemplateLink struct {
	URI            string `json:"uri"`
	ContentVersion string `json:"contentVersion"`
}

// NestedDeployment builds the root-document resource that deploys one
// split-off document. dependsOn entries are resourceId expressions
// targeting sibling deployment resources.
func NestedDeployment(fileName string, dependsOn []string) Resource {
	return Resource{
		Type:       DeploymentResourceType,
		APIVersion: DeploymentAPIVersion,
		Name:       DeploymentName(fileName),
		DependsOn:  dependsOn,
		Properties: map[string]interface{}{
			"mode": "Incremental",
			"templateLink": TemplateLink{
				URI:            ArtifactURI(fileName),
				ContentVersion: DefaultContentVersion,
			},
		},
	}
}

// RootParameters returns the synthetic parameters every root document
// declares, merged with the parameters the original unsplit document
// declared. Original declarations win on name collision.
func RootParameters(original map[string]Parameter) map[string]Parameter {
	merged := map[string]Parameter{
		ArtifactsLocationParameter: {
			Type:     "string",
			Metadata: &Metadata{Description: "Base URI where split template documents are staged"},
		},
		ArtifactsSasTokenParameter: {
			Type:         "securestring",
			DefaultValue: "",
			Metadata:     &Metadata{Description: "SAS token granting read access to the artifacts location"},
		},
	}
	for name, p := range original {
		merged[name] = p
	}
	return merged
}
