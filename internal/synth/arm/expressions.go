// Package arm models ARM template documents and builds the template
// expression strings the synthesizer emits: resource ids, references,
// parameter lookups, and nested-deployment artifact URIs.
package arm

import (
	"fmt"
	"strings"
)

// DeploymentResourceType is the ARM resource type that triggers deployment
// of a linked template.
const DeploymentResourceType = "Microsoft.Resources/deployments"

// DeploymentAPIVersion is the api version stamped on nested deployment
// resources.
const DeploymentAPIVersion = "2021-04-01"

// Synthetic root parameters for locating split-off documents.
const (
	// ArtifactsLocationParameter is the base URI the split documents are
	// staged under.
	ArtifactsLocationParameter = "_artifactsLocation"
	// ArtifactsSasTokenParameter is the optional SAS token appended to
	// artifact URIs.
	ArtifactsSasTokenParameter = "_artifactsLocationSasToken"
)

// deploymentNameSuffix is appended to the lowercased document file stem to
// form the nested deployment resource name.
const deploymentNameSuffix = "-deployment"

// DeploymentName derives the nested deployment resource name for a document
// file name: extension stripped, lowercased, suffixed with "-deployment".
// "Foundation-storage.json" becomes "foundation-storage-deployment".
func DeploymentName(fileName string) string {
	stem := fileName
	if i := strings.LastIndexByte(fileName, '.'); i > 0 {
		stem = fileName[:i]
	}
	return strings.ToLower(stem) + deploymentNameSuffix
}

// Bracket wraps an expression in the "[...]" evaluation markers.
func Bracket(expr string) string {
	return "[" + expr + "]"
}

// ResourceID builds a resourceId(...) expression from a resource type and
// name segments.
func ResourceID(resourceType string, names ...string) string {
	parts := make([]string, 0, len(names)+1)
	parts = append(parts, fmt.Sprintf("'%s'", resourceType))
	for _, n := range names {
		parts = append(parts, fmt.Sprintf("'%s'", n))
	}
	return fmt.Sprintf("resourceId(%s)", strings.Join(parts, ", "))
}

// Parameters builds a parameters('name') expression.
func Parameters(name string) string {
	return fmt.Sprintf("parameters('%s')", name)
}

// ParameterReference builds the bracketed form of a parameter lookup.
func ParameterReference(name string) string {
	return Bracket(Parameters(name))
}

// DeploymentResourceID builds the resourceId expression for a sibling
// nested deployment, as used in root-document dependsOn lists.
func DeploymentResourceID(deploymentName string) string {
	return Bracket(ResourceID(DeploymentResourceType, deploymentName))
}

// DeploymentOutput builds the expression that reads a named output of a
// nested deployment from a sibling document.
func DeploymentOutput(deploymentName, outputName string) string {
	return Bracket(fmt.Sprintf("reference(%s).outputs.%s.value",
		ResourceID(DeploymentResourceType, deploymentName), outputName))
}

// ArtifactURI builds the templateLink.uri expression for a split document:
// the artifacts base location, the document file name, and the SAS token
// concatenated at deploy time.
func ArtifactURI(fileName string) string {
	return Bracket(fmt.Sprintf("concat(%s, '/%s', %s)",
		Parameters(ArtifactsLocationParameter), fileName, Parameters(ArtifactsSasTokenParameter)))
}
