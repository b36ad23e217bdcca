package partition

import (
	"strings"

	"github.com/armforge/armforge/internal/synth/graph"
	"github.com/armforge/armforge/internal/synth/metadata"
)

// OutputName derives the output a target document declares for one
// cross-document reference: "{resourceId}_id" for a plain resource-id
// reference, "{resourceId}_{path}" for a property reference, with ".", "["
// and "]" in the path replaced by "_" to stay a valid ARM output name.
func OutputName(resourceID, propertyPath string) string {
	if propertyPath == "" {
		return resourceID + "_id"
	}
	sanitized := strings.NewReplacer(".", "_", "[", "_", "]", "_").Replace(propertyPath)
	return resourceID + "_" + sanitized
}

// finalize turns the settled group list into the engine's outputs: the
// total resource→document assignment, per-document metadata, and one
// CrossDocumentDependency per dependency edge whose endpoints landed in
// different documents.
func finalize(resources []*metadata.ResourceMetadata, list *groupList, g *graph.DependencyGraph) (DocumentAssignment, map[string]*DocumentMetadata, []CrossDocumentDependency) {
	assignment := make(DocumentAssignment, len(resources))
	documents := make(map[string]*DocumentMetadata, len(list.names))

	sizes := make(map[string]int, len(resources))
	for _, r := range resources {
		sizes[r.ID] = r.SizeEstimate
	}

	for _, grp := range list.groups() {
		doc := &DocumentMetadata{
			Name:     grp.Name,
			FileName: grp.Name + ".json",
		}
		for _, id := range grp.ResourceIDs {
			assignment[id] = grp.Name
			doc.ResourceIDs = append(doc.ResourceIDs, id)
			doc.EstimatedSize += sizes[id]
		}
		doc.ResourceCount = len(doc.ResourceIDs)
		documents[grp.Name] = doc
	}

	var crossRefs []CrossDocumentDependency
	for _, r := range resources {
		sourceDoc := assignment[r.ID]
		for _, dep := range g.DependenciesOf(r.ID) {
			targetDoc := assignment[dep]
			if targetDoc == sourceDoc {
				continue
			}
			out := OutputName(dep, "")
			crossRefs = append(crossRefs, CrossDocumentDependency{
				SourceDocument:   sourceDoc,
				TargetDocument:   targetDoc,
				SourceResourceID: r.ID,
				TargetResourceID: dep,
				OutputName:       out,
			})
			target := documents[targetDoc]
			if !contains(target.Outputs, out) {
				target.Outputs = append(target.Outputs, out)
			}
		}
	}
	return assignment, documents, crossRefs
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
