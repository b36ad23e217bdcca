package partition

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armforge/armforge/internal/synth/metadata"
)

func res(id, resourceType string, size int) *metadata.ResourceMetadata {
	return &metadata.ResourceMetadata{ID: id, Type: resourceType, SizeEstimate: size}
}

func TestAssignResourcesTotality(t *testing.T) {
	resources := []*metadata.ResourceMetadata{
		res("storage1", "Microsoft.Storage/storageAccounts", 400),
		res("plan1", "Microsoft.Web/serverfarms", 300),
		res("site1", "Microsoft.Web/sites", 700),
		res("config1", "Microsoft.Web/sites/config", 100),
	}
	result := New(Options{}).AssignResources(resources)

	require.Len(t, result.Assignment, len(resources))
	counts := make(map[string]int)
	for _, doc := range result.Documents {
		for _, id := range doc.ResourceIDs {
			counts[id]++
		}
	}
	for _, r := range resources {
		assert.Equal(t, 1, counts[r.ID], "resource %s must appear in exactly one document", r.ID)
		assert.Contains(t, result.Assignment, r.ID)
	}
}

func TestTierBasedGrouping(t *testing.T) {
	resources := []*metadata.ResourceMetadata{
		res("storage1", "Microsoft.Storage/storageAccounts", 100),
		res("plan1", "Microsoft.Web/serverfarms", 100),
		res("site1", "Microsoft.Web/sites", 100),
	}
	result := New(Options{}).AssignResources(resources)

	assert.Equal(t, "Foundation", result.Assignment["storage1"])
	assert.Equal(t, "Compute", result.Assignment["plan1"])
	assert.Equal(t, "Application", result.Assignment["site1"])
	for _, p := range result.Placements {
		assert.Equal(t, ReasonTierBased, p.Reason)
	}
}

func TestTierBasedSingleBucketCollapses(t *testing.T) {
	// One resource, comfortably under the ceiling: exactly one document,
	// no cross-document references.
	resources := []*metadata.ResourceMetadata{
		res("storage1", "Foundation/storageAccounts", 500),
	}
	result := New(Options{MaxDocumentSize: 10_000_000}).AssignResources(resources)

	require.Len(t, result.Documents, 1)
	assert.Empty(t, result.CrossReferences)
	assert.Empty(t, result.Warnings)
}

func TestTypeBasedGrouping(t *testing.T) {
	resources := []*metadata.ResourceMetadata{
		res("storage1", "Microsoft.Storage/storageAccounts", 100),
		res("vnet1", "Microsoft.Network/virtualNetworks", 100),
		res("nsg1", "Microsoft.Network/networkSecurityGroups", 100),
	}
	result := New(Options{Strategy: &TypeBased{}}).AssignResources(resources)

	assert.Equal(t, "Microsoft.Storage", result.Assignment["storage1"])
	assert.Equal(t, "Microsoft.Network", result.Assignment["vnet1"])
	assert.Equal(t, "Microsoft.Network", result.Assignment["nsg1"])
}

func TestDependencyChainGrouping(t *testing.T) {
	a := res("a", "Custom.Provider/things", 100)
	a.Dependencies = []string{"b"}
	b := res("b", "Custom.Provider/things", 100)
	c := res("c", "Custom.Provider/things", 100)

	result := New(Options{Strategy: &DependencyChain{}}).AssignResources(
		[]*metadata.ResourceMetadata{a, b, c})

	assert.Equal(t, result.Assignment["a"], result.Assignment["b"],
		"connected resources share a document")
	assert.NotEqual(t, result.Assignment["a"], result.Assignment["c"],
		"disconnected resources get their own document")
	assert.Empty(t, result.CrossReferences,
		"chain grouping never crosses a document boundary before splitting")
}

func TestCustomGrouping(t *testing.T) {
	resources := []*metadata.ResourceMetadata{
		res("a", "Custom.Provider/things", 100),
		res("b", "Custom.Provider/things", 100),
	}
	strategy := &Custom{Fn: func(rs []*metadata.ResourceMetadata) map[string][]string {
		return map[string][]string{
			"odd":  {"a"},
			"even": {"b"},
		}
	}}
	result := New(Options{Strategy: strategy}).AssignResources(resources)

	assert.Equal(t, "odd", result.Assignment["a"])
	assert.Equal(t, "even", result.Assignment["b"])
	for _, p := range result.Placements {
		assert.Equal(t, ReasonCustomGrouping, p.Reason)
	}
}

func TestCoLocationClosure(t *testing.T) {
	// A requires B, B requires C: all three end up together regardless of
	// declaration order or tier.
	permutations := [][]string{
		{"a", "b", "c"},
		{"c", "b", "a"},
		{"b", "c", "a"},
	}
	for _, order := range permutations {
		t.Run(fmt.Sprintf("order_%v", order), func(t *testing.T) {
			byID := map[string]*metadata.ResourceMetadata{
				"a": {ID: "a", Type: "Microsoft.Storage/storageAccounts", SizeEstimate: 100, RequiresSameDocument: []string{"b"}},
				"b": {ID: "b", Type: "Microsoft.Web/serverfarms", SizeEstimate: 100, RequiresSameDocument: []string{"c"}},
				"c": {ID: "c", Type: "Microsoft.Web/sites", SizeEstimate: 100},
			}
			var resources []*metadata.ResourceMetadata
			for _, id := range order {
				resources = append(resources, byID[id])
			}
			result := New(Options{}).AssignResources(resources)

			assert.Equal(t, result.Assignment["a"], result.Assignment["b"])
			assert.Equal(t, result.Assignment["b"], result.Assignment["c"])
		})
	}
}

func TestSizeSplitOrderPreserved(t *testing.T) {
	var resources []*metadata.ResourceMetadata
	for i := 0; i < 10; i++ {
		resources = append(resources, res(fmt.Sprintf("r%d", i), "Microsoft.Web/sites", 400))
	}
	result := New(Options{MaxDocumentSize: 1000}).AssignResources(resources)

	require.Greater(t, len(result.Documents), 1)

	// Concatenating sub-groups in numbering order reproduces input order.
	var got []string
	for _, name := range []string{"Application", "Application-1", "Application-2", "Application-3", "Application-4"} {
		doc, ok := result.Documents[name]
		if !ok {
			break
		}
		got = append(got, doc.ResourceIDs...)
		assert.LessOrEqual(t, doc.EstimatedSize, 1000, "document %s exceeds ceiling", name)
	}
	require.Len(t, got, len(resources))
	for i, r := range resources {
		assert.Equal(t, r.ID, got[i], "order must be preserved at position %d", i)
	}
}

func TestSizeSplitByResourceCount(t *testing.T) {
	resources := []*metadata.ResourceMetadata{
		res("a", "Microsoft.Web/sites", 10),
		res("b", "Microsoft.Web/sites", 10),
		res("c", "Microsoft.Web/sites", 10),
	}
	result := New(Options{MaxResourcesPerDocument: 2}).AssignResources(resources)

	require.Len(t, result.Documents, 2)
	assert.Equal(t, []string{"a", "b"}, result.Documents["Application"].ResourceIDs)
	assert.Equal(t, []string{"c"}, result.Documents["Application-1"].ResourceIDs)
}

func TestOversizedSingletonBecomesOwnDocument(t *testing.T) {
	resources := []*metadata.ResourceMetadata{
		res("small1", "Microsoft.Web/sites", 100),
		res("huge", "Microsoft.Web/sites", 5000),
		res("small2", "Microsoft.Web/sites", 100),
	}
	result := New(Options{MaxDocumentSize: 1000}).AssignResources(resources)

	hugeDoc := result.Assignment["huge"]
	require.Len(t, result.Documents[hugeDoc].ResourceIDs, 1,
		"an oversized resource occupies a document alone")
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0].Message, "huge")
}

func TestCrossReferencesForSplitDependencies(t *testing.T) {
	storage := res("storage1", "Microsoft.Storage/storageAccounts", 100)
	site := res("site1", "Microsoft.Web/sites", 100)
	site.Dependencies = []string{"storage1"}

	result := New(Options{}).AssignResources([]*metadata.ResourceMetadata{storage, site})

	require.Len(t, result.CrossReferences, 1)
	ref := result.CrossReferences[0]
	assert.Equal(t, "site1", ref.SourceResourceID)
	assert.Equal(t, "storage1", ref.TargetResourceID)
	assert.Equal(t, result.Assignment["site1"], ref.SourceDocument)
	assert.Equal(t, result.Assignment["storage1"], ref.TargetDocument)
	assert.Equal(t, "storage1_id", ref.OutputName)
	assert.Contains(t, result.Documents[ref.TargetDocument].Outputs, "storage1_id")
}

func TestDanglingDependencyIsWarningNotError(t *testing.T) {
	a := res("a", "Microsoft.Web/sites", 100)
	a.Dependencies = []string{"ghost"}

	result := New(Options{}).AssignResources([]*metadata.ResourceMetadata{a})

	assert.Empty(t, result.CrossReferences)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0].Message, "ghost")
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "storage1_id", OutputName("storage1", ""))
	assert.Equal(t, "storage1_properties_primaryEndpoints_blob",
		OutputName("storage1", "properties.primaryEndpoints.blob"))
	assert.Equal(t, "vm1_properties_networkProfile_networkInterfaces_0_",
		OutputName("vm1", "properties.networkProfile.networkInterfaces[0]"))
}
