package metadata

import "strings"

// affinityPair marks a parent/child type pair that should not be split
// across documents when avoidable.
type affinityPair struct {
	parentType string
	childType  string
}

// defaultAffinityPairs lists provider type pairs with strong deployment
// affinity. Like the tier table, the pairs are immutable data copied into
// each AffinityTable at construction.
var defaultAffinityPairs = []affinityPair{
	{"Microsoft.Web/serverfarms", "Microsoft.Web/sites"},
	{"Microsoft.Web/sites", "Microsoft.Web/sites/config"},
	{"Microsoft.Sql/servers", "Microsoft.Sql/servers/databases"},
	{"Microsoft.Storage/storageAccounts", "Microsoft.Storage/storageAccounts/blobServices"},
	{"Microsoft.DocumentDB/databaseAccounts", "Microsoft.DocumentDB/databaseAccounts/sqlDatabases"},
	{"Microsoft.KeyVault/vaults", "Microsoft.KeyVault/vaults/accessPolicies"},
}

// AffinityTable answers strong-affinity queries between resources. Affinity
// either comes from a known parent/child type pair or from the legacy
// name-containment heuristic: a child whose id textually contains the
// parent's id is considered affine. The containment check is deliberately
// textual, not structural; existing inputs rely on it.
type AffinityTable struct {
	childTypes map[string]string
}

// NewAffinityTable builds an affinity table from the default pairs.
func NewAffinityTable() *AffinityTable {
	childTypes := make(map[string]string, len(defaultAffinityPairs))
	for _, p := range defaultAffinityPairs {
		childTypes[p.childType] = p.parentType
	}
	return &AffinityTable{childTypes: childTypes}
}

// HasStrongAffinity reports whether child should stay in parent's document.
func (a *AffinityTable) HasStrongAffinity(parent, child *ResourceMetadata) bool {
	if parentType, ok := a.childTypes[child.Type]; ok && parentType == parent.Type {
		return true
	}
	return child.ID != parent.ID && strings.Contains(child.ID, parent.ID)
}
