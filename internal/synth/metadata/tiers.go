package metadata

// tierEntry is one row of the static type→tier table.
type tierEntry struct {
	resourceType string
	tier         Tier
}

// defaultTierTable maps well-known provider types to tiers. The table is
// copied into each Classifier at construction so that multiple engine
// configurations can coexist in one process.
var defaultTierTable = []tierEntry{
	{"Microsoft.Storage/storageAccounts", TierFoundation},
	{"Microsoft.Network/virtualNetworks", TierFoundation},
	{"Microsoft.Network/networkSecurityGroups", TierFoundation},
	{"Microsoft.Network/publicIPAddresses", TierFoundation},
	{"Microsoft.Network/privateDnsZones", TierFoundation},
	{"Microsoft.KeyVault/vaults", TierFoundation},
	{"Microsoft.OperationalInsights/workspaces", TierFoundation},
	{"Microsoft.ManagedIdentity/userAssignedIdentities", TierFoundation},

	{"Microsoft.Web/serverfarms", TierCompute},
	{"Microsoft.Compute/virtualMachines", TierCompute},
	{"Microsoft.Compute/virtualMachineScaleSets", TierCompute},
	{"Microsoft.Compute/availabilitySets", TierCompute},
	{"Microsoft.ContainerService/managedClusters", TierCompute},
	{"Microsoft.App/managedEnvironments", TierCompute},
	{"Microsoft.Sql/servers", TierCompute},
	{"Microsoft.DocumentDB/databaseAccounts", TierCompute},
	{"Microsoft.Cache/redis", TierCompute},

	{"Microsoft.Web/sites", TierApplication},
	{"Microsoft.App/containerApps", TierApplication},
	{"Microsoft.Sql/servers/databases", TierApplication},
	{"Microsoft.DocumentDB/databaseAccounts/sqlDatabases", TierApplication},
	{"Microsoft.Insights/components", TierApplication},
	{"Microsoft.ServiceBus/namespaces/queues", TierApplication},
	{"Microsoft.EventHub/namespaces/eventhubs", TierApplication},

	{"Microsoft.Web/sites/config", TierConfiguration},
	{"Microsoft.Web/sites/siteextensions", TierConfiguration},
	{"Microsoft.Authorization/roleAssignments", TierConfiguration},
	{"Microsoft.Insights/autoscaleSettings", TierConfiguration},
	{"Microsoft.Insights/diagnosticSettings", TierConfiguration},
	{"Microsoft.KeyVault/vaults/accessPolicies", TierConfiguration},
}

// Classifier maps resource type strings to deployment tiers using an
// immutable lookup table. The zero value is not usable; construct with
// NewClassifier.
type Classifier struct {
	byType map[string]Tier
}

// NewClassifier builds a classifier from the default type→tier table.
func NewClassifier() *Classifier {
	byType := make(map[string]Tier, len(defaultTierTable))
	for _, e := range defaultTierTable {
		byType[e.resourceType] = e.tier
	}
	return &Classifier{byType: byType}
}

// Classify returns the tier for a resource type. Types whose top-level
// segment literally names a tier (e.g. "Foundation/storageAccounts")
// classify to that tier; types absent from the table classify to
// TierApplication. Classify is a total function: it never fails.
func (c *Classifier) Classify(resourceType string) Tier {
	if t, ok := c.byType[resourceType]; ok {
		return t
	}
	for i := 0; i < len(resourceType); i++ {
		if resourceType[i] == '/' {
			if t := ParseTier(resourceType[:i]); t != TierUnspecified {
				return t
			}
			break
		}
	}
	return TierApplication
}

// EffectiveTier returns the resource's explicit tier preference when set,
// falling back to classification of its type.
func (c *Classifier) EffectiveTier(r *ResourceMetadata) Tier {
	if r.TierPreference != TierUnspecified {
		return r.TierPreference
	}
	return c.Classify(r.Type)
}
