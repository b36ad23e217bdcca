package metadata

import "testing"

func TestClassify(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		resourceType string
		want         Tier
	}{
		{"Microsoft.Storage/storageAccounts", TierFoundation},
		{"Microsoft.Network/virtualNetworks", TierFoundation},
		{"Microsoft.Web/serverfarms", TierCompute},
		{"Microsoft.Sql/servers", TierCompute},
		{"Microsoft.Web/sites", TierApplication},
		{"Microsoft.Sql/servers/databases", TierApplication},
		{"Microsoft.Web/sites/config", TierConfiguration},
		{"Microsoft.Authorization/roleAssignments", TierConfiguration},
		// Top-level segment literally naming a tier.
		{"Foundation/storageAccounts", TierFoundation},
		{"Compute/serverfarms", TierCompute},
		// Unknown types default to Application.
		{"Custom.Provider/widgets", TierApplication},
		{"noSlashAtAll", TierApplication},
		{"", TierApplication},
	}
	for _, tt := range tests {
		if got := c.Classify(tt.resourceType); got != tt.want {
			t.Errorf("Classify(%q) = %v, want %v", tt.resourceType, got, tt.want)
		}
	}
}

func TestEffectiveTier(t *testing.T) {
	c := NewClassifier()

	r := &ResourceMetadata{ID: "site1", Type: "Microsoft.Web/sites"}
	if got := c.EffectiveTier(r); got != TierApplication {
		t.Errorf("EffectiveTier without preference = %v, want Application", got)
	}

	r.TierPreference = TierFoundation
	if got := c.EffectiveTier(r); got != TierFoundation {
		t.Errorf("EffectiveTier with preference = %v, want Foundation", got)
	}
}

func TestParseTier(t *testing.T) {
	if ParseTier("foundation") != TierFoundation || ParseTier("Configuration") != TierConfiguration {
		t.Error("ParseTier should be case-insensitive")
	}
	if ParseTier("nope") != TierUnspecified {
		t.Error("ParseTier should return TierUnspecified for unknown names")
	}
}

func TestTierString(t *testing.T) {
	tests := []struct {
		tier Tier
		want string
	}{
		{TierFoundation, "Foundation"},
		{TierCompute, "Compute"},
		{TierApplication, "Application"},
		{TierConfiguration, "Configuration"},
		{TierUnspecified, "Unspecified"},
	}
	for _, tt := range tests {
		if got := tt.tier.String(); got != tt.want {
			t.Errorf("Tier(%d).String() = %q, want %q", tt.tier, got, tt.want)
		}
	}
}

func TestHasStrongAffinity(t *testing.T) {
	a := NewAffinityTable()

	plan := &ResourceMetadata{ID: "plan1", Type: "Microsoft.Web/serverfarms"}
	site := &ResourceMetadata{ID: "site1", Type: "Microsoft.Web/sites"}
	if !a.HasStrongAffinity(plan, site) {
		t.Error("serverfarms/sites pair should be affine")
	}
	if a.HasStrongAffinity(site, plan) {
		t.Error("affinity pairs are directional")
	}

	// Legacy textual containment: a child id containing the parent id is
	// affine regardless of type.
	parent := &ResourceMetadata{ID: "storage1", Type: "Microsoft.Storage/storageAccounts"}
	child := &ResourceMetadata{ID: "storage1-container", Type: "Custom.Provider/containers"}
	if !a.HasStrongAffinity(parent, child) {
		t.Error("name containment should imply affinity")
	}
	if a.HasStrongAffinity(parent, parent) {
		t.Error("a resource is not affine to itself")
	}
	unrelated := &ResourceMetadata{ID: "queue1", Type: "Custom.Provider/queues"}
	if a.HasStrongAffinity(parent, unrelated) {
		t.Error("unrelated resources are not affine")
	}
}
