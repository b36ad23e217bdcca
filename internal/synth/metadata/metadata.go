// Package metadata defines the lightweight per-resource descriptors the
// partitioning engine operates on, together with the deployment tier model
// and the static classification tables.
package metadata

import "strings"

// Tier is a coarse deployment-ordering category. Tiers are ordered:
// foundation resources deploy before compute, compute before application,
// application before configuration.
type Tier int

const (
	// TierUnspecified means no explicit tier preference was given.
	TierUnspecified Tier = iota
	// TierFoundation covers storage, networking, vaults and other
	// resources everything else builds on.
	TierFoundation
	// TierCompute covers hosting plans, clusters, servers.
	TierCompute
	// TierApplication covers sites, apps, databases. Unknown resource
	// types default here.
	TierApplication
	// TierConfiguration covers settings, role assignments and other
	// resources applied onto already-deployed ones.
	TierConfiguration
)

// String returns the tier's document-name form.
func (t Tier) String() string {
	switch t {
	case TierFoundation:
		return "Foundation"
	case TierCompute:
		return "Compute"
	case TierApplication:
		return "Application"
	case TierConfiguration:
		return "Configuration"
	default:
		return "Unspecified"
	}
}

// ParseTier maps a tier name (case-insensitive) to its Tier value.
// Unrecognized names return TierUnspecified.
func ParseTier(s string) Tier {
	switch strings.ToLower(s) {
	case "foundation":
		return TierFoundation
	case "compute":
		return TierCompute
	case "application":
		return TierApplication
	case "configuration":
		return TierConfiguration
	default:
		return TierUnspecified
	}
}

// ResourceMetadata describes one deployable resource to the partitioning
// engine. Instances are created once per synthesis run and never mutated.
type ResourceMetadata struct {
	// ID is the globally unique, stable identifier of the resource.
	ID string
	// Type is the dot/slash-delimited provider type string, e.g.
	// "Microsoft.Storage/storageAccounts".
	Type string
	// SizeEstimate is the serialized size of the resource body in bytes.
	SizeEstimate int
	// Dependencies lists the ids of resources this resource depends on.
	Dependencies []string
	// TierPreference overrides tier classification when not
	// TierUnspecified.
	TierPreference Tier
	// RequiresSameDocument lists resource ids that must share this
	// resource's output document.
	RequiresSameDocument []string
}

// ProviderNamespace returns the top-level provider/namespace segment of the
// resource type, e.g. "Microsoft.Storage" for
// "Microsoft.Storage/storageAccounts".
func (r *ResourceMetadata) ProviderNamespace() string {
	if i := strings.IndexByte(r.Type, '/'); i >= 0 {
		return r.Type[:i]
	}
	return r.Type
}
