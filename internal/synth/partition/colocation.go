package partition

import "github.com/armforge/armforge/internal/synth/metadata"

// enforceCoLocation merges groups until every RequiresSameDocument
// constraint is satisfied, transitively. When a resource requires another
// resource's co-location, the other resource's entire group is folded into
// the group holding the requiring resource, so already-satisfied
// constraints inside either group stay satisfied.
//
// The merge runs to a fixed point: each full pass either merges at least
// two groups (strictly decreasing group count) or terminates, so the loop
// is bounded by the initial number of groups. The result is a symmetric and
// transitive closure; if A requires B and B requires C, all three share one
// group regardless of input order.
//
// Returns the ids of resources moved out of their original group, for
// placement reporting.
func enforceCoLocation(list *groupList, resources []*metadata.ResourceMetadata) []string {
	groupOf := make(map[string]string)
	for _, g := range list.groups() {
		for _, id := range g.ResourceIDs {
			groupOf[id] = g.Name
		}
	}

	var moved []string
	for {
		merged := false
		for _, r := range resources {
			home, ok := groupOf[r.ID]
			if !ok {
				continue
			}
			for _, other := range r.RequiresSameDocument {
				otherGroup, ok := groupOf[other]
				if !ok || otherGroup == home {
					continue
				}
				moved = append(moved, mergeGroups(list, groupOf, home, otherGroup)...)
				merged = true
			}
		}
		if !merged {
			return moved
		}
	}
}

// mergeGroups folds the source group into the destination group and returns
// the moved resource ids.
func mergeGroups(list *groupList, groupOf map[string]string, dst, src string) []string {
	from := list.byName[src]
	to := list.byName[dst]
	moved := make([]string, 0, len(from.ResourceIDs))
	for _, id := range from.ResourceIDs {
		to.ResourceIDs = append(to.ResourceIDs, id)
		groupOf[id] = dst
		moved = append(moved, id)
	}
	to.SizeTotal += from.SizeTotal
	list.remove(src)
	return moved
}
