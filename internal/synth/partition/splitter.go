package partition

import (
	"strconv"

	"github.com/armforge/armforge/internal/synth/metadata"
)

// splitOversized subdivides every group that exceeds the size ceiling or
// the resource-count maximum into ordered, size-bounded sub-groups. The
// split is a single greedy pass in original resource order; resources are
// never reordered relative to each other. Sub-groups are numbered
// "name", "name-1", "name-2", and so on.
//
// A single resource larger than the ceiling becomes a sub-group of its own
// rather than an error. The ceiling is best effort, not a guarantee.
//
// Returns the ids of resources moved out of the first sub-group, for
// placement reporting, and a warning per oversized singleton.
func splitOversized(list *groupList, sizes map[string]int, maxSize, maxCount int) (moved []string, oversized []string) {
	for _, name := range append([]string(nil), list.names...) {
		g := list.byName[name]
		if g.SizeTotal <= maxSize && len(g.ResourceIDs) <= maxCount {
			continue
		}

		ids := g.ResourceIDs
		list.remove(name)

		part := 0
		var cur *Group
		flush := func() {
			subName := name
			if part > 0 {
				subName = name + "-" + strconv.Itoa(part)
			}
			// The base name or a numbered suffix may already be taken by
			// another group; skip forward instead of clobbering it.
			for list.byName[subName] != nil {
				part++
				subName = name + "-" + strconv.Itoa(part)
			}
			cur = &Group{Name: subName}
			list.byName[subName] = cur
			list.names = append(list.names, subName)
			part++
		}
		flush()

		for _, id := range ids {
			size := sizes[id]
			fits := cur.SizeTotal+size <= maxSize && len(cur.ResourceIDs) < maxCount
			if len(cur.ResourceIDs) > 0 && !fits {
				flush()
			}
			cur.ResourceIDs = append(cur.ResourceIDs, id)
			cur.SizeTotal += size
			if part > 1 {
				moved = append(moved, id)
			}
			if size > maxSize {
				oversized = append(oversized, id)
			}
		}
	}
	return moved, oversized
}

// splitWithAffinity is the legacy splitting path used before per-resource
// metadata carried explicit co-location sets. It behaves like
// splitOversized but keeps a resource in the current sub-group when it has
// strong affinity with any resource already in it, even past the ceiling.
// The affinity check includes the textual name-containment heuristic; see
// metadata.AffinityTable.
func splitWithAffinity(list *groupList, resources map[string]*metadata.ResourceMetadata, affinity *metadata.AffinityTable, maxSize, maxCount int) (moved []string) {
	for _, name := range append([]string(nil), list.names...) {
		g := list.byName[name]
		if g.SizeTotal <= maxSize && len(g.ResourceIDs) <= maxCount {
			continue
		}

		ids := g.ResourceIDs
		list.remove(name)

		part := 0
		var cur *Group
		flush := func() {
			subName := name
			if part > 0 {
				subName = name + "-" + strconv.Itoa(part)
			}
			for list.byName[subName] != nil {
				part++
				subName = name + "-" + strconv.Itoa(part)
			}
			cur = &Group{Name: subName}
			list.byName[subName] = cur
			list.names = append(list.names, subName)
			part++
		}
		flush()

		for _, id := range ids {
			r := resources[id]
			fits := cur.SizeTotal+r.SizeEstimate <= maxSize && len(cur.ResourceIDs) < maxCount
			if len(cur.ResourceIDs) > 0 && !fits && !affineToAny(cur, r, resources, affinity) {
				flush()
			}
			cur.ResourceIDs = append(cur.ResourceIDs, id)
			cur.SizeTotal += r.SizeEstimate
			if part > 1 {
				moved = append(moved, id)
			}
		}
	}
	return moved
}

func affineToAny(g *Group, child *metadata.ResourceMetadata, resources map[string]*metadata.ResourceMetadata, affinity *metadata.AffinityTable) bool {
	for _, id := range g.ResourceIDs {
		if parent, ok := resources[id]; ok && affinity.HasStrongAffinity(parent, child) {
			return true
		}
	}
	return false
}
