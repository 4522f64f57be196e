package dedup

import (
	"sort"

	"freepress/internal/model"
)

// GroupPairs merges pairs that share an id into clusters. Members are
// ordered by their position in outlets, so the first id of every group is
// the earliest record and the one kept on merge. A group's match type is
// that of the first pair that touched it.
func GroupPairs(outlets []model.Outlet, pairs []model.DuplicatePair) []model.DuplicateGroup {
	if len(pairs) == 0 {
		return nil
	}
	index := make(map[string]int, len(outlets))
	for i, o := range outlets {
		index[o.ID] = i
	}

	parent := map[string]string{}
	var find func(string) string
	find = func(id string) string {
		p, ok := parent[id]
		if !ok || p == id {
			parent[id] = id
			return id
		}
		root := find(p)
		parent[id] = root
		return root
	}
	pos := func(id string) int {
		if i, ok := index[id]; ok {
			return i
		}
		return len(outlets)
	}
	union := func(a, b string) {
		ra, rb := find(a), find(b)
		if ra == rb {
			return
		}
		// keep the earliest record as root
		if pos(rb) < pos(ra) {
			ra, rb = rb, ra
		}
		parent[rb] = ra
	}

	firstType := map[string]model.MatchType{}
	for _, p := range pairs {
		union(p.Outlet1.ID, p.Outlet2.ID)
	}
	for _, p := range pairs {
		root := find(p.Outlet1.ID)
		if _, ok := firstType[root]; !ok {
			firstType[root] = p.MatchType
		}
	}

	members := map[string][]string{}
	for id := range parent {
		root := find(id)
		members[root] = append(members[root], id)
	}

	roots := make([]string, 0, len(members))
	for root, ids := range members {
		sort.Slice(ids, func(i, j int) bool { return pos(ids[i]) < pos(ids[j]) })
		roots = append(roots, root)
	}
	sort.Slice(roots, func(i, j int) bool { return pos(roots[i]) < pos(roots[j]) })

	names := make(map[string]string, len(outlets))
	for _, o := range outlets {
		names[o.ID] = o.Name
	}
	groups := make([]model.DuplicateGroup, 0, len(roots))
	for _, root := range roots {
		ids := members[root]
		groups = append(groups, model.DuplicateGroup{
			Name:      names[ids[0]],
			IDs:       ids,
			Count:     len(ids),
			MatchType: firstType[root],
		})
	}
	return groups
}

// RemovalSet applies the keep-first policy: every id after the first of
// each group is queued for removal.
func RemovalSet(groups []model.DuplicateGroup) []string {
	var ids []string
	for _, g := range groups {
		if len(g.IDs) > 1 {
			ids = append(ids, g.IDs[1:]...)
		}
	}
	return ids
}
