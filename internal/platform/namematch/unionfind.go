package namematch

// UnionFind groups identifiers into disjoint sets. The roster linker uses it
// to cluster player identities the matcher considers the same person.
type UnionFind struct {
	parent map[string]string
	rank   map[string]int
}

func NewUnionFind() *UnionFind {
	return &UnionFind{
		parent: make(map[string]string),
		rank:   make(map[string]int),
	}
}

// Find returns the set representative for id, with path compression.
func (u *UnionFind) Find(id string) string {
	if _, ok := u.parent[id]; !ok {
		u.parent[id] = id
		u.rank[id] = 0
		return id
	}

	root := id
	for u.parent[root] != root {
		root = u.parent[root]
	}
	for u.parent[id] != root {
		next := u.parent[id]
		u.parent[id] = root
		id = next
	}
	return root
}

// Union merges the sets containing a and b, by rank.
func (u *UnionFind) Union(a, b string) {
	rootA := u.Find(a)
	rootB := u.Find(b)
	if rootA == rootB {
		return
	}

	switch {
	case u.rank[rootA] < u.rank[rootB]:
		u.parent[rootA] = rootB
	case u.rank[rootA] > u.rank[rootB]:
		u.parent[rootB] = rootA
	default:
		u.parent[rootB] = rootA
		u.rank[rootA]++
	}
}

// Groups partitions ids by set and returns only clusters with at least two
// members. Singletons are not duplicates, so they are dropped. Cluster order
// follows the first appearance of each set in ids; member order follows ids.
func (u *UnionFind) Groups(ids []string) [][]string {
	byRoot := make(map[string][]string, len(ids))
	order := make([]string, 0, len(ids))
	for _, id := range ids {
		root := u.Find(id)
		if _, seen := byRoot[root]; !seen {
			order = append(order, root)
		}
		byRoot[root] = append(byRoot[root], id)
	}

	out := make([][]string, 0, len(order))
	for _, root := range order {
		if members := byRoot[root]; len(members) >= 2 {
			out = append(out, members)
		}
	}
	return out
}
