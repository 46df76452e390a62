package entropy

// UnionFind is a disjoint-set structure with path compression and
// union by rank. Each state owns two instances (one per player), each
// sized Cells+2 to hold the virtual edge terminals.
type UnionFind struct {
	parent []int32
	rank   []int8
}

func NewUnionFind(size int) *UnionFind {
	parent := make([]int32, size)
	for i := range parent {
		parent[i] = int32(i)
	}
	return &UnionFind{
		parent: parent,
		rank:   make([]int8, size),
	}
}

// Clone returns a full value copy, used when a state branches.
func (u *UnionFind) Clone() *UnionFind {
	parent := make([]int32, len(u.parent))
	copy(parent, u.parent)
	rank := make([]int8, len(u.rank))
	copy(rank, u.rank)
	return &UnionFind{parent: parent, rank: rank}
}

// Find returns the set representative of i, compressing the path so
// repeated queries stay near O(1) amortized.
func (u *UnionFind) Find(i int) int {
	root := i
	for root != int(u.parent[root]) {
		root = int(u.parent[root])
	}
	for i != root {
		next := int(u.parent[i])
		u.parent[i] = int32(root)
		i = next
	}
	return root
}

// Union merges the sets containing i and j by rank.
func (u *UnionFind) Union(i, j int) {
	ri, rj := u.Find(i), u.Find(j)
	if ri == rj {
		return
	}
	switch {
	case u.rank[ri] < u.rank[rj]:
		u.parent[ri] = int32(rj)
	case u.rank[ri] > u.rank[rj]:
		u.parent[rj] = int32(ri)
	default:
		u.parent[rj] = int32(ri)
		u.rank[ri]++
	}
}

// Connected reports whether i and j are in the same set.
func (u *UnionFind) Connected(i, j int) bool {
	return u.Find(i) == u.Find(j)
}
