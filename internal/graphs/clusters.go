package graphs

import (
	"maps"
	"slices"

	"github.com/bits-and-blooms/bitset"
	"github.com/evolbioinfo/gotree/tree"
)

// Set of clusters (rooted) or canonical bipartition sides (unrooted), keyed
// by the bitset's string form so that equal leafsets from different trees
// compare equal
type ClusterSet map[string]*bitset.BitSet

// Clusters induced by the tree topology: the leafset of every internal
// non-root node. The root's trivial cluster (the full leaf set) carries no
// distance information and is excluded, as are the singleton tip clusters.
func (td *TreeData) Clusters() ClusterSet {
	clusters := make(ClusterSet)
	td.PostOrder(func(cur, prev *tree.Node, e *tree.Edge) (keep bool) {
		if cur.Tip() || cur == td.Root() {
			return true
		}
		ls := td.leafsets[cur.Id()]
		clusters[ls.String()] = ls
		return true
	})
	return clusters
}

// Bipartitions induced by the internal edges of the tree, read as unrooted.
// Each bipartition is canonicalized to the side not containing tip index 0,
// so equal bipartitions from different traversals get equal keys; the two
// edges at a degree-two root collapse to the same bipartition. Trivial
// bipartitions (a single tip on either side) are excluded.
func (td *TreeData) Bipartitions() ClusterSet {
	n := uint(td.NLeaves)
	bipartitions := make(ClusterSet)
	td.PostOrder(func(cur, prev *tree.Node, e *tree.Edge) (keep bool) {
		if cur.Tip() || cur == td.Root() {
			return true
		}
		side := td.leafsets[cur.Id()]
		if side.Test(0) {
			side = side.Complement()
		}
		if count := side.Count(); count <= 1 || count >= n-1 {
			return true
		}
		bipartitions[side.String()] = side
		return true
	})
	return bipartitions
}

// Leafsets in deterministic (key sorted) order
func (cs ClusterSet) Values() []*bitset.BitSet {
	values := make([]*bitset.BitSet, 0, len(cs))
	for _, k := range slices.Sorted(maps.Keys(cs)) {
		values = append(values, cs[k])
	}
	return values
}

// Returns the symmetric difference between the tip name sets of two trees
// (empty when the trees share the same leaf label universe)
func DiffTipSets(tre1, tre2 *tree.Tree) []string {
	seen := make(map[string]int)
	for _, name := range tre1.AllTipNames() {
		seen[name] |= 1
	}
	for _, name := range tre2.AllTipNames() {
		seen[name] |= 2
	}
	diff := make([]string, 0)
	for name, mask := range seen {
		if mask != 3 {
			diff = append(diff, name)
		}
	}
	slices.Sort(diff)
	return diff
}
