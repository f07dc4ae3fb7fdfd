package rooting

import (
	"github.com/evolbioinfo/gotree/tree"
)

// New root position strictly inside the edge u--v, at distance du from u
// (in unit weights when raw is negative, otherwise in branch length units)
type edgeSplit struct {
	u, v *tree.Node
	du   float64
	raw  float64 // original length of the split edge; negative when unset
}

// Builds a new rooted tree from src, rooted either at the existing node at
// (split == nil) or at a fresh node subdividing split.u--split.v. Degree-two
// nodes left over from the original root are suppressed, merging their two
// edges into one. The tip index is left for the caller to update.
func rebuild(adj map[*tree.Node][]halfEdge, at *tree.Node, split *edgeSplit) *tree.Tree {
	rooted := tree.NewTree()
	root := rooted.NewNode()
	rooted.SetRoot(root)
	if split != nil {
		lu, lv := splitLengths(split.raw, split.du)
		copySubtree(rooted, adj, root, split.u, split.v, lu)
		copySubtree(rooted, adj, root, split.v, split.u, lv)
	} else {
		for _, he := range adj[at] {
			copySubtree(rooted, adj, root, he.node, at, he.length)
		}
	}
	// fresh nodes carry NIL_ID; ConnectNodes does not assign ids
	for i, n := range rooted.Nodes() {
		n.SetId(i)
	}
	rooted.ReinitInternalIndexes()
	return rooted
}

// Lengths of the two halves of a split edge; they sum to the original
// length. Unweighted edges stay unweighted.
func splitLengths(raw, du float64) (float64, float64) {
	if raw < 0 {
		return -1, -1
	}
	return du, raw - du
}

// Copies the subtree hanging from cur (entered from from) under parent in
// dst, carrying over names and branch lengths
func copySubtree(dst *tree.Tree, adj map[*tree.Node][]halfEdge, parent *tree.Node, cur, from *tree.Node, length float64) {
	// suppress unifurcations left by the original root
	for !cur.Tip() && len(adj[cur]) == 2 {
		var next halfEdge
		for _, he := range adj[cur] {
			if he.node != from {
				next = he
			}
		}
		length = mergeLengths(length, next.length)
		from, cur = cur, next.node
	}
	node := dst.NewNode()
	node.SetName(cur.Name())
	edge := dst.ConnectNodes(parent, node)
	if length >= 0 {
		edge.SetLength(length)
	}
	for _, he := range adj[cur] {
		if he.node != from {
			copySubtree(dst, adj, node, he.node, cur, he.length)
		}
	}
}

// Sum of two possibly-unset branch lengths
func mergeLengths(a, b float64) float64 {
	switch {
	case a < 0 && b < 0:
		return -1
	case a < 0:
		return b
	case b < 0:
		return a
	default:
		return a + b
	}
}
