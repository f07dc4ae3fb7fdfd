// Package containing all structs and functions related to graph-like data
// structures used in phylocompare such as trees, clusters, and bipartitions
package graphs

import (
	"slices"

	"github.com/bits-and-blooms/bitset"
	"github.com/evolbioinfo/gotree/tree"
)

// Expanded tree struct containing necessary preprocessed data
type TreeData struct {
	tree.Tree
	Children  [][]*tree.Node   // Children for each node
	IdToNodes []*tree.Node     // Mapping between id and node pointer
	Depths    []int            // Distance from all nodes to the root
	NLeaves   int              // Number of leaves
	leafsets  []*bitset.BitSet // Leaves under each node
}

// Preprocess tree data and makes TreeData struct. Assumes the tip index has
// been updated (leafsets are indexed by tip index).
func MakeTreeData(tre *tree.Tree) *TreeData {
	children := children(tre)
	leafsets := calcLeafset(tre, children)
	depths := calcDepths(tre)
	idMap := mapIdToNodes(tre)
	return &TreeData{
		Tree:      *tre,
		Children:  children,
		IdToNodes: idMap,
		Depths:    depths,
		leafsets:  leafsets,
		NLeaves:   len(tre.AllTipNames()),
	}
}

// Create mapping from id to node pointer
func mapIdToNodes(tre *tree.Tree) []*tree.Node {
	idMap := make([]*tree.Node, len(tre.Nodes()))
	tre.PostOrder(func(cur, prev *tree.Node, e *tree.Edge) (keep bool) {
		idMap[cur.Id()] = cur
		return true
	})
	return idMap
}

// Calculate children for each node for quick access (as gotree's Tree only
// stores neighbors)
func children(tre *tree.Tree) [][]*tree.Node {
	nNodes := len(tre.Nodes())
	children := make([][]*tree.Node, nNodes)
	tre.PostOrder(func(cur, prev *tree.Node, e *tree.Edge) (keep bool) {
		if cur.Tip() {
			children[cur.Id()] = []*tree.Node{}
		} else {
			children[cur.Id()] = GetChildren(cur)
		}
		return true
	})
	return children
}

// Get children of node
func GetChildren(node *tree.Node) []*tree.Node {
	children := make([]*tree.Node, 0)
	p, err := node.Parent()
	if err != nil && err.Error() == "The node has more than one parent" {
		panic(err)
	}
	for _, u := range node.Neigh() {
		if u != p {
			children = append(children, u)
		}
	}
	return children
}

// Calculates the leafset for every node
func calcLeafset(tre *tree.Tree, children [][]*tree.Node) []*bitset.BitSet {
	nLeaves, err := tre.NbTips()
	if err != nil {
		panic(err)
	}
	nNodes := len(tre.Nodes())
	leafset := make([]*bitset.BitSet, nNodes)
	tre.PostOrder(func(cur, prev *tree.Node, e *tree.Edge) (keep bool) {
		if cur.Tip() {
			leafset[cur.Id()] = bitset.New(uint(nLeaves))
			leafset[cur.Id()].Set(uint(cur.TipIndex()))
		} else {
			leafset[cur.Id()] = leafset[children[cur.Id()][0].Id()].Clone()
			for i := range len(children[cur.Id()]) - 1 {
				leafset[cur.Id()].InPlaceUnion(leafset[children[cur.Id()][i+1].Id()])
			}
		}
		return true
	})
	return leafset
}

// Calculate depths for all nodes in tree (slice index = node id)
func calcDepths(tre *tree.Tree) []int {
	depths := make([]int, len(tre.Nodes()))
	tre.PreOrder(func(cur, prev *tree.Node, e *tree.Edge) (keep bool) {
		if cur != tre.Root() {
			depths[cur.Id()] = depths[prev.Id()] + 1
		}
		return true
	})
	return depths
}

// Leafset of a node (by id) as a bitset over tip indices
func (td *TreeData) Leafset(nID int) *bitset.BitSet {
	return td.leafsets[nID]
}

// Tip with index idx is in the leafset of node nID
func (td *TreeData) InLeafset(nID int, idx uint) bool {
	return td.leafsets[nID].Test(idx)
}

// Returns leafset as string for printing/testing. Tip indices follow the
// sorted order of tip names.
func (td *TreeData) LeafsetAsString(n *tree.Node) string {
	result := "{"
	tips := td.AllTipNames()
	slices.Sort(tips)
	for i := range len(tips) {
		if td.leafsets[n.Id()].Test(uint(i)) {
			result += tips[i] + ","
		}
	}
	return result[:len(result)-1] + "}"
}

// Reports whether every internal non-root node has exactly two children; the
// root must have two (rooted) or three (unrooted representation)
func (td *TreeData) FullyResolved(rooted bool) bool {
	resolved := true
	td.PostOrder(func(cur, prev *tree.Node, e *tree.Edge) (keep bool) {
		if cur.Tip() {
			return true
		}
		nc := len(td.Children[cur.Id()])
		if cur == td.Root() {
			resolved = resolved && (nc == 2 || !rooted && nc == 3)
		} else {
			resolved = resolved && nc == 2
		}
		return true
	})
	return resolved
}
