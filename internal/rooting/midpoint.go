package rooting

import (
	"fmt"
	"math"

	"github.com/evolbioinfo/gotree/tree"
)

const distEps = 1e-9

// Distances and parent pointers from a single-source sweep, plus the
// farthest tip reached
type sweep struct {
	dist   map[*tree.Node]float64
	parent map[*tree.Node]*tree.Node
	plen   map[*tree.Node]float64 // raw length of the edge to the parent
	far    *tree.Node
}

// Places the root at the midpoint of the tree's diameter path (its longest
// leaf-to-leaf path by summed branch length; unit weights when the tree has
// no lengths). The midpoint either coincides with a node on the path or
// falls strictly inside an edge, which is then split in two.
func rootByMidpoint(tre *tree.Tree) (*tree.Tree, error) {
	tips := tre.Tips()
	if len(tips) < 2 {
		return nil, fmt.Errorf("%w, tree has fewer than two leaves", ErrAmbiguousMidpoint)
	}
	adj := adjacency(tre)
	// double sweep: the farthest tip from any tip is a diameter endpoint
	first := sweepFrom(adj, tips[0])
	second := sweepFrom(adj, first.far)
	total := second.dist[second.far]
	if total < distEps {
		return nil, fmt.Errorf("%w, tree diameter is zero", ErrAmbiguousMidpoint)
	}
	// diameter path from one endpoint to the other
	path := make([]*tree.Node, 0)
	for cur := second.far; cur != nil; cur = second.parent[cur] {
		path = append(path, cur)
	}
	// walk the path from the sweep source towards the far tip
	half := total / 2
	for i := len(path) - 1; i > 0; i-- {
		below, above := path[i-1], path[i]
		if math.Abs(second.dist[above]-half) < distEps {
			if above.Tip() {
				return nil, fmt.Errorf("%w, midpoint falls on a leaf", ErrAmbiguousMidpoint)
			}
			return rebuild(adj, above, nil), nil
		}
		if second.dist[below] > half+distEps {
			return rebuild(adj, nil, &edgeSplit{
				u:   above,
				v:   below,
				du:  half - second.dist[above],
				raw: second.plen[below],
			}), nil
		}
	}
	return nil, fmt.Errorf("%w, midpoint not on diameter path", ErrAmbiguousMidpoint)
}

// Iterative depth-first sweep from start recording weighted distances,
// parent pointers, and the farthest tip
func sweepFrom(adj map[*tree.Node][]halfEdge, start *tree.Node) sweep {
	s := sweep{
		dist:   map[*tree.Node]float64{start: 0},
		parent: make(map[*tree.Node]*tree.Node),
		plen:   make(map[*tree.Node]float64),
		far:    start,
	}
	stack := []*tree.Node{start}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur.Tip() && s.dist[cur] > s.dist[s.far] {
			s.far = cur
		}
		for _, he := range adj[cur] {
			if he.node == s.parent[cur] {
				continue
			}
			s.parent[he.node] = cur
			s.plen[he.node] = he.length
			s.dist[he.node] = s.dist[cur] + weight(he.length)
			stack = append(stack, he.node)
		}
	}
	return s
}
