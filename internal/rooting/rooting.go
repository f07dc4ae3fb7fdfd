// Package implementing outgroup and midpoint rooting of phylogenetic trees.
// Rooting never modifies its input; the rooted topology is built as a fresh
// tree so repeated comparisons stay side-effect free.
package rooting

import (
	"errors"
	"fmt"

	"github.com/evolbioinfo/gotree/tree"
)

var (
	ErrMultipleOutgroups = errors.New("multiple outgroups not supported")
	ErrLabelNotFound     = errors.New("outgroup label not found")
	ErrAmbiguousMidpoint = errors.New("ambiguous midpoint")
	ErrNotRooted         = errors.New("not rooted")
)

type Method int

const (
	AlreadyRooted Method = iota // validated pass-through
	ByOutgroup
	ByMidpoint
)

type Mode struct {
	Method   Method
	Outgroup string // single outgroup tip label, ByOutgroup only
}

// Roots tre according to mode and returns a new rooted tree; tre itself is
// left unmodified.
func Root(tre *tree.Tree, mode Mode) (*tree.Tree, error) {
	switch mode.Method {
	case AlreadyRooted:
		if !tre.Rooted() {
			return nil, fmt.Errorf("tree is %w and no rooting method applies", ErrNotRooted)
		}
		return tre.Clone(), nil
	case ByOutgroup:
		return rootByOutgroup(tre, mode.Outgroup)
	case ByMidpoint:
		return rootByMidpoint(tre)
	default:
		panic(fmt.Sprintf("invalid rooting method (%d)", mode.Method))
	}
}

// Adjacency neighbor along one edge; length is the raw gotree branch length
// (negative when the tree carries no lengths)
type halfEdge struct {
	node   *tree.Node
	length float64
}

// Undirected adjacency view of the tree, built from its edge list
func adjacency(tre *tree.Tree) map[*tree.Node][]halfEdge {
	adj := make(map[*tree.Node][]halfEdge, len(tre.Nodes()))
	for _, e := range tre.Edges() {
		l, r := e.Left(), e.Right()
		adj[l] = append(adj[l], halfEdge{r, e.Length()})
		adj[r] = append(adj[r], halfEdge{l, e.Length()})
	}
	return adj
}

// Unit weight for edges without branch lengths
func weight(length float64) float64 {
	if length < 0 {
		return 1
	}
	return length
}

// Places the root on the pendant edge of the outgroup tip, yielding the two
// child clusters {outgroup} and {everything else}
func rootByOutgroup(tre *tree.Tree, label string) (*tree.Tree, error) {
	var out *tree.Node
	for _, tip := range tre.Tips() {
		if tip.Name() == label {
			out = tip
			break
		}
	}
	if out == nil {
		return nil, fmt.Errorf("%w: no tip named %q", ErrLabelNotFound, label)
	}
	adj := adjacency(tre)
	if len(adj[out]) != 1 {
		panic(fmt.Sprintf("outgroup tip %q is not a pendant node", label))
	}
	pendant := adj[out][0]
	return rebuild(adj, nil, &edgeSplit{
		u:   out,
		v:   pendant.node,
		du:  weight(pendant.length) / 2,
		raw: pendant.length,
	}), nil
}
