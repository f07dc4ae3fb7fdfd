package dist

import (
	"math"

	"github.com/bits-and-blooms/bitset"
	"gonum.org/v1/gonum/mat"

	"github.com/jsdoublel/phylocompare/internal/graphs"
)

// Matching cluster distance (rooted trees): minimum-cost assignment between
// the two cluster sets, where matching cluster A with cluster B costs the
// size of the symmetric difference of their leaf sets and an unmatched
// cluster costs its own size. Rewards near-matches where Robinson-Foulds
// only counts exact ones.
func MatchingCluster(set1, set2 graphs.ClusterSet) int {
	return matchingDistance(set1.Values(), set2.Values(),
		func(a, b *bitset.BitSet) float64 {
			return float64(a.SymmetricDifferenceCardinality(b))
		},
		func(a *bitset.BitSet) float64 {
			return float64(a.Count())
		})
}

// Lin-Rajan-Moret distance (unrooted trees): minimum-cost assignment between
// the two bipartition sets. A bipartition matches either orientation of the
// other, so matching costs min(|A xor B|, n - |A xor B|) and an unmatched
// bipartition costs the size of its smaller side.
func LinRajanMoret(set1, set2 graphs.ClusterSet, nLeaves int) int {
	n := float64(nLeaves)
	return matchingDistance(set1.Values(), set2.Values(),
		func(a, b *bitset.BitSet) float64 {
			return math.Min(float64(a.SymmetricDifferenceCardinality(b)), n-float64(a.SymmetricDifferenceCardinality(b)))
		},
		func(a *bitset.BitSet) float64 {
			return math.Min(float64(a.Count()), n-float64(a.Count()))
		})
}

// Solves the assignment problem over the two leafset slices. The cost matrix
// is padded to square with unmatched penalties so the sets may differ in
// size.
func matchingDistance(a, b []*bitset.BitSet, cost func(a, b *bitset.BitSet) float64, penalty func(*bitset.BitSet) float64) int {
	k := max(len(a), len(b))
	if k == 0 {
		return 0
	}
	costs := mat.NewDense(k, k, nil)
	for i := range k {
		for j := range k {
			switch {
			case i < len(a) && j < len(b):
				costs.Set(i, j, cost(a[i], b[j]))
			case i < len(a):
				costs.Set(i, j, penalty(a[i]))
			case j < len(b):
				costs.Set(i, j, penalty(b[j]))
			}
		}
	}
	return int(math.Round(assignmentCost(costs)))
}
