// Package implementing the tree distance metrics: Robinson-Foulds,
// Matching Cluster, and Lin-Rajan-Moret
package dist

import (
	"github.com/jsdoublel/phylocompare/internal/graphs"
)

// Robinson-Foulds distance: number of clusters (or canonical bipartitions)
// present in exactly one of the two sets
func RobinsonFoulds(set1, set2 graphs.ClusterSet) int {
	d := 0
	for key := range set1 {
		if _, ok := set2[key]; !ok {
			d++
		}
	}
	for key := range set2 {
		if _, ok := set1[key]; !ok {
			d++
		}
	}
	return d
}
