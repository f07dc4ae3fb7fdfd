package dist

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Minimum total cost of a perfect matching in the square cost matrix, found
// with the Hungarian algorithm (potentials formulation, O(k^3)). Rows and
// columns are 1-indexed internally; column 0 is the virtual unassigned
// column.
func assignmentCost(cost *mat.Dense) float64 {
	n, m := cost.Dims()
	if n != m {
		panic("assignment cost matrix must be square")
	}
	u := make([]float64, n+1)      // row potentials
	v := make([]float64, n+1)      // column potentials
	match := make([]int, n+1)      // match[j] = row assigned to column j
	way := make([]int, n+1)        // alternating path back-pointers
	for i := 1; i <= n; i++ {
		match[0] = i
		j0 := 0
		minv := make([]float64, n+1)
		used := make([]bool, n+1)
		for j := range minv {
			minv[j] = math.Inf(1)
		}
		for {
			used[j0] = true
			i0, j1 := match[j0], 0
			delta := math.Inf(1)
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := cost.At(i0-1, j-1) - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[match[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if match[j0] == 0 {
				break
			}
		}
		// augment along the alternating path
		for j0 != 0 {
			j1 := way[j0]
			match[j0] = match[j1]
			j0 = j1
		}
	}
	total := 0.0
	for j := 1; j <= n; j++ {
		total += cost.At(match[j]-1, j-1)
	}
	return total
}
