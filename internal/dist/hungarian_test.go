package dist

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestAssignmentCost(t *testing.T) {
	testCases := []struct {
		name     string
		size     int
		costs    []float64
		expected float64
	}{
		{
			name:     "single cell",
			size:     1,
			costs:    []float64{7},
			expected: 7,
		},
		{
			name:     "two by two",
			size:     2,
			costs:    []float64{2, 1, 1, 2},
			expected: 2,
		},
		{
			name: "three by three",
			size: 3,
			costs: []float64{
				4, 1, 3,
				2, 0, 5,
				3, 2, 2,
			},
			expected: 5,
		},
		{
			name: "diagonal not optimal",
			size: 3,
			costs: []float64{
				1, 2, 3,
				2, 4, 6,
				3, 6, 9,
			},
			expected: 10, // anti-diagonal: 3 + 4 + 3
		},
		{
			name: "zero matrix",
			size: 3,
			costs: []float64{
				0, 0, 0,
				0, 0, 0,
				0, 0, 0,
			},
			expected: 0,
		},
	}
	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			cost := mat.NewDense(test.size, test.size, test.costs)
			if total := assignmentCost(cost); math.Abs(total-test.expected) > 1e-9 {
				t.Errorf("wrong assignment cost (%f != %f)", total, test.expected)
			}
		})
	}
}
