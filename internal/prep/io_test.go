package prep

import (
	"bytes"
	"errors"
	"reflect"
	"slices"
	"testing"

	"github.com/jsdoublel/phylocompare/internal/compare"
)

func TestReadInputTrees(t *testing.T) {
	testCases := []struct {
		name        string
		treeFile1   string
		treeFile2   string
		format      string
		taxaset     []string
		expectedErr error
	}{
		{
			name:        "basic",
			treeFile1:   "testdata/tree1.nwk",
			treeFile2:   "testdata/tree2.nwk",
			format:      "newick",
			taxaset:     []string{"A", "B", "C", "D", "E"},
			expectedErr: nil,
		},
		{
			name:        "bad tree",
			treeFile1:   "testdata/badtree.nwk",
			treeFile2:   "testdata/tree2.nwk",
			format:      "newick",
			expectedErr: ErrInvalidFormat,
		},
		{
			name:        "empty tree file",
			treeFile1:   "testdata/tree1.nwk",
			treeFile2:   "testdata/empty.nwk",
			format:      "newick",
			expectedErr: ErrInvalidFile,
		},
		{
			name:        "more than one tree",
			treeFile1:   "testdata/two.nwk",
			treeFile2:   "testdata/tree2.nwk",
			format:      "newick",
			expectedErr: ErrInvalidFile,
		},
		{
			name:        "basic nexus",
			treeFile1:   "testdata/tree1.nex",
			treeFile2:   "testdata/tree1.nex",
			format:      "nexus",
			taxaset:     []string{"A", "B", "C", "D", "E"},
			expectedErr: nil,
		},
	}
	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			tre1, tre2, err := ReadInputTrees(test.treeFile1, test.treeFile2, ParseFormat[test.format])
			switch {
			case !errors.Is(err, test.expectedErr):
				t.Errorf("failed with unexpected error %+v", err)
			case errors.Is(err, test.expectedErr) && err != nil:
				t.Logf("%s", err)
			default:
				taxaset1, taxaset2 := tre1.AllTipNames(), tre2.AllTipNames()
				slices.Sort(taxaset1)
				slices.Sort(taxaset2)
				if !reflect.DeepEqual(taxaset1, test.taxaset) {
					t.Errorf("taxaset of first tree not equal to expected (%v != %v)", taxaset1, test.taxaset)
				}
				if !reflect.DeepEqual(taxaset2, test.taxaset) {
					t.Errorf("taxaset of second tree not equal to expected (%v != %v)", taxaset2, test.taxaset)
				}
			}
		})
	}
}

func TestWriteDistances(t *testing.T) {
	ptr := func(d int) *int { return &d }
	header := "#robinson_foulds_distance\tmatching_cluster_distance\tlin-rajan-moret_distance\n"
	testCases := []struct {
		name     string
		result   compare.DistanceResult
		expected string
	}{
		{
			name:     "all present",
			result:   compare.DistanceResult{RF: ptr(2), MC: ptr(4), LRM: ptr(3)},
			expected: header + "2\t4\t3\n",
		},
		{
			name:     "rooted metrics only",
			result:   compare.DistanceResult{RF: ptr(0), MC: ptr(0)},
			expected: header + "0\t0\t\n",
		},
		{
			name:     "unrooted metrics only",
			result:   compare.DistanceResult{RF: ptr(2), LRM: ptr(2)},
			expected: header + "2\t\t2\n",
		},
		{
			name:     "zero distinguishable from absent",
			result:   compare.DistanceResult{MC: ptr(0)},
			expected: header + "\t0\t\n",
		},
	}
	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteDistances(&test.result, &buf); err != nil {
				t.Errorf("failed with unexpected error %+v", err)
			}
			if buf.String() != test.expected {
				t.Errorf("wrong results output (%q != %q)", buf.String(), test.expected)
			}
		})
	}
}
