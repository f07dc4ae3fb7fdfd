package rooting

import (
	"errors"
	"math"
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/evolbioinfo/gotree/io/newick"
	"github.com/evolbioinfo/gotree/tree"

	"github.com/jsdoublel/phylocompare/internal/graphs"
)

func parseNewick(t *testing.T, nwk string) *tree.Tree {
	t.Helper()
	tre, err := newick.NewParser(strings.NewReader(nwk)).Parse()
	if err != nil {
		t.Fatalf("invalid newick tree; test is written wrong: %s", err)
	}
	return tre
}

func clusterSet(t *testing.T, tre *tree.Tree) []string {
	t.Helper()
	if err := tre.UpdateTipIndex(); err != nil {
		t.Fatal(err)
	}
	td := graphs.MakeTreeData(tre)
	tips := td.AllTipNames()
	slices.Sort(tips)
	result := make([]string, 0)
	for _, b := range td.Clusters().Values() {
		labels := make([]string, 0)
		for i, ok := b.NextSet(0); ok; i, ok = b.NextSet(i + 1) {
			labels = append(labels, tips[i])
		}
		result = append(result, strings.Join(labels, ","))
	}
	slices.Sort(result)
	return result
}

func TestRootByOutgroup(t *testing.T) {
	testCases := []struct {
		name        string
		tre         string
		outgroup    string
		expected    []string
		expectedErr error
	}{
		{
			name:     "outgroup inside",
			tre:      "(((A,B),C),(D,E));",
			outgroup: "C",
			expected: []string{"A,B", "A,B,D,E", "D,E"},
		},
		{
			name:     "outgroup at root",
			tre:      "((((A,B),C),D),E);",
			outgroup: "E",
			expected: []string{"A,B", "A,B,C", "A,B,C,D"},
		},
		{
			name:        "label not found",
			tre:         "(((A,B),C),(D,E));",
			outgroup:    "Z",
			expectedErr: ErrLabelNotFound,
		},
	}
	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			tre := parseNewick(t, test.tre)
			rooted, err := Root(tre, Mode{Method: ByOutgroup, Outgroup: test.outgroup})
			switch {
			case !errors.Is(err, test.expectedErr):
				t.Errorf("failed with unexpected error %+v", err)
			case errors.Is(err, test.expectedErr) && err != nil:
				t.Logf("%s", err)
			default:
				clusters := clusterSet(t, rooted)
				if !reflect.DeepEqual(clusters, test.expected) {
					t.Errorf("wrong cluster set (%v != %v)", clusters, test.expected)
				}
				if !rooted.Rooted() {
					t.Error("result tree is not rooted")
				}
			}
		})
	}
}

func TestRootByOutgroupIdempotent(t *testing.T) {
	tre := parseNewick(t, "(((A,B),C),(D,E));")
	once, err := Root(tre, Mode{Method: ByOutgroup, Outgroup: "C"})
	if err != nil {
		t.Fatal(err)
	}
	twice, err := Root(once.Clone(), Mode{Method: ByOutgroup, Outgroup: "C"})
	if err != nil {
		t.Fatal(err)
	}
	c1, c2 := clusterSet(t, once), clusterSet(t, twice)
	if !reflect.DeepEqual(c1, c2) {
		t.Errorf("outgroup rooting is not idempotent (%v != %v)", c1, c2)
	}
}

func TestRootByMidpoint(t *testing.T) {
	testCases := []struct {
		name        string
		tre         string
		expected    []string
		expectedErr error
	}{
		{
			name:     "midpoint on existing node",
			tre:      "((A:1,B:4):1,(C:2,D:3):2);",
			expected: []string{"A,B", "C,D"},
		},
		{
			name:     "midpoint on existing node unweighted",
			tre:      "((A,B),(C,D));",
			expected: []string{"A,B", "C,D"},
		},
		{
			name:     "midpoint inside edge",
			tre:      "((A:1,B:2):1,C:5);",
			expected: []string{"A,B"},
		},
		{
			name:        "zero diameter",
			tre:         "(A:0,B:0,C:0);",
			expectedErr: ErrAmbiguousMidpoint,
		},
	}
	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			tre := parseNewick(t, test.tre)
			rooted, err := Root(tre, Mode{Method: ByMidpoint})
			switch {
			case !errors.Is(err, test.expectedErr):
				t.Errorf("failed with unexpected error %+v", err)
			case errors.Is(err, test.expectedErr) && err != nil:
				t.Logf("%s", err)
			default:
				clusters := clusterSet(t, rooted)
				if !reflect.DeepEqual(clusters, test.expected) {
					t.Errorf("wrong cluster set (%v != %v)", clusters, test.expected)
				}
			}
		})
	}
}

// The split edge's two halves must sum to the original edge length
func TestMidpointSplitLengths(t *testing.T) {
	tre := parseNewick(t, "((A:1,B:2):1,C:5);")
	rooted, err := Root(tre, Mode{Method: ByMidpoint})
	if err != nil {
		t.Fatal(err)
	}
	var tipLen, internalLen float64 = -1, -1
	for _, e := range rooted.Edges() {
		if e.Left() != rooted.Root() {
			continue
		}
		if e.Right().Tip() {
			tipLen = e.Length()
		} else {
			internalLen = e.Length()
		}
	}
	// diameter B--C is 8, so the root lands 4 from C inside the C edge;
	// the other half (1) merges with the suppressed old root's edge (1)
	if math.Abs(tipLen-4) > 1e-9 {
		t.Errorf("wrong pendant edge length under root (%f != 4)", tipLen)
	}
	if math.Abs(internalLen-2) > 1e-9 {
		t.Errorf("wrong internal edge length under root (%f != 2)", internalLen)
	}
}

func TestAlreadyRooted(t *testing.T) {
	testCases := []struct {
		name        string
		tre         string
		expectedErr error
	}{
		{name: "rooted passes", tre: "(((A,B),C),D);"},
		{name: "unrooted fails", tre: "(A,B,(C,D));", expectedErr: ErrNotRooted},
	}
	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			tre := parseNewick(t, test.tre)
			rooted, err := Root(tre, Mode{Method: AlreadyRooted})
			switch {
			case !errors.Is(err, test.expectedErr):
				t.Errorf("failed with unexpected error %+v", err)
			case errors.Is(err, test.expectedErr) && err != nil:
				t.Logf("%s", err)
			default:
				if c1, c2 := clusterSet(t, rooted), clusterSet(t, parseNewick(t, test.tre)); !reflect.DeepEqual(c1, c2) {
					t.Errorf("pass-through changed the cluster set (%v != %v)", c1, c2)
				}
			}
		})
	}
}

// Rebuilt trees must carry valid, distinct node ids so they can be indexed
// by id downstream
func TestRootAssignsNodeIds(t *testing.T) {
	for _, mode := range []Mode{
		{Method: ByOutgroup, Outgroup: "C"},
		{Method: ByMidpoint},
	} {
		tre := parseNewick(t, "(((A:1,B:2):1,C:3):1,(D:1,E:2):2);")
		rooted, err := Root(tre, mode)
		if err != nil {
			t.Fatal(err)
		}
		seen := make(map[int]bool)
		for _, n := range rooted.Nodes() {
			if n.Id() < 0 {
				t.Errorf("mode %d produced node %q with unset id", mode.Method, n.Name())
			}
			if seen[n.Id()] {
				t.Errorf("mode %d produced duplicate node id %d", mode.Method, n.Id())
			}
			seen[n.Id()] = true
		}
	}
}

// Rooting must not modify the input tree
func TestRootLeavesInputUnmodified(t *testing.T) {
	nwk := "(((A:1,B:2):1,C:3):1,(D:1,E:2):2);"
	tre := parseNewick(t, nwk)
	before := tre.Newick()
	for _, mode := range []Mode{
		{Method: ByOutgroup, Outgroup: "C"},
		{Method: ByMidpoint},
		{Method: AlreadyRooted},
	} {
		if _, err := Root(tre, mode); err != nil {
			t.Fatal(err)
		}
		if after := tre.Newick(); after != before {
			t.Errorf("mode %d modified the input tree (%s != %s)", mode.Method, after, before)
		}
	}
}
