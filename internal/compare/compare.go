// Package implementing the comparison orchestrator: it validates the rooting
// configuration, roots both trees, extracts their cluster or bipartition
// sets, and runs the selected distance metrics.
package compare

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/evolbioinfo/gotree/tree"
	"golang.org/x/sync/errgroup"

	"github.com/jsdoublel/phylocompare/internal/dist"
	"github.com/jsdoublel/phylocompare/internal/graphs"
	"github.com/jsdoublel/phylocompare/internal/rooting"
)

var (
	ErrConflictingRooting = errors.New("conflicting rooting modes")
	ErrNoRootingMethod    = errors.New("no rooting method provided")
	ErrIncompatibleMetric = errors.New("incompatible metric")
	ErrLeafSetMismatch    = errors.New("leaf sets do not match")
	ErrDuplicateLabels    = errors.New("contains duplicate labels")
)

type Options struct {
	Outgroup []string // outgroup tip labels (only a single one is supported)
	Midpoint bool     // root trees at midpoint
	Unrooted bool     // compare unrooted trees
	RF       bool     // calculate Robinson-Foulds distance
	MC       bool     // calculate matching cluster distance
	LRM      bool     // calculate Lin-Rajan-Moret distance
	NProcs   int      // number of parallel processes
	Debug    bool     // log extra diagnostics
}

// Result of one comparison. A nil field means the metric was not computed
// (not requested, or not applicable to the rootedness mode), which is
// distinct from a computed distance of zero.
type DistanceResult struct {
	RF  *int
	MC  *int
	LRM *int
}

// Checks the rooting mode state machine and metric compatibility. Exactly
// one of outgroup, midpoint, or unrooted must be selected; explicitly
// requesting a metric incompatible with the chosen rootedness is rejected
// rather than silently ignored.
func (opts *Options) Validate() error {
	hasRooting := len(opts.Outgroup) > 0 || opts.Midpoint
	switch {
	case len(opts.Outgroup) > 0 && opts.Midpoint:
		return fmt.Errorf("%w, cannot root trees at midpoint and with outgroup simultaneously", ErrConflictingRooting)
	case opts.Unrooted && hasRooting:
		return fmt.Errorf("%w, unrooted and rooting options simultaneously specified", ErrConflictingRooting)
	case !opts.Unrooted && !hasRooting:
		return fmt.Errorf("%w, rooting is required unless unrooted comparison is requested", ErrNoRootingMethod)
	case len(opts.Outgroup) > 1:
		return fmt.Errorf("%w (%d given)", rooting.ErrMultipleOutgroups, len(opts.Outgroup))
	}
	switch {
	case opts.Unrooted && opts.MC:
		return fmt.Errorf("%w, matching cluster distance requires rooted trees", ErrIncompatibleMetric)
	case !opts.Unrooted && opts.LRM:
		return fmt.Errorf("%w, lin-rajan-moret distance requires unrooted trees", ErrIncompatibleMetric)
	}
	return nil
}

type metricSet struct {
	rf, mc, lrm bool
}

// Requested metrics after defaulting and rootedness filtering. Any explicit
// metric flag overwrites the default of running everything.
func (opts *Options) metrics() metricSet {
	m := metricSet{rf: opts.RF, mc: opts.MC, lrm: opts.LRM}
	if !opts.RF && !opts.MC && !opts.LRM {
		m = metricSet{rf: true, mc: true, lrm: true}
	}
	if opts.Unrooted {
		m.mc = false
	} else {
		m.lrm = false
	}
	return m
}

func (opts *Options) rootingMode() rooting.Mode {
	switch {
	case len(opts.Outgroup) == 1:
		return rooting.Mode{Method: rooting.ByOutgroup, Outgroup: opts.Outgroup[0]}
	case opts.Midpoint:
		return rooting.Mode{Method: rooting.ByMidpoint}
	default:
		return rooting.Mode{Method: rooting.AlreadyRooted}
	}
}

// Compares the two trees under opts and returns the distances for the
// requested metrics. Both input trees are left unmodified.
func Compare(tre1, tre2 *tree.Tree, opts Options) (*DistanceResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if diff := graphs.DiffTipSets(tre1, tre2); len(diff) != 0 {
		return nil, fmt.Errorf("%w, symmetric difference: %s", ErrLeafSetMismatch, strings.Join(diff, " "))
	}
	mode := opts.rootingMode()
	rooted := !opts.Unrooted
	tds := make([]*graphs.TreeData, 2)
	sets := make([]graphs.ClusterSet, 2)
	var g errgroup.Group
	if opts.NProcs > 0 {
		g.SetLimit(opts.NProcs)
	}
	for i, tre := range []*tree.Tree{tre1, tre2} {
		g.Go(func() error {
			td, set, err := prepareTree(tre, mode, rooted)
			if err != nil {
				return fmt.Errorf("tree %d: %w", i+1, err)
			}
			tds[i], sets[i] = td, set
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if opts.Debug {
		for i, td := range tds {
			log.Printf("tree %d: %d leaves, %d non-trivial clusters", i+1, td.NLeaves, len(sets[i]))
			if !td.FullyResolved(rooted) {
				log.Printf("tree %d is not fully resolved; distance ranges assume binary trees", i+1)
			}
		}
	}
	metrics := opts.metrics()
	result := DistanceResult{}
	var mg errgroup.Group
	if opts.NProcs > 0 {
		mg.SetLimit(opts.NProcs)
	}
	if metrics.rf {
		mg.Go(func() error {
			d := dist.RobinsonFoulds(sets[0], sets[1])
			result.RF = &d
			return nil
		})
	}
	if metrics.mc {
		mg.Go(func() error {
			d := dist.MatchingCluster(sets[0], sets[1])
			result.MC = &d
			return nil
		})
	}
	if metrics.lrm {
		mg.Go(func() error {
			d := dist.LinRajanMoret(sets[0], sets[1], tds[0].NLeaves)
			result.LRM = &d
			return nil
		})
	}
	if err := mg.Wait(); err != nil {
		return nil, err
	}
	return &result, nil
}

// Roots one tree (or clones it for unrooted comparison) and extracts its
// cluster or bipartition set
func prepareTree(tre *tree.Tree, mode rooting.Mode, rooted bool) (*graphs.TreeData, graphs.ClusterSet, error) {
	var err error
	if rooted {
		if tre, err = rooting.Root(tre, mode); err != nil {
			return nil, nil, err
		}
	} else {
		tre = tre.Clone()
	}
	if err := tre.UpdateTipIndex(); err != nil {
		return nil, nil, ErrDuplicateLabels
	}
	td := graphs.MakeTreeData(tre)
	if rooted {
		return td, td.Clusters(), nil
	}
	return td, td.Bipartitions(), nil
}
