/*
phylocompare quantifies the dissimilarity between two phylogenetic trees
using the Robinson-Foulds, Matching Cluster, and Lin-Rajan-Moret distances.

usage: phylocompare [ flags ] <tree1> <tree2>

positional arguments:

	<tree1>	first newick tree file
	<tree2>	second newick tree file

flags:

	-o, --outgroup string
	  	comma-delimited list of outgroup tips to root on (only a single
	  	outgroup tip is supported)
	-m, --midpoint
	  	root trees at midpoint
	-u, --unrooted
	  	compare unrooted trees
	-rf, --robinson_foulds
	  	calculate Robinson-Foulds distance; overwrites default: ALL
	-mc, --matching_cluster
	  	calculate matching cluster distance (rooted only); overwrites default: ALL
	-lrm, --lin_rajan_moret
	  	calculate Lin-Rajan-Moret distance (unrooted only); overwrites default: ALL
	-f format
	  	tree file format [ newick | nexus ] (default "newick")
	-r file
	  	results file (default "phylocompare_results.txt")
	-n int
	  	number of parallel processes
	-d	enable debug logging
	-h	prints this message and exits
	-v	prints version number and exits

examples:

	phylocompare -o OUT tree1.nwk tree2.nwk
	phylocompare -u -rf tree1.nwk tree2.nwk
*/
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"

	"github.com/jsdoublel/phylocompare/internal/compare"
	pr "github.com/jsdoublel/phylocompare/internal/prep"
)

const (
	Version    = "v0.1.0"
	ErrMessage = "phylocompare incountered an error ::"

	DefaultResultsFile = "phylocompare_results.txt"
)

type args struct {
	tree1   string          // first tree file
	tree2   string          // second tree file
	format  pr.Format       // tree file format
	results string          // results file path
	opts    compare.Options // rooting mode and metric selection
}

func setNProcs(nprocs int) int {
	maxProcs := runtime.GOMAXPROCS(0)
	switch {
	case nprocs > maxProcs:
		log.Printf("%d is greater than available processes (%d); limit set to %d\n", nprocs, maxProcs, maxProcs)
		return maxProcs
	case nprocs <= 0:
		return maxProcs
	default:
		return nprocs
	}
}

func parseArgs() args {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr,
			"usage: phylocompare [ flags ] <tree1> <tree2>\n",
			"\n",
			"positional arguments:\n\n",
			"  <tree1>\tfirst newick tree file\n",
			"  <tree2>\tsecond newick tree file\n",
			"\n",
			"flags:\n\n",
		)
		flag.PrintDefaults()
		fmt.Fprint(os.Stderr,
			"\n",
			"examples:\n\n",
			"  outgroup rooted comparison:\n",
			"\tphylocompare -o OUT tree1.nwk tree2.nwk\n\n",
			"  unrooted Robinson-Foulds only:\n",
			"\tphylocompare -u -rf tree1.nwk tree2.nwk\n",
		)
	}
	format := pr.Newick
	flag.Var(&format, "f", "tree file `format` [ newick | nexus ] (default \"newick\")")
	var outgroup string
	flag.StringVar(&outgroup, "o", "", "comma-delimited list of `outgroup` tips to root on their most recent common ancestor")
	flag.StringVar(&outgroup, "outgroup", "", "alias for -o")
	var midpoint bool
	flag.BoolVar(&midpoint, "m", false, "root trees at midpoint")
	flag.BoolVar(&midpoint, "midpoint", false, "alias for -m")
	var unrooted bool
	flag.BoolVar(&unrooted, "u", false, "compare unrooted trees")
	flag.BoolVar(&unrooted, "unrooted", false, "alias for -u")
	var rf bool
	flag.BoolVar(&rf, "rf", false, "calculate Robinson-Foulds distance; overwrites default: ALL")
	flag.BoolVar(&rf, "robinson_foulds", false, "alias for -rf")
	var mc bool
	flag.BoolVar(&mc, "mc", false, "calculate matching cluster distance (rooted only); overwrites default: ALL")
	flag.BoolVar(&mc, "matching_cluster", false, "alias for -mc")
	var lrm bool
	flag.BoolVar(&lrm, "lrm", false, "calculate Lin-Rajan-Moret distance (unrooted only); overwrites default: ALL")
	flag.BoolVar(&lrm, "lin_rajan_moret", false, "alias for -lrm")
	var debug bool
	flag.BoolVar(&debug, "d", false, "enable debug logging")
	flag.BoolVar(&debug, "debug", false, "alias for -d")
	results := flag.String("r", DefaultResultsFile, "results `file`")
	nprocs := flag.Int("n", 0, "number of parallel processes")
	help := flag.Bool("h", false, "prints this message and exits")
	ver := flag.Bool("v", false, "prints version number and exits")
	flag.Parse()
	if *help {
		flag.Usage()
		os.Exit(0)
	}
	if *ver {
		fmt.Printf("phylocompare version %s\n", Version)
		os.Exit(0)
	}
	if flag.NArg() != 2 {
		parserError("two positional arguments required: <tree1> <tree2>")
	}
	var outgroups []string
	if outgroup != "" {
		outgroups = strings.Split(outgroup, ",")
	}
	return args{
		tree1:   flag.Arg(0),
		tree2:   flag.Arg(1),
		format:  format,
		results: *results,
		opts: compare.Options{
			Outgroup: outgroups,
			Midpoint: midpoint,
			Unrooted: unrooted,
			RF:       rf,
			MC:       mc,
			LRM:      lrm,
			NProcs:   setNProcs(*nprocs),
			Debug:    debug,
		},
	}
}

// prints message, usage, and exits (statis code 1)
func parserError(message string) {
	fmt.Fprintln(os.Stderr, message)
	flag.Usage()
	os.Exit(1)
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	log.Printf("phylocompare version %s", Version)
	args := parseArgs()
	// configuration is validated before any tree is parsed
	if err := args.opts.Validate(); err != nil {
		log.Fatalf("%s %s\n", ErrMessage, err)
	}
	tre1, tre2, err := pr.ReadInputTrees(args.tree1, args.tree2, args.format)
	if err != nil {
		log.Fatalf("%s %s\n", ErrMessage, err)
	}
	log.Println("running comparison...")
	result, err := compare.Compare(tre1, tre2, args.opts)
	if err != nil {
		log.Fatalf("%s %s\n", ErrMessage, err)
	}
	file, err := os.Create(args.results)
	if err != nil {
		log.Fatalf("%s %s\n", ErrMessage, err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			panic(fmt.Sprintf("could not close file %s, %s", args.results, err))
		}
	}()
	if err := pr.WriteDistances(result, file); err != nil {
		log.Fatalf("%s %s\n", ErrMessage, err)
	}
	log.Printf("results written to %s", args.results)
}
