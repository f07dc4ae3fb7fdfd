// Package used for reading input tree files and writing comparison results
package prep

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/evolbioinfo/gotree/io/newick"
	"github.com/evolbioinfo/gotree/io/nexus"
	"github.com/evolbioinfo/gotree/tree"

	"github.com/jsdoublel/phylocompare/internal/compare"
)

var (
	ErrInvalidFile   = errors.New("invalid file")
	ErrInvalidFormat = errors.New("invalid format")
	ErrWritingFile   = errors.New("error writing file")
)

type Format int

const (
	Newick Format = iota
	Nexus
)

var ParseFormat = map[string]Format{
	"newick": Newick,
	"nexus":  Nexus,
}

func (f *Format) Set(s string) error {
	if format, ok := ParseFormat[s]; ok {
		*f = format
		return nil
	}
	return fmt.Errorf("\"%s\" is not a valid tree file format", s)
}

func (f Format) String() string {
	for s, fr := range ParseFormat {
		if fr == f {
			return s
		}
	}
	panic(fmt.Sprintf("format (%d) does not exist", f))
}

// Reads in both input tree files. Returns an error if a file does not
// contain exactly one valid tree.
func ReadInputTrees(treeFile1, treeFile2 string, format Format) (*tree.Tree, *tree.Tree, error) {
	flags := log.Flags()
	lout := log.Writer()
	log.SetOutput(io.Discard) // don't log this bit as gotree can be noisy and lead to thousands of log messages
	defer func() {
		log.SetOutput(lout)
		log.SetFlags(flags)
	}()
	tre1, err := ReadTreeFile(treeFile1, format)
	if err != nil {
		return nil, nil, err
	}
	tre2, err := ReadTreeFile(treeFile2, format)
	if err != nil {
		return nil, nil, err
	}
	return tre1, tre2, nil
}

// Reads and validates a single tree file. Branch lengths are kept (midpoint
// rooting needs them); comments and supports are dropped.
func ReadTreeFile(treeFile string, format Format) (*tree.Tree, error) {
	var tre *tree.Tree
	switch format {
	case Newick:
		treBytes, err := os.ReadFile(treeFile)
		if err != nil {
			return nil, fmt.Errorf("error reading tree file: %w", err)
		}
		treBytes = bytes.TrimSpace(treBytes)
		if bytes.Count(treBytes, []byte{byte('\n')}) != 0 || len(treBytes) == 0 {
			return nil, fmt.Errorf("%w, there should only be exactly one newick tree in tree file %s",
				ErrInvalidFile, treeFile)
		}
		if tre, err = newick.NewParser(bytes.NewReader(treBytes)).Parse(); err != nil {
			return nil, fmt.Errorf("%w, error parsing tree newick string from %s: %s",
				ErrInvalidFormat, treeFile, err.Error())
		}
	case Nexus:
		file, err := os.Open(treeFile)
		if err != nil {
			return nil, fmt.Errorf("error opening %s, %w", treeFile, err)
		}
		defer func() {
			if err := file.Close(); err != nil {
				panic(fmt.Sprintf("could not close file %s, %s", treeFile, err))
			}
		}()
		nex, err := nexus.NewParser(file).Parse()
		if err != nil {
			return nil, fmt.Errorf("%w, error reading nexus file %s: %s",
				ErrInvalidFormat, treeFile, err.Error())
		}
		trees := make([]*tree.Tree, 0, 1)
		nex.IterateTrees(func(s string, t *tree.Tree) {
			trees = append(trees, t)
		})
		if len(trees) != 1 {
			return nil, fmt.Errorf("%w, there should be exactly one tree in nexus file %s (found %d)",
				ErrInvalidFile, treeFile, len(trees))
		}
		tre = trees[0]
	default:
		return nil, fmt.Errorf("%w, not a valid file format", ErrInvalidFile)
	}
	tre.ClearComments()
	tre.ClearSupports()
	return tre, nil
}

// Writes the two-line tab-separated results artifact. Metrics that were not
// computed are written as empty fields, keeping "absent" distinguishable
// from a distance of zero.
func WriteDistances(result *compare.DistanceResult, w io.Writer) (err error) {
	data := [][]string{
		{"#robinson_foulds_distance", "matching_cluster_distance", "lin-rajan-moret_distance"},
		{formatDistance(result.RF), formatDistance(result.MC), formatDistance(result.LRM)},
	}
	writer := csv.NewWriter(w)
	writer.Comma = '\t'
	defer func() {
		writer.Flush()
		if err == nil {
			err = writer.Error()
		} else if writer.Error() != nil {
			log.Printf("error when flushing results file, %s", writer.Error())
		}
	}()
	if err = writer.WriteAll(data); err != nil {
		err = fmt.Errorf("%w, %s", ErrWritingFile, err)
		return
	}
	return
}

func formatDistance(d *int) string {
	if d == nil {
		return ""
	}
	return strconv.Itoa(*d)
}
