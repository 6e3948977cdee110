// Package overlap counts overlaps between an interval file and a curated
// database of excluded genomic ranges.
//
// The validator only sees the Provider interface; ExcludedRanges is the
// in-process implementation backed by one interval tree per chromosome.
package overlap

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/biogo/store/interval"

	"github.com/databio/bedboss-sub000/internal/table"
)

// Provider returns, for the interval file at bedPath, the number of hits
// against each overlap source.
type Provider interface {
	Overlaps(ctx context.Context, bedPath string) (map[string]int, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, bedPath string) (map[string]int, error)

// Overlaps calls f.
func (f ProviderFunc) Overlaps(ctx context.Context, bedPath string) (map[string]int, error) {
	return f(ctx, bedPath)
}

// excluded is one range stored in the tree, half open.
type excluded struct {
	start, end int
	uid        uintptr
	source     string
}

func (e excluded) Overlap(b interval.IntRange) bool {
	return e.start < b.End && b.Start < e.end
}

func (e excluded) ID() uintptr { return e.uid }

func (e excluded) Range() interval.IntRange {
	return interval.IntRange{Start: e.start, End: e.end}
}

// query is a half open range used to search a tree.
type query struct {
	start, end int
}

func (q query) Overlap(b interval.IntRange) bool {
	return q.start < b.End && b.Start < q.end
}

// ExcludedRanges is an overlap database of named excluded-range sets.
type ExcludedRanges struct {
	trees   map[string]*interval.IntTree
	sources map[string]bool
	nextID  uintptr
}

// NewExcludedRanges returns an empty database.
func NewExcludedRanges() *ExcludedRanges {
	return &ExcludedRanges{
		trees:   make(map[string]*interval.IntTree),
		sources: make(map[string]bool),
	}
}

// Add inserts the half open range [start, end) on chrom under source.
// Empty ranges are ignored.
func (x *ExcludedRanges) Add(chrom string, start, end int, source string) error {
	if start < 0 || end < start {
		return fmt.Errorf("invalid range %s:%d-%d", chrom, start, end)
	}
	x.sources[source] = true
	if start == end {
		return nil
	}

	tree, ok := x.trees[chrom]
	if !ok {
		tree = &interval.IntTree{}
		x.trees[chrom] = tree
	}
	x.nextID++
	return tree.Insert(excluded{start: start, end: end, uid: x.nextID, source: source}, false)
}

// Len returns the number of stored ranges.
func (x *ExcludedRanges) Len() int {
	n := 0
	for _, t := range x.trees {
		n += t.Len()
	}
	return n
}

// Sources returns the source names in lexical order.
func (x *ExcludedRanges) Sources() []string {
	out := make([]string, 0, len(x.sources))
	for s := range x.sources {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Count returns the hits per source for the half open range [start, end).
func (x *ExcludedRanges) Count(chrom string, start, end int, hits map[string]int) {
	tree, ok := x.trees[chrom]
	if !ok || start >= end {
		return
	}
	for _, iv := range tree.Get(query{start: start, end: end}) {
		hits[iv.(excluded).source]++
	}
}

// LoadExcludedRanges reads a BED file whose fourth column names the source
// of each excluded range. Files with three columns use the file name as the
// single source.
func LoadExcludedRanges(path string) (*ExcludedRanges, error) {
	x := NewExcludedRanges()
	if err := x.AddFile(path); err != nil {
		return nil, err
	}
	return x, nil
}

// AddFile loads the ranges of a BED file into x.
func (x *ExcludedRanges) AddFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("opening excluded ranges: %w", err)
	}
	defaultSource := sourceName(path)

	return eachInterval(context.Background(), path, func(fields []string, start, end int) error {
		source := defaultSource
		if len(fields) > 3 && strings.TrimSpace(fields[3]) != "" {
			source = strings.TrimSpace(fields[3])
		}
		return x.Add(fields[0], start, end, source)
	})
}

// Overlaps streams the intervals of bedPath and counts hits per source.
// Every known source appears in the result, with zero when nothing overlaps.
func (x *ExcludedRanges) Overlaps(ctx context.Context, bedPath string) (map[string]int, error) {
	if _, err := os.Stat(bedPath); err != nil {
		return nil, fmt.Errorf("opening bed file: %w", err)
	}

	hits := make(map[string]int, len(x.sources))
	for s := range x.sources {
		hits[s] = 0
	}

	err := eachInterval(ctx, bedPath, func(fields []string, start, end int) error {
		x.Count(fields[0], start, end, hits)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return hits, nil
}

func eachInterval(ctx context.Context, path string, fn func(fields []string, start, end int) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	src, err := table.Decompress(f)
	if err != nil {
		return fmt.Errorf("%s: invalid gzip stream: %w", path, err)
	}
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if lineNum%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") ||
			strings.HasPrefix(line, "track") || strings.HasPrefix(line, "browser") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			return fmt.Errorf("%s line %d: expected at least 3 columns", path, lineNum)
		}
		start, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			return fmt.Errorf("%s line %d: invalid start %q", path, lineNum, fields[1])
		}
		end, err := strconv.Atoi(strings.TrimSpace(fields[2]))
		if err != nil {
			return fmt.Errorf("%s line %d: invalid end %q", path, lineNum, fields[2])
		}
		if err := fn(fields, start, end); err != nil {
			return fmt.Errorf("%s line %d: %w", path, lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}

func sourceName(path string) string {
	base := filepath.Base(path)
	for _, ext := range []string{".gz", ".bed"} {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}
