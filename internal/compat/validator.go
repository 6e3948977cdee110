package compat

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/databio/bedboss-sub000/internal/footprint"
	"github.com/databio/bedboss-sub000/internal/genome"
	"github.com/databio/bedboss-sub000/internal/overlap"
)

// DefaultWorkers bounds the number of genomes scored concurrently.
const DefaultWorkers = 4

// ValidationInputError is returned when there is nothing to validate.
type ValidationInputError struct {
	Reason string
}

func (e *ValidationInputError) Error() string {
	return "validation input: " + e.Reason
}

// IsValidationError marks the error as a validation input error.
func (e *ValidationInputError) IsValidationError() {}

// GenomeResult pairs a genome with its comparison statistics.
type GenomeResult struct {
	Genome string `json:"genome"`
	Digest string `json:"digest"`
	Stats  *Stats `json:"stats"`
}

// Tier returns the result's tier ranking.
func (r GenomeResult) Tier() int {
	return r.Stats.Compatibility.TierRanking
}

// Report is the outcome of validating one footprint against a list of
// genomes. Results follow the order of the candidate list.
type Report struct {
	ID      uuid.UUID      `json:"id"`
	BedPath string         `json:"bed_path,omitempty"`
	Results []GenomeResult `json:"results"`
}

// Predict returns the best-matching genome of the report.
func (r *Report) Predict() (GenomeResult, bool) {
	return Predict(r.Results)
}

// ByGenome returns the result for the genome with the given alias.
func (r *Report) ByGenome(alias string) (GenomeResult, bool) {
	for _, res := range r.Results {
		if res.Genome == alias {
			return res, true
		}
	}
	return GenomeResult{}, false
}

// Validator scores footprints against candidate genomes.
type Validator struct {
	// Overlaps, when set, is consulted for genomes passing both the name
	// and length layers.
	Overlaps overlap.Provider
	// Exclude lists genome aliases removed from every candidate list.
	Exclude []string
	// Workers bounds concurrent comparisons; zero uses DefaultWorkers.
	Workers int
	Logger  logrus.FieldLogger
}

// NewValidator returns a Validator with default settings.
func NewValidator() *Validator {
	return &Validator{
		Workers: DefaultWorkers,
		Logger:  logrus.StandardLogger(),
	}
}

func (v *Validator) logger() logrus.FieldLogger {
	if v.Logger == nil {
		return logrus.StandardLogger()
	}
	return v.Logger
}

// DetermineCompatibility compares fp with every candidate genome not
// excluded by the validator. bedPath identifies the source file for the
// overlap provider and may be empty, in which case overlaps are skipped.
//
// An empty footprint or candidate list yields an empty report together
// with a *ValidationInputError.
func (v *Validator) DetermineCompatibility(ctx context.Context, fp footprint.Footprint, genomes []*genome.Model, bedPath string) (*Report, error) {
	report := &Report{ID: uuid.New(), BedPath: bedPath, Results: []GenomeResult{}}

	candidates := genome.Exclude(genomes, v.Exclude)
	if fp.Len() == 0 {
		return report, &ValidationInputError{Reason: "footprint is empty"}
	}
	if len(candidates) == 0 {
		return report, &ValidationInputError{Reason: "no candidate genomes"}
	}

	workers := v.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	results := make([]GenomeResult, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, m := range candidates {
		i, m := i, m
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			stats := Compare(fp, m)
			if v.Overlaps != nil && bedPath != "" &&
				stats.ChromNameStats.PassedChromNames && !stats.ChromLengthStats.BeyondRange {
				hits, err := v.Overlaps.Overlaps(gctx, bedPath)
				if err != nil {
					return fmt.Errorf("overlaps for %s: %w", m.Alias(), err)
				}
				stats.IGDStats = hits
			}

			results[i] = GenomeResult{Genome: m.Alias(), Digest: m.Digest(), Stats: stats}
			v.logger().WithFields(logrus.Fields{
				"genome": m.Alias(),
				"points": stats.Compatibility.AssignedPoints,
				"tier":   stats.Compatibility.TierRanking,
			}).Debug("scored genome")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.Results = results
	return report, nil
}

// Predict compares fp with the candidates and returns the alias of the best
// match. ok is false when no genome qualifies or the choice is ambiguous.
func (v *Validator) Predict(ctx context.Context, fp footprint.Footprint, genomes []*genome.Model, bedPath string) (alias string, ok bool, err error) {
	report, err := v.DetermineCompatibility(ctx, fp, genomes, bedPath)
	if err != nil {
		return "", false, err
	}
	best, ok := report.Predict()
	if !ok {
		return "", false, nil
	}
	return best.Genome, true, nil
}

// Predict picks the best-matching genome. Tier 1 results are ranked by
// (xs, oobr, sequence fit) descending, missing values counting as zero. If
// there is no tier 1 result, a single tier 2 result is returned; several
// tier 2 results are ambiguous and yield no prediction.
func Predict(results []GenomeResult) (GenomeResult, bool) {
	var tier1, tier2 []GenomeResult
	for _, r := range results {
		if r.Stats == nil {
			continue
		}
		switch r.Tier() {
		case TierExcellent:
			tier1 = append(tier1, r)
		case TierGood:
			tier2 = append(tier2, r)
		}
	}

	if len(tier1) == 0 {
		if len(tier2) == 1 {
			return tier2[0], true
		}
		return GenomeResult{}, false
	}

	sort.SliceStable(tier1, func(i, j int) bool {
		a, b := rankKey(tier1[i].Stats), rankKey(tier1[j].Stats)
		for k := range a {
			if a[k] != b[k] {
				return a[k] > b[k]
			}
		}
		return false
	})
	return tier1[0], true
}

func rankKey(s *Stats) [3]float64 {
	var key [3]float64
	key[0] = s.ChromNameStats.XS
	if s.ChromLengthStats.OOBR != nil {
		key[1] = *s.ChromLengthStats.OOBR
	}
	if s.SequenceFitStats.SequenceFit != nil {
		key[2] = *s.SequenceFitStats.SequenceFit
	}
	return key
}
