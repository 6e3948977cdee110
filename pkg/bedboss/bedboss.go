// Package bedboss provides a high-level API for classifying interval files
// and checking which reference genomes they are compatible with.
//
// Example usage:
//
//	out, err := bedboss.ClassifyFile("peaks.narrowPeak")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(out.BedCompliance, out.DataFormat)
//
//	reg, err := bedboss.LoadRegistry("genomes.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fp, err := bedboss.ExtractFootprint("peaks.narrowPeak")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	alias, ok, err := bedboss.Predict(ctx, fp, reg.Models())
package bedboss

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/databio/bedboss-sub000/internal/classify"
	"github.com/databio/bedboss-sub000/internal/compat"
	"github.com/databio/bedboss-sub000/internal/footprint"
	"github.com/databio/bedboss-sub000/internal/genome"
	"github.com/databio/bedboss-sub000/internal/overlap"
	"github.com/databio/bedboss-sub000/internal/stats"
	"github.com/databio/bedboss-sub000/internal/table"
)

// Re-export types for convenience
type (
	DataFormat           = classify.DataFormat
	Classification       = classify.Output
	Classifier           = classify.Classifier
	Footprint            = footprint.Footprint
	GenomeModel          = genome.Model
	Registry             = genome.Registry
	CompatibilityStats   = compat.Stats
	RatingModel          = compat.RatingModel
	GenomeResult         = compat.GenomeResult
	Report               = compat.Report
	Validator            = compat.Validator
	OverlapProvider      = overlap.Provider
	ExcludedRanges       = overlap.ExcludedRanges
	FootprintStats       = stats.FootprintStats
	TierDistribution     = stats.TierDistribution
	TableOptions         = table.Options
	FormatError          = table.FormatError
	ValidationInputError = compat.ValidationInputError
	RegistryError        = genome.RegistryError
)

// Tiers
const (
	TierExcellent = compat.TierExcellent
	TierGood      = compat.TierGood
	TierFair      = compat.TierFair
	TierPoor      = compat.TierPoor
)

// ClassifyFile classifies the interval file at path with default options.
// Unparseable files are reported as the unknown format.
func ClassifyFile(path string) (*Classification, error) {
	return classify.New().ClassifyFile(path, true)
}

// ClassifyReader classifies tab-delimited data read from r.
func ClassifyReader(r io.Reader) (*Classification, error) {
	return classify.New().ClassifyReader(r, true)
}

// ClassifyRows classifies rows already split into cells.
func ClassifyRows(rows [][]string) (*Classification, error) {
	return classify.New().ClassifyRows(rows, false)
}

// ParseCompliance splits a "bed{n}+{m}" string into its column counts.
func ParseCompliance(s string) (int, int, error) {
	return classify.ParseCompliance(s)
}

// ExtractFootprint extracts the chromosome footprint of an interval file.
func ExtractFootprint(path string) (Footprint, error) {
	return footprint.FromFile(path)
}

// ReadFootprint extracts the chromosome footprint of data read from r.
func ReadFootprint(r io.Reader) (Footprint, error) {
	return footprint.FromReader(r)
}

// NewFootprint builds a footprint from a chromosome to end map.
func NewFootprint(ends map[string]int64) Footprint {
	return footprint.New(ends)
}

// NewGenomeModel creates a genome model. An empty digest is computed from
// the chromosome sizes.
func NewGenomeModel(alias, digest string, sizes map[string]int64) (*GenomeModel, error) {
	return genome.NewModel(alias, digest, sizes)
}

// NewRegistry creates a registry holding models in order.
func NewRegistry(models ...*GenomeModel) (*Registry, error) {
	return genome.NewRegistry(models...)
}

// LoadRegistry reads a YAML genome registry.
func LoadRegistry(path string) (*Registry, error) {
	return genome.LoadYAML(path)
}

// LoadChromSizesDir builds a registry from a directory of chrom.sizes files.
func LoadChromSizesDir(dir string) (*Registry, error) {
	return genome.LoadChromSizesDir(dir)
}

// LoadExcludedRanges reads a BED4 excluded-ranges database.
func LoadExcludedRanges(path string) (*ExcludedRanges, error) {
	return overlap.LoadExcludedRanges(path)
}

// Compare scores a footprint against one genome.
func Compare(fp Footprint, g *GenomeModel) *CompatibilityStats {
	return compat.Compare(fp, g)
}

// NewValidator returns a validator with default settings.
func NewValidator() *Validator {
	return compat.NewValidator()
}

// DetermineCompatibility scores fp against every genome.
func DetermineCompatibility(ctx context.Context, fp Footprint, genomes []*GenomeModel) (*Report, error) {
	return compat.NewValidator().DetermineCompatibility(ctx, fp, genomes, "")
}

// Predict returns the alias of the genome fp most likely belongs to.
func Predict(ctx context.Context, fp Footprint, genomes []*GenomeModel) (string, bool, error) {
	return compat.NewValidator().Predict(ctx, fp, genomes, "")
}

// Summarize calculates footprint statistics.
func Summarize(fp Footprint) (*FootprintStats, error) {
	return stats.FromFootprint(fp)
}

// Tiers returns the tier distribution of a report.
func Tiers(r *Report) *TierDistribution {
	return stats.FromReport(r)
}

// Result is the combined outcome of processing one interval file.
type Result struct {
	Path           string          `json:"path"`
	Classification *Classification `json:"classification"`
	Footprint      *FootprintStats `json:"footprint,omitempty"`
	Report         *Report         `json:"compatibility,omitempty"`
	Prediction     string          `json:"predicted_genome,omitempty"`
}

// Pipeline classifies interval files and validates them against a
// registry.
type Pipeline struct {
	Classifier   *Classifier
	Validator    *Validator
	Registry     *Registry
	AllowPartial bool
	Logger       logrus.FieldLogger
}

// NewPipeline creates a pipeline validating against reg, which may be nil
// to classify only.
func NewPipeline(reg *Registry) *Pipeline {
	return &Pipeline{
		Classifier:   classify.New(),
		Validator:    compat.NewValidator(),
		Registry:     reg,
		AllowPartial: true,
		Logger:       logrus.StandardLogger(),
	}
}

// Process classifies the file at path and, when a registry is present,
// extracts its footprint and validates it.
func (p *Pipeline) Process(ctx context.Context, path string) (*Result, error) {
	out, err := p.Classifier.ClassifyFile(path, p.AllowPartial)
	if err != nil {
		return nil, fmt.Errorf("classifying %s: %w", path, err)
	}
	res := &Result{Path: path, Classification: out}

	if p.Registry == nil || p.Registry.Len() == 0 {
		return res, nil
	}

	fp, err := footprint.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("footprint of %s: %w", path, err)
	}
	if summary, err := stats.FromFootprint(fp); err == nil {
		res.Footprint = summary
	}

	report, err := p.Validator.DetermineCompatibility(ctx, fp, p.Registry.Models(), path)
	if err != nil {
		var ve *compat.ValidationInputError
		if errors.As(err, &ve) {
			p.logger().WithField("path", path).WithError(err).Warn("skipping compatibility")
			return res, nil
		}
		return nil, fmt.Errorf("compatibility of %s: %w", path, err)
	}
	res.Report = report
	if best, ok := report.Predict(); ok {
		res.Prediction = best.Genome
	}
	return res, nil
}

func (p *Pipeline) logger() logrus.FieldLogger {
	if p.Logger == nil {
		return logrus.StandardLogger()
	}
	return p.Logger
}

// Version returns the bedboss version.
func Version() string {
	return "0.3.0"
}

// Info returns information about bedboss.
func Info() string {
	return fmt.Sprintf(`bedboss v%s - Interval File Classification and Genome Compatibility

Features:
  - BED / ENCODE peak format detection with bed{n}+{m} compliance
  - Chromosome footprint extraction from plain or gzip interval files
  - Genome model registry backed by YAML or chrom.sizes files
  - Tiered reference genome compatibility and prediction
  - Excluded-ranges overlap counts
`, Version())
}
