// Package stats provides statistical summaries for chromosome footprints
// and compatibility reports.
package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/databio/bedboss-sub000/internal/compat"
	"github.com/databio/bedboss-sub000/internal/footprint"
)

// FootprintStats summarizes the per-chromosome spans of a footprint. A span
// is the maximum end coordinate observed on a chromosome.
type FootprintStats struct {
	Count      int     `json:"count"`
	TotalSpan  int64   `json:"total_span"`
	MinSpan    int64   `json:"min_span"`
	MaxSpan    int64   `json:"max_span"`
	MeanSpan   float64 `json:"mean_span"`
	MedianSpan int64   `json:"median_span"`
	N50        int64   `json:"n50"`
}

// FromFootprint calculates statistics for a footprint.
func FromFootprint(fp footprint.Footprint) (*FootprintStats, error) {
	if fp.Len() == 0 {
		return nil, fmt.Errorf("footprint cannot be empty")
	}

	names := fp.Names()
	count := len(names)
	spans := make([]int64, count)
	var total int64

	for i, name := range names {
		end, _ := fp.Get(name)
		spans[i] = end
		total += end
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i] < spans[j] })

	mid := count / 2
	var median int64
	if count%2 == 0 {
		median = (spans[mid-1] + spans[mid]) / 2
	} else {
		median = spans[mid]
	}

	// N50: the span at which half of the total is reached, longest first
	half := total / 2
	var running int64
	n50 := spans[count-1]
	for i := count - 1; i >= 0; i-- {
		running += spans[i]
		if running >= half {
			n50 = spans[i]
			break
		}
	}

	return &FootprintStats{
		Count:      count,
		TotalSpan:  total,
		MinSpan:    spans[0],
		MaxSpan:    spans[count-1],
		MeanSpan:   float64(total) / float64(count),
		MedianSpan: median,
		N50:        n50,
	}, nil
}

func (s *FootprintStats) String() string {
	return fmt.Sprintf(`FootprintStats {
  chromosomes: %d
  total span: %d
  span range: %d - %d
  mean span: %.1f
  median span: %d
  N50: %d
}`, s.Count, s.TotalSpan, s.MinSpan, s.MaxSpan, s.MeanSpan, s.MedianSpan, s.N50)
}

// TierDistribution counts compatibility results per tier.
type TierDistribution struct {
	Excellent int `json:"tier1"`
	Good      int `json:"tier2"`
	Fair      int `json:"tier3"`
	Poor      int `json:"tier4"`
	Total     int `json:"total"`
}

// FromTiers creates a distribution from a list of tier rankings. Values
// outside 1..4 count towards the total only.
func FromTiers(tiers []int) *TierDistribution {
	dist := &TierDistribution{Total: len(tiers)}

	for _, tier := range tiers {
		switch tier {
		case compat.TierExcellent:
			dist.Excellent++
		case compat.TierGood:
			dist.Good++
		case compat.TierFair:
			dist.Fair++
		case compat.TierPoor:
			dist.Poor++
		}
	}

	return dist
}

// FromReport creates a tier distribution from a compatibility report.
func FromReport(r *compat.Report) *TierDistribution {
	tiers := make([]int, 0, len(r.Results))
	for _, res := range r.Results {
		if res.Stats != nil {
			tiers = append(tiers, res.Tier())
		}
	}
	return FromTiers(tiers)
}

// CompatibleRatio returns the proportion of genomes in tier 1 or 2.
func (d *TierDistribution) CompatibleRatio() float64 {
	if d.Total == 0 {
		return 0.0
	}
	return float64(d.Excellent+d.Good) / float64(d.Total)
}

func (d *TierDistribution) String() string {
	return fmt.Sprintf(`TierDistribution {
  Tier 1 (excellent): %d
  Tier 2 (good): %d
  Tier 3 (fair): %d
  Tier 4 (poor): %d
}`, d.Excellent, d.Good, d.Fair, d.Poor)
}

// FitHistogram bins the sequence fit of every report result that has one.
type FitHistogram struct {
	Bins    []int
	BinSize float64
	NumBins int
}

// NewFitHistogram creates a sequence fit histogram from a report.
func NewFitHistogram(r *compat.Report, numBins int) (*FitHistogram, error) {
	if numBins <= 0 {
		return nil, fmt.Errorf("numBins must be positive")
	}

	binSize := 1.0 / float64(numBins)
	bins := make([]int, numBins)
	seen := 0

	for _, res := range r.Results {
		if res.Stats == nil || res.Stats.SequenceFitStats.SequenceFit == nil {
			continue
		}
		fit := *res.Stats.SequenceFitStats.SequenceFit
		binIndex := int(fit / binSize)
		if binIndex >= numBins {
			binIndex = numBins - 1
		}
		if binIndex < 0 {
			binIndex = 0
		}
		bins[binIndex]++
		seen++
	}
	if seen == 0 {
		return nil, fmt.Errorf("report has no sequence fit values")
	}

	return &FitHistogram{
		Bins:    bins,
		BinSize: binSize,
		NumBins: numBins,
	}, nil
}

// ModeBin returns the most common sequence fit range.
func (h *FitHistogram) ModeBin() (float64, float64) {
	maxCount := h.Bins[0]
	maxBin := 0

	for i, count := range h.Bins {
		if count > maxCount {
			maxCount = count
			maxBin = i
		}
	}

	start := float64(maxBin) * h.BinSize
	return start, start + h.BinSize
}

func (h *FitHistogram) String() string {
	var b strings.Builder
	b.WriteString("Sequence Fit Histogram:\n")
	for i := 0; i < h.NumBins; i++ {
		start := int(float64(i) * h.BinSize * 100)
		end := start + int(h.BinSize*100)
		fmt.Fprintf(&b, "%3d-%3d%%: %s (%d)\n", start, end, strings.Repeat("#", h.Bins[i]), h.Bins[i])
	}
	return b.String()
}
