// Package compat scores how well an interval file's chromosome footprint
// fits candidate reference genomes.
//
// Each comparison produces three layers of statistics (chromosome names,
// chromosome lengths, sequence fit), a point-based rating and a tier from 1
// (excellent) to 4 (poor). Lower points are better.
package compat

import (
	"github.com/databio/bedboss-sub000/internal/footprint"
	"github.com/databio/bedboss-sub000/internal/genome"
)

// ChromNameStats compares the chromosome name sets of a footprint (Q) and a
// genome model (M).
type ChromNameStats struct {
	XS                 float64 `json:"xs"`
	QAndM              int     `json:"q_and_m"`
	QAndNotM           int     `json:"q_and_not_m"`
	NotQAndM           int     `json:"not_q_and_m"`
	JaccardIndex       float64 `json:"jaccard_index"`
	JaccardIndexBinary float64 `json:"jaccard_index_binary"`
	PassedChromNames   bool    `json:"passed_chrom_names"`
}

// ChromLengthStats records chromosomes whose footprint extends past the
// genome's chromosome length. It is only populated when the name layer
// passed.
type ChromLengthStats struct {
	OOBR                        *float64 `json:"oobr"`
	BeyondRange                 bool     `json:"beyond_range"`
	NumOfChromBeyond            int      `json:"num_of_chrom_beyond"`
	PercentageBedChromBeyond    float64  `json:"percentage_bed_chrom_beyond"`
	PercentageGenomeChromBeyond float64  `json:"percentage_genome_chrom_beyond"`
}

// SequenceFitStats is the share of the genome's total length covered by
// chromosomes the footprint also names. SequenceFit is nil when no names
// are shared.
type SequenceFitStats struct {
	SequenceFit *float64 `json:"sequence_fit"`
}

// RatingModel is the outcome of the rating algorithm.
type RatingModel struct {
	AssignedPoints int `json:"assigned_points"`
	TierRanking    int `json:"tier_ranking"`
}

// Stats is the full comparison of one footprint against one genome.
type Stats struct {
	ChromNameStats   ChromNameStats   `json:"chrom_name_stats"`
	ChromLengthStats ChromLengthStats `json:"chrom_length_stats"`
	SequenceFitStats SequenceFitStats `json:"chrom_sequence_fit_stats"`
	IGDStats         map[string]int   `json:"igd_stats,omitempty"`
	Compatibility    RatingModel      `json:"compatibility"`
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// CompareNames computes the name layer.
func CompareNames(fp footprint.Footprint, g *genome.Model) ChromNameStats {
	q := fp.Len()
	both := 0
	for _, name := range fp.Names() {
		if _, ok := g.Size(name); ok {
			both++
		}
	}
	qNotM := q - both
	mNotQ := g.Len() - both

	// Union is Q ∪ (Q ∩ M), not Q ∪ M, so the index is |Q ∩ M| / |Q|.
	union := q

	return ChromNameStats{
		XS:                 ratio(both, both+qNotM),
		QAndM:              both,
		QAndNotM:           qNotM,
		NotQAndM:           mNotQ,
		JaccardIndex:       ratio(both, union),
		JaccardIndexBinary: ratio(both, both+mNotQ+qNotM),
		PassedChromNames:   qNotM == 0,
	}
}

// CompareLengths computes the length layer over chromosomes present in
// both the footprint and the genome.
func CompareLengths(fp footprint.Footprint, g *genome.Model) ChromLengthStats {
	within, beyond := 0, 0
	for _, name := range fp.Names() {
		length, ok := g.Size(name)
		if !ok {
			continue
		}
		end, _ := fp.Get(name)
		if end > length {
			beyond++
		} else {
			within++
		}
	}

	var s ChromLengthStats
	if within+beyond > 0 {
		oobr := ratio(within, within+beyond)
		s.OOBR = &oobr
	}
	s.BeyondRange = beyond > 0
	s.NumOfChromBeyond = beyond
	s.PercentageBedChromBeyond = 100 * ratio(beyond, fp.Len())
	s.PercentageGenomeChromBeyond = 100 * ratio(beyond, g.Len())
	return s
}

// CompareSequenceFit computes the sequence fit layer.
func CompareSequenceFit(fp footprint.Footprint, g *genome.Model) SequenceFitStats {
	var shared int64
	found := false
	for _, name := range fp.Names() {
		if length, ok := g.Size(name); ok {
			shared += length
			found = true
		}
	}
	if !found || g.TotalLength() == 0 {
		return SequenceFitStats{}
	}
	fit := float64(shared) / float64(g.TotalLength())
	return SequenceFitStats{SequenceFit: &fit}
}

// Compare scores fp against g. It performs no I/O; overlap statistics are
// attached by the Validator.
func Compare(fp footprint.Footprint, g *genome.Model) *Stats {
	s := &Stats{ChromNameStats: CompareNames(fp, g)}
	if s.ChromNameStats.PassedChromNames {
		s.ChromLengthStats = CompareLengths(fp, g)
	}
	s.SequenceFitStats = CompareSequenceFit(fp, g)
	s.Compatibility = Rate(s)
	return s
}
