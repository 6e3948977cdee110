package compat

// Tiers.
const (
	TierExcellent = 1
	TierGood      = 2
	TierFair      = 3
	TierPoor      = 4
)

// sensitivityPoints converts a sensitivity in [0, 1] to penalty points.
func sensitivityPoints(v float64) int {
	switch {
	case v < 0.3:
		return 6
	case v < 0.5:
		return 5
	case v < 0.7:
		return 4
	case v < 1.0:
		return 3
	default:
		return 0
	}
}

// sequenceFitPoints penalizes a low sequence fit. The < 0.60 check is
// applied twice, so a fit below 0.60 costs three points in total.
func sequenceFitPoints(fit *float64) int {
	if fit == nil {
		return 4
	}
	points := 0
	if *fit < 0.90 {
		points++
	}
	if *fit < 0.60 {
		points++
	}
	if *fit < 0.60 {
		points++
	}
	return points
}

// TierForPoints maps accumulated points to a tier.
func TierForPoints(points int) int {
	switch {
	case points == 0:
		return TierExcellent
	case points <= 3:
		return TierGood
	case points <= 6:
		return TierFair
	default:
		return TierPoor
	}
}

// Rate accumulates penalty points from the name, length and sequence fit
// layers. Overlap statistics are informational and never affect the rating.
func Rate(s *Stats) RatingModel {
	points := sensitivityPoints(s.ChromNameStats.XS)

	if s.ChromNameStats.PassedChromNames && s.ChromLengthStats.OOBR != nil {
		points += sensitivityPoints(*s.ChromLengthStats.OOBR)
	}

	points += sequenceFitPoints(s.SequenceFitStats.SequenceFit)

	return RatingModel{
		AssignedPoints: points,
		TierRanking:    TierForPoints(points),
	}
}
