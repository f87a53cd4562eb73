package entity

import "math"

var statusPoints = map[Status]float64{
	StatusNew:         5,
	StatusContacted:   10,
	StatusQualified:   20,
	StatusProposal:    30,
	StatusNegotiation: 40,
}

// MaxScore is the highest value Score can return. It is above 100 on purpose:
// the components are summed without clamping.
const MaxScore = 110

// Score rates a lead for prioritisation. It is derived, never stored.
func Score(l Lead) int {
	score := 0.0

	switch {
	case l.Value >= 100000:
		score += 30
	case l.Value >= 50000:
		score += 20
	case l.Value >= 10000:
		score += 10
	case l.Value > 0:
		score += 5
	}

	score += float64(l.Probability) * 0.3
	score += statusPoints[l.Status]
	score += math.Min(float64(len(l.Notes))*2, 10)

	return int(math.Round(score))
}

type ScoreBand string

const (
	BandHot  ScoreBand = "hot"
	BandWarm ScoreBand = "warm"
	BandCold ScoreBand = "cold"
)

func BandFor(score int) ScoreBand {
	switch {
	case score >= 70:
		return BandHot
	case score >= 40:
		return BandWarm
	default:
		return BandCold
	}
}
