package scoring

// Rank is a discrete skill tier assigned from the judgment value.
// Ordered from lowest to highest.
type Rank int

const (
	RankGrade4 Rank = iota
	RankGrade3
	RankPre2
	RankGrade2
	RankPre1
	RankGrade1
	RankShodan
)

// rankThresholds lists the minimum judgment value per rank, highest first.
// Together with the RankGrade4 fallback this partitions [0, inf) with no
// gaps or overlaps.
var rankThresholds = []struct {
	min  float64
	rank Rank
}{
	{100, RankShodan},
	{70, RankGrade1},
	{60, RankPre1},
	{50, RankGrade2},
	{40, RankPre2},
	{30, RankGrade3},
}

// RankFor maps a judgment value to its rank tier.
func RankFor(judgmentValue float64) Rank {
	for _, t := range rankThresholds {
		if judgmentValue >= t.min {
			return t.rank
		}
	}
	return RankGrade4
}

// String returns the display name of the rank.
func (r Rank) String() string {
	switch r {
	case RankShodan:
		return "Shodan"
	case RankGrade1:
		return "Grade 1"
	case RankPre1:
		return "Pre-1"
	case RankGrade2:
		return "Grade 2"
	case RankPre2:
		return "Pre-2"
	case RankGrade3:
		return "Grade 3"
	default:
		return "Grade 4"
	}
}

// RankFromString parses a display name back to a Rank. Unknown names map
// to RankGrade4.
func RankFromString(s string) Rank {
	switch s {
	case "Shodan":
		return RankShodan
	case "Grade 1":
		return RankGrade1
	case "Pre-1":
		return RankPre1
	case "Grade 2":
		return RankGrade2
	case "Pre-2":
		return RankPre2
	case "Grade 3":
		return RankGrade3
	default:
		return RankGrade4
	}
}
