package insights

import "math"

// PlaceholderValidity is reported as the validity score. No validity rules
// are evaluated.
const PlaceholderValidity = 85.0

// Health weights.
const (
	CompletenessWeight = 0.4
	UniquenessWeight   = 0.3
	ValidityWeight     = 0.3
)

// HealthScores are percentages in [0,100] rounded to one decimal.
type HealthScores struct {
	Completeness float64 `json:"completeness"`
	Uniqueness   float64 `json:"uniqueness"`
	Validity     float64 `json:"validity"`
	Overall      float64 `json:"overall"`
}

// Health scores a cleaned dataset. The overall score weights the unrounded
// components.
func Health(info DatasetInfo) HealthScores {
	completeness := 100.0
	if cells := info.Rows * info.Columns; cells > 0 {
		completeness = float64(cells-info.MissingCells()) / float64(cells) * 100
	}
	uniqueness := 100.0
	if info.InitialRows > 0 {
		uniqueness = float64(info.InitialRows-info.DuplicatesRemoved) / float64(info.InitialRows) * 100
	}
	overall := completeness*CompletenessWeight + uniqueness*UniquenessWeight + PlaceholderValidity*ValidityWeight
	return HealthScores{
		Completeness: score(completeness),
		Uniqueness:   score(uniqueness),
		Validity:     score(PlaceholderValidity),
		Overall:      score(overall),
	}
}

func score(x float64) float64 {
	x = math.Round(x*10) / 10
	return math.Max(0, math.Min(100, x))
}
