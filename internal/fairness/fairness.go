// Package fairness checks sensitive attributes for representation imbalance
// and scores how evenly groups are treated.
package fairness

import (
	"fmt"
	"math"
	"strings"

	"github.com/KaramelBytes/insightloom/internal/dataset"
	"github.com/montanaflynn/stats"
)

// Defaults for Scorer.
var (
	DefaultBiasKeywords       = []string{"gender", "sex", "race", "ethnicity", "age_group"}
	DefaultFairnessKeywords   = []string{"gender", "sex", "race", "ethnicity", "age"}
	DefaultDominanceThreshold = 0.75
)

// BiasWarning reports a sensitive column dominated by one group.
type BiasWarning struct {
	Column        string  `json:"column"`
	DominantGroup string  `json:"dominant_group"`
	DominantShare float64 `json:"dominant_share"`
	Issue         string  `json:"issue"`
	Details       string  `json:"details"`
}

// Scorer holds the keyword tables and threshold used by the checks.
type Scorer struct {
	BiasKeywords       []string
	FairnessKeywords   []string
	DominanceThreshold float64
}

// NewScorer returns a Scorer with the default tables.
func NewScorer() *Scorer {
	return &Scorer{
		BiasKeywords:       DefaultBiasKeywords,
		FairnessKeywords:   DefaultFairnessKeywords,
		DominanceThreshold: DefaultDominanceThreshold,
	}
}

func matches(name string, keywords []string) bool {
	lower := strings.ToLower(name)
	for _, k := range keywords {
		if k != "" && strings.Contains(lower, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

// CheckBias warns about categorical sensitive columns whose most frequent
// value exceeds the dominance threshold.
func (s *Scorer) CheckBias(ds *dataset.Dataset) []BiasWarning {
	out := []BiasWarning{}
	for _, c := range ds.Columns {
		if c.Kind != dataset.Categorical || !matches(c.Name, s.BiasKeywords) {
			continue
		}
		top, ok := c.Mode()
		if !ok {
			continue
		}
		share := float64(top.Count) / float64(c.NonMissing())
		if share <= s.DominanceThreshold {
			continue
		}
		out = append(out, BiasWarning{
			Column:        c.Name,
			DominantGroup: top.Value,
			DominantShare: share,
			Issue:         "Potential Representation Bias",
			Details:       fmt.Sprintf("Group '%s' dominates %.1f%% of the data.", top.Value, share*100),
		})
	}
	return out
}

// Score rates one sensitive column on [0,1]. When outcome names a numeric
// column, the score is one minus the largest gap between a group's mean
// outcome and the overall mean. Otherwise it is one minus the largest gap
// between a group's share and an even split. A column that does not exist
// scores 1.
func (s *Scorer) Score(ds *dataset.Dataset, column, outcome string) float64 {
	c, ok := ds.Column(column)
	if !ok {
		return 1
	}
	if outcome != "" {
		if oc, ok := ds.Column(outcome); ok && oc.Kind == dataset.Numeric {
			return clip(1 - outcomeDeviation(c, oc))
		}
	}
	return clip(1 - representationDeviation(c))
}

func representationDeviation(c *dataset.Column) float64 {
	counts := c.ValueCounts()
	if len(counts) == 0 {
		return 0
	}
	total := float64(c.NonMissing())
	ideal := 1 / float64(len(counts))
	var dev float64
	for _, vc := range counts {
		dev = math.Max(dev, math.Abs(float64(vc.Count)/total-ideal))
	}
	return dev
}

func outcomeDeviation(group, outcome *dataset.Column) float64 {
	global, err := stats.Mean(outcome.Floats())
	if err != nil {
		return 0
	}
	byGroup := make(map[string][]float64)
	for i := 0; i < group.Len(); i++ {
		if group.IsNull(i) || outcome.IsNull(i) {
			continue
		}
		k := group.Key(i)
		byGroup[k] = append(byGroup[k], outcome.Num[i])
	}
	var dev float64
	for _, vals := range byGroup {
		m, err := stats.Mean(vals)
		if err != nil {
			continue
		}
		dev = math.Max(dev, math.Abs(m-global))
	}
	return dev
}

func clip(x float64) float64 {
	if math.IsNaN(x) {
		return 1
	}
	return math.Max(0, math.Min(1, x))
}

// Scores rates every column whose name contains a fairness keyword and
// reports the result on a 0-100 scale with one decimal.
func (s *Scorer) Scores(ds *dataset.Dataset, outcome string) map[string]float64 {
	out := make(map[string]float64)
	for _, c := range ds.Columns {
		if !matches(c.Name, s.FairnessKeywords) {
			continue
		}
		out[c.Name] = math.Round(s.Score(ds, c.Name, outcome)*1000) / 10
	}
	return out
}
