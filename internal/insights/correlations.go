package insights

import (
	"fmt"
	"math"
	"sort"

	"github.com/KaramelBytes/insightloom/internal/analysis"
	"github.com/KaramelBytes/insightloom/internal/dataset"
)

// Correlation discovery defaults.
const (
	DefaultCorrelationThreshold = 0.5
	StrongCorrelation           = 0.7
	MaxDiscoveries              = 5
)

// Correlation is a notable relationship between two numeric columns.
type Correlation struct {
	Var1        string  `json:"var1"`
	Var2        string  `json:"var2"`
	Correlation float64 `json:"correlation"`
	Strength    string  `json:"strength"`
	Direction   string  `json:"direction"`
	Insight     string  `json:"insight"`
}

// DiscoverCorrelations lists the strongest column pairs whose absolute
// Pearson coefficient reaches threshold.
func DiscoverCorrelations(ds *dataset.Dataset, cls dataset.Classification, threshold float64) []Correlation {
	out := []Correlation{}
	if len(cls.Numeric) < 2 {
		return out
	}
	if threshold <= 0 {
		threshold = DefaultCorrelationThreshold
	}
	m := analysis.Pearson(ds, cls.Numeric)
	for i := range m {
		for j := i + 1; j < len(m); j++ {
			r := m[i][j]
			if math.Abs(r) < threshold {
				continue
			}
			dir := "negative"
			if r > 0 {
				dir = "positive"
			}
			strength := "moderate"
			if math.Abs(r) > StrongCorrelation {
				strength = "strong"
			}
			a, b := cls.Numeric[i], cls.Numeric[j]
			out = append(out, Correlation{
				Var1:        a,
				Var2:        b,
				Correlation: math.Round(r*1000) / 1000,
				Strength:    strength,
				Direction:   dir,
				Insight:     fmt.Sprintf("%s and %s show a %.0f%% %s correlation", a, b, math.Abs(r)*100, dir),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].Correlation) > math.Abs(out[j].Correlation)
	})
	if len(out) > MaxDiscoveries {
		out = out[:MaxDiscoveries]
	}
	return out
}
