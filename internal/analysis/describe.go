package analysis

import (
	"github.com/KaramelBytes/insightloom/internal/dataset"
	"github.com/montanaflynn/stats"
)

// Summary holds descriptive statistics of one numeric column.
type Summary struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Min   float64 `json:"min"`
	Q1    float64 `json:"25%"`
	Q2    float64 `json:"50%"`
	Q3    float64 `json:"75%"`
	Max   float64 `json:"max"`
}

// Describe summarizes every numeric column with at least one present value.
// Std is the sample standard deviation and is 0 for single observations.
func Describe(ds *dataset.Dataset, cls dataset.Classification) map[string]Summary {
	out := make(map[string]Summary, len(cls.Numeric))
	for _, name := range cls.Numeric {
		c, ok := ds.Column(name)
		if !ok {
			continue
		}
		if s, ok := Summarize(c.Floats()); ok {
			out[name] = s
		}
	}
	return out
}

// Summarize computes a Summary. ok is false for empty input.
func Summarize(vals []float64) (Summary, bool) {
	if len(vals) == 0 {
		return Summary{}, false
	}
	mean, _ := stats.Mean(vals)
	lo, _ := stats.Min(vals)
	hi, _ := stats.Max(vals)
	var std float64
	if len(vals) > 1 {
		std, _ = stats.StandardDeviationSample(vals)
	}
	sorted := sortedCopy(vals)
	return Summary{
		Count: len(vals),
		Mean:  finite(mean),
		Std:   finite(std),
		Min:   lo,
		Q1:    Quantile(sorted, 0.25),
		Q2:    Quantile(sorted, 0.5),
		Q3:    Quantile(sorted, 0.75),
		Max:   hi,
	}, true
}
