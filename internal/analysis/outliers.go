package analysis

import "github.com/KaramelBytes/insightloom/internal/dataset"

// DefaultIQRMultiplier sets the Tukey fence distance.
const DefaultIQRMultiplier = 1.5

// OutlierStats holds the IQR fences of one numeric column and how many
// values fall outside them.
type OutlierStats struct {
	Q1    float64 `json:"q1"`
	Q3    float64 `json:"q3"`
	IQR   float64 `json:"iqr"`
	Lower float64 `json:"lower_fence"`
	Upper float64 `json:"upper_fence"`
	Count int     `json:"count"`
}

// Fences computes Tukey fences at k*IQR and counts values strictly outside
// them. ok is false for empty input.
func Fences(vals []float64, k float64) (OutlierStats, bool) {
	if len(vals) == 0 {
		return OutlierStats{}, false
	}
	if k <= 0 {
		k = DefaultIQRMultiplier
	}
	sorted := sortedCopy(vals)
	q1 := Quantile(sorted, 0.25)
	q3 := Quantile(sorted, 0.75)
	iqr := q3 - q1
	o := OutlierStats{Q1: q1, Q3: q3, IQR: iqr, Lower: q1 - k*iqr, Upper: q3 + k*iqr}
	for _, v := range vals {
		if v < o.Lower || v > o.Upper {
			o.Count++
		}
	}
	return o, true
}

// DetectOutliers applies Fences to every numeric column. Values are only
// counted, never removed.
func DetectOutliers(ds *dataset.Dataset, cls dataset.Classification, k float64) map[string]OutlierStats {
	out := make(map[string]OutlierStats, len(cls.Numeric))
	for _, name := range cls.Numeric {
		c, ok := ds.Column(name)
		if !ok {
			continue
		}
		if o, ok := Fences(c.Floats(), k); ok {
			out[name] = o
		}
	}
	return out
}
