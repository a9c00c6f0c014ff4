package analysis

import (
	"math"

	"github.com/KaramelBytes/insightloom/internal/dataset"
	"gonum.org/v1/gonum/stat"
)

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric
// columns together with its heatmap cells.
type CorrMatrix struct {
	Columns []string      `json:"variables"`
	Values  [][]float64   `json:"values"`
	Cells   []HeatmapCell `json:"matrix"`
}

// HeatmapCell is one (x, y, value) triple of the flattened matrix. X is the
// matrix column and Y the matrix row.
type HeatmapCell struct {
	X     string  `json:"x"`
	Y     string  `json:"y"`
	Value float64 `json:"value"`
}

// Correlate builds the rounded Pearson matrix over the numeric columns. It
// returns nil when fewer than two numeric columns exist.
func Correlate(ds *dataset.Dataset, cls dataset.Classification) *CorrMatrix {
	if len(cls.Numeric) < 2 {
		return nil
	}
	raw := Pearson(ds, cls.Numeric)
	n := len(cls.Numeric)
	m := &CorrMatrix{Columns: append([]string(nil), cls.Numeric...), Values: make([][]float64, n)}
	for i := range raw {
		m.Values[i] = make([]float64, n)
		for j := range raw[i] {
			m.Values[i][j] = round(raw[i][j], 2)
		}
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			m.Cells = append(m.Cells, HeatmapCell{X: m.Columns[j], Y: m.Columns[i], Value: m.Values[i][j]})
		}
	}
	return m
}

// Pearson computes unrounded pairwise correlations over rows where both
// columns are present. Undefined coefficients (fewer than two shared rows,
// zero variance) are 0 and the diagonal is always 1.
func Pearson(ds *dataset.Dataset, names []string) [][]float64 {
	cols := make([]*dataset.Column, len(names))
	for i, n := range names {
		cols[i], _ = ds.Column(n)
	}
	out := make([][]float64, len(names))
	for i := range out {
		out[i] = make([]float64, len(names))
		out[i][i] = 1
	}
	for i := 0; i < len(cols); i++ {
		for j := i + 1; j < len(cols); j++ {
			r := pairCorrelation(cols[i], cols[j])
			out[i][j] = r
			out[j][i] = r
		}
	}
	return out
}

func pairCorrelation(a, b *dataset.Column) float64 {
	if a == nil || b == nil || a.Kind != dataset.Numeric || b.Kind != dataset.Numeric {
		return 0
	}
	var xs, ys []float64
	for i := 0; i < a.Len(); i++ {
		if a.IsNull(i) || b.IsNull(i) {
			continue
		}
		xs = append(xs, a.Num[i])
		ys = append(ys, b.Num[i])
	}
	if len(xs) < 2 {
		return 0
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return math.Max(-1, math.Min(1, r))
}
