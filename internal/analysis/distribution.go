package analysis

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/KaramelBytes/insightloom/internal/dataset"
	"gonum.org/v1/gonum/stat"
)

// DefaultBins is the histogram bin count.
const DefaultBins = 10

// ErrDegenerateRange is returned when a histogram cannot be built because
// the values are empty or span zero width.
var ErrDegenerateRange = errors.New("degenerate value range")

// AdvancedStats describes the shape of one numeric column.
type AdvancedStats struct {
	Skewness  float64            `json:"skewness"`
	Kurtosis  float64            `json:"kurtosis"`
	Quantiles map[string]float64 `json:"quantiles"`
}

// Bin is one histogram bucket.
type Bin struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

// Shape computes bias-corrected skewness and excess kurtosis (both rounded
// to two decimals) plus quartiles. Undefined moments are reported as 0.
func Shape(vals []float64) AdvancedStats {
	sorted := sortedCopy(vals)
	as := AdvancedStats{Quantiles: map[string]float64{
		"25%": Quantile(sorted, 0.25),
		"50%": Quantile(sorted, 0.5),
		"75%": Quantile(sorted, 0.75),
	}}
	if len(vals) >= 3 {
		as.Skewness = round(finite(stat.Skew(vals, nil)), 2)
	}
	if len(vals) >= 4 {
		as.Kurtosis = round(finite(stat.ExKurtosis(vals, nil)), 2)
	}
	return as
}

// Histogram splits values into equal-width bins spanning [min, max]. Every
// bin is half-open except the last, which also includes max.
func Histogram(vals []float64, bins int) ([]Bin, error) {
	if bins <= 0 {
		bins = DefaultBins
	}
	if len(vals) == 0 {
		return nil, fmt.Errorf("histogram of empty column: %w", ErrDegenerateRange)
	}
	lo, hi := vals[0], vals[0]
	for _, v := range vals {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi == lo {
		return nil, fmt.Errorf("histogram over single value %v: %w", lo, ErrDegenerateRange)
	}
	edges := make([]float64, bins+1)
	width := (hi - lo) / float64(bins)
	for i := range edges {
		edges[i] = lo + float64(i)*width
	}
	edges[bins] = hi

	counts := make([]int, bins)
	for _, v := range vals {
		idx := int((v - lo) / (hi - lo) * float64(bins))
		if idx >= bins {
			idx = bins - 1
		}
		if idx < 0 {
			idx = 0
		}
		if v < edges[idx] && idx > 0 {
			idx--
		} else if idx < bins-1 && v >= edges[idx+1] {
			idx++
		}
		counts[idx]++
	}
	out := make([]Bin, bins)
	for i := range out {
		out[i] = Bin{Range: rangeLabel(edges[i], edges[i+1]), Count: counts[i]}
	}
	return out, nil
}

func rangeLabel(a, b float64) string {
	return formatOneDecimal(a) + " - " + formatOneDecimal(b)
}

// formatOneDecimal rounds to one decimal and always shows a fractional part.
func formatOneDecimal(x float64) string {
	s := strconv.FormatFloat(round(x, 1), 'f', -1, 64)
	if s == "-0" {
		s = "0"
	}
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Distributions computes the shape statistics and histograms of every
// numeric column. Columns whose histogram cannot be built are omitted from
// the histogram map and reported in skipped.
func Distributions(ds *dataset.Dataset, cls dataset.Classification, bins int) (shape map[string]AdvancedStats, hist map[string][]Bin, skipped map[string]error) {
	shape = make(map[string]AdvancedStats, len(cls.Numeric))
	hist = make(map[string][]Bin, len(cls.Numeric))
	skipped = make(map[string]error)
	for _, name := range cls.Numeric {
		c, ok := ds.Column(name)
		if !ok {
			continue
		}
		vals := c.Floats()
		if len(vals) == 0 {
			skipped[name] = fmt.Errorf("no values: %w", ErrDegenerateRange)
			continue
		}
		shape[name] = Shape(vals)
		h, err := Histogram(vals, bins)
		if err != nil {
			skipped[name] = err
			continue
		}
		hist[name] = h
	}
	return shape, hist, skipped
}

// Advanced computes Shape for every numeric column with present values.
func Advanced(ds *dataset.Dataset, cls dataset.Classification) map[string]AdvancedStats {
	out := make(map[string]AdvancedStats, len(cls.Numeric))
	for _, name := range cls.Numeric {
		c, ok := ds.Column(name)
		if !ok {
			continue
		}
		if vals := c.Floats(); len(vals) > 0 {
			out[name] = Shape(vals)
		}
	}
	return out
}
