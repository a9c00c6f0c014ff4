package analysis

import (
	"errors"
	"testing"

	"github.com/KaramelBytes/insightloom/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frame(t *testing.T, header []string, rows ...[]string) (*dataset.Dataset, dataset.Classification) {
	t.Helper()
	ds := dataset.FromRecords("t.csv", header, rows, dataset.ParseOptions{})
	require.NoError(t, ds.Validate())
	return ds, dataset.Classify(ds)
}

func TestQuantileInterpolates(t *testing.T) {
	s := []float64{1, 2, 3, 4, 5, 100}
	assert.InDelta(t, 2.25, Quantile(s, 0.25), 1e-9)
	assert.InDelta(t, 3.5, Quantile(s, 0.5), 1e-9)
	assert.InDelta(t, 4.75, Quantile(s, 0.75), 1e-9)
	assert.Equal(t, 0.0, Quantile(nil, 0.5))
}

func TestFencesFlagExtremeValue(t *testing.T) {
	o, ok := Fences([]float64{1, 2, 3, 4, 5, 100}, 1.5)
	require.True(t, ok)
	assert.InDelta(t, 2.5, o.IQR, 1e-9)
	assert.InDelta(t, -1.5, o.Lower, 1e-9)
	assert.InDelta(t, 8.5, o.Upper, 1e-9)
	assert.Equal(t, 1, o.Count)

	o, ok = Fences([]float64{7, 7, 7, 7}, 1.5)
	require.True(t, ok)
	assert.Equal(t, 0, o.Count, "zero variance has no outliers")

	_, ok = Fences(nil, 1.5)
	assert.False(t, ok)
}

func TestDescribeSkipsEmptyColumns(t *testing.T) {
	ds, cls := frame(t, []string{"x", "blank", "label"},
		[]string{"1", "", "a"},
		[]string{"2", "", "b"},
		[]string{"3", "", "a"},
	)
	got := Describe(ds, cls)
	require.Contains(t, got, "x")
	assert.NotContains(t, got, "blank")
	assert.NotContains(t, got, "label")
	s := got["x"]
	assert.Equal(t, 3, s.Count)
	assert.InDelta(t, 2.0, s.Mean, 1e-9)
	assert.InDelta(t, 1.0, s.Std, 1e-9)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 3.0, s.Max)

	one, ok := Summarize([]float64{4})
	require.True(t, ok)
	assert.Equal(t, 0.0, one.Std)
}

func TestCorrelateSymmetricWithUnitDiagonal(t *testing.T) {
	ds, cls := frame(t, []string{"a", "b", "c", "flat"},
		[]string{"1", "2", "5", "3"},
		[]string{"2", "4", "3", "3"},
		[]string{"3", "6", "4", "3"},
		[]string{"4", "8", "1", "3"},
	)
	m := Correlate(ds, cls)
	require.NotNil(t, m)
	assert.Equal(t, []string{"a", "b", "c", "flat"}, m.Columns)
	for i := range m.Values {
		assert.Equal(t, 1.0, m.Values[i][i])
		for j := range m.Values {
			assert.Equal(t, m.Values[i][j], m.Values[j][i])
			assert.LessOrEqual(t, m.Values[i][j], 1.0)
			assert.GreaterOrEqual(t, m.Values[i][j], -1.0)
		}
	}
	assert.Equal(t, 1.0, m.Values[0][1])
	assert.Equal(t, 0.0, m.Values[0][3], "zero variance is reported as 0")
	assert.Len(t, m.Cells, 16)
	assert.Equal(t, HeatmapCell{X: "b", Y: "a", Value: 1}, m.Cells[1])

	single, scls := frame(t, []string{"a", "s"}, []string{"1", "x"})
	assert.Nil(t, Correlate(single, scls))
}

func TestHistogramBinsAndLabels(t *testing.T) {
	vals := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	bins, err := Histogram(vals, 10)
	require.NoError(t, err)
	require.Len(t, bins, 10)
	assert.Equal(t, "0.0 - 1.0", bins[0].Range)
	assert.Equal(t, "9.0 - 10.0", bins[9].Range)
	total := 0
	for i, b := range bins {
		total += b.Count
		if i < 9 {
			assert.Equal(t, 1, b.Count, b.Range)
		}
	}
	assert.Equal(t, 2, bins[9].Count, "last bin includes the maximum")
	assert.Equal(t, len(vals), total)

	bins, err = Histogram([]float64{0, 0.5, 1.5}, 3)
	require.NoError(t, err)
	assert.Equal(t, "0.0 - 0.5", bins[0].Range)
	assert.Equal(t, "1.0 - 1.5", bins[2].Range)
	assert.Equal(t, []int{1, 1, 1}, []int{bins[0].Count, bins[1].Count, bins[2].Count})
}

func TestHistogramDegenerate(t *testing.T) {
	_, err := Histogram([]float64{3, 3, 3}, 10)
	assert.True(t, errors.Is(err, ErrDegenerateRange))
	_, err = Histogram(nil, 10)
	assert.True(t, errors.Is(err, ErrDegenerateRange))
}

func TestDistributionsReportSkippedColumns(t *testing.T) {
	ds, cls := frame(t, []string{"x", "const"},
		[]string{"1", "5"},
		[]string{"2", "5"},
		[]string{"3", "5"},
		[]string{"4", "5"},
		[]string{"5", "5"},
	)
	shape, hist, skipped := Distributions(ds, cls, 10)
	require.Contains(t, shape, "x")
	assert.Equal(t, 0.0, shape["x"].Skewness)
	assert.InDelta(t, 3.0, shape["x"].Quantiles["50%"], 1e-9)
	assert.Contains(t, hist, "x")
	assert.NotContains(t, hist, "const")
	require.Contains(t, skipped, "const")
	assert.True(t, errors.Is(skipped["const"], ErrDegenerateRange))
}

func TestTopValuesLimit(t *testing.T) {
	rows := [][]string{{"a"}, {"b"}, {"b"}, {"c"}, {"d"}, {"e"}, {"f"}, {""}}
	ds, cls := frame(t, []string{"letter"}, rows...)
	top := TopValues(ds, cls, 5)
	require.Len(t, top["letter"], 5)
	assert.Equal(t, "b", top["letter"][0].Value)
	assert.Equal(t, 2, top["letter"][0].Count)
	assert.Equal(t, "a", top["letter"][1].Value)
}

func TestDetectOutliersPerColumn(t *testing.T) {
	ds, cls := frame(t, []string{"v", "w"},
		[]string{"1", "1"}, []string{"2", "1"}, []string{"3", "1"},
		[]string{"4", "1"}, []string{"5", "1"}, []string{"100", "1"},
	)
	got := DetectOutliers(ds, cls, 0)
	assert.Equal(t, 1, got["v"].Count)
	assert.Equal(t, 0, got["w"].Count)
}
