package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/KaramelBytes/insightloom/internal/analysis"
	"github.com/KaramelBytes/insightloom/internal/dataset"
	"github.com/KaramelBytes/insightloom/internal/insights"
	"github.com/KaramelBytes/insightloom/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProfile() *profile.Profile {
	return &profile.Profile{
		RunID:       "run-1",
		GeneratedAt: time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
		Columns:     []string{"amount", "city"},
		ColumnTypes: dataset.Classification{Numeric: []string{"amount"}, Categorical: []string{"city"}, Temporal: []string{}},
		DatasetInfo: insights.DatasetInfo{MissingValues: map[string]int{"city": 2}},
		SummaryStats: map[string]analysis.Summary{
			"amount": {Count: 4, Mean: 2.5, Std: 1.29, Min: 1, Q1: 1.75, Q2: 2.5, Q3: 3.25, Max: 4},
		},
		AdvancedStats: map[string]analysis.AdvancedStats{"amount": {Skewness: 0, Kurtosis: -1.2}},
		Outliers:      map[string]analysis.OutlierStats{"amount": {Count: 0}},
		CategoricalAnalysis: map[string][]dataset.ValueCount{
			"city": {{Value: "Paris", Count: 3}, {Value: "Lyon", Count: 1}},
		},
		DataCard: profile.DataCard{Source: "sales.csv"},
	}
}

func TestRowsFollowColumnKinds(t *testing.T) {
	rows := Rows(sampleProfile())
	require.Len(t, rows, 2)

	amount := rows[0]
	assert.Equal(t, "numeric", amount.Kind)
	require.NotNil(t, amount.Median)
	assert.Equal(t, 2.5, *amount.Median)
	assert.Nil(t, amount.TopValue)

	city := rows[1]
	assert.Equal(t, "categorical", city.Kind)
	assert.Equal(t, int64(2), city.Missing)
	assert.Nil(t, city.Mean)
	require.NotNil(t, city.TopValue)
	assert.Equal(t, "Paris", *city.TopValue)
}

func TestWriteAndReadColumnStats(t *testing.T) {
	out := filepath.Join(t.TempDir(), "stats.parquet")
	rows := Rows(sampleProfile())
	require.NoError(t, WriteColumnStats(rows, out))

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	got, err := ReadColumnStats(out)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "amount", got[0].Column)
	assert.Equal(t, "run-1", got[0].RunID)
	require.NotNil(t, got[0].Kurtosis)
	assert.Equal(t, -1.2, *got[0].Kurtosis)
	assert.Nil(t, got[1].Mean)
	require.NotNil(t, got[1].TopCount)
	assert.Equal(t, int64(3), *got[1].TopCount)
}

func TestWriteEmpty(t *testing.T) {
	out := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteColumnStats(nil, out))
	got, err := ReadColumnStats(out)
	require.NoError(t, err)
	assert.Empty(t, got)
}
