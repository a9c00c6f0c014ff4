package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/KaramelBytes/insightloom/internal/analysis"
	"github.com/KaramelBytes/insightloom/internal/dataset"
	"github.com/KaramelBytes/insightloom/internal/fairness"
	"github.com/KaramelBytes/insightloom/internal/insights"
	"github.com/KaramelBytes/insightloom/internal/privacy"
	"github.com/KaramelBytes/insightloom/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *profile.Profile {
	return &profile.Profile{
		RunID:       "abc",
		GeneratedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		DatasetInfo: insights.DatasetInfo{
			Rows: 12345, Columns: 3, InitialRows: 12350, DuplicatesRemoved: 5,
			MissingValues: map[string]int{"city": 4},
		},
		Columns: []string{"price", "qty", "city"},
		ColumnTypes: dataset.Classification{
			Numeric: []string{"price", "qty"}, Categorical: []string{"city"}, Temporal: []string{},
		},
		SummaryStats: map[string]analysis.Summary{
			"price": {Count: 12345, Mean: 10, Std: 2, Min: 1, Q2: 9.5, Max: 99},
			"qty":   {Count: 12345, Mean: 3, Std: 1, Min: 1, Q2: 3, Max: 8},
		},
		Outliers: map[string]analysis.OutlierStats{"price": {Count: 7, Lower: 2, Upper: 18}},
		CategoricalAnalysis: map[string][]dataset.ValueCount{
			"city": {{Value: "Oslo", Count: 9000}, {Value: "Bergen|West", Count: 3345}},
		},
		Correlations: &analysis.CorrMatrix{
			Columns: []string{"price", "qty"},
			Values:  [][]float64{{1, -0.82}, {-0.82, 1}},
		},
		PIIWarnings:    []privacy.Warning{{Column: "city", Type: "Email", MatchCount: 1}},
		BiasWarnings:   []fairness.BiasWarning{{Column: "city", Details: "Column 'city' is dominated by 'Oslo'"}},
		FairnessScores: map[string]float64{"city": 72.9},
		DataCard:       profile.DataCard{Source: "shop.csv"},
		AutoInsights: []insights.Insight{
			{Type: "data_quality", Title: "Outliers in price", Finding: "7 outliers", Priority: insights.High},
		},
		HealthScores: insights.HealthScores{Completeness: 99.9, Uniqueness: 100, Validity: 85, Overall: 95.5},
		Warnings:     []string{"histogram skipped for 'flat'"},
	}
}

func TestMarkdownSections(t *testing.T) {
	md := Markdown(sample(), "Shop Review")
	assert.True(t, strings.HasPrefix(md, "# Shop Review\n"))
	for _, want := range []string{
		"- **Source:** shop.csv",
		"- **Rows:** 12,345 (5 duplicates removed from 12,350)",
		"| 99.9 | 100.0 | 85.0 | 95.5 |",
		"- `price`: numeric: min 1, max 99, mean 10, std 2; 7 outliers outside [2, 18]",
		"- `city`: categorical (4 missing before cleaning): top Oslo(9000), Bergen\\|West(3345)",
		"- **[HIGH] Outliers in price:** 7 outliers",
		"- price ~ qty: r=-0.82",
		"- PII: `city` looks like Email (1 sampled matches)",
		"- Fairness score for `city`: 72.9",
		"## Warnings",
	} {
		assert.Contains(t, md, want)
	}
}

func TestMarkdownDefaultsTitleAndOmitsEmptySections(t *testing.T) {
	p := sample()
	p.Correlations = nil
	p.PIIWarnings, p.BiasWarnings, p.FairnessScores = nil, nil, nil
	p.Warnings = nil
	md := Markdown(p, "")
	assert.True(t, strings.HasPrefix(md, "# Dataset Profile\n"))
	assert.NotContains(t, md, "## Correlations")
	assert.NotContains(t, md, "## Privacy and Fairness")
	assert.NotContains(t, md, "## Warnings")
}

func TestHTMLCompletePage(t *testing.T) {
	out := string(HTML(Markdown(sample(), "Shop Review"), "Shop Review"))
	assert.Contains(t, out, "<html")
	assert.Contains(t, out, "<title>Shop Review</title>")
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<table>")
}

func TestTableWritesColumnsAndWarnings(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Table(&buf, sample()))
	out := buf.String()
	assert.Contains(t, out, "12,345 rows, 3 columns")
	assert.Contains(t, out, "price")
	assert.Contains(t, out, "Outliers in price")
	assert.Contains(t, out, "overall 95.5")
	assert.Contains(t, out, "⚠ Warning: histogram skipped for 'flat'")
}

func TestSecondaryTables(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HypothesisTable(&buf, []insights.Hypothesis{
		{Type: "comparison", Question: "Does qty differ by city?", Confidence: insights.Medium, Variables: []string{"qty", "city"}, Test: "ANOVA"},
	}))
	require.NoError(t, CorrelationTable(&buf, []insights.Correlation{
		{Var1: "price", Var2: "qty", Correlation: -0.82, Strength: "strong", Direction: "negative"},
	}))
	require.NoError(t, RecommendationTable(&buf, []insights.Recommendation{
		{Category: "analysis", Priority: insights.Low, Action: "Build dashboards", Impact: "visibility"},
	}))
	out := buf.String()
	assert.Contains(t, out, "qty, city")
	assert.Contains(t, out, "-0.82")
	assert.Contains(t, out, "Build dashboards")
}

func TestPriorityKeepsLabel(t *testing.T) {
	for _, p := range []string{insights.High, insights.Medium, insights.Low} {
		assert.Contains(t, Priority(p), p)
	}
}

func TestListMarkdown(t *testing.T) {
	md := HypothesesMarkdown([]insights.Hypothesis{
		{Type: "trend", Question: "Is revenue rising?", Confidence: insights.High, Rationale: "r", Variables: []string{"month", "revenue"}, Test: "regression"},
	})
	assert.Contains(t, md, "1. **Is revenue rising?** _(trend, high confidence)_")
	assert.Contains(t, md, "   - Variables: month, revenue")
	assert.Contains(t, HypothesesMarkdown(nil), "No hypotheses")

	assert.Equal(t, "# Questions to Explore\n\n- a?\n- b?\n", QuestionsMarkdown([]string{"a?", "b?"}))

	md = CorrelationsMarkdown([]insights.Correlation{
		{Var1: "a", Var2: "b", Correlation: 0.91, Strength: "strong", Direction: "positive", Insight: "a rises with b"},
	})
	assert.Contains(t, md, "| a ~ b | 0.91 | strong | positive |")
	assert.Contains(t, md, "- a rises with b")
	assert.Contains(t, CorrelationsMarkdown(nil), "No correlations")

	md = RecommendationsMarkdown([]insights.Recommendation{
		{Category: "quality", Priority: insights.High, Action: "Fix gaps", Description: "d", Impact: "i"},
	})
	assert.Contains(t, md, "## Fix gaps _(quality, high)_")
}
