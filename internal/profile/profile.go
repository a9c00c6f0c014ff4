// Package profile runs the profiling stages over one dataset and assembles
// the resulting report.
package profile

import (
	"time"

	"github.com/KaramelBytes/insightloom/internal/analysis"
	"github.com/KaramelBytes/insightloom/internal/dataset"
	"github.com/KaramelBytes/insightloom/internal/fairness"
	"github.com/KaramelBytes/insightloom/internal/insights"
	"github.com/KaramelBytes/insightloom/internal/privacy"
)

// Params tailor a profiling run to a story.
type Params struct {
	StoryType     string `json:"story_type,omitempty"`
	Audience      string `json:"target_audience,omitempty"`
	Title         string `json:"title,omitempty"`
	Context       string `json:"context,omitempty"`
	OutcomeColumn string `json:"outcome_column,omitempty"`
}

// Profile is the full result of one profiling run.
type Profile struct {
	RunID               string                            `json:"run_id"`
	GeneratedAt         time.Time                         `json:"generated_at"`
	DatasetInfo         insights.DatasetInfo              `json:"dataset_info"`
	Columns             []string                          `json:"columns"`
	ColumnTypes         dataset.Classification            `json:"column_types"`
	SummaryStats        map[string]analysis.Summary       `json:"summary_stats"`
	CategoricalAnalysis map[string][]dataset.ValueCount   `json:"categorical_analysis"`
	AdvancedStats       map[string]analysis.AdvancedStats `json:"advanced_stats"`
	Correlations        *analysis.CorrMatrix              `json:"correlations"`
	Distributions       map[string][]analysis.Bin         `json:"distributions"`
	Outliers            map[string]analysis.OutlierStats  `json:"outliers"`
	PIIWarnings         []privacy.Warning                 `json:"pii_warnings"`
	BiasWarnings        []fairness.BiasWarning            `json:"bias_warnings"`
	FairnessScores      map[string]float64                `json:"fairness_scores"`
	DataCard            DataCard                          `json:"data_card"`
	Visualization       *Visualization                    `json:"visualization,omitempty"`
	AutoInsights        []insights.Insight                `json:"auto_insights"`
	HealthScores        insights.HealthScores             `json:"health_scores"`
	Warnings            []string                          `json:"warnings"`
}

// DataCard summarizes provenance and the ethical checks.
type DataCard struct {
	Source        string   `json:"source"`
	Rows          int      `json:"rows"`
	Columns       int      `json:"columns"`
	PIIDetected   bool     `json:"pii_detected"`
	BiasDetected  bool     `json:"bias_detected"`
	CleaningSteps []string `json:"cleaning_steps"`
}

// Visualization is a chart hint: a bar chart of the first numeric column's
// mean per group of the first categorical column, or a scatter of the first
// two numeric columns.
type Visualization struct {
	Type  string           `json:"type"`
	XAxis string           `json:"x_axis"`
	YAxis string           `json:"y_axis"`
	Data  []map[string]any `json:"data"`
}
