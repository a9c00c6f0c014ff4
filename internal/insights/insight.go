// Package insights turns profiling results into ranked, human-readable
// findings: automatic insights, hypotheses, questions, recommendations and
// a narrative summary.
package insights

import (
	"fmt"
	"math"

	"github.com/KaramelBytes/insightloom/internal/analysis"
	"github.com/KaramelBytes/insightloom/internal/cleaning"
	"github.com/KaramelBytes/insightloom/internal/dataset"
	"github.com/dustin/go-humanize"
	"github.com/montanaflynn/stats"
)

// Priority levels shared by insights, hypotheses and recommendations.
const (
	Low    = "low"
	Medium = "medium"
	High   = "high"
)

// Thresholds used by AutoInsights.
const (
	DuplicateHighPct    = 10.0
	MissingHighPct      = 5.0
	DominantCardinality = 0.1
	OutlierMinPct       = 1.0
	DominantColumns     = 2
)

// DatasetInfo describes the cleaned dataset and what cleaning removed.
type DatasetInfo struct {
	Rows              int            `json:"rows"`
	Columns           int            `json:"columns"`
	InitialRows       int            `json:"initial_rows"`
	DuplicatesRemoved int            `json:"duplicates_removed"`
	MissingValues     map[string]int `json:"missing_values"`
}

// InfoFromReport builds DatasetInfo from a cleaning report.
func InfoFromReport(rep cleaning.Report, columns int) DatasetInfo {
	missing := rep.MissingValues
	if missing == nil {
		missing = map[string]int{}
	}
	return DatasetInfo{
		Rows:              rep.FinalRows,
		Columns:           columns,
		InitialRows:       rep.InitialRows,
		DuplicatesRemoved: rep.DuplicatesRemoved,
		MissingValues:     missing,
	}
}

// MissingCells sums the per-column missing counts.
func (i DatasetInfo) MissingCells() int {
	n := 0
	for _, v := range i.MissingValues {
		n += v
	}
	return n
}

// Insight is one automatically generated finding.
type Insight struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Finding  string `json:"finding"`
	Priority string `json:"priority"`
}

// AutoInput carries what AutoInsights needs from the profile.
type AutoInput struct {
	Data     *dataset.Dataset
	Classes  dataset.Classification
	Info     DatasetInfo
	Outliers map[string]analysis.OutlierStats
}

// AutoInsights runs the fixed battery of checks over a cleaned dataset, in
// order: scale, duplicates, completeness, variance, dominant categories,
// outliers and recency.
func AutoInsights(in AutoInput) []Insight {
	info := in.Info
	out := []Insight{{
		Type:     "volume",
		Title:    "Dataset Scale",
		Finding:  fmt.Sprintf("Your dataset contains %s records across %d dimensions.", humanize.Comma(int64(info.Rows)), info.Columns),
		Priority: Medium,
	}}

	if d := info.DuplicatesRemoved; d > 0 && info.InitialRows > 0 {
		pct := float64(d) / float64(info.InitialRows) * 100
		out = append(out, Insight{
			Type:     "quality",
			Title:    "Duplicate Records Detected",
			Finding:  fmt.Sprintf("Found and removed %s duplicate rows (%.1f%% of total).", humanize.Comma(int64(d)), pct),
			Priority: pick(pct > DuplicateHighPct, High, Medium),
		})
	}

	if len(info.MissingValues) > 0 {
		var pct float64
		if cells := info.Rows * info.Columns; cells > 0 {
			pct = float64(info.MissingCells()) / float64(cells) * 100
		}
		out = append(out, Insight{
			Type:     "quality",
			Title:    "Data Completeness",
			Finding:  fmt.Sprintf("Missing data detected in %d columns (%.2f%% of all cells).", len(info.MissingValues), pct),
			Priority: pick(pct > MissingHighPct, High, Low),
		})
	} else {
		out = append(out, Insight{
			Type:     "quality",
			Title:    "Perfect Completeness",
			Finding:  "No missing values detected. Your dataset is 100% complete!",
			Priority: Low,
		})
	}

	if ds := in.Data; ds != nil {
		if col, ok := highestVariance(ds, in.Classes.Numeric); ok {
			out = append(out, Insight{
				Type:     "distribution",
				Title:    "High Variance Column",
				Finding:  fmt.Sprintf("'%s' shows the highest variability, suggesting it may be a key differentiator.", col),
				Priority: Medium,
			})
		}
		out = append(out, dominantCategories(ds, in.Classes.Categorical)...)
		out = append(out, outlierInsights(ds.Rows(), in.Classes.Numeric, in.Outliers)...)
		if r := recency(ds, in.Classes.Temporal); r != nil {
			out = append(out, *r)
		}
	}
	return out
}

func pick(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}

func highestVariance(ds *dataset.Dataset, numeric []string) (string, bool) {
	best, bestVar := "", math.Inf(-1)
	for _, name := range numeric {
		c, ok := ds.Column(name)
		if !ok {
			continue
		}
		vals := c.Floats()
		if len(vals) < 2 {
			continue
		}
		v, err := stats.SampleVariance(vals)
		if err != nil || math.IsNaN(v) {
			continue
		}
		if v > bestVar {
			best, bestVar = name, v
		}
	}
	return best, best != ""
}

func dominantCategories(ds *dataset.Dataset, categorical []string) []Insight {
	var out []Insight
	total := ds.Rows()
	if total == 0 {
		return nil
	}
	for i, name := range categorical {
		if i >= DominantColumns {
			break
		}
		c, ok := ds.Column(name)
		if !ok {
			continue
		}
		if float64(c.Distinct())/float64(total) >= DominantCardinality {
			continue
		}
		top, ok := c.Mode()
		if !ok {
			continue
		}
		out = append(out, Insight{
			Type:     "pattern",
			Title:    fmt.Sprintf("Dominant Category in '%s'", name),
			Finding:  fmt.Sprintf("'%s' appears in %.1f%% of records.", top.Value, float64(top.Count)/float64(total)*100),
			Priority: Medium,
		})
	}
	return out
}

func outlierInsights(rows int, numeric []string, outliers map[string]analysis.OutlierStats) []Insight {
	if rows == 0 {
		return nil
	}
	var out []Insight
	for _, name := range numeric {
		o, ok := outliers[name]
		if !ok || o.Count == 0 {
			continue
		}
		pct := float64(o.Count) / float64(rows) * 100
		if pct <= OutlierMinPct {
			continue
		}
		out = append(out, Insight{
			Type:     "outlier",
			Title:    fmt.Sprintf("Outliers in '%s'", name),
			Finding:  fmt.Sprintf("%d potential outliers detected (%.1f%%).", o.Count, pct),
			Priority: Medium,
		})
	}
	return out
}

func recency(ds *dataset.Dataset, temporal []string) *Insight {
	if len(temporal) == 0 {
		return nil
	}
	c, ok := ds.Column(temporal[0])
	if !ok {
		return nil
	}
	idx := -1
	for i, t := range c.Time {
		if c.IsNull(i) {
			continue
		}
		if idx < 0 || t.After(c.Time[idx]) {
			idx = i
		}
	}
	if idx < 0 {
		return nil
	}
	return &Insight{
		Type:     "temporal",
		Title:    "Data Recency",
		Finding:  "Most recent data point: " + c.Time[idx].Format("2006-01-02 15:04:05"),
		Priority: Low,
	}
}
