package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/insightloom/internal/insights"
	"github.com/KaramelBytes/insightloom/internal/profile"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

var (
	high   = color.New(color.FgRed, color.Bold).SprintFunc()
	medium = color.New(color.FgYellow).SprintFunc()
	low    = color.New(color.FgGreen).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// Priority colors an insight priority for terminal output.
func Priority(p string) string {
	switch p {
	case insights.High:
		return high(p)
	case insights.Medium:
		return medium(p)
	default:
		return low(p)
	}
}

// Table writes the numeric summary, the insights and the health scores as
// terminal tables.
func Table(w io.Writer, prof *profile.Profile) error {
	info := prof.DatasetInfo
	fmt.Fprintf(w, "%s %s: %s rows, %d columns\n\n", bold("Dataset"), prof.DataCard.Source,
		humanize.Comma(int64(info.Rows)), info.Columns)

	if len(prof.SummaryStats) > 0 {
		t := tablewriter.NewWriter(w)
		t.Header([]string{"Column", "Count", "Mean", "Std", "Min", "Median", "Max", "Outliers"})
		t.Configure(func(cfg *tablewriter.Config) {
			cfg.Row.Alignment.Global = tw.AlignRight
		})
		var rows [][]string
		for _, name := range prof.ColumnTypes.Numeric {
			s, ok := prof.SummaryStats[name]
			if !ok {
				continue
			}
			rows = append(rows, []string{
				name,
				humanize.Comma(int64(s.Count)),
				fmt.Sprintf("%.4g", s.Mean),
				fmt.Sprintf("%.4g", s.Std),
				fmt.Sprintf("%.4g", s.Min),
				fmt.Sprintf("%.4g", s.Q2),
				fmt.Sprintf("%.4g", s.Max),
				fmt.Sprintf("%d", prof.Outliers[name].Count),
			})
		}
		if err := t.Bulk(rows); err != nil {
			return err
		}
		if err := t.Render(); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	if err := InsightTable(w, prof.AutoInsights); err != nil {
		return err
	}

	h := prof.HealthScores
	fmt.Fprintf(w, "\n%s completeness %.1f, uniqueness %.1f, validity %.1f, overall %.1f\n",
		bold("Health:"), h.Completeness, h.Uniqueness, h.Validity, h.Overall)
	for _, warn := range prof.Warnings {
		fmt.Fprintf(w, "⚠ Warning: %s\n", warn)
	}
	return nil
}

// InsightTable writes one row per insight.
func InsightTable(w io.Writer, found []insights.Insight) error {
	if len(found) == 0 {
		return nil
	}
	t := tablewriter.NewWriter(w)
	t.Header([]string{"Priority", "Insight", "Finding"})
	rows := make([][]string, 0, len(found))
	for _, in := range found {
		rows = append(rows, []string{Priority(in.Priority), in.Title, in.Finding})
	}
	if err := t.Bulk(rows); err != nil {
		return err
	}
	return t.Render()
}

// HypothesisTable writes one row per hypothesis.
func HypothesisTable(w io.Writer, hyps []insights.Hypothesis) error {
	t := tablewriter.NewWriter(w)
	t.Header([]string{"Confidence", "Type", "Question", "Variables", "Test"})
	rows := make([][]string, 0, len(hyps))
	for _, h := range hyps {
		rows = append(rows, []string{Priority(h.Confidence), h.Type, h.Question, strings.Join(h.Variables, ", "), h.Test})
	}
	if err := t.Bulk(rows); err != nil {
		return err
	}
	return t.Render()
}

// CorrelationTable writes one row per discovered correlation.
func CorrelationTable(w io.Writer, found []insights.Correlation) error {
	t := tablewriter.NewWriter(w)
	t.Header([]string{"Variable", "Variable", "r", "Strength", "Direction"})
	rows := make([][]string, 0, len(found))
	for _, c := range found {
		rows = append(rows, []string{c.Var1, c.Var2, fmt.Sprintf("%.2f", c.Correlation), c.Strength, c.Direction})
	}
	if err := t.Bulk(rows); err != nil {
		return err
	}
	return t.Render()
}

// RecommendationTable writes one row per recommendation.
func RecommendationTable(w io.Writer, recs []insights.Recommendation) error {
	t := tablewriter.NewWriter(w)
	t.Header([]string{"Priority", "Category", "Action", "Impact"})
	rows := make([][]string, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, []string{Priority(r.Priority), r.Category, r.Action, r.Impact})
	}
	if err := t.Bulk(rows); err != nil {
		return err
	}
	return t.Render()
}
