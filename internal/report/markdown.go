// Package report renders profiles as Markdown, HTML and terminal tables.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/insightloom/internal/profile"
	"github.com/dustin/go-humanize"
)

// maxCorrPairs caps the correlation pairs listed in Markdown output.
const maxCorrPairs = 8

// Markdown renders a standalone Markdown document for a profile.
func Markdown(prof *profile.Profile, title string) string {
	var b strings.Builder
	if title == "" {
		title = "Dataset Profile"
	}
	b.WriteString(fmt.Sprintf("# %s\n\n", title))
	if prof.DataCard.Source != "" {
		b.WriteString(fmt.Sprintf("- **Source:** %s\n", safe(prof.DataCard.Source)))
	}
	info := prof.DatasetInfo
	b.WriteString(fmt.Sprintf("- **Rows:** %s", humanize.Comma(int64(info.Rows))))
	if info.DuplicatesRemoved > 0 {
		b.WriteString(fmt.Sprintf(" (%s duplicates removed from %s)",
			humanize.Comma(int64(info.DuplicatesRemoved)), humanize.Comma(int64(info.InitialRows))))
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("- **Columns:** %d\n", info.Columns))
	b.WriteString(fmt.Sprintf("- **Run:** %s at %s\n\n", prof.RunID, prof.GeneratedAt.Format("2006-01-02 15:04:05")))

	h := prof.HealthScores
	b.WriteString("## Health\n\n")
	b.WriteString("| Completeness | Uniqueness | Validity | Overall |\n")
	b.WriteString("|---:|---:|---:|---:|\n")
	b.WriteString(fmt.Sprintf("| %.1f | %.1f | %.1f | %.1f |\n\n", h.Completeness, h.Uniqueness, h.Validity, h.Overall))

	b.WriteString("## Schema\n\n")
	for _, name := range prof.Columns {
		kind, _ := prof.ColumnTypes.KindOf(name)
		b.WriteString(fmt.Sprintf("- `%s`: %s", safe(name), kind))
		if miss := info.MissingValues[name]; miss > 0 {
			b.WriteString(fmt.Sprintf(" (%d missing before cleaning)", miss))
		}
		if s, ok := prof.SummaryStats[name]; ok {
			b.WriteString(fmt.Sprintf(": min %.4g, max %.4g, mean %.4g, std %.4g", s.Min, s.Max, s.Mean, s.Std))
			if o, ok := prof.Outliers[name]; ok && o.Count > 0 {
				b.WriteString(fmt.Sprintf("; %d outliers outside [%.4g, %.4g]", o.Count, o.Lower, o.Upper))
			}
		}
		if top := prof.CategoricalAnalysis[name]; len(top) > 0 {
			b.WriteString(": top ")
			for i, vc := range top {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(fmt.Sprintf("%s(%d)", safe(vc.Value), vc.Count))
			}
		}
		b.WriteString("\n")
	}

	if len(prof.AutoInsights) > 0 {
		b.WriteString("\n## Insights\n\n")
		for _, in := range prof.AutoInsights {
			b.WriteString(fmt.Sprintf("- **[%s] %s:** %s\n", strings.ToUpper(in.Priority), in.Title, in.Finding))
		}
	}

	if pairs := corrPairs(prof); len(pairs) > 0 {
		b.WriteString("\n## Correlations\n\n")
		for _, p := range pairs {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.2f\n", safe(p.a), safe(p.b), p.r))
		}
	}

	if len(prof.PIIWarnings) > 0 || len(prof.BiasWarnings) > 0 || len(prof.FairnessScores) > 0 {
		b.WriteString("\n## Privacy and Fairness\n\n")
		for _, w := range prof.PIIWarnings {
			b.WriteString(fmt.Sprintf("- PII: `%s` looks like %s (%d sampled matches)\n", safe(w.Column), w.Type, w.MatchCount))
		}
		for _, w := range prof.BiasWarnings {
			b.WriteString(fmt.Sprintf("- Bias: %s\n", w.Details))
		}
		keys := make([]string, 0, len(prof.FairnessScores))
		for k := range prof.FairnessScores {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString(fmt.Sprintf("- Fairness score for `%s`: %.1f\n", safe(k), prof.FairnessScores[k]))
		}
	}

	if len(prof.Warnings) > 0 {
		b.WriteString("\n## Warnings\n\n")
		for _, w := range prof.Warnings {
			b.WriteString(fmt.Sprintf("- %s\n", w))
		}
	}
	return b.String()
}

type corrPair struct {
	a, b string
	r    float64
}

// corrPairs lists the upper triangle of the correlation matrix by |r|.
func corrPairs(prof *profile.Profile) []corrPair {
	m := prof.Correlations
	if m == nil || len(m.Columns) < 2 {
		return nil
	}
	var pairs []corrPair
	for i := 0; i < len(m.Columns); i++ {
		for j := i + 1; j < len(m.Columns); j++ {
			pairs = append(pairs, corrPair{m.Columns[i], m.Columns[j], m.Values[i][j]})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return abs(pairs[i].r) > abs(pairs[j].r) })
	if len(pairs) > maxCorrPairs {
		pairs = pairs[:maxCorrPairs]
	}
	return pairs
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// safe flattens line breaks and escapes table pipes.
func safe(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "|", "\\|")
}
