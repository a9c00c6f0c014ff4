package report

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/insightloom/internal/insights"
)

// HypothesesMarkdown renders hypotheses as a numbered list.
func HypothesesMarkdown(hyps []insights.Hypothesis) string {
	var b strings.Builder
	b.WriteString("# Hypotheses\n\n")
	if len(hyps) == 0 {
		b.WriteString("No hypotheses could be formed for this dataset.\n")
		return b.String()
	}
	for i, h := range hyps {
		b.WriteString(fmt.Sprintf("%d. **%s** _(%s, %s confidence)_\n", i+1, h.Question, h.Type, h.Confidence))
		b.WriteString(fmt.Sprintf("   - Rationale: %s\n", h.Rationale))
		b.WriteString(fmt.Sprintf("   - Variables: %s\n", strings.Join(h.Variables, ", ")))
		b.WriteString(fmt.Sprintf("   - Suggested test: %s\n", h.Test))
	}
	return b.String()
}

// QuestionsMarkdown renders analysis questions as a bullet list.
func QuestionsMarkdown(questions []string) string {
	var b strings.Builder
	b.WriteString("# Questions to Explore\n\n")
	for _, q := range questions {
		b.WriteString("- " + q + "\n")
	}
	return b.String()
}

// CorrelationsMarkdown renders discovered correlations as a table.
func CorrelationsMarkdown(found []insights.Correlation) string {
	var b strings.Builder
	b.WriteString("# Correlations\n\n")
	if len(found) == 0 {
		b.WriteString("No correlations above the threshold.\n")
		return b.String()
	}
	b.WriteString("| Variables | r | Strength | Direction |\n")
	b.WriteString("|---|---:|---|---|\n")
	for _, c := range found {
		b.WriteString(fmt.Sprintf("| %s ~ %s | %.2f | %s | %s |\n", safe(c.Var1), safe(c.Var2), c.Correlation, c.Strength, c.Direction))
	}
	b.WriteString("\n")
	for _, c := range found {
		b.WriteString("- " + c.Insight + "\n")
	}
	return b.String()
}

// RecommendationsMarkdown renders recommendations grouped in input order.
func RecommendationsMarkdown(recs []insights.Recommendation) string {
	var b strings.Builder
	b.WriteString("# Recommendations\n\n")
	for _, r := range recs {
		b.WriteString(fmt.Sprintf("## %s _(%s, %s)_\n\n", r.Action, r.Category, r.Priority))
		b.WriteString(r.Description + "\n\n")
		b.WriteString("Impact: " + r.Impact + "\n\n")
	}
	return b.String()
}
