package insights

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

const narrativeFindings = 3

// Narrative writes a Markdown summary of a profiled dataset.
func Narrative(title string, found []Insight, health HealthScores, info DatasetInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", title)
	fmt.Fprintf(&b, "**Dataset Overview:** This analysis examines %s records across %d dimensions. ",
		humanize.Comma(int64(info.Rows)), info.Columns)
	fmt.Fprintf(&b, "The data demonstrates %.0f%% overall health, with %.0f%% completeness and %.0f%% uniqueness.\n\n",
		health.Overall, health.Completeness, health.Uniqueness)

	b.WriteString("### Key Findings\n\n")
	writeFindings(&b, "Critical Insights", found, High)
	writeFindings(&b, "Notable Patterns", found, Medium)

	if d := info.DuplicatesRemoved; d > 0 && info.InitialRows > 0 {
		fmt.Fprintf(&b, "**Data Cleaning:** Removed %s duplicate records, representing %.1f%% of the original dataset.\n\n",
			humanize.Comma(int64(d)), float64(d)/float64(info.InitialRows)*100)
	}

	b.WriteString("### Recommendations\n\n")
	b.WriteString("Based on this analysis, we recommend:\n")
	b.WriteString("- Further investigate high-priority findings\n")
	b.WriteString("- Address any data quality gaps\n")
	b.WriteString("- Consider advanced analytics for deeper insights\n")
	return b.String()
}

func writeFindings(b *strings.Builder, heading string, found []Insight, priority string) {
	n := 0
	for _, in := range found {
		if in.Priority != priority {
			continue
		}
		if n == 0 {
			fmt.Fprintf(b, "**%s:**\n", heading)
		}
		n++
		fmt.Fprintf(b, "%d. %s: %s\n", n, in.Title, in.Finding)
		if n == narrativeFindings {
			break
		}
	}
	if n > 0 {
		b.WriteString("\n")
	}
}
