package insights

import (
	"fmt"

	"github.com/KaramelBytes/insightloom/internal/dataset"
)

// Recommendation is a suggested next step.
type Recommendation struct {
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	Action      string `json:"action"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
}

// Score floors below which data quality recommendations are made.
const (
	CompletenessFloor = 90.0
	UniquenessFloor   = 95.0
)

// Recommendations derives next steps from health scores, insights and the
// available column kinds.
func Recommendations(found []Insight, health HealthScores, cls dataset.Classification) []Recommendation {
	out := []Recommendation{}
	if health.Completeness < CompletenessFloor {
		out = append(out, Recommendation{
			Category:    "Data Quality",
			Priority:    High,
			Action:      "Address Missing Data",
			Description: "Consider imputation strategies or investigate root cause of missing values.",
			Impact:      "Improves analysis accuracy and model performance",
		})
	}
	if health.Uniqueness < UniquenessFloor {
		out = append(out, Recommendation{
			Category:    "Data Quality",
			Priority:    Medium,
			Action:      "Investigate Duplicates",
			Description: "Review duplicate records to ensure data integrity.",
			Impact:      "Prevents biased analysis and incorrect conclusions",
		})
	}
	if n := countPriority(found, High); n > 0 {
		out = append(out, Recommendation{
			Category:    "Analysis",
			Priority:    High,
			Action:      "Investigate High-Priority Findings",
			Description: fmt.Sprintf("%d critical insights require immediate attention.", n),
			Impact:      "Address key issues and opportunities",
		})
	}
	if len(cls.Numeric) >= 3 {
		out = append(out, Recommendation{
			Category:    "Advanced Analytics",
			Priority:    Medium,
			Action:      "Build Predictive Model",
			Description: "Sufficient features available for machine learning.",
			Impact:      "Enable forecasting and proactive decision-making",
		})
	}
	if len(cls.Categorical) > 0 && len(cls.Numeric) > 0 {
		out = append(out, Recommendation{
			Category:    "Visualization",
			Priority:    Low,
			Action:      "Create Comparative Dashboards",
			Description: "Build interactive dashboards comparing groups.",
			Impact:      "Better communicate insights to stakeholders",
		})
	}
	return out
}

func countPriority(found []Insight, p string) int {
	n := 0
	for _, in := range found {
		if in.Priority == p {
			n++
		}
	}
	return n
}
