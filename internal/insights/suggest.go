package insights

import "strings"

// StorySuggestion is a proposed story for a dataset.
type StorySuggestion struct {
	Title   string `json:"title"`
	Context string `json:"context"`
}

// MetricSuggestion is a proposed success metric.
type MetricSuggestion struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// SuggestStories proposes stories from keywords in a dataset's file name.
func SuggestStories(filename string) []StorySuggestion {
	name := strings.ToLower(filename)
	switch {
	case strings.Contains(name, "sales") || strings.Contains(name, "revenue"):
		return []StorySuggestion{
			{"Revenue Growth Analysis", "Analyze sales trends over time to identify growth drivers."},
			{"Regional Performance", "Compare performance across different regions to optimize allocation."},
			{"Product Mix Optimization", "Identify top-selling products and underperformers."},
		}
	case strings.Contains(name, "customer") || strings.Contains(name, "churn"):
		return []StorySuggestion{
			{"Churn Risk Assessment", "Identify customers at risk of leaving and understanding why."},
			{"Customer Segmentation", "Group customers by behavior to tailor marketing strategies."},
			{"Lifetime Value Analysis", "Calculate CLV to focus on high-value segments."},
		}
	default:
		return []StorySuggestion{
			{"Exploratory Deep Dive", "Uncover hidden patterns and anomalies in the data."},
			{"Key Driver Analysis", "Determine which factors most strongly influence your key metrics."},
			{"Trend Forecasting", "Predict future values based on historical data patterns."},
		}
	}
}

// SuggestMetrics proposes success metrics for a business objective. Keyword
// matching is case sensitive.
func SuggestMetrics(objective string) []MetricSuggestion {
	has := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(objective, w) {
				return true
			}
		}
		return false
	}
	switch {
	case has("Churn", "Classification"):
		return []MetricSuggestion{
			{"Accuracy", "Overall correctness of predictions."},
			{"Recall", "Ability to find all positive instances (critical for Churn)."},
			{"F1-Score", "Balance between precision and recall."},
			{"Disparate Impact", "Ratio of positive outcomes for different groups (Fairness)."},
		}
	case has("Regression", "Forecasting"):
		return []MetricSuggestion{
			{"RMSE", "Root Mean Squared Error."},
			{"MAE", "Mean Absolute Error."},
			{"R-Squared", "Proportion of variance explained by the model."},
		}
	case has("Cluster", "Segmentation"):
		return []MetricSuggestion{
			{"Silhouette Score", "How similar an object is to its own cluster compared to other clusters."},
			{"Davies-Bouldin Index", "Average similarity measure of each cluster with its most similar cluster."},
		}
	default:
		return []MetricSuggestion{
			{"Data Quality Score", "Overall health of the dataset (missing values, duplicates)."},
			{"Fairness Score", "Measure of bias in sensitive columns."},
		}
	}
}
