package insights

import (
	"fmt"
	"math"
	"sort"

	"github.com/KaramelBytes/insightloom/internal/analysis"
	"github.com/KaramelBytes/insightloom/internal/dataset"
)

// Story types that raise the confidence of a matching hypothesis family.
const (
	StoryExploratory = "exploratory"
	StoryTrend       = "trend"
	StoryComparative = "comparative"
	StoryRootCause   = "root_cause"
	StoryPredictive  = "predictive"
)

// Audiences select the phrasing of hypotheses.
const (
	AudienceTechnical = "technical"
	AudienceExecutive = "executive"
	AudienceGeneral   = "general"
)

// Limits on the comparison family's grouping column.
const (
	MinGroups = 2
	MaxGroups = 10
)

// Hypothesis is a testable question suggested by the data's structure.
type Hypothesis struct {
	Type       string   `json:"type"`
	Question   string   `json:"question"`
	Rationale  string   `json:"rationale"`
	Confidence string   `json:"confidence"`
	Variables  []string `json:"variables"`
	Test       string   `json:"test"`
}

// HypothesisParams tailor hypotheses to a story.
type HypothesisParams struct {
	StoryType     string
	Audience      string
	IQRMultiplier float64
}

type phrasing struct{ technical, executive, general string }

func (p phrasing) pick(audience string) string {
	switch audience {
	case AudienceTechnical:
		return p.technical
	case AudienceExecutive:
		return p.executive
	default:
		return p.general
	}
}

func confidence(boost bool) string {
	if boost {
		return High
	}
	return Medium
}

// Hypotheses proposes up to five hypotheses (trend, comparison, correlation,
// anomaly and prediction) depending on which column kinds are present.
// High-confidence hypotheses come first; the order is otherwise stable.
func Hypotheses(ds *dataset.Dataset, cls dataset.Classification, p HypothesisParams) []Hypothesis {
	aud := p.Audience
	num := cls.Numeric
	out := []Hypothesis{}

	if len(cls.Temporal) > 0 && len(num) > 0 {
		date, n := cls.Temporal[0], num[0]
		out = append(out, Hypothesis{
			Type: "trend",
			Question: phrasing{
				fmt.Sprintf("Is there a significant temporal trend in %s?", n),
				fmt.Sprintf("How is %s performing over time?", n),
				fmt.Sprintf("Is %s going up or down over time?", n),
			}.pick(aud),
			Rationale: phrasing{
				"Time series decomposition suggests potential seasonality.",
				"Historical trends often predict future performance.",
				"Looking at data over time helps spot patterns.",
			}.pick(aud),
			Confidence: confidence(p.StoryType == StoryTrend),
			Variables:  []string{date, n},
			Test:       "Time Series Analysis",
		})
	}

	if len(num) > 0 {
		if cat, groups, ok := groupingColumn(ds, cls.Categorical); ok {
			n := num[0]
			out = append(out, Hypothesis{
				Type: "comparison",
				Question: phrasing{
					fmt.Sprintf("Do %s groups exhibit statistically significant differences in %s?", cat, n),
					fmt.Sprintf("Which %s drives the highest %s?", cat, n),
					fmt.Sprintf("How does %s compare across different %s?", n, cat),
				}.pick(aud),
				Rationale: phrasing{
					fmt.Sprintf("ANOVA/T-test applicable for %d groups.", groups),
					"Identifying top performers helps allocate resources.",
					"Comparing groups shows what works best.",
				}.pick(aud),
				Confidence: confidence(p.StoryType == StoryComparative),
				Variables:  []string{cat, n},
				Test:       "Group Comparison Test",
			})
		}
	}

	if len(num) >= 2 {
		a, b, r := strongestPair(ds, num)
		out = append(out, Hypothesis{
			Type: "correlation",
			Question: phrasing{
				fmt.Sprintf("Is there a correlation between %s and %s?", a, b),
				fmt.Sprintf("Does %s drive %s?", a, b),
				fmt.Sprintf("Are %s and %s related?", a, b),
			}.pick(aud),
			Rationale: phrasing{
				fmt.Sprintf("Pearson correlation coefficient is %.2f.", r),
				fmt.Sprintf("Strong relationship detected (%.2f).", r),
				"These two seem to move together.",
			}.pick(aud),
			Confidence: confidence(math.Abs(r) > 0.5),
			Variables:  []string{a, b},
			Test:       "Correlation Analysis",
		})
	}

	k := p.IQRMultiplier
	if k <= 0 {
		k = analysis.DefaultIQRMultiplier
	}
	if col, count, ok := firstWithOutliers(ds, num, k); ok {
		out = append(out, Hypothesis{
			Type: "anomaly",
			Question: phrasing{
				fmt.Sprintf("What characterizes the anomalies in %s?", col),
				fmt.Sprintf("What is causing the extreme values in %s?", col),
				fmt.Sprintf("Why are some %s values so different?", col),
			}.pick(aud),
			Rationale: phrasing{
				fmt.Sprintf("Detected %d points beyond %g*IQR.", count, k),
				"Outliers often indicate errors or opportunities.",
				"Unusual values might be interesting.",
			}.pick(aud),
			Confidence: confidence(p.StoryType == StoryRootCause),
			Variables:  []string{col},
			Test:       "Outlier Analysis",
		})
	}

	if len(num) >= 3 {
		target := num[0]
		features := num[1:min(4, len(num))]
		out = append(out, Hypothesis{
			Type: "prediction",
			Question: phrasing{
				fmt.Sprintf("Can we model %s as a function of other variables?", target),
				fmt.Sprintf("What factors predict %s?", target),
				fmt.Sprintf("Can we guess %s based on other data?", target),
			}.pick(aud),
			Rationale: phrasing{
				"Multivariate regression feasibility confirmed.",
				"Predictive modeling can forecast future outcomes.",
				"We can use patterns to predict this.",
			}.pick(aud),
			Confidence: confidence(p.StoryType == StoryPredictive),
			Variables:  append([]string{target}, features...),
			Test:       "Predictive Modeling",
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence == High && out[j].Confidence != High
	})
	return out
}

// groupingColumn returns the first categorical column with a usable number
// of distinct groups.
func groupingColumn(ds *dataset.Dataset, categorical []string) (string, int, bool) {
	for _, name := range categorical {
		c, ok := ds.Column(name)
		if !ok {
			continue
		}
		if n := c.Distinct(); n >= MinGroups && n <= MaxGroups {
			return name, n, true
		}
	}
	return "", 0, false
}

// strongestPair finds the off-diagonal pair with the largest absolute
// correlation, scanning row-major. Ties keep the earlier pair.
func strongestPair(ds *dataset.Dataset, numeric []string) (string, string, float64) {
	m := analysis.Pearson(ds, numeric)
	bi, bj := 0, 1
	for i := range m {
		for j := range m[i] {
			if i == j {
				continue
			}
			if math.Abs(m[i][j]) > math.Abs(m[bi][bj]) {
				bi, bj = i, j
			}
		}
	}
	return numeric[bi], numeric[bj], m[bi][bj]
}

func firstWithOutliers(ds *dataset.Dataset, numeric []string, k float64) (string, int, bool) {
	for _, name := range numeric {
		c, ok := ds.Column(name)
		if !ok {
			continue
		}
		if o, ok := analysis.Fences(c.Floats(), k); ok && o.Count > 0 {
			return name, o.Count, true
		}
	}
	return "", 0, false
}
