package insights

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/insightloom/internal/dataset"
)

// MaxQuestions caps SmartQuestions output.
const MaxQuestions = 6

// QuestionBucket adds its questions when the story text mentions any keyword.
type QuestionBucket struct {
	Keywords  []string
	Questions []string
}

// QuestionBuckets are checked in order.
var QuestionBuckets = []QuestionBucket{
	{
		Keywords: []string{"sales", "revenue", "profit", "customer"},
		Questions: []string{
			"What are the key drivers of revenue growth?",
			"Which customer segments are most profitable?",
			"What patterns predict customer churn?",
			"How do seasonal trends affect sales performance?",
		},
	},
	{
		Keywords: []string{"marketing", "campaign", "conversion"},
		Questions: []string{
			"Which marketing channels have the highest ROI?",
			"What customer attributes predict conversion?",
			"How does engagement correlate with lifetime value?",
			"Which campaigns drive the most qualified leads?",
		},
	},
	{
		Keywords: []string{"operations", "efficiency", "process"},
		Questions: []string{
			"Where are the bottlenecks in the process?",
			"What factors contribute to delays or errors?",
			"How can we optimize resource allocation?",
			"What patterns predict operational failures?",
		},
	},
	{
		Keywords: []string{"risk", "fraud", "compliance"},
		Questions: []string{
			"What patterns indicate high-risk behavior?",
			"Which variables are strongest fraud indicators?",
			"How can we improve early warning systems?",
			"What compliance gaps exist in the data?",
		},
	},
}

// SmartQuestions suggests analysis questions from the story's title and
// context followed by questions about the dataset's own columns.
func SmartQuestions(cls dataset.Classification, title, context string) []string {
	text := strings.ToLower(title) + " " + strings.ToLower(context)
	out := []string{}
	for _, b := range QuestionBuckets {
		for _, k := range b.Keywords {
			if strings.Contains(text, k) {
				out = append(out, b.Questions...)
				break
			}
		}
	}
	if len(cls.Numeric) > 0 {
		n := cls.Numeric[0]
		out = append(out, fmt.Sprintf("What drives variation in %s?", n))
		if len(cls.Categorical) > 0 {
			out = append(out, fmt.Sprintf("How does %s impact %s?", cls.Categorical[0], n))
		}
	}
	if len(out) > MaxQuestions {
		out = out[:MaxQuestions]
	}
	return out
}
