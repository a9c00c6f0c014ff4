package analysis

import "github.com/KaramelBytes/insightloom/internal/dataset"

// DefaultTopValues is the size of categorical frequency tables.
const DefaultTopValues = 5

// TopValues returns the k most frequent values of every categorical column.
func TopValues(ds *dataset.Dataset, cls dataset.Classification, k int) map[string][]dataset.ValueCount {
	if k <= 0 {
		k = DefaultTopValues
	}
	out := make(map[string][]dataset.ValueCount, len(cls.Categorical))
	for _, name := range cls.Categorical {
		c, ok := ds.Column(name)
		if !ok {
			continue
		}
		vc := c.ValueCounts()
		if len(vc) > k {
			vc = vc[:k]
		}
		out[name] = vc
	}
	return out
}
