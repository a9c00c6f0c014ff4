package dataset

import "sort"

// ValueCount is one entry of a frequency table.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
	// Row of the first occurrence, used to break ties and to copy the value.
	First int `json:"-"`
}

// ValueCounts tallies present values, most frequent first. Ties keep the
// order of first appearance.
func (c *Column) ValueCounts() []ValueCount {
	idx := make(map[string]int)
	var out []ValueCount
	for i := range c.Null {
		if c.Null[i] {
			continue
		}
		k := c.Key(i)
		if j, ok := idx[k]; ok {
			out[j].Count++
			continue
		}
		idx[k] = len(out)
		out = append(out, ValueCount{Value: c.Format(i), Count: 1, First: i})
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Count > out[b].Count })
	return out
}

// Mode returns the most frequent present value. ok is false when the column
// has no present values.
func (c *Column) Mode() (ValueCount, bool) {
	vc := c.ValueCounts()
	if len(vc) == 0 {
		return ValueCount{}, false
	}
	return vc[0], true
}

// Distinct counts distinct present values.
func (c *Column) Distinct() int {
	seen := make(map[string]struct{})
	for i := range c.Null {
		if !c.Null[i] {
			seen[c.Key(i)] = struct{}{}
		}
	}
	return len(seen)
}
